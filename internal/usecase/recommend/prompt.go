package recommend

import (
	"fmt"
	"strings"

	"github.com/atlant-labs/prodex/internal/domain"
)

// systemPrompt frames the assistant. The retrieved context arrives inside the
// user turn, so the model always answers against fresh retrieval results.
const systemPrompt = `You are a helpful product recommendation assistant.
Use the provided context and conversation history to recommend the best product(s) for the user's needs.
Reply in a friendly, conversational style. Be concise. Always include product names and prices.`

// buildContext renders ranked results into the context block for the model.
func buildContext(results []domain.ScoredResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Name: %s\n", r.Item.Title)
		fmt.Fprintf(&b, "Description: %s\n", r.Item.Description)
		fmt.Fprintf(&b, "Category: %s\n", r.Item.Category)
		fmt.Fprintf(&b, "Price: %.2f\n\n", r.Item.Price)
	}
	return strings.TrimSpace(b.String())
}

// buildUserPrompt combines the raw query with the retrieval context.
func buildUserPrompt(query, context string) string {
	return fmt.Sprintf(
		"User requirements: %s\n\nContext (top relevant products):\n%s\n\n"+
			"Based on the above, which product(s) would you recommend and why?",
		query, context,
	)
}
