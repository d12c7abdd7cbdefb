package chi

import "github.com/atlant-labs/prodex/internal/domain"

// ErrorCode identifies an API error class.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeNotFound               ErrorCode = "not_found"
	CodeVectorDimMismatch      ErrorCode = "vector_dim_mismatch"
	CodeRateLimited            ErrorCode = "rate_limited"
	CodeEmbeddingQuotaExceeded ErrorCode = "embedding_quota_exceeded"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeChatProviderError      ErrorCode = "chat_provider_error"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query    string   `json:"query"`
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	TopK     *int     `json:"top_k,omitempty"`
	MinScore *float64 `json:"min_score,omitempty"`
}

// SearchResultItem is one ranked product.
type SearchResultItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

// SearchResponse is the POST /search response.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// RecommendResponse is the POST /recommend response.
type RecommendResponse struct {
	SessionID     string             `json:"session_id"`
	Reply         string             `json:"reply"`
	Items         []SearchResultItem `json:"items"`
	HistoryLength int                `json:"history_length"`
}

// HistoryResponse is the GET /sessions/{id}/history response.
type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Turns     []domain.Turn `json:"turns"`
}

// CorpusResponse is the GET /corpus response.
type CorpusResponse struct {
	Count      int      `json:"count"`
	Dimensions int      `json:"dimensions"`
	Categories []string `json:"categories"`
	MinPrice   float64  `json:"min_price"`
	MaxPrice   float64  `json:"max_price"`
}

// UsageResponse is the GET /usage response.
type UsageResponse struct {
	Period      string `json:"period"`
	PeriodStart string `json:"period_start_at,omitempty"`
	PeriodEnd   string `json:"period_end_at,omitempty"`
	TokensUsed  int64  `json:"tokens_used"`
	TokensLimit int64  `json:"tokens_limit"`
	Remaining   int64  `json:"tokens_remaining"`
	IsExhausted bool   `json:"is_exhausted"`
}

// HealthResponse is the GET /health response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResultToDTO(r domain.ScoredResult) SearchResultItem {
	return SearchResultItem{
		ID:          r.Item.ID,
		Title:       r.Item.Title,
		Description: r.Item.Description,
		Category:    r.Item.Category,
		Price:       r.Item.Price,
		Score:       r.Score,
		Rank:        r.Rank,
	}
}

func searchResultsToDTO(results []domain.ScoredResult) []SearchResultItem {
	items := make([]SearchResultItem, len(results))
	for i, r := range results {
		items[i] = searchResultToDTO(r)
	}
	return items
}
