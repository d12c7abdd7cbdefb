// Package chi exposes the product search and recommendation API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atlant-labs/prodex/internal/corpus"
	"github.com/atlant-labs/prodex/internal/domain"
	healthuc "github.com/atlant-labs/prodex/internal/usecase/health"
	recommenduc "github.com/atlant-labs/prodex/internal/usecase/recommend"
	searchuc "github.com/atlant-labs/prodex/internal/usecase/search"
	usageuc "github.com/atlant-labs/prodex/internal/usecase/usage"
)

// Consumer interfaces for the services the transport calls (ISP).
type (
	searchService interface {
		Search(ctx context.Context, req searchuc.Request) ([]domain.ScoredResult, error)
	}

	recommendService interface {
		Recommend(ctx context.Context, sessionID, query string) (recommenduc.Response, error)
		History(ctx context.Context, sessionID string) ([]domain.Turn, error)
		Reset(ctx context.Context, sessionID string) error
	}

	usageService interface {
		Report(ctx context.Context, period usageuc.Period) usageuc.Report
	}

	healthService interface {
		Check(ctx context.Context) healthuc.Report
	}

	corpusStats interface {
		Stats() corpus.Stats
	}
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        searchService
	recommend     recommendService
	usage         usageService
	health        healthService
	corpus        corpusStats
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search searchService,
	recommend recommendService,
	usage usageService,
	health healthService,
	corpus corpusStats,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		recommend: recommend,
		usage:     usage,
		health:    health,
		corpus:    corpus,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeVectorDimMismatch),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, CodeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, CodeChatProviderError),
	}
	return s
}

// Routes registers all API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Post("/recommend", s.handleRecommend)
	r.Get("/sessions/{sessionID}/history", s.handleHistory)
	r.Delete("/sessions/{sessionID}", s.handleResetSession)
	r.Get("/corpus", s.handleCorpus)
	r.Get("/usage", s.handleUsage)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ucReq, err := searchRequestFromDTO(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), ucReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items: searchResultsToDTO(results),
		Total: len(results),
	})
}

func searchRequestFromDTO(req SearchRequest) (searchuc.Request, error) {
	ucReq := searchuc.Request{
		Query:    req.Query,
		Category: req.Category,
	}

	if req.TopK != nil {
		if *req.TopK <= 0 {
			return searchuc.Request{}, errors.New("top_k must be positive")
		}
		ucReq.K = *req.TopK
	}
	if req.MinPrice != nil {
		if *req.MinPrice < 0 {
			return searchuc.Request{}, errors.New("min_price must not be negative")
		}
		ucReq.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		if *req.MaxPrice < 0 {
			return searchuc.Request{}, errors.New("max_price must not be negative")
		}
		ucReq.MaxPrice = *req.MaxPrice
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return searchuc.Request{}, errors.New("min_price must not exceed max_price")
	}
	if req.MinScore != nil {
		ucReq.MinScore = *req.MinScore
	}

	return ucReq, nil
}

// handleRecommend handles POST /recommend.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.recommend.Recommend(r.Context(), req.SessionID, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		SessionID:     req.SessionID,
		Reply:         resp.Reply,
		Items:         searchResultsToDTO(resp.Results),
		HistoryLength: resp.HistoryLen,
	})
}

// handleHistory handles GET /sessions/{sessionID}/history.
// Unknown sessions return an empty history: sessions come into existence
// on the first recommendation.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := s.recommend.History(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		SessionID: sessionID,
		Turns:     turns,
	})
}

// handleResetSession handles DELETE /sessions/{sessionID}.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.recommend.Reset(r.Context(), sessionID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleCorpus handles GET /corpus.
func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	st := s.corpus.Stats()

	categories := st.Categories
	if categories == nil {
		categories = []string{}
	}

	writeJSON(w, http.StatusOK, CorpusResponse{
		Count:      st.Count,
		Dimensions: st.Dimensions,
		Categories: categories,
		MinPrice:   st.MinPrice,
		MaxPrice:   st.MaxPrice,
	})
}

// handleUsage handles GET /usage.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	period := usageuc.PeriodMonth
	if p := r.URL.Query().Get("period"); p == string(usageuc.PeriodDay) {
		period = usageuc.PeriodDay
	}

	report := s.usage.Report(r.Context(), period)

	resp := UsageResponse{
		Period:      string(report.Period),
		TokensUsed:  report.TokensUsed,
		TokensLimit: report.TokensLimit,
		Remaining:   report.Remaining,
		IsExhausted: report.Exhausted,
	}
	if report.PeriodStart > 0 {
		resp.PeriodStart = time.UnixMilli(report.PeriodStart).UTC().Format(time.RFC3339)
		resp.PeriodEnd = time.UnixMilli(report.PeriodEnd).UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
