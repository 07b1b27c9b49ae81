package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/railvoy/railvoy/internal/domain"
	"github.com/railvoy/railvoy/internal/domain/search/criteria"
	"github.com/railvoy/railvoy/internal/domain/search/sortorder"
	healthuc "github.com/railvoy/railvoy/internal/usecase/health"
	recommenduc "github.com/railvoy/railvoy/internal/usecase/recommend"
	semindexuc "github.com/railvoy/railvoy/internal/usecase/semindex"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommenduc.Request) (recommenduc.Response, error)
}

// Indexer manages the semantic index lifecycle.
type Indexer interface {
	BuildIndex(ctx context.Context) (int, error)
	Status(ctx context.Context) (semindexuc.Status, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires HTTP handlers to the recommendation services.
type Server struct {
	recommender   Recommender
	indexer       Indexer
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, indexer Indexer, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		recommender: recommender,
		indexer:     indexer,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexBuildInProgress, http.StatusConflict, codeBuildInProgress),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, codeIndexNotReady),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, codeStorageUnavailable),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrConfiguration, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/recommendations", s.Recommendations)
	r.Post("/v1/admin/index/build", s.BuildIndex)
	r.Get("/v1/admin/index/status", s.IndexStatus)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Recommendations handles POST /v1/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Sort != "" && !sortorder.Order(req.Sort).IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown sort order: "+req.Sort)
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must not be negative")
		return
	}

	out, err := s.recommender.Recommend(r.Context(), recommenduc.Request{
		Criteria: criteria.Input{
			Destinations:      req.Destinations,
			DestinationGroups: req.DestinationGroups,
			StartLocation:     req.StartLocation,
			EndLocation:       req.EndLocation,
			Region:            req.Region,
			Countries:         req.Countries,
			TripTypes:         req.TripTypes,
			DurationMin:       req.DurationMin,
			DurationMax:       req.DurationMax,
			Tier:              req.Tier,
			DepartureType:     req.DepartureType,
			NameQuery:         req.NameQuery,
		},
		Query: req.Query,
		Limit: req.Limit,
		Sort:  sortorder.Order(req.Sort),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]PackageResult, len(out.Results))
	for i := range out.Results {
		sc := &out.Results[i]
		item := sc.Item()
		results[i] = PackageResult{
			ID:             item.ID(),
			Name:           item.Name(),
			URL:            item.URL(),
			Score:          sc.Score(),
			Similarity:     sc.Similarity(),
			Reasons:        sc.Reasons(),
			Countries:      item.Countries(),
			Cities:         item.Cities(),
			Regions:        item.Regions(),
			TripTypes:      item.TripTypes(),
			DurationNights: item.DurationNights(),
			Tier:           item.Tier(),
			DepartureType:  item.DepartureType(),
			PriceCents:     item.PriceCents(),
		}
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		Results:        results,
		TotalMatched:   out.TotalMatched,
		Returned:       len(results),
		RelaxedFilters: out.RelaxedFilters,
		Summary:        out.Summary,
	})
}

// BuildIndex handles POST /v1/admin/index/build.
func (s *Server) BuildIndex(w http.ResponseWriter, r *http.Request) {
	n, err := s.indexer.BuildIndex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IndexBuildResponse{IndexedItems: n})
}

// IndexStatus handles GET /v1/admin/index/status.
func (s *Server) IndexStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.indexer.Status(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := IndexStatusResponse{
		Ready:     st.Ready,
		ItemCount: st.ItemCount,
		VocabSize: st.VocabSize,
	}
	if !st.BuiltAt.IsZero() {
		builtAt := st.BuiltAt.UTC()
		resp.BuiltAt = &builtAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
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

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrIndexNotReady,
		domain.ErrIndexBuildInProgress,
		domain.ErrStorageUnavailable,
		domain.ErrConfiguration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
