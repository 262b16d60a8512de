package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
	"github.com/ebjrabc/fasttrack-sla/internal/ingest"
	"github.com/ebjrabc/fasttrack-sla/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultRunTimeout    = 2 * time.Minute
)

const (
	cacheKeyByAnalyst    = "http:sla_by_analyst"
	cacheKeyByIssueType  = "http:sla_by_issue_type"
	cacheKeyDistribution = "http:sla_distribution"
)

// Handlers serves the SLA HTTP API.
type Handlers struct {
	sla      SlaService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// NewHandlers initializes the HTTP handlers. cache may be nil, which disables
// report caching.
func NewHandlers(sla SlaService, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if sla == nil {
		panic("nil SlaService provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		sla:      sla,
		cache:    cache,
		logger:   logger.Named("http-handler"),
		cacheTTL: ttl,
	}
}

// Router builds the chi router for the API.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/issues/import", h.ImportIssues)
		r.Get("/issues/classified", h.ListClassified)
		r.Post("/sla/run", h.RunSla)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/by-analyst", h.SlaByAnalyst)
			r.Get("/by-issue-type", h.SlaByIssueType)
			r.Get("/distribution", h.SlaDistribution)
		})
	})

	r.Get("/health", h.Health)

	return r
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ImportIssues(w http.ResponseWriter, r *http.Request) {
	var export ingest.RawExport
	if err := json.NewDecoder(r.Body).Decode(&export); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid export payload")
		return
	}
	if len(export.Issues) == 0 {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "export contains no issues")
		return
	}

	summary, err := h.sla.ImportIssues(r.Context(), &export)
	if err != nil {
		h.handleError(r.Context(), w, "ImportIssues", err)
		return
	}

	respondJSON(w, http.StatusOK, importSummaryDTO{
		ImportedCount: summary.ImportedCount,
		Skipped:       mapRecordErrors(summary.Skipped),
	})
}

func (h *Handlers) RunSla(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRunTimeout)
	defer cancel()

	summary, err := h.sla.RunClassification(ctx)
	if err != nil {
		h.handleError(ctx, w, "RunSla", err)
		return
	}

	h.invalidateReportCaches(ctx)

	respondJSON(w, http.StatusOK, runSummaryDTO{
		TotalIssues:     summary.TotalIssues,
		ClassifiedCount: summary.ClassifiedCount,
		Errors:          mapRecordErrors(summary.Errors),
	})
}

func (h *Handlers) ListClassified(w http.ResponseWriter, r *http.Request) {
	rows, err := h.sla.GetClassifiedIssues(r.Context())
	if err != nil {
		h.handleError(r.Context(), w, "ListClassified", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"issues": mapClassifiedIssues(rows)})
}

func (h *Handlers) SlaByAnalyst(w http.ResponseWriter, r *http.Request) {
	rows, err := FindAndCache(r.Context(), h.cache, &h.sfGroup, cacheKeyByAnalyst, h.cacheTTL, h.logger,
		func(ctx context.Context) ([]service.GroupReportRow, error) {
			return h.sla.GetSlaByAnalyst(ctx)
		})
	if err != nil {
		h.handleError(r.Context(), w, "SlaByAnalyst", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": mapAnalystRows(rows)})
}

func (h *Handlers) SlaByIssueType(w http.ResponseWriter, r *http.Request) {
	rows, err := FindAndCache(r.Context(), h.cache, &h.sfGroup, cacheKeyByIssueType, h.cacheTTL, h.logger,
		func(ctx context.Context) ([]service.GroupReportRow, error) {
			return h.sla.GetSlaByIssueType(ctx)
		})
	if err != nil {
		h.handleError(r.Context(), w, "SlaByIssueType", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": mapIssueTypeRows(rows)})
}

func (h *Handlers) SlaDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := FindAndCache(r.Context(), h.cache, &h.sfGroup, cacheKeyDistribution, h.cacheTTL, h.logger,
		func(ctx context.Context) (service.SlaDistribution, error) {
			return h.sla.GetSlaDistribution(ctx)
		})
	if err != nil {
		h.handleError(r.Context(), w, "SlaDistribution", err)
		return
	}
	respondJSON(w, http.StatusOK, mapDistribution(dist))
}

func (h *Handlers) invalidateReportCaches(ctx context.Context) {
	if h.cache == nil {
		return
	}
	keys := []string{cacheKeyByAnalyst, cacheKeyByIssueType, cacheKeyDistribution}
	if err := h.cache.Del(ctx, keys...); err != nil {
		h.logger.Warn("failed to invalidate report caches", zap.Error(err))
	}
}

func (h *Handlers) handleError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		respondError(w, 499, "CANCELED", "request canceled")
		return
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		respondError(w, http.StatusGatewayTimeout, "TIMEOUT", "request timed out")
		return
	}

	switch {
	case errors.Is(err, service.ErrNoClassifiedIssues):
		h.logger.Info("no classified issues", zap.String("op", op))
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no classified issues found, run a classification first")
	case errors.Is(err, holiday.ErrFetch):
		h.logger.Error("holiday provider failure", zap.String("op", op), zap.Error(err))
		respondError(w, http.StatusBadGateway, "HOLIDAY_PROVIDER_UNAVAILABLE", "holiday provider unreachable")
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "STORAGE_FAILURE", "database error")
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "INTERNAL", op+" failed")
	}
}
