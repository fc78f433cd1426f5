// Package httpapi exposes the subproject workflow and the location catalog
// as a JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"subprofile/docs/schema"
	"subprofile/docs/schema/openapi"
	"subprofile/internal/catalog"
	"subprofile/internal/core"
	"subprofile/internal/workflow"
	"subprofile/pkg/domain"
)

// Catalog exposes the location hierarchy for HTTP handlers.
type Catalog interface {
	workflow.Catalog
	MunicipalitiesOf(province string) ([]string, error)
	SubprojectTypes() []domain.SubprojectType
}

// Options tune a Handler. Zero values select sensible defaults.
type Options struct {
	Logger   *zap.Logger
	Metrics  core.MetricsRecorder
	Gatherer prometheus.Gatherer
	CacheTTL time.Duration
}

// DefaultCacheTTL bounds how long catalog responses are reused.
const DefaultCacheTTL = 10 * time.Minute

// Handler serves the API routes. Creates and updates are serialized so an
// update's load and write-back never straddle another request's write.
type Handler struct {
	Catalog Catalog
	Store   domain.RecordStore

	mu      sync.Mutex
	logger  *zap.Logger
	metrics core.MetricsRecorder
	metricz http.Handler
	cache   *cache.Cache
	now     func() time.Time
}

// NewHandler constructs the API handler.
func NewHandler(c Catalog, store domain.RecordStore, opts Options) *Handler {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	h := &Handler{
		Catalog: c,
		Store:   store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		cache:   cache.New(ttl, 2*ttl),
		now:     time.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.metrics == nil {
		h.metrics = core.NoopMetrics{}
	}
	if opts.Gatherer != nil {
		h.metricz = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
	}
	return h
}

// Routes wraps the handler with request ID assignment and access logging.
func (h *Handler) Routes() http.Handler {
	return withRequestLog(h.logger, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil || h.Store == nil {
		writeError(w, http.StatusInternalServerError, "subproject api not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/healthz":
		h.handleHealth(w, r)
	case path == "/api/v1/openapi.yaml" || path == "/api/v1/schema/records":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleDocument(w, path)
	case path == "/metrics":
		if h.metricz == nil {
			http.NotFound(w, r)
			return
		}
		h.metricz.ServeHTTP(w, r)
	case strings.HasPrefix(path, "/api/v1/catalog/"):
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleCatalog(w, r, strings.TrimPrefix(path, "/api/v1/catalog/"))
	case path == "/api/v1/subprojects":
		switch r.Method {
		case http.MethodGet:
			h.handleSearch(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case path == "/api/v1/subprojects/update":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleUpdate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      h.now().UTC().Format(time.RFC3339),
		"layout_version": schema.RecordLayoutVersion(),
	})
}

func (h *Handler) handleDocument(w http.ResponseWriter, path string) {
	if path == "/api/v1/openapi.yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(openapi.Spec())
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schema.RecordSchema())
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request, remainder string) {
	if cached, found := h.cache.Get(remainder); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	segments := strings.Split(remainder, "/")
	var payload map[string]any
	switch {
	case remainder == "regions":
		payload = map[string]any{"regions": h.Catalog.Regions()}
	case remainder == "subproject-types":
		payload = map[string]any{"subproject_types": h.Catalog.SubprojectTypes()}
	case len(segments) == 3 && segments[0] == "regions" && segments[2] == "provinces":
		provinces, err := h.Catalog.ProvincesOf(segments[1])
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		payload = map[string]any{"region": segments[1], "provinces": provinces}
	case len(segments) == 3 && segments[0] == "provinces" && segments[2] == "municipalities":
		towns, err := h.Catalog.MunicipalitiesOf(segments[1])
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		payload = map[string]any{"province": segments[1], "municipalities": towns}
	default:
		http.NotFound(w, r)
		return
	}
	h.cache.Set(remainder, payload, cache.DefaultExpiration)
	writeJSON(w, http.StatusOK, payload)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

type createResponse struct {
	Message string            `json:"message"`
	Record  domain.Subproject `json:"record"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var rec domain.Subproject
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid subproject payload")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	form := workflow.NewForm(h.Catalog, h.Store, workflow.WithLogger(h.logger), workflow.WithMetrics(h.metrics))
	for _, f := range domain.Fields() {
		// Rejected select values stay blank and surface as required errors.
		if err := form.Set(f, rec.Get(f)); err != nil && !errors.Is(err, workflow.ErrNotAnOption) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	n, err := form.Submit(r.Context())
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{Message: n.Message, Record: rec})
}

type searchResponse struct {
	Query     string         `json:"query"`
	Rows      []workflow.Row `json:"rows"`
	Count     int            `json:"count"`
	TotalCost string         `json:"total_cost"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, err := workflow.OpenSearch(r.Context(), h.Catalog, h.Store, workflow.WithLogger(h.logger), workflow.WithMetrics(h.metrics))
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	query := r.URL.Query().Get("q")
	rows := session.Search(r.Context(), query)
	total, _ := workflow.TotalCost(rows)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:     query,
		Rows:      rows,
		Count:     len(rows),
		TotalCost: total.StringFixed(2),
	})
}

type cellEdit struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type updateRequest struct {
	ProjectCost string     `json:"projectCost"`
	Edits       []cellEdit `json:"edits"`
}

type updateResponse struct {
	Message string              `json:"message"`
	Records []domain.Subproject `json:"records"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	session, err := workflow.OpenSearch(r.Context(), h.Catalog, h.Store, workflow.WithLogger(h.logger), workflow.WithMetrics(h.metrics))
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	for _, e := range req.Edits {
		field, err := domain.ParseField(e.Field)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := session.Edit(e.Row, field, e.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	n, err := session.Update(r.Context(), req.ProjectCost)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Message: n.Message, Records: session.Records()})
}

type validationResponse struct {
	Error  string             `json:"error"`
	Row    *int               `json:"row,omitempty"`
	Errors domain.FieldErrors `json:"errors"`
}

func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp := validationResponse{Error: domain.ErrValidation.Error(), Errors: verr.Fields}
		if verr.Row >= 0 {
			row := verr.Row
			resp.Row = &row
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	h.logger.Error("workflow failure", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "storage unavailable")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
