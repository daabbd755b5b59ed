package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/search"
)

// Options configure the handlers.
type Options struct {
	// DefaultLookback is the date window of requests without filters.
	DefaultLookback time.Duration

	// AllowedOrigins are checked for CORS and websocket upgrades. "*" allows all.
	AllowedOrigins []string

	Now func() time.Time
}

// Handlers contains all HTTP handlers of the search API.
type Handlers struct {
	orchestrator *search.Orchestrator
	catalog      *catalog.Catalog
	registry     *backend.Registry
	opts         Options
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(
	orchestrator *search.Orchestrator,
	cat *catalog.Catalog,
	registry *backend.Registry,
	opts Options,
	logger *slog.Logger,
) *Handlers {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLookback <= 0 {
		opts.DefaultLookback = 365 * 24 * time.Hour
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Handlers{
		orchestrator: orchestrator,
		catalog:      cat,
		registry:     registry,
		opts:         opts,
		logger:       logger,
	}
}

// SearchAccepted is the response of an asynchronous search start.
type SearchAccepted struct {
	ID   string `json:"id"`
	Href string `json:"href"`
}

// Search runs a search and responds once every provider is terminal.
// POST /search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest(r.Body, h.opts.Now(), h.opts.DefaultLookback)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	run, err := h.orchestrator.Start(r.Context(), req, nil)
	if err != nil {
		h.writeRejected(w, run, err)
		return
	}

	out, err := run.Wait(r.Context())
	if err != nil {
		// The client went away; the run keeps going and stays retrievable.
		h.logger.Warn("search request ended before the search finished",
			slog.String("search_id", run.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// StartSearch launches a search and returns its id.
// POST /searches
func (h *Handlers) StartSearch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest(r.Body, h.opts.Now(), h.opts.DefaultLookback)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	run, err := h.orchestrator.Start(r.Context(), req, nil)
	if err != nil {
		h.writeRejected(w, run, err)
		return
	}

	href := "/searches/" + run.ID
	w.Header().Set("Location", href)
	WriteJSON(w, http.StatusAccepted, SearchAccepted{ID: run.ID, Href: href})
}

// GetSearch returns the progress of a search.
// GET /searches/{searchId}
func (h *Handlers) GetSearch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, run.Snapshot())
}

// ExportSearch downloads the current results of a search as GeoJSON.
// GET /searches/{searchId}/export
func (h *Handlers) ExportSearch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	fc, err := run.Snapshot().Export()
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "search-"+run.ID+".geojson"))
	WriteGeoJSON(w, http.StatusOK, fc)
}

// Export converts a client side result set into the downloadable GeoJSON.
// POST /export
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	polygon, features, err := decodeExportRequest(r.Body, h.opts.Now(), h.opts.DefaultLookback)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}
	fc, err := imagery.Export(polygon, features)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="search.geojson"`)
	WriteGeoJSON(w, http.StatusOK, fc)
}

// ProviderInfo is one entry of the provider listing.
type ProviderInfo struct {
	*catalog.Provider
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Providers lists the catalog and which providers are enabled.
// GET /providers
func (h *Handlers) Providers(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	out := make([]ProviderInfo, 0, len(all))
	for _, p := range all {
		_, enabled := h.registry.Get(p.ID)
		out = append(out, ProviderInfo{Provider: p, Name: p.ID.DisplayName(), Enabled: enabled})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"providers": out})
}

// Health returns the health status of the service.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": h.registry.Len(),
	})
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*search.Run, bool) {
	id := chi.URLParam(r, "searchId")
	run, err := h.orchestrator.Get(id)
	switch {
	case errors.Is(err, search.ErrRunNotFound):
		WriteNotFound(w, "search not found")
		return nil, false
	case errors.Is(err, search.ErrRunExpired):
		WriteGone(w, "search expired")
		return nil, false
	case err != nil:
		WriteInternalError(w, err.Error())
		return nil, false
	}
	return run, true
}

func (h *Handlers) writeRejected(w http.ResponseWriter, run *search.Run, err error) {
	resp := ErrorResponse{Code: ErrCodeInvalidSearch, Description: err.Error()}
	if run != nil {
		resp.Notices = run.Snapshot().Notices
	}
	if !errors.Is(err, search.ErrValidation) {
		resp.Code = ErrCodeServerError
		WriteErrorResponse(w, http.StatusInternalServerError, resp)
		return
	}
	WriteErrorResponse(w, http.StatusBadRequest, resp)
}
