// Package httpapi serves scenes, stats and exports over HTTP. Every scene
// switch is a plain GET that re-renders the scene from scratch.
package httpapi

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/export"
	"github.com/spektr-org/mpgscenes/internal/logging"
	"github.com/spektr-org/mpgscenes/internal/metrics"
	mpgrender "github.com/spektr-org/mpgscenes/render"
	"github.com/spektr-org/mpgscenes/scene"
)

// Options configures the router.
type Options struct {
	Controller   *scene.Controller
	Logger       *slog.Logger
	Metrics      *metrics.Metrics // nil disables /metrics and request counting
	MetricsPath  string
	DefaultScene string
	Version      string

	// RateLimit in requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Handler serves the scene controller over HTTP.
type Handler struct {
	ctrl         *scene.Controller
	logger       *slog.Logger
	metrics      *metrics.Metrics
	defaultScene string
	version      string
}

// NewRouter wires middleware and routes.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{
		ctrl:         opts.Controller,
		logger:       logger.With(slog.String("component", "http")),
		metrics:      opts.Metrics,
		defaultScene: opts.DefaultScene,
		version:      opts.Version,
	}
	if h.defaultScene == "" {
		h.defaultScene = scene.DefaultScene
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	var obs requestObserver
	if h.metrics != nil {
		obs = h.metrics
	}
	r.Use(StructuredLogger(h.logger, obs))
	r.Use(Recoverer(h.logger))
	if opts.RateLimit > 0 {
		r.Use(NewRateLimiter(opts.RateLimit, opts.RateBurst, h.logger).Handler)
	}
	r.Use(middleware.Compress(5, "text/html", "image/svg+xml", "application/json", "text/csv"))

	r.Get("/", h.index)
	r.Get("/healthz", h.health)
	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", h.listScenes)
		r.Get("/{scene}", h.scenePage)
		r.Get("/{scene}/svg", h.sceneSVG)
		r.Get("/{scene}/model", h.sceneModel)
	})
	r.Get("/stats/{measure}", h.stats)
	r.Get("/export/{measure}.{format}", h.export)

	if h.metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, h.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, h.logger, NewAPIError(http.StatusNotFound, "NOT_FOUND", "Resource not found"))
	})
	return r
}

// ============================================================================
// SCENES
// ============================================================================

// index handles GET /
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/scenes/"+h.defaultScene, http.StatusFound)
}

// listScenes handles GET /scenes
func (h *Handler) listScenes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.ctrl.Scenes())
}

// scenePage handles GET /scenes/{scene}
func (h *Handler) scenePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "scene")
	surface, sc, err := h.show(name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var buf bytes.Buffer
	err = mpgrender.Page(&buf, mpgrender.PageData{
		Title:   sc.Title(),
		Active:  name,
		Scenes:  h.ctrl.Scenes(),
		Surface: surface,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// sceneSVG handles GET /scenes/{scene}/svg
func (h *Handler) sceneSVG(w http.ResponseWriter, r *http.Request) {
	surface, _, err := h.show(chi.URLParam(r, "scene"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if err := mpgrender.SVG(&buf, surface); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

// sceneModel handles GET /scenes/{scene}/model
func (h *Handler) sceneModel(w http.ResponseWriter, r *http.Request) {
	surface, _, err := h.show(chi.URLParam(r, "scene"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, surface)
}

func (h *Handler) show(name string) (*scene.Surface, scene.Scene, error) {
	sc, err := h.ctrl.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	surface, err := h.ctrl.Show(name)
	if err != nil {
		return nil, nil, err
	}
	return surface, sc, nil
}

// ============================================================================
// STATS & EXPORT
// ============================================================================

func (h *Handler) query(r *http.Request) (engine.Query, error) {
	q := engine.Query{
		Measure: chi.URLParam(r, "measure"),
		By:      r.URL.Query().Get("by"),
		SortBy:  r.URL.Query().Get("sort"),
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, NewAPIError(http.StatusBadRequest, "INVALID_PARAMETER", fmt.Sprintf("invalid limit %q", s))
		}
		q.Limit = n
	}
	return q, nil
}

// stats handles GET /stats/{measure}?by=&sort=&limit=
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := engine.Execute(q, h.ctrl.Dataset(), engine.WithLogger(h.logger))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	render.JSON(w, r, statsResponse{Result: res, Table: engine.BuildTable(res)})
}

type statsResponse struct {
	*engine.Result
	Table *engine.TableData `json:"table"`
}

// export handles GET /export/{measure}.{format}?by=&sort=
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q, err := h.query(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := engine.Execute(q, h.ctrl.Dataset(), engine.WithLogger(h.logger))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res, format); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport(string(format))
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(res, format)))
	_, _ = w.Write(buf.Bytes())
}

// ============================================================================
// HEALTH
// ============================================================================

// health handles GET /healthz
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"records": h.ctrl.Dataset().Len(),
		"version": h.version,
	})
}
