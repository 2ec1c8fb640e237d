// Package server exposes the visuals over HTTP.
//
//	POST /slicers                      create a slicer session
//	PUT  /slicers/{id}/data            replace its snapshot (CSV body)
//	GET  /slicers/{id}                 nodes and filter, ?search= to search
//	POST /slicers/{id}/toggle          {"node": id}
//	POST /slicers/{id}/expand          {"node": id}
//	POST /slicers/{id}/expand-all
//	POST /slicers/{id}/collapse-all
//	POST /slicers/{id}/clear
//	POST /boxplot                      box statistics of a CSV body
//	GET  /axis?min=&max=               axis plan
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/slicer"
	"github.com/vdobler/vizcore/stat"
	"github.com/vdobler/vizcore/store"
	"github.com/vdobler/vizcore/table"
)

// Defaults applied to requests that leave settings open.
type Defaults struct {
	Whisker      stat.WhiskerPolicy
	ShowOutliers bool
	Mode         hierarchy.Mode
	SelfFilter   bool
}

type Server struct {
	router   *chi.Mux
	store    store.Store
	log      *slog.Logger
	defaults Defaults

	mu       sync.RWMutex
	sessions map[uuid.UUID]*slicer.Session
}

func New(st store.Store, defaults Defaults, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		router:   chi.NewRouter(),
		store:    st,
		log:      log,
		defaults: defaults,
		sessions: make(map[uuid.UUID]*slicer.Session),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Route("/slicers", func(r chi.Router) {
		r.Post("/", s.handleCreateSlicer)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSlicer)
			r.Put("/data", s.handleSlicerData)
			r.Post("/toggle", s.handleToggle)
			r.Post("/expand", s.handleExpand)
			r.Post("/expand-all", s.handleExpandAll)
			r.Post("/collapse-all", s.handleCollapseAll)
			r.Post("/clear", s.handleClear)
		})
	})
	s.router.Post("/boxplot", s.handleBoxPlot)
	s.router.Get("/axis", s.handleAxis)
}

// requestLogger logs each request with slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.Is(err, slicer.ErrNoSnapshot):
		status = http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, table.ErrNoColumn),
		errors.Is(err, table.ErrRaggedRow),
		errors.Is(err, table.ErrNotNumber),
		errors.Is(err, stat.ErrInvalidInput),
		errors.Is(err, slicer.ErrNoLevels):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var (
	errNotFound   = errors.New("not found")
	errBadRequest = errors.New("bad request")
)
