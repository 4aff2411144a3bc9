package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drawgraph/pkg/buildinfo"
	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/store"
)

// Options configures a Server.
type Options struct {
	// Editor is the session to serve. Nil creates one with defaults.
	Editor *editor.Editor
	// Store backs the /documents routes. Nil means an in-memory store.
	Store store.Store
	// TTL applies to saved documents; zero keeps them forever.
	TTL    time.Duration
	Logger *log.Logger
}

// Server is an http.Handler over one editor.
type Server struct {
	mu     sync.Mutex
	ed     *editor.Editor
	st     store.Store
	ttl    time.Duration
	logger *log.Logger
	router chi.Router
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Editor == nil {
		opts.Editor = editor.New(editor.Options{Logger: opts.Logger})
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	s := &Server{
		ed:     opts.Editor,
		st:     opts.Store,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Get("/document", s.handleGetDocument)
	r.Put("/document", s.handlePutDocument)

	r.Route("/shapes", func(r chi.Router) {
		r.Get("/", s.handleListShapes)
		r.Post("/", s.handleAddShape)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetShape)
			r.Delete("/", s.handleDeleteShape)
			r.Post("/move", s.handleMove)
			r.Post("/rotate", s.handleRotate)
			r.Post("/resize", s.handleResize)
			r.Put("/label", s.handleLabel)
			r.Patch("/style", s.handleStyle)
			r.Post("/ungroup", s.handleUngroup)
		})
	})
	r.Post("/nodes", s.handleAddNode)
	r.Post("/edges", s.handleAddEdge)

	r.Post("/order", s.handleOrder)
	r.Post("/distribute", s.handleDistribute)
	r.Post("/group", s.handleGroup)
	r.Post("/layout", s.handleLayout)
	r.Get("/hit", s.handleHit)

	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Get("/history", s.handleHistory)

	r.Get("/documents", s.handleListDocuments)
	r.Post("/documents/{key}/save", s.handleSave)
	r.Post("/documents/{key}/load", s.handleLoad)

	r.Get("/events", s.handleEvents)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// locked runs fn with the editor lock held.
func (s *Server) locked(fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ed)
}

// =============================================================================
// Encoding
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body: %v", err)
	}
	return nil
}
