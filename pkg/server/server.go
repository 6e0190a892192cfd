package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/graph"
	dtio "github.com/matzehuels/drilltree/pkg/io"
	"github.com/matzehuels/drilltree/pkg/observability"
	"github.com/matzehuels/drilltree/pkg/render/nodelink"
	"github.com/matzehuels/drilltree/pkg/render/svg"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
	"github.com/matzehuels/drilltree/pkg/visual"
)

// DefaultMaxBodyBytes bounds uploaded tables.
const DefaultMaxBodyBytes = 32 << 20

// Options configures a [Server].
type Options struct {
	// Settings are the base settings of every new view.
	Settings config.Settings
	// Logger receives request and view events. Nil discards them.
	Logger *log.Logger
	// MaxBodyBytes bounds request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server holds the live views.
type Server struct {
	settings config.Settings
	logger   *log.Logger
	maxBody  int64

	mu    sync.RWMutex
	views map[string]*view
}

// view serializes all access to one Visual.
type view struct {
	mu      sync.Mutex
	visual  *visual.Visual
	created time.Time
}

// New creates a server with no views.
func New(opts Options) *Server {
	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		settings: opts.Settings,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
		views:    make(map[string]*view),
	}
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/views", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/svg", s.handleSVG)
			r.Get("/dot", s.handleDOT)
			r.Put("/data", s.handleData)
			r.Post("/nodes/{node}/{action}", s.handleAction)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Len reports the number of live views.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type viewResponse struct {
	ID      string        `json:"id"`
	Layout  *graph.Layout `json:"layout"`
	Builds  int           `json:"builds"`
	Changed *bool         `json:"changed,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "views": s.Len()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	settings, err := s.requestSettings(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tbl, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	v := visual.New(settings, visual.WithLogger(s.logger))
	if _, err := v.UpdateContext(r.Context(), tbl, settings); err != nil {
		s.fail(w, r, err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.views[id] = &view{visual: v, created: time.Now()}
	s.mu.Unlock()
	s.logger.Info("view created", "id", id, "rows", tbl.RowCount())

	writeJSON(w, http.StatusCreated, response(id, v, nil))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(id string, vw *view) {
		writeJSON(w, http.StatusOK, response(id, vw.visual, nil))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		s.fail(w, r, errors.New(errors.ErrCodeViewNotFound, "view %q not found", id))
		return
	}
	s.logger.Info("view deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(id string, vw *view) {
		l, _ := vw.visual.Layout()
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg.Render(l, svg.WithInteractive("/api/views/"+id)))
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(id string, vw *view) {
		l, _ := vw.visual.Layout()
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = io.WriteString(w, nodelink.ToDOT(l, nodelink.Options{Detailed: r.URL.Query().Has("detailed")}))
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(id string, vw *view) {
		base := vw.visual.Settings()
		settings, err := mergeSettings(base, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		tbl, err := s.readTable(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		changed, err := vw.visual.UpdateContext(r.Context(), tbl, settings)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, response(id, vw.visual, &changed))
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(id string, vw *view) {
		node, err := strconv.Atoi(chi.URLParam(r, "node"))
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", chi.URLParam(r, "node")))
			return
		}
		cmd, err := drill.NewCommand(chi.URLParam(r, "action"), tree.NodeID(node))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := vw.visual.Apply(cmd); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, response(id, vw.visual, nil))
	})
}

// =============================================================================
// Helpers
// =============================================================================

// withView looks up the view named in the URL and runs fn holding its lock.
func (s *Server) withView(w http.ResponseWriter, r *http.Request, fn func(id string, vw *view)) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	vw, ok := s.views[id]
	s.mu.RUnlock()
	if !ok {
		s.fail(w, r, errors.New(errors.ErrCodeViewNotFound, "view %q not found", id))
		return
	}
	vw.mu.Lock()
	defer vw.mu.Unlock()
	fn(id, vw)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" || code == errors.ErrCodeInternal {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeError(w, err)
}

func (s *Server) readTable(w http.ResponseWriter, r *http.Request) (*table.Table, error) {
	return dtio.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
}

func (s *Server) requestSettings(r *http.Request) (config.Settings, error) {
	return mergeSettings(s.settings, r)
}

// mergeSettings applies the settings query parameter on top of base.
func mergeSettings(base config.Settings, r *http.Request) (config.Settings, error) {
	raw := r.URL.Query().Get("settings")
	if raw == "" {
		return base, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidSettings, err, "settings must be a JSON object")
	}
	return base.Merge(m)
}

func response(id string, v *visual.Visual, changed *bool) viewResponse {
	resp := viewResponse{ID: id, Builds: v.Builds(), Changed: changed}
	if l, ok := v.Layout(); ok {
		resp.Layout = &l
	}
	return resp
}
