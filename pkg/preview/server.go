// Package preview serves saved pages and their editor data over HTTP for
// local previewing.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/gnana997/promokit/pkg/catalog"
	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/htmlgen"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/upload"
	"github.com/gnana997/promokit/pkg/util"
)

// slugVar matches nested slugs such as "events/summer-sale".
const slugVar = "{slug:[a-z0-9][a-z0-9/-]*}"

// UploadsPath is the URL prefix stored uploads are served under.
const UploadsPath = "/uploads"

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 5 * time.Second

// Server is the preview HTTP server.
type Server struct {
	router *mux.Router
	reg    *component.Registry
	query  *catalog.QueryService
	pages  *pagestore.Store
	gen    *htmlgen.Generator
	logger *slog.Logger

	// AllowedOrigins is passed to the CORS handler. Empty allows any origin.
	AllowedOrigins []string
	// Uploads stores images posted to the upload route. Nil disables uploads.
	Uploads *upload.Local
}

// NewServer creates a preview server over pages.
func NewServer(reg *component.Registry, pages *pagestore.Store, gen *htmlgen.Generator, logger *slog.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		reg:    reg,
		query:  catalog.FromRegistry(reg),
		pages:  pages,
		gen:    gen,
		logger: util.OrDefault(logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingHandler)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods("GET")
	api.HandleFunc("/components", s.componentsHandler).Methods("GET")
	api.HandleFunc("/pages", s.listPagesHandler).Methods("GET")
	// Literal suffixes must be registered before the bare slug route.
	api.HandleFunc("/pages/"+slugVar+"/fields/{id}/upload", s.uploadHandler).Methods("POST")
	api.HandleFunc("/pages/"+slugVar+"/fields/{id}", s.fieldsHandler).Methods("GET")
	api.HandleFunc("/pages/"+slugVar+"/fields/{id}", s.editFieldHandler).Methods("POST")
	api.HandleFunc("/pages/"+slugVar, s.getPageHandler).Methods("GET")
	api.HandleFunc("/form/{page_id}", s.formHandler).Methods("POST")

	s.router.PathPrefix(UploadsPath + "/").Handler(s.uploadsHandler()).Methods("GET")
	s.router.HandleFunc("/p/"+slugVar+"/panel/{id}", s.panelHandler).Methods("GET")
	s.router.HandleFunc("/p/"+slugVar, s.pageHandler).Methods("GET")
	s.router.HandleFunc("/", s.indexHandler).Methods("GET")
}

// Handler returns the router wrapped with CORS support.
func (s *Server) Handler() http.Handler {
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})
	return c.Handler(s.router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// statusRecorder captures the status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message, Code: status})
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// loadPage maps store errors onto HTTP responses. It returns nil when a
// response has been written.
func (s *Server) loadPage(w http.ResponseWriter, r *http.Request) *pagestore.Page {
	slug := mux.Vars(r)["slug"]
	p, err := s.pages.Load(slug)
	switch {
	case err == nil:
		return p
	case errors.Is(err, pagestore.ErrNotFound):
		writeError(w, http.StatusNotFound, "page_not_found", err.Error())
	case errors.Is(err, pagestore.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, "invalid_slug", err.Error())
	default:
		s.logger.Error("load page", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "load_failed", err.Error())
	}
	return nil
}

// sortedKeys is used for stable field listings in form submissions.
func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
