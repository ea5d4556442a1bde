package web

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vbonduro/rateboard/internal/metrics"
	"github.com/vbonduro/rateboard/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	// AllowedOrigins lists the browser origins allowed to call /api. Empty
	// disables CORS handling entirely.
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

type Server struct {
	service *service.BoardService
	db      Pinger
	opts    Options
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
}

func NewServer(svc *service.BoardService, db Pinger, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		db:      db,
		opts:    opts,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	s.handler = s.buildHandler()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/rates/current", s.handleGetCurrentRates)
	s.mux.HandleFunc("GET /api/rates/history", s.handleRateHistory)
	s.mux.HandleFunc("POST /api/rates", s.handleCreateRates)
	s.mux.HandleFunc("PUT /api/rates/{id}", s.handleUpdateRates)

	s.mux.HandleFunc("GET /api/settings/display", s.handleGetSettings)
	s.mux.HandleFunc("POST /api/settings/display", s.handleCreateSettings)
	s.mux.HandleFunc("PUT /api/settings/display", s.handleUpdateCurrentSettings)
	s.mux.HandleFunc("PUT /api/settings/display/{id}", s.handleUpdateSettings)

	s.mux.HandleFunc("GET /api/media", s.handleListMedia)
	s.mux.HandleFunc("POST /api/media", s.handleCreateMedia)
	s.mux.HandleFunc("POST /api/media/upload", s.handleUploadMedia)
	s.mux.HandleFunc("PUT /api/media/{id}", s.handleUpdateMedia)
	s.mux.HandleFunc("DELETE /api/media/{id}", s.handleDeleteMedia)

	s.mux.HandleFunc("GET /api/promo", s.handleListPromos)
	s.mux.HandleFunc("POST /api/promo", s.handleCreatePromo)
	s.mux.HandleFunc("POST /api/promo/upload", s.handleUploadPromo)
	s.mux.HandleFunc("PUT /api/promo/{id}", s.handleUpdatePromo)
	s.mux.HandleFunc("DELETE /api/promo/{id}", s.handleDeletePromo)

	s.mux.HandleFunc("GET /api/banner", s.handleGetBanner)
	s.mux.HandleFunc("POST /api/banner", s.handleCreateBanner)
	s.mux.HandleFunc("POST /api/banner/upload", s.handleUploadBanner)
	s.mux.HandleFunc("PUT /api/banner/{id}", s.handleUpdateBanner)

	s.mux.HandleFunc("GET /uploads/{key...}", s.handleGetUpload)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if s.opts.Gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) buildHandler() http.Handler {
	var h http.Handler = s.mux
	if len(s.opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.opts.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			handlers.AllowCredentials(),
		)(h)
		h = originGuard(s.opts.AllowedOrigins, h)
	}
	h = securityHeaders(h)
	h = requestLogger(s.logger, s.opts.Metrics, h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

// originGuard rejects browser calls to /api from origins outside allowed.
// Requests without an Origin header (curl, the display client) pass.
func originGuard(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && strings.HasPrefix(r.URL.Path, "/api") && !slices.Contains(allowed, origin) {
			writeJSON(w, http.StatusForbidden, messageBody{Message: "CORS: origin not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(r.Method, route, rec.status, elapsed.Seconds())
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered", "panic", v)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
