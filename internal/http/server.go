package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
)

// Services bundles the page services behind the API.
type Services struct {
	Dashboard    *services.DashboardService
	Analytics    *services.AnalyticsService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Templates    *services.TemplateService
	Preferences  *services.PreferenceService
	// Profile resolves each caller's currency and date format. Nil renders
	// every response with Options.Currency and ISO dates.
	Profile *services.ProfileService
}

// Options configures the HTTP server.
type Options struct {
	Addr               string
	Currency           core.Currency
	RateLimitPerMinute int
	Logger             *log.Logger
	// Ready reports whether dependencies can serve traffic. Nil means
	// always ready.
	Ready func(context.Context) error
}

// Server is the JSON API server.
type Server struct {
	http.Server

	svc      Services
	present  presenter
	ready    func(context.Context) error
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
}

// NewServer wires middleware and routes, returning a ready-to-run server.
// Call Shutdown to stop it and release the rate limiter.
func NewServer(svc Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	currency := opts.Currency
	if !currency.IsValid() {
		currency = core.USD
	}

	s := &Server{
		svc:      svc,
		present:  presenter{currency: currency, dateFormat: core.DateISO},
		ready:    opts.Ready,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		tracer:   trace.NewMiddleware(),
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.tracer.Middleware)
	r.Use(log.Middleware(s.logger, trace.RequestID))
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/icons", s.handleIcons)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Get("/{id}", s.handleGetTemplate)
			r.Put("/{id}", s.handleUpdateTemplate)
			r.Delete("/{id}", s.handleDeleteTemplate)
			r.Post("/{id}/apply", s.handleApplyTemplate)
		})

		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handleUpdatePreferences)

		r.Get("/settings/profile", s.handleGetProfile)
		r.Put("/settings/profile", s.handleUpdateProfile)
	})

	return r
}

// presenterFor formats for the caller's display settings when profiles are
// enabled.
func (s *Server) presenterFor(r *http.Request) presenter {
	if s.svc.Profile == nil {
		return s.present
	}
	p := s.svc.Profile.Display(r.Context(), authorization(r))
	return presenter{currency: p.Currency, dateFormat: p.DateFormat}
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.NewFields().
			WithClientIP(s.detector.ExtractClientIP(r)).
			WithHTTPRequest(r.Method, r.URL.Path, "", "").
			ToSlice()...)
	writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type readyResponse struct {
	Status    string                    `json:"status"`
	Error     string                    `json:"error,omitempty"`
	Requests  trace.Metrics             `json:"requests"`
	RateLimit ratelimit.Metrics         `json:"rate_limit"`
	Security  security.DetectionMetrics `json:"security"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := readyResponse{
		Status:    "ready",
		Requests:  s.tracer.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Security:  s.detector.GetMetrics(),
	}
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			resp.Status = "unavailable"
			resp.Error = "dependencies unavailable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Shutdown stops accepting requests, waits for in-flight ones and stops
// the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	s.logger.InfoContext(ctx, "Shutting down HTTP server")
	if err := s.Server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
