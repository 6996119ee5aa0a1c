package main

import (
	"net/http"
	"time"

	"github.com/crucial707/candidate-hub/internal/auth"
	"github.com/crucial707/candidate-hub/internal/bootstrap"
	"github.com/crucial707/candidate-hub/internal/config"
	"github.com/crucial707/candidate-hub/internal/handlers"
	"github.com/crucial707/candidate-hub/internal/middleware"
	"github.com/crucial707/candidate-hub/internal/report"
	"github.com/crucial707/candidate-hub/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// deps is everything the router needs from the outside world.
type deps struct {
	cfg     config.Config
	stores  *bootstrap.Stores
	queue   handlers.ReportQueue
	reports report.Store
	tokens  *auth.TokenService
	limiter *middleware.IPRateLimiter
	started time.Time
}

func newRouter(d deps) http.Handler {
	candidates := service.NewCandidateService(d.stores.Candidates, d.stores.Audit)
	authSvc := service.NewAuthService(
		d.stores.Users,
		auth.NewHasher(d.cfg.BcryptCost),
		d.tokens,
		d.cfg.TokenTTL(),
	)
	resolver := auth.NewResolver(d.tokens, d.stores.Users)

	health := &handlers.HealthHandler{Started: d.started}
	if d.stores.DB != nil {
		health.DB = d.stores.DB
	}
	authHandler := &handlers.AuthHandler{Auth: authSvc}
	userHandler := &handlers.UserHandler{}
	candidateHandler := &handlers.CandidateHandler{Candidates: candidates}
	reportHandler := &handlers.ReportHandler{Queue: d.queue, Store: d.reports}
	auditHandler := &handlers.AuditHandler{Candidates: candidates}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(d.cfg.TLSCertFile != "" && d.cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(d.cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	// Probes and metrics
	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Public, rate limited
	r.Group(func(r chi.Router) {
		r.Use(d.limiter.Middleware)
		r.Post("/user", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(resolver))

		r.Get("/me", userHandler.Me)

		r.Post("/candidates", candidateHandler.CreateCandidate)
		r.Get("/candidates/{id}", candidateHandler.GetCandidate)
		r.Put("/candidates/{id}", candidateHandler.UpdateCandidate)
		r.Delete("/candidates/{id}", candidateHandler.DeleteCandidate)
		r.Get("/all-candidates", candidateHandler.ListCandidates)

		r.Post("/reports", reportHandler.GenerateReport)
		r.Get("/reports/{task_id}", reportHandler.GetReport)
		r.Get("/reports/{task_id}/download", reportHandler.DownloadReport)

		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
