package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"studioops/internal/cache"
	"studioops/internal/core"
	applog "studioops/internal/log"
	"studioops/internal/middleware/ratelimit"
	"studioops/internal/middleware/security"
	"studioops/internal/middleware/trace"
	"studioops/internal/services"
	"studioops/internal/storage"
)

// Server wires the JSON API: repository reads, service writes, and the
// middleware chain around them.
type Server struct {
	http.Server

	repo     *storage.SQLiteRepository
	projects *services.ProjectService
	importer *services.PaymentImporter

	limiter  *ratelimit.Limiter
	detector *security.Detector

	// Derived financial views are cached between writes.
	portfolioCache *cache.LRUCache[core.PortfolioSummary]
	listCache      *cache.LRUCache[[]ProjectView]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, repo *storage.SQLiteRepository, projects *services.ProjectService, importer *services.PaymentImporter) *Server {
	s := &Server{
		repo:           repo,
		projects:       projects,
		importer:       importer,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:       security.NewDetector(),
		portfolioCache: cache.NewLRUCache[core.PortfolioSummary](8, 5*time.Minute),
		listCache:      cache.NewLRUCache[[]ProjectView](8, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}
	s.cacheManager.Register(s.portfolioCache)
	s.cacheManager.Register(s.listCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/status", s.handleSetProjectStatus)
	mux.HandleFunc("GET /api/projects/{id}/analysis", s.handleProjectAnalysis)
	mux.HandleFunc("POST /api/projects/{id}/payments/import", s.handleImportPayments)

	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/expenses/summary", s.handleExpenseSummary)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)

	var handler http.Handler = mux
	handler = s.rateLimitMutations(handler)
	handler = headers.Middleware(handler)
	handler = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = applog.Middleware(logger)(handler)
	handler = tracer.Middleware(handler)

	s.Server.Addr = addr
	s.Server.Handler = handler
	return s
}

// rateLimitMutations applies the per-IP limiter to write methods only;
// dashboard reads stay unthrottled.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// invalidateCaches drops derived views after any write.
func (s *Server) invalidateCaches() {
	s.portfolioCache.Clear()
	s.listCache.Clear()
}

// Shutdown stops background goroutines and the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady pings the database so the probe fails when SQLite is
// unavailable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.repo.ListExpenses(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
