package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"smartspend/internal/cache"
	"smartspend/internal/core"
	"smartspend/internal/log"
	"smartspend/internal/services"
	"smartspend/internal/store"
)

type Server struct {
	http.Server
	store       store.Store
	service     *services.TransactionService
	rateLimiter *rateLimiter

	// Derived stats are memoized between writes.
	dailyCache     *cache.LRU[[]core.DailyStat]
	aggregateCache *cache.LRU[core.Summary]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
// statsTTL bounds how stale a cached stats response may get; writes clear
// the caches immediately anyway.
func NewServer(addr string, st store.Store, svc *services.TransactionService, statsTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:          st,
		service:        svc,
		rateLimiter:    newRateLimiter(60),
		dailyCache:     cache.NewLRU[[]core.DailyStat](200, statsTTL),
		aggregateCache: cache.NewLRU[core.Summary](100, statsTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dailyCache)
	s.cacheManager.Register(s.aggregateCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/api/categories/", s.withMiddleware(s.handleCategoryByID))
	mux.HandleFunc("/api/members", s.withMiddleware(s.handleMembers))
	mux.HandleFunc("/api/members/", s.withMiddleware(s.handleMemberByID))
	mux.HandleFunc("/api/reflection-tags", s.withMiddleware(s.handleReflectionTags))
	mux.HandleFunc("/api/reflection-tags/", s.withMiddleware(s.handleReflectionTagByID))
	mux.HandleFunc("/api/settings", s.withMiddleware(s.handleSettings))
	mux.HandleFunc("/api/stats/daily", s.withMiddleware(s.handleDailyStats))
	mux.HandleFunc("/api/stats/aggregate", s.withMiddleware(s.handleAggregateStats))
	mux.HandleFunc("/api/backup/export", s.withMiddleware(s.handleBackupExport))
	mux.HandleFunc("/api/backup/export.csv", s.withMiddleware(s.handleBackupExportCSV))
	mux.HandleFunc("/api/backup/import", s.withMiddleware(s.handleBackupImport))

	return s
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := generateRequestID()

		logger := log.FromContext(r.Context()).With(log.FieldRequestID, requestID)
		ctx := log.IntoContext(r.Context(), logger)
		r = r.WithContext(ctx)

		logger.InfoContext(ctx, "Request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, ip)

		// Mutations count against the per-client budget; reads are free.
		if isMutating(r.Method) && !s.rateLimiter.allow(ip) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, ip,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateStats drops memoized stats after any write. Taxonomy renames
// change breakdown labels, so every mutation clears both caches.
func (s *Server) invalidateStats() {
	s.dailyCache.Clear()
	s.aggregateCache.Clear()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the store answers a snapshot read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.store.Settings(ctx); err != nil {
		reqLog(r).ErrorContext(ctx, "Readiness check failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
