package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"finflow/internal/bank"
	"finflow/internal/cache"
	"finflow/internal/core"
	applog "finflow/internal/log"
	"finflow/internal/middleware/ratelimit"
	"finflow/internal/middleware/security"
	"finflow/internal/middleware/trace"
	"finflow/internal/records"
	"finflow/internal/services"
)

// storeTimeout bounds every store call made from a handler so a slow
// backend cannot hang a request indefinitely.
const storeTimeout = 7 * time.Second

// Server is the JSON API server. It owns the HTTP middleware chain,
// the month-overview cache, and their cleanup goroutines.
type Server struct {
	http.Server

	store        records.Store
	importer     *services.ImportService
	reports      *services.ReportService
	bills        *services.BillService
	institutions bank.InstitutionLister

	detector *security.Detector
	limiter  *ratelimit.Limiter

	overviewCache *cache.LRUCache[core.MonthOverview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(
	addr string,
	store records.Store,
	importer *services.ImportService,
	reports *services.ReportService,
	bills *services.BillService,
	institutions bank.InstitutionLister,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:        store,
		importer:     importer,
		reports:      reports,
		bills:        bills,
		institutions: institutions,

		detector: security.NewDetector(),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),

		overviewCache: cache.NewLRUCache[core.MonthOverview](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /institutions", s.handleListInstitutions)
	mux.HandleFunc("GET /accounts", s.handleListAccounts)
	mux.HandleFunc("POST /accounts/link", s.handleLinkAccount)
	mux.HandleFunc("POST /accounts/sync", s.handleSyncAll)
	mux.HandleFunc("POST /accounts/{id}/sync", s.handleSyncAccount)
	mux.HandleFunc("DELETE /accounts/{id}", s.handleDisconnectAccount)

	mux.HandleFunc("GET /budgets", s.handleListBudgets)
	mux.HandleFunc("POST /budgets", s.handleCreateBudget)
	mux.HandleFunc("PUT /budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /bills", s.handleListBills)
	mux.HandleFunc("POST /bills", s.handleCreateBill)
	mux.HandleFunc("PUT /bills/{id}", s.handleUpdateBill)
	mux.HandleFunc("POST /bills/{id}/paid", s.handleMarkBillPaid)
	mux.HandleFunc("DELETE /bills/{id}", s.handleDeleteBill)

	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("PUT /goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.handleDeleteGoal)

	// The literal /reports/month pattern wins over /reports/{id}.
	mux.HandleFunc("GET /reports/month", s.handleMonthOverview)
	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("POST /reports", s.handleCreateReport)
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("PUT /reports/{id}", s.handleUpdateReport)
	mux.HandleFunc("DELETE /reports/{id}", s.handleDeleteReport)
	mux.HandleFunc("POST /reports/{id}/run", s.handleRunReport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	traced := trace.NewMiddleware(s.detector.ExtractClientIP)

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentHTTP
	requestLogger := applog.New(logCfg)

	// Trace must run before the logger middlewares so the request ID
	// is already in the context when the logger picks it up.
	handler := s.flagSuspicious(s.limitMutations(mux))
	handler = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = applog.Middleware(requestLogger)(handler)
	handler = headers.Middleware(traced.Middleware(handler))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// flagSuspicious logs scanner-shaped requests. It never blocks: a
// false positive on a legitimate client would be worse than the noise.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request pattern",
				applog.FieldClientIP, s.detector.ExtractClientIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// limitMutations rate limits state-changing requests per client IP.
// Reads stay unthrottled.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.store.ListAccounts(ctx); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Readiness check failed", applog.FieldError, err)
		writeError(w, http.StatusServiceUnavailable, "store not reachable")
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) overviewCacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidateOverview(year, month int) {
	s.overviewCache.Delete(s.overviewCacheKey(year, month))
}

// invalidateAllOverviews drops the whole overview cache. Sync runs can
// touch any number of months, so targeted invalidation is not possible.
func (s *Server) invalidateAllOverviews() {
	s.overviewCache.Purge()
}
