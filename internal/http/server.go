// Package http serves the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finpocket/internal/cache"
	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/log"
	"finpocket/internal/middleware/ratelimit"
	"finpocket/internal/middleware/security"
	"finpocket/internal/middleware/trace"
	"finpocket/internal/services"
)

// Ledger is what the handlers need from the service layer.
// *services.LedgerService satisfies it.
type Ledger interface {
	AddTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
	RemoveTransaction(ctx context.Context, id string) (bool, error)
	Transactions(ctx context.Context, period ledger.Period) ([]core.Transaction, error)
	Summary(ctx context.Context, period ledger.Period) (ledger.Totals, error)
	Breakdown(ctx context.Context, kind core.Kind, period ledger.Period) ([]ledger.CategoryShare, error)
	StatDetail(ctx context.Context, kind core.Kind, limit int) (ledger.StatDetail, error)
	AddGoal(ctx context.Context, d core.GoalDraft) (services.GoalView, error)
	Contribute(ctx context.Context, goalID string, amount core.Money) (services.GoalView, error)
	Goals(ctx context.Context) ([]services.GoalView, error)
	Goal(ctx context.Context, id string) (services.GoalView, error)
	MonthlyReport(ctx context.Context, year int, month time.Month) (ledger.MonthlyReport, error)
	Trend(ctx context.Context, months int) ([]ledger.MonthTotals, error)
	Categories(kind core.Kind) []core.Category
	Tips() []core.Tip
	Ping(ctx context.Context) error
}

// Options tunes a Server. Zero values fall back to the defaults below.
type Options struct {
	CurrencySymbol     string
	RateLimitPerMinute int
	CacheSize          int
	CacheTTL           time.Duration
	// StoreTimeout bounds each store read made while serving a request.
	StoreTimeout time.Duration
	// TrustedProxies are extra CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
	Logger         *log.Logger
}

const (
	defaultCacheSize    = 128
	defaultCacheTTL     = 5 * time.Minute
	defaultStoreTimeout = 7 * time.Second
	readyTimeout        = 2 * time.Second
)

type Server struct {
	http.Server
	ledger       Ledger
	render       renderer
	logger       *log.Logger
	storeTimeout time.Duration

	// Report responses, keyed by route and query. Cleared on every
	// mutation; the TTL bounds staleness for periods that roll over.
	// reportGen counts invalidations; a report computed across one is
	// never stored.
	reports   *cache.LRUCache[any]
	reportMu  sync.Mutex
	reportGen uint64
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, l Ledger, opts Options) *Server {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = core.DefaultCurrencySymbol
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		ledger:       l,
		render:       renderer{symbol: opts.CurrencySymbol},
		logger:       logger,
		storeTimeout: opts.StoreTimeout,
		reports:      cache.NewLRUCache[any](opts.CacheSize, opts.CacheTTL),
		caches:       cache.NewManager(opts.Logger),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		detector: security.NewDetector(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)
	s.caches.Register(s.reports)
	s.caches.StartCleanup(context.Background(), opts.CacheTTL)

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var h http.Handler = mux
	h = s.detector.Middleware(h)
	h = headers.Middleware(h)
	h = s.tracer.Middleware(h)
	h = log.Middleware(logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.rateLimited)
	mutation := func(h http.HandlerFunc) http.Handler { return limited(h) }

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/tips", s.handleTips)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.Handle("POST /api/transactions", mutation(s.handleCreateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", mutation(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/stats/{kind}", s.handleStatDetail)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.Handle("POST /api/goals", mutation(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.Handle("POST /api/goals/{id}/contributions", mutation(s.handleContribute))

	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/reports/trend", s.handleTrend)
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
}

// readContext bounds a store read made on behalf of r.
func (s *Server) readContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.storeTimeout)
}

// cached serves key from the report cache, computing and storing it on a
// miss. Failed computations are not cached, and neither are results that
// raced with a mutation.
func (s *Server) cached(key string, compute func() (any, error)) (any, error) {
	if v, ok := s.reports.Get(key); ok {
		return v, nil
	}
	s.reportMu.Lock()
	gen := s.reportGen
	s.reportMu.Unlock()

	v, err := compute()
	if err != nil {
		return nil, err
	}

	s.reportMu.Lock()
	if s.reportGen == gen {
		s.reports.Set(key, v)
	}
	s.reportMu.Unlock()
	return v, nil
}

// invalidate drops every cached report after a mutation.
func (s *Server) invalidate(ctx context.Context) {
	s.reportMu.Lock()
	s.reportGen++
	n := s.reports.Size()
	s.reports.Clear()
	s.reportMu.Unlock()

	if n > 0 {
		log.FromContext(ctx).WithComponent(log.ComponentCache).DebugContext(ctx, "Report cache cleared", "entries", n)
	}
}

// Shutdown stops background work and then the HTTP server. It is safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		s.limiter.Stop()
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
