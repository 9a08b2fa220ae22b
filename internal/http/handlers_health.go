package http

import (
	"context"
	"fmt"
	"net/http"

	"finpocket/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.ledger.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			log.FieldError, err,
			log.FieldComponent, log.ComponentStorage)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics writes the server counters as "name value" lines.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rl := s.limiter.GetMetrics()
	sec := s.detector.GetMetrics()
	cs := s.reports.Stats()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range []struct {
		name  string
		value int64
	}{
		{"finpocket_http_requests_total", tm.TotalRequests},
		{"finpocket_http_client_errors_total", tm.ClientErrors},
		{"finpocket_http_server_errors_total", tm.ServerErrors},
		{"finpocket_http_response_time_avg_us", tm.AverageResponseTime},
		{"finpocket_ratelimit_allowed_total", rl.Allowed},
		{"finpocket_ratelimit_rejected_total", rl.Rejected},
		{"finpocket_ratelimit_clients", rl.ClientCount},
		{"finpocket_security_suspicious_total", sec.SuspiciousRequests},
		{"finpocket_security_blocked_total", sec.BlockedRequests},
		{"finpocket_report_cache_entries", int64(cs.Size)},
		{"finpocket_report_cache_hits_total", int64(cs.Hits)},
		{"finpocket_report_cache_misses_total", int64(cs.Misses)},
	} {
		fmt.Fprintf(w, "%s %d\n", m.name, m.value)
	}
}
