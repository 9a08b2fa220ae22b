package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finpocket/internal/log"
)

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if !strings.HasPrefix(a, "req_") || len(a) != 20 {
		t.Fatalf("unexpected id %q", a)
	}
	if a == b {
		t.Fatal("ids should be unique")
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	m := NewMiddleware(func(*http.Request) string { return "203.0.113.9" }, log.New(log.Config{Output: &buf}))

	var seenID string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if seenID == "" || rec.Header().Get(HeaderRequestID) != seenID {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seenID, rec.Header().Get(HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(HeaderRequestID, "client-abc_1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seenID != "client-abc_1" {
		t.Fatalf("incoming request id should be reused, got %q", seenID)
	}

	req = httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "bad id with spaces")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.HasPrefix(seenID, "req_") {
		t.Fatalf("malformed incoming id should be replaced, got %q", seenID)
	}

	got := m.GetMetrics()
	if got.TotalRequests != 3 || got.ClientErrors != 1 || got.ServerErrors != 1 {
		t.Fatalf("unexpected metrics %+v", got)
	}
	out := buf.String()
	if !strings.Contains(out, "client_ip=203.0.113.9") || !strings.Contains(out, "status_code=404") {
		t.Fatalf("unexpected log output:\n%s", out)
	}
}
