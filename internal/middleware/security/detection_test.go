package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name   string
		target string
		agent  string
		want   bool
	}{
		{"clean request", "/transactions?year=2025&month=3", "Mozilla/5.0", false},
		{"path traversal", "/files/../../etc/passwd", "Mozilla/5.0", true},
		{"env file scan", "/.env", "Mozilla/5.0", true},
		{"sql injection in query", "/transactions?id=1%20union%20select", "Mozilla/5.0", true},
		{"scanner user agent", "/transactions", "sqlmap/1.7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			req.Header.Set("User-Agent", tt.agent)
			if got := d.DetectSuspiciousRequest(req); got != tt.want {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := d.SuspiciousSeen(); got != 4 {
		t.Errorf("SuspiciousSeen() = %d, want 4", got)
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	t.Run("direct connection", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:4455"
		if got := d.ExtractClientIP(req); got != "203.0.113.7" {
			t.Errorf("ExtractClientIP() = %q, want 203.0.113.7", got)
		}
	})

	t.Run("forwarded header honored from trusted proxy", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.5:4455"
		req.Header.Set("X-Forwarded-For", "198.51.100.3, 10.0.0.5")
		if got := d.ExtractClientIP(req); got != "198.51.100.3" {
			t.Errorf("ExtractClientIP() = %q, want 198.51.100.3", got)
		}
	})

	t.Run("forwarded header ignored from untrusted source", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:4455"
		req.Header.Set("X-Forwarded-For", "198.51.100.3")
		if got := d.ExtractClientIP(req); got != "203.0.113.7" {
			t.Errorf("ExtractClientIP() = %q, want 203.0.113.7", got)
		}
	})
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig())
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("expected a Content-Security-Policy header")
	}
	// HSTS is only for TLS connections.
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("unexpected HSTS header on plain HTTP: %q", got)
	}
}
