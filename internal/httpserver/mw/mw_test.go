package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jankclient/directory/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{"status.example", "status.example", true},
		{"a.status.example", "*.status.example", true},
		{"status.example", "*.status.example", false},
		{"evil.example", "status.example", false},
		{"Status.Example", "status.example", true},
		{"a.status.example", "*.STATUS.example", true},
		{"badstatus.example", "*.status.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.host+"/"+tt.pattern, func(t *testing.T) {
			if got := matchHost(tt.host, tt.pattern); got != tt.want {
				t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"status.example"}, logger.Nop())(okHandler)

	req := httptest.NewRequest(http.MethodPost, "http://status.example/check", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed host got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "http://status.example:8080/check", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed host with port got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "http://other.example/check", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign host got %d", rec.Code)
	}
}

func TestAllowCIDRs(t *testing.T) {
	h := AllowCIDRs([]string{"10.0.0.0/8"}, true, logger.Nop())(okHandler)

	tests := []struct {
		name   string
		remote string
		xff    string
		want   int
	}{
		{name: "inside range", remote: "10.1.2.3:1000", want: http.StatusOK},
		{name: "outside range", remote: "192.0.2.1:1000", want: http.StatusForbidden},
		{name: "forwarded inside", remote: "192.0.2.1:1000", xff: "10.9.9.9, 192.0.2.1", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/infra", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/uptime", nil)
	req.Header.Set("Origin", "https://client.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("simple request got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestRateLimitPerClient(t *testing.T) {
	h := RateLimit(RateLimitConfig{Requests: 1, Window: time.Minute})(okHandler)

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/uptime", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("192.0.2.1:1"); code != http.StatusOK {
		t.Errorf("first request got %d", code)
	}
	if code := send("192.0.2.1:2"); code != http.StatusTooManyRequests {
		t.Errorf("second request got %d", code)
	}
	if code := send("192.0.2.2:1"); code != http.StatusOK {
		t.Errorf("other client got %d", code)
	}
}
