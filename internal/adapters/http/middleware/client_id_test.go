package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteAddr_IgnoresForwardedHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.10")

	if got := RemoteAddr(r); got != "10.0.0.1" {
		t.Fatalf("expected peer address, got %q", got)
	}
}

func TestForwarded_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		want   string
	}{
		{"first forwarded entry", " 203.0.113.10 , 10.0.0.2", "198.51.100.1", "203.0.113.10"},
		{"real ip when no forwarded", "", "198.51.100.1", "198.51.100.1"},
		{"blank forwarded entry", " ,10.0.0.2", "198.51.100.1", "198.51.100.1"},
		{"peer address fallback", "", "", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "10.0.0.1:1234"
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := Forwarded(r); got != tt.want {
				t.Fatalf("Forwarded() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoteAddr_WithoutPort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.9"
	if got := RemoteAddr(r); got != "10.0.0.9" {
		t.Fatalf("expected raw address, got %q", got)
	}

	r.RemoteAddr = ""
	if got := RemoteAddr(r); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestClientIDFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.10")

	if got := ClientIDFor("forwarded")(r); got != "203.0.113.10" {
		t.Fatalf("expected forwarded address, got %q", got)
	}
	if got := ClientIDFor("remote")(r); got != "10.0.0.1" {
		t.Fatalf("expected peer address, got %q", got)
	}
}
