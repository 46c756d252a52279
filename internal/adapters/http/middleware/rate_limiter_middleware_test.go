package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/storage/memory"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/services"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(&bytes.Buffer{})
	return l
}

func newLimiter(t *testing.T, requests int) *services.RateLimiterService {
	t.Helper()
	limiter, err := services.NewRateLimiterService(memory.New(memory.WithCleanupEvery(0)), services.Config{
		Rule: domain.RateLimitRule{Requests: requests, Window: time.Minute},
	})
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}
	return limiter
}

func TestRateLimiterMiddleware_SixthRequestIsRejected(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	h := NewRateLimiterMiddleware(newLimiter(t, 5), RemoteAddr, quietLogger())(next)

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "/classificar", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/classificar", nil)
	r.RemoteAddr = "10.0.0.1:4321"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["error"] != rateLimitExceededMessage {
		t.Fatalf("unexpected error message %q", body["error"])
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected X-RateLimit-Remaining=0, got %q", got)
	}
	if calls != 5 {
		t.Fatalf("expected next handler to be called 5 times, got %d", calls)
	}
}

func TestRateLimiterMiddleware_ForwardedClientsAreIndependent(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := NewRateLimiterMiddleware(newLimiter(t, 1), Forwarded, quietLogger())(next)

	for _, xff := range []string{"203.0.113.1", "203.0.113.2, 10.0.0.1"} {
		r := httptest.NewRequest(http.MethodPost, "/classificar", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", xff, w.Code)
		}
	}
}

func TestRateLimiterMiddleware_StorageFailureIs500(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not be called")
	})
	h := NewRateLimiterMiddleware(failingLimiter{}, RemoteAddr, quietLogger())(next)

	r := httptest.NewRequest(http.MethodPost, "/classificar", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRateLimiterMiddleware_NilLimiterPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := NewRateLimiterMiddleware(nil, nil, nil)(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (domain.Decision, error) {
	return domain.Decision{}, errors.New("redis down")
}
