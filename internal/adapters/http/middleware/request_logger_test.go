package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&log.JSONFormatter{})

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	NewRequestLogger(logger)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id in context, got %q", seen)
	}
	if w.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected response header to echo request id")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["request_id"] != seen || entry["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestRequestLogger_ReusesIncomingID(t *testing.T) {
	logger := log.New()
	logger.SetOutput(&bytes.Buffer{})

	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(requestIDHeader, incoming)
	w := httptest.NewRecorder()

	NewRequestLogger(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, r)

	if got := w.Header().Get(requestIDHeader); got != incoming {
		t.Fatalf("expected incoming id %q, got %q", incoming, got)
	}
}
