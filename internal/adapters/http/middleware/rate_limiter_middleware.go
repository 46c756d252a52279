// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/observability"
)

const rateLimitExceededMessage = "Muitas requisições. Tente novamente em 1 minuto."

func NewRateLimiterMiddleware(limiter ports.RateLimiter, clientID ClientIDFunc, logger log.FieldLogger) func(http.Handler) http.Handler {
	if clientID == nil {
		clientID = RemoteAddr
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			id := clientID(r)

			decision, err := limiter.Allow(r.Context(), id)
			if err != nil {
				if domain.IsRateLimitedError(err) {
					observability.RateLimitDecisionsTotal.WithLabelValues("rejected").Inc()
					logger.WithFields(log.Fields{"client": decision.Identifier, "count": decision.Count}).Info("rate limit exceeded")
					setRateLimitHeaders(w, decision)
					writeTooManyRequests(w, decision)
					return
				}

				observability.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
				logger.WithError(err).WithField("client", id).Error("rate limiter failed")
				writeJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}

			observability.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
			setRateLimitHeaders(w, decision)
			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, d domain.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining()))
}

func writeTooManyRequests(w http.ResponseWriter, d domain.Decision) {
	if d.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
	}
	writeJSONError(w, http.StatusTooManyRequests, rateLimitExceededMessage)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
