// Package router monta as rotas HTTP da aplicação.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	httpHandlers "github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/http/handlers"
	httpMiddleware "github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/http/middleware"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

// Deps agrupa as dependências construídas na inicialização do processo.
type Deps struct {
	Limiter    ports.RateLimiter
	ClientID   httpMiddleware.ClientIDFunc
	Classifier ports.Classifier
	Readiness  httpHandlers.Readiness
	Logger     log.FieldLogger
}

func New(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(httpMiddleware.NewRequestLogger(d.Logger))

	r.Get("/healthz", httpHandlers.HealthHandler(d.Readiness))
	r.Handle("/metrics", promhttp.Handler())

	// o limite vale apenas para a classificação
	r.With(httpMiddleware.NewRateLimiterMiddleware(d.Limiter, d.ClientID, d.Logger)).
		Method(http.MethodPost, "/classificar", httpHandlers.NewClassifyHandler(d.Classifier, d.Logger))

	r.Handle("/*", httpHandlers.StaticHandler())
	return r
}
