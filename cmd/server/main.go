package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/huggingface"
	httpMiddleware "github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/http/middleware"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/http/router"
	memorystorage "github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/storage/memory"
	redisstorage "github.com/MatheusdePaulo/AutoAI-email-classifier/internal/adapters/storage/redis"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/config"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/services"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.Server.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeFn, err := initStorage(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer closeFn()

	limiter, err := services.NewRateLimiterService(storage, services.Config{
		Rule:      cfg.RateLimiter.Rule,
		KeyPrefix: cfg.Storage.Redis.KeyPrefix,
	})
	if err != nil {
		logger.Fatalf("failed to create limiter: %v", err)
	}

	// Sem modelo o servidor sobe mesmo assim e responde 500 em /classificar.
	resolver, responder, err := initModels(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("ai models not loaded")
	}
	classifier := services.NewClassificationService(resolver, responder)

	r := router.New(router.Deps{
		Limiter:    limiter,
		ClientID:   httpMiddleware.ClientIDFor(cfg.Server.ClientIPSource),
		Classifier: classifier,
		Readiness:  classifier,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	logger.WithFields(log.Fields{
		"addr":             srv.Addr,
		"storage":          cfg.Storage.Type,
		"rate_limit":       cfg.RateLimiter.Rule.Requests,
		"window":           cfg.RateLimiter.Rule.Window.String(),
		"client_ip_source": cfg.Server.ClientIPSource,
		"policy":           cfg.Classifier.Policy,
		"responses":        cfg.Classifier.ResponseStrategy,
		"models_loaded":    classifier.Ready(),
	}).Info("server listening")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func initStorage(ctx context.Context, cfg config.StorageConfig, logger log.FieldLogger) (ports.WindowStorage, func(), error) {
	switch cfg.Type {
	case config.StorageMemory:
		storage := memorystorage.New(memorystorage.WithCleanupEvery(cfg.CleanupEvery))
		storage.StartJanitor(ctx)
		return storage, func() {}, nil
	case config.StorageRedis:
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		storage, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				logger.Errorf("failed to close redis storage: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func initModels(ctx context.Context, cfg config.Config) (ports.CategoryResolver, ports.Responder, error) {
	client, err := huggingface.New(huggingface.Config{
		BaseURL:         cfg.Model.BaseURL,
		Token:           cfg.Model.Token,
		ClassifierModel: cfg.Model.ClassifierModel,
		GeneratorModel:  cfg.Model.GeneratorModel,
		Timeout:         cfg.Model.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.Model.Warmup {
		warmCtx, cancel := context.WithTimeout(ctx, cfg.Model.Timeout)
		defer cancel()
		if err := client.Warmup(warmCtx); err != nil {
			return nil, nil, fmt.Errorf("warmup %s: %w", cfg.Model.ClassifierModel, err)
		}
	}

	var resolver ports.CategoryResolver
	switch cfg.Classifier.Policy {
	case config.PolicyKeyword:
		resolver, err = services.NewKeywordResolver(client)
	default:
		resolver, err = services.NewScoreResolver(client, services.DefaultLabelMappings, cfg.Classifier.ConfidenceThreshold)
	}
	if err != nil {
		return nil, nil, err
	}

	var responder ports.Responder = services.TemplateResponder{}
	if cfg.Classifier.ResponseStrategy == config.ResponseGenerate {
		responder, err = services.NewGenerativeResponder(client, services.DefaultGenerationParams)
		if err != nil {
			return nil, nil, err
		}
	}

	return resolver, responder, nil
}
