package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

// Config agrega a regra utilizada pelo serviço de rate limiting.
type Config struct {
	Rule      domain.RateLimitRule
	KeyPrefix string
}

// RateLimiterService implementa a janela deslizante de requisições por cliente.
type RateLimiterService struct {
	storage ports.WindowStorage
	config  Config
	now     func() time.Time
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

type LimiterOption func(*RateLimiterService)

// WithClock substitui o relógio usado para carimbar as requisições.
func WithClock(now func() time.Time) LimiterOption {
	return func(s *RateLimiterService) { s.now = now }
}

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.WindowStorage, cfg Config, opts ...LimiterOption) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Rule.Requests <= 0 || cfg.Rule.Window <= 0 {
		return nil, fmt.Errorf("rate limit rule must have positive values")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}

	s := &RateLimiterService{storage: storage, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Rule devolve a regra configurada.
func (s *RateLimiterService) Rule() domain.RateLimitRule { return s.config.Rule }

// Allow avalia se o cliente ainda tem espaço na janela. Requisições
// rejeitadas não são registradas.
func (s *RateLimiterService) Allow(ctx context.Context, clientID string) (domain.Decision, error) {
	identifier := strings.ToLower(strings.TrimSpace(clientID))
	if identifier == "" {
		return domain.Decision{}, fmt.Errorf("client identifier is required")
	}

	rule := s.config.Rule
	now := s.now()

	state, err := s.storage.Record(ctx, s.config.KeyPrefix+":"+identifier, now, rule.Window, rule.Requests)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("record request for %s: %w", identifier, err)
	}

	decision := domain.Decision{
		Allowed:    state.Recorded,
		Identifier: identifier,
		Count:      state.Count,
		Limit:      rule.Requests,
	}
	if state.Recorded {
		return decision, nil
	}

	decision.RetryAfter = rule.Window
	if !state.Oldest.IsZero() {
		if wait := state.Oldest.Add(rule.Window).Sub(now); wait > 0 {
			decision.RetryAfter = wait
		}
	}
	return decision, domain.ErrRateLimited
}
