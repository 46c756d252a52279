package ports

import (
	"context"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
)

type RateLimiter interface {
	Allow(ctx context.Context, clientID string) (domain.Decision, error)
}
