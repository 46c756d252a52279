package ports

import (
	"context"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
)

// CategoryResolver decide a categoria de um e-mail.
type CategoryResolver interface {
	Resolve(ctx context.Context, text string) (domain.Resolution, error)
}

// Responder escolhe a resposta sugerida para uma categoria.
type Responder interface {
	Respond(ctx context.Context, category domain.Category) (string, error)
}

// Classifier é o caso de uso completo consumido pela camada HTTP.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.Result, error)
}
