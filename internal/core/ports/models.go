package ports

import (
	"context"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
)

// ZeroShotClassifier pontua um texto contra rótulos candidatos.
type ZeroShotClassifier interface {
	Classify(ctx context.Context, text string, labels []string, multiLabel bool) (domain.ClassificationResult, error)
}

// GenerationParams espelha os parâmetros aceitos por modelos de geração de texto.
type GenerationParams struct {
	MaxNewTokens int
	DoSample     bool
	Temperature  float64
}

// TextGenerator completa um prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
