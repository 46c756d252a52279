package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

// ClassificationService liga o resolver de categoria ao gerador de resposta.
type ClassificationService struct {
	resolver  ports.CategoryResolver
	responder ports.Responder
}

var _ ports.Classifier = (*ClassificationService)(nil)

// NewClassificationService aceita resolver nil: nesse caso os modelos não
// foram carregados e toda chamada devolve domain.ErrModelUnavailable.
func NewClassificationService(resolver ports.CategoryResolver, responder ports.Responder) *ClassificationService {
	if responder == nil {
		responder = TemplateResponder{}
	}
	return &ClassificationService{resolver: resolver, responder: responder}
}

// Ready informa se há um resolver configurado.
func (s *ClassificationService) Ready() bool { return s.resolver != nil }

func (s *ClassificationService) Classify(ctx context.Context, text string) (domain.Result, error) {
	if s.resolver == nil {
		return domain.Result{}, domain.ErrModelUnavailable
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Result{}, domain.ErrEmptyContent
	}

	resolution, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		return domain.Result{}, fmt.Errorf("resolve category: %w", err)
	}
	if !resolution.Category.Valid() {
		resolution.Category = domain.CategoryUnclassified
	}

	reply, err := s.responder.Respond(ctx, resolution.Category)
	if err != nil {
		return domain.Result{}, fmt.Errorf("build reply: %w", err)
	}

	return domain.Result{
		Category:       resolution.Category,
		SuggestedReply: reply,
		Raw:            resolution.Raw,
	}, nil
}
