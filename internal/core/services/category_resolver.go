package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

// LabelMapping associa um rótulo candidato do modelo a uma categoria.
// A ordem é a ordem enviada ao modelo.
type LabelMapping struct {
	Label    string
	Category domain.Category
}

// DefaultLabelMappings são os rótulos usados pela política de pontuação.
var DefaultLabelMappings = []LabelMapping{
	{Label: "solicitação de ação", Category: domain.CategoryProductive},
	{Label: "atualização de status", Category: domain.CategoryProductive},
	{Label: "problema técnico", Category: domain.CategoryProductive},
	{Label: "informação geral", Category: domain.CategoryUnproductive},
	{Label: "agradecimento", Category: domain.CategoryUnproductive},
	{Label: "cumprimento", Category: domain.CategoryUnproductive},
}

// DefaultBinaryMappings são os dois rótulos usados quando nenhuma palavra-chave casa.
var DefaultBinaryMappings = []LabelMapping{
	{Label: "requer ação", Category: domain.CategoryProductive},
	{Label: "não requer ação", Category: domain.CategoryUnproductive},
}

const DefaultConfidenceThreshold = 0.4

// Palavras-chave avaliadas na ordem; a primeira que casar decide.
var (
	DefaultNoActionKeywords = []string{
		"obrigado", "obrigada", "agradeço", "agradecemos", "parabéns",
		"feliz natal", "feliz ano novo", "bom final de semana", "ótimo final de semana",
		"excelente final de semana", "felicidades",
	}
	DefaultActionKeywords = []string{
		"preciso", "solicito", "solicitação", "urgente", "suporte", "problema",
		"erro", "não funciona", "não está funcionando", "ajuda", "status",
		"atualização", "prazo", "favor", "pendente",
	}
)

// ResolveScores aplica a política de pontuação sobre um resultado zero-shot.
// Rótulos fora de mappings são ignorados; um rótulo só assume a liderança com
// pontuação estritamente maior que a atual. Abaixo do threshold o resultado é
// CategoryUnclassified.
func ResolveScores(result domain.ClassificationResult, mappings []LabelMapping, threshold float64) domain.Category {
	index := make(map[string]domain.Category, len(mappings))
	for _, m := range mappings {
		index[m.Label] = m.Category
	}

	category := domain.CategoryUnclassified
	maxScore := 0.0
	result.Pairs(func(label string, score float64) {
		mapped, ok := index[label]
		if ok && score > maxScore {
			maxScore = score
			category = mapped
		}
	})

	if maxScore < threshold {
		return domain.CategoryUnclassified
	}
	return category
}

// MatchKeywords procura, no texto em minúsculas, primeiro as palavras de
// "sem ação" e depois as de "ação".
func MatchKeywords(text string, noAction, action []string) (domain.Category, bool) {
	lowered := strings.ToLower(text)
	for _, kw := range noAction {
		if strings.Contains(lowered, kw) {
			return domain.CategoryUnproductive, true
		}
	}
	for _, kw := range action {
		if strings.Contains(lowered, kw) {
			return domain.CategoryProductive, true
		}
	}
	return "", false
}

func labelsOf(mappings []LabelMapping) []string {
	labels := make([]string, len(mappings))
	for i, m := range mappings {
		labels[i] = m.Label
	}
	return labels
}

// ScoreResolver classifica com múltiplos rótulos e escolhe pela maior pontuação.
type ScoreResolver struct {
	classifier ports.ZeroShotClassifier
	mappings   []LabelMapping
	threshold  float64
}

var _ ports.CategoryResolver = (*ScoreResolver)(nil)

func NewScoreResolver(classifier ports.ZeroShotClassifier, mappings []LabelMapping, threshold float64) (*ScoreResolver, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if len(mappings) == 0 {
		mappings = DefaultLabelMappings
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("confidence threshold must be within [0, 1]")
	}
	return &ScoreResolver{classifier: classifier, mappings: mappings, threshold: threshold}, nil
}

func (r *ScoreResolver) Resolve(ctx context.Context, text string) (domain.Resolution, error) {
	result, err := r.classifier.Classify(ctx, text, labelsOf(r.mappings), true)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("%w: %w", domain.ErrExternalModel, err)
	}
	return domain.Resolution{
		Category: ResolveScores(result, r.mappings, r.threshold),
		Raw:      &result,
	}, nil
}

// KeywordResolver decide por palavras-chave e só consulta o modelo quando
// nenhuma delas aparece no texto.
type KeywordResolver struct {
	classifier ports.ZeroShotClassifier
	noAction   []string
	action     []string
	binary     []LabelMapping
}

var _ ports.CategoryResolver = (*KeywordResolver)(nil)

type KeywordOption func(*KeywordResolver)

func WithKeywords(noAction, action []string) KeywordOption {
	return func(r *KeywordResolver) {
		r.noAction = lowerAll(noAction)
		r.action = lowerAll(action)
	}
}

func NewKeywordResolver(classifier ports.ZeroShotClassifier, opts ...KeywordOption) (*KeywordResolver, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	r := &KeywordResolver{
		classifier: classifier,
		noAction:   DefaultNoActionKeywords,
		action:     DefaultActionKeywords,
		binary:     DefaultBinaryMappings,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *KeywordResolver) Resolve(ctx context.Context, text string) (domain.Resolution, error) {
	if category, ok := MatchKeywords(text, r.noAction, r.action); ok {
		return domain.Resolution{Category: category}, nil
	}

	result, err := r.classifier.Classify(ctx, text, labelsOf(r.binary), false)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("%w: %w", domain.ErrExternalModel, err)
	}
	// sem threshold: o rótulo de maior pontuação decide
	return domain.Resolution{
		Category: ResolveScores(result, r.binary, 0),
		Raw:      &result,
	}, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
