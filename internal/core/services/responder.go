package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
)

var templates = map[domain.Category]string{
	domain.CategoryProductive: "Prezado(a),\n\n" +
		"Recebemos sua mensagem e já estamos verificando sua solicitação.\n" +
		"Retornaremos com uma atualização o mais breve possível.\n\n" +
		"Atenciosamente,\nEquipe de Atendimento",
	domain.CategoryUnproductive: "Prezado(a),\n\n" +
		"Agradecemos o contato e a gentileza da mensagem!\n" +
		"Ficamos à disposição sempre que precisar.\n\n" +
		"Atenciosamente,\nEquipe de Atendimento",
}

const fallbackTemplate = "Prezado(a),\n\n" +
	"Recebemos sua mensagem, mas não conseguimos identificar o assunto com segurança.\n" +
	"Um membro da equipe fará a leitura e responderá em breve.\n\n" +
	"Atenciosamente,\nEquipe de Atendimento"

// Template devolve o texto fixo da categoria, ou o texto de fallback.
func Template(category domain.Category) string {
	if t, ok := templates[category]; ok {
		return t
	}
	return fallbackTemplate
}

// TemplateResponder responde sempre com o mesmo texto para a mesma categoria.
type TemplateResponder struct{}

var _ ports.Responder = TemplateResponder{}

func (TemplateResponder) Respond(_ context.Context, category domain.Category) (string, error) {
	return Template(category), nil
}

var prompts = map[domain.Category]string{
	domain.CategoryProductive: "Escreva uma resposta profissional curta para um e-mail de trabalho que precisa de ação, " +
		"começando com 'Prezado(a), recebemos sua mensagem e estamos verificando'.",
}

const defaultPrompt = "Escreva uma resposta profissional curta e amigável para um e-mail de trabalho que não precisa de ação, " +
	"começando com 'Prezado(a), agradecemos o contato!'."

// Prompt devolve o prefixo enviado ao modelo de geração para a categoria.
func Prompt(category domain.Category) string {
	if p, ok := prompts[category]; ok {
		return p
	}
	return defaultPrompt
}

var firstSentence = regexp.MustCompile(`(?s)^.*?[.!?]`)

// ExtractReply remove o prompt ecoado pelo modelo e fica com a primeira
// frase completa. Devolve "" quando não há frase terminada.
func ExtractReply(prompt, generated string) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(generated), prompt))
	sentence := firstSentence.FindString(text)
	return strings.TrimSpace(sentence)
}

// GenerativeResponder pede a resposta a um modelo de geração de texto. A saída
// não é determinística; quando ela não rende uma frase completa o texto fixo
// da categoria é usado.
type GenerativeResponder struct {
	generator ports.TextGenerator
	params    ports.GenerationParams
}

var _ ports.Responder = (*GenerativeResponder)(nil)

var DefaultGenerationParams = ports.GenerationParams{
	MaxNewTokens: 40,
	DoSample:     true,
	Temperature:  0.7,
}

func NewGenerativeResponder(generator ports.TextGenerator, params ports.GenerationParams) (*GenerativeResponder, error) {
	if generator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if params.MaxNewTokens <= 0 {
		params = DefaultGenerationParams
	}
	return &GenerativeResponder{generator: generator, params: params}, nil
}

func (g *GenerativeResponder) Respond(ctx context.Context, category domain.Category) (string, error) {
	prompt := Prompt(category)
	generated, err := g.generator.Generate(ctx, prompt, g.params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExternalModel, err)
	}
	if reply := ExtractReply(prompt, generated); reply != "" {
		return reply, nil
	}
	return Template(category), nil
}
