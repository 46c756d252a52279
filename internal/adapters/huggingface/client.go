// Package huggingface disponibiliza clientes da Inference API da Hugging Face
// para classificação zero-shot e geração de texto.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/observability"
)

const (
	taskZeroShot   = "zero-shot-classification"
	taskGeneration = "text-generation"

	maxErrorBody = 512
)

type Config struct {
	BaseURL         string
	Token           string
	ClassifierModel string
	GeneratorModel  string
	Timeout         time.Duration
}

// Client conversa com a Inference API. Não há retentativas: cada operação é
// uma única chamada HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

var (
	_ ports.ZeroShotClassifier = (*Client)(nil)
	_ ports.TextGenerator      = (*Client)(nil)
)

func New(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid inference api url %q: %w", cfg.BaseURL, err)
	}
	if strings.TrimSpace(cfg.ClassifierModel) == "" {
		return nil, fmt.Errorf("classifier model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}, nil
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Client) Classify(ctx context.Context, text string, labels []string, multiLabel bool) (domain.ClassificationResult, error) {
	body := zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels, MultiLabel: multiLabel},
	}

	raw, err := c.post(ctx, taskZeroShot, c.cfg.ClassifierModel, body)
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return decodeZeroShot(raw, text)
}

// decodeZeroShot aceita os dois formatos devolvidos pela API: o objeto
// {sequence, labels, scores} e a lista [{label, score}].
func decodeZeroShot(raw []byte, text string) (domain.ClassificationResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var pairs []labelScore
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return domain.ClassificationResult{}, fmt.Errorf("decode zero-shot response: %w", err)
		}
		res := domain.ClassificationResult{Sequence: text}
		for _, p := range pairs {
			res.Labels = append(res.Labels, p.Label)
			res.Scores = append(res.Scores, p.Score)
		}
		return res, nil
	}

	var res domain.ClassificationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("decode zero-shot response: %w", err)
	}
	if len(res.Labels) != len(res.Scores) {
		return domain.ClassificationResult{}, fmt.Errorf("zero-shot response has %d labels and %d scores", len(res.Labels), len(res.Scores))
	}
	if res.Sequence == "" {
		res.Sequence = text
	}
	return res, nil
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	DoSample     bool    `json:"do_sample"`
	Temperature  float64 `json:"temperature,omitempty"`
}

func (c *Client) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	if strings.TrimSpace(c.cfg.GeneratorModel) == "" {
		return "", fmt.Errorf("generator model is not configured")
	}

	body := generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens: params.MaxNewTokens,
			DoSample:     params.DoSample,
			Temperature:  params.Temperature,
		},
	}

	raw, err := c.post(ctx, taskGeneration, c.cfg.GeneratorModel, body)
	if err != nil {
		return "", err
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode text-generation response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("text-generation response is empty")
	}
	return out[0].GeneratedText, nil
}

// Warmup faz uma classificação curta para confirmar que o modelo responde.
func (c *Client) Warmup(ctx context.Context) error {
	_, err := c.Classify(ctx, "teste", []string{"teste"}, false)
	return err
}

func (c *Client) post(ctx context.Context, task, model string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", task, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/"+model, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", task, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.ModelRequestDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ModelRequestsTotal.WithLabelValues(task, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", task, err)
	}
	defer func() { _ = resp.Body.Close() }()

	observability.ModelRequestsTotal.WithLabelValues(task, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Task: task, StatusCode: resp.StatusCode, Message: apiErrorMessage(snippet)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", task, err)
	}
	return raw, nil
}

// APIError representa uma resposta não-2xx da Inference API.
type APIError struct {
	Task       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Task, e.StatusCode, e.Message)
}

func apiErrorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
