// Package handlers agrupa os handlers HTTP da aplicação.
package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/ports"
	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/observability"
)

const (
	maxBodyBytes = 1 << 20

	msgEmptyContent     = "Conteúdo do email não fornecido."
	msgModelUnavailable = "Modelos de IA não carregados."
	msgExternalModel    = "Falha ao consultar o modelo de IA."
	msgInternal         = "Erro interno ao processar o email."
)

type classifyRequest struct {
	EmailContent string `json:"email_content"`
}

type classifyResponse struct {
	Category          string                       `json:"categoria"`
	SuggestedReply    string                       `json:"resposta_sugerida"`
	ReceivedEmail     string                       `json:"email_recebido"`
	RawClassification *domain.ClassificationResult `json:"raw_classification,omitempty"`
}

// ClassifyHandler atende POST /classificar.
type ClassifyHandler struct {
	classifier ports.Classifier
	logger     log.FieldLogger
}

func NewClassifyHandler(classifier ports.Classifier, logger log.FieldLogger) *ClassifyHandler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ClassifyHandler{classifier: classifier, logger: logger}
}

func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.classifier == nil {
		writeError(w, http.StatusInternalServerError, msgModelUnavailable)
		return
	}

	content := readEmailContent(w, r)

	result, err := h.classifier.Classify(r.Context(), content)
	if err != nil {
		status, message := statusFor(err)
		entry := h.logger.WithError(err).WithField("status", status)
		if status >= http.StatusInternalServerError {
			entry.Error("classification failed")
		} else {
			entry.Debug("classification rejected")
		}
		writeError(w, status, message)
		return
	}

	observability.ClassificationsTotal.WithLabelValues(result.Category.String()).Inc()

	writeJSON(w, http.StatusOK, classifyResponse{
		Category:          result.Category.String(),
		SuggestedReply:    result.SuggestedReply,
		ReceivedEmail:     strings.TrimSpace(content),
		RawClassification: result.Raw,
	})
}

// readEmailContent aceita JSON e, como alternativa, formulário. Corpo
// inválido resulta em conteúdo vazio.
func readEmailContent(w http.ResponseWriter, r *http.Request) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return r.FormValue("email_content")
	default:
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ""
		}
		return req.EmailContent
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyContent):
		return http.StatusBadRequest, msgEmptyContent
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusInternalServerError, msgModelUnavailable
	case errors.Is(err, domain.ErrExternalModel):
		return http.StatusBadGateway, msgExternalModel
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
