package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/stylashop-pos/internal/domain"
)

// maxPlainMessage largo máximo de un cuerpo de texto plano usado como mensaje.
const maxPlainMessage = 300

// APIError respuesta no 2xx del backend. Message es el texto que envió el
// servidor (vacío si no envió ninguno); se muestra tal cual al usuario.
type APIError struct {
	Status  int
	Message string
	Body    []byte
	kind    error
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: extractMessage(body),
		Body:    body,
		kind:    kindFor(status),
	}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend HTTP %d", e.Status)
}

// Unwrap expone el error de dominio de la clase del status, para errors.Is.
func (e *APIError) Unwrap() error { return e.kind }

func kindFor(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrServer
	}
}

// extractMessage toma el mensaje del cuerpo en este orden: string JSON,
// campo message, campo error, texto plano corto.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		for _, k := range []string{"message", "error"} {
			if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	if strings.HasPrefix(trimmed, "<") || !utf8.ValidString(trimmed) || len(trimmed) > maxPlainMessage {
		return ""
	}
	return trimmed
}

// UserMessage texto del backend para mostrar al usuario.
func (e *APIError) UserMessage() string { return e.Message }
