// Package feedback traduce errores de los flujos a avisos para el usuario.
package feedback

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jhoicas/stylashop-pos/internal/domain"
)

// Severity nivel del aviso.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice aviso para mostrar. Detail es el error completo, solo para la
// sección de detalles técnicos.
type Notice struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
}

const genericFailure = "No se pudo completar la operación. Intente nuevamente."

// FromError clasifica err. nil devuelve un Notice vacío.
func FromError(err error) Notice {
	if err == nil {
		return Notice{}
	}
	n := classify(err)
	n.Detail = err.Error()
	return n
}

func classify(err error) Notice {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return Notice{SeverityError, "Credenciales inválidas", "Usuario o contraseña inválidos", ""}
	case errors.Is(err, domain.ErrAccountForbidden):
		return Notice{SeverityError, "Acceso denegado", "Usuario no autorizado", ""}
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrUnauthorized):
		return Notice{SeverityWarning, "Sesión finalizada", "Su sesión expiró o no es válida. Inicie sesión nuevamente.", ""}
	case errors.Is(err, domain.ErrCancelled):
		return Notice{SeverityInfo, "Operación cancelada", "No se realizó ningún cambio.", ""}
	case errors.Is(err, domain.ErrBusy):
		return Notice{SeverityInfo, "Operación en curso", "Espere a que termine la operación anterior.", ""}
	case errors.Is(err, domain.ErrPartialCollection):
		return Notice{SeverityWarning, "Cobro incompleto",
			"El cobro quedó a medias y la venta sigue sin marcarse como pagada. " +
				"Se completará al volver a cobrarla o al reiniciar la caja.", ""}
	case errors.Is(err, domain.ErrInsufficientAmount):
		return Notice{SeverityWarning, "Monto insuficiente", reason(err, domain.ErrInsufficientAmount), ""}
	case errors.Is(err, domain.ErrValidation):
		return Notice{SeverityWarning, "Datos incompletos", serverOr(err, reason(err, domain.ErrValidation)), ""}
	case errors.Is(err, domain.ErrConflict):
		return Notice{SeverityWarning, "Conflicto", serverOr(err, "El registro entra en conflicto con el estado actual."), ""}
	case errors.Is(err, domain.ErrForbidden):
		return Notice{SeverityWarning, "Sin permiso", serverOr(err, "No tiene permiso para esta operación."), ""}
	case errors.Is(err, domain.ErrNotFound):
		return Notice{SeverityWarning, "No encontrado", serverOr(err, "El recurso solicitado no existe."), ""}
	}
	return Notice{SeverityError, "Error", serverOr(err, genericFailure), ""}
}

// serverOr mensaje del backend tal cual o el alternativo.
func serverOr(err error, fallback string) string {
	if msg, ok := domain.ServerMessage(err); ok {
		return msg
	}
	return fallback
}

// reason texto que acompaña al sentinel ("sentinel: motivo" → "Motivo").
func reason(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	return capitalize(msg)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
