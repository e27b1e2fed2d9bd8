package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrValidation   = errors.New("datos incompletos o inválidos")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrServer       = errors.New("error del servidor")

	// Sesión y credenciales.
	ErrInvalidToken       = errors.New("token inválido")
	ErrTokenExpired       = errors.New("token expirado")
	ErrNoSession          = errors.New("no hay sesión activa")
	ErrInvalidCredentials = errors.New("usuario o contraseña inválidos")
	ErrAccountForbidden   = errors.New("usuario no autorizado")

	// Flujos de venta y caja.
	ErrBusy               = errors.New("ya hay una operación en curso")
	ErrCancelled          = errors.New("operación cancelada por el usuario")
	ErrInsufficientAmount = errors.New("monto recibido insuficiente")
	ErrPartialCollection  = errors.New("cobro incompleto: la venta no se marcó como pagada")
)

// UserMessenger error que trae un mensaje pensado para mostrarse tal cual
// (por ejemplo el texto que envió el backend).
type UserMessenger interface {
	UserMessage() string
}

// ServerMessage devuelve el mensaje para el usuario contenido en err, si lo hay.
func ServerMessage(err error) (string, bool) {
	var m UserMessenger
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage(), true
	}
	return "", false
}
