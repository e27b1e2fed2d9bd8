package feedback_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stylashop-pos/internal/application/feedback"
	"github.com/jhoicas/stylashop-pos/internal/application/sales"
	"github.com/jhoicas/stylashop-pos/internal/domain"
)

type serverErr struct {
	msg  string
	kind error
}

func (e serverErr) Error() string       { return "backend: " + e.msg }
func (e serverErr) Unwrap() error       { return e.kind }
func (e serverErr) UserMessage() string { return e.msg }

func TestFromError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		severity feedback.Severity
		message  string
	}{
		{"credenciales", domain.ErrInvalidCredentials, feedback.SeverityError, "Usuario o contraseña inválidos"},
		{"cuenta", domain.ErrAccountForbidden, feedback.SeverityError, "Usuario no autorizado"},
		{"checkout incompleto", sales.ErrCheckoutIncomplete, feedback.SeverityWarning, "Debe seleccionar un cliente y al menos un producto"},
		{"conflicto con mensaje", fmt.Errorf("x: %w", serverErr{"Ya existe una marca con ese nombre", domain.ErrConflict}), feedback.SeverityWarning, "Ya existe una marca con ese nombre"},
		{"servidor con mensaje", serverErr{"Stock insuficiente", domain.ErrServer}, feedback.SeverityError, "Stock insuficiente"},
		{"servidor sin mensaje", serverErr{"", domain.ErrServer}, feedback.SeverityError, "No se pudo completar la operación. Intente nuevamente."},
		{"inesperado", errors.New("dial tcp: connection refused"), feedback.SeverityError, "No se pudo completar la operación. Intente nuevamente."},
		{"token", domain.ErrTokenExpired, feedback.SeverityWarning, "Su sesión expiró o no es válida. Inicie sesión nuevamente."},
		{"monto", fmt.Errorf("%w: recibido 40.00, total 50.00", domain.ErrInsufficientAmount), feedback.SeverityWarning, "Recibido 40.00, total 50.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := feedback.FromError(tc.err)
			assert.Equal(t, tc.severity, n.Severity)
			assert.Equal(t, tc.message, n.Message)
			assert.Equal(t, tc.err.Error(), n.Detail, "el error completo solo va en Detail")
		})
	}
}

func TestFromError_Nil(t *testing.T) {
	assert.Equal(t, feedback.Notice{}, feedback.FromError(nil))
}

func TestFromError_ParcialAntesQueServidor(t *testing.T) {
	err := fmt.Errorf("%w: venta X: %w", domain.ErrPartialCollection, serverErr{"caído", domain.ErrServer})
	n := feedback.FromError(err)
	assert.Equal(t, "Cobro incompleto", n.Title)
}
