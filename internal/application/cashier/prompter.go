package cashier

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// StaticPrompter responde con valores fijos; lo usa la consola HTTP, donde
// todas las respuestas llegan en el mismo request. No puede volver a
// preguntar: un monto rechazado termina el cobro con el error del rechazo.
type StaticPrompter struct {
	Method   entity.PaymentMethod
	Tendered decimal.Decimal
	Confirm  bool
}

var _ Prompter = StaticPrompter{}

func (p StaticPrompter) ChoosePaymentMethod(context.Context, entity.SaleOrder) (entity.PaymentMethod, error) {
	return p.Method, nil
}

func (p StaticPrompter) AskTenderedAmount(_ context.Context, _ entity.SaleOrder, problem error) (decimal.Decimal, error) {
	if problem != nil {
		return decimal.Zero, problem
	}
	return p.Tendered, nil
}

func (p StaticPrompter) ConfirmChange(context.Context, ChangeQuote) (bool, error) {
	return p.Confirm, nil
}
