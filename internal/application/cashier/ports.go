package cashier

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/application/events"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// ChangeQuote datos que el cajero confirma antes de cobrar en efectivo con cambio.
type ChangeQuote struct {
	Order    entity.SaleOrder
	Total    decimal.Decimal
	Tendered decimal.Decimal
	Change   decimal.Decimal
}

// Prompter interacción con el cajero durante un cobro. Devolver
// domain.ErrCancelled (o un método vacío) aborta el cobro sin efectos.
type Prompter interface {
	ChoosePaymentMethod(ctx context.Context, order entity.SaleOrder) (entity.PaymentMethod, error)
	// AskTenderedAmount pide el efectivo recibido; problem trae el motivo del
	// rechazo del intento anterior (nil en el primero).
	AskTenderedAmount(ctx context.Context, order entity.SaleOrder, problem error) (decimal.Decimal, error)
	ConfirmChange(ctx context.Context, quote ChangeQuote) (bool, error)
}

// SessionReader sesión vigente.
type SessionReader interface {
	Check(ctx context.Context) (entity.Session, error)
}

// SaleEvents fuente de avisos de ventas nuevas.
type SaleEvents interface {
	Subscribe() (<-chan events.SaleCreated, func())
}
