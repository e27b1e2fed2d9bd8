package cashier

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stylashop-pos/internal/domain"
)

// ComputeChange devuelve tendered − total. Un monto menor al total devuelve
// ErrInsufficientAmount; nunca se cobra de menos.
func ComputeChange(total, tendered decimal.Decimal) (decimal.Decimal, error) {
	if tendered.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: monto recibido negativo", domain.ErrValidation)
	}
	if tendered.LessThan(total) {
		return decimal.Zero, fmt.Errorf("%w: recibido %s, total %s",
			domain.ErrInsufficientAmount, tendered.StringFixed(2), total.StringFixed(2))
	}
	return tendered.Sub(total), nil
}
