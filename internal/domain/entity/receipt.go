package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt comprobante de un cobro completado en caja. Tendered y Change solo
// tienen valor en efectivo; no se envían al backend.
type Receipt struct {
	Order       SaleOrder
	Payment     Payment
	Tendered    decimal.Decimal
	Change      decimal.Decimal
	CashierName string
	IssuedAt    time.Time
}
