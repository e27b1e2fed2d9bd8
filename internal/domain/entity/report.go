package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeReport ingresos por ventas pagadas en un rango de fechas (incluyente).
type IncomeReport struct {
	From     time.Time
	To       time.Time
	Detailed bool
	Sales    []SaleOrder
	Total    decimal.Decimal
}

// MethodTotal total cobrado con un método de pago.
type MethodTotal struct {
	Method PaymentMethod
	Count  int
	Total  decimal.Decimal
}

// PaymentMethodsReport totales por método de pago en un rango de fechas.
type PaymentMethodsReport struct {
	From    time.Time
	To      time.Time
	Methods []MethodTotal
	Total   decimal.Decimal
}
