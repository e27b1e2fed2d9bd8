package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etapas de un cobro en el journal de caja.
const (
	CollectionStarted         = "started"
	CollectionPaymentRecorded = "payment_recorded"
	CollectionCompleted       = "completed"
)

// CollectionEntry registro durable de un cobro en curso. Permite repetir un
// pago sin confirmar con la misma llave de idempotencia y terminar la
// actualización de estado sin volver a crear el pago.
type CollectionEntry struct {
	SaleID         int64
	Correlativo    string
	IdempotencyKey string
	Method         PaymentMethod
	Amount         decimal.Decimal
	Stage          string
	PaymentID      int64
	Attempts       int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
