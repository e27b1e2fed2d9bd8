package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod método de pago aceptado en caja.
type PaymentMethod string

// Métodos de pago (valores del backend).
const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentCard     PaymentMethod = "TARJETA"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
)

// PaymentMethods en el orden en que se ofrecen al cajero.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer}

// Valid indica si el método es uno de los soportados.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// Label nombre para mostrar.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Efectivo"
	case PaymentCard:
		return "Tarjeta"
	case PaymentTransfer:
		return "Transferencia"
	default:
		return string(m)
	}
}

// ParsePaymentMethod acepta el valor del backend o su alias en inglés
// (cash, card, transfer), sin distinguir mayúsculas.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EFECTIVO", "CASH":
		return PaymentCash, nil
	case "TARJETA", "CARD":
		return PaymentCard, nil
	case "TRANSFERENCIA", "TRANSFER":
		return PaymentTransfer, nil
	}
	return "", fmt.Errorf("método de pago desconocido: %q", s)
}

// Payment registro de cobro contra una venta.
// Amount es siempre el total de la venta; el efectivo recibido y el cambio
// no se persisten.
type Payment struct {
	ID     int64
	Date   string // YYYY-MM-DD
	Amount decimal.Decimal
	Method PaymentMethod
	SaleID int64
}
