package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta tal como viajan en el backend.
// CREADA → (pago registrado + actualización) → PAGADA. No hay más transiciones.
const (
	SaleStatusCreated = "CREADA"
	SaleStatusPaid    = "PAGADA"
)

// Formatos de fecha y hora del backend para la venta.
const (
	SaleDateLayout = "2006-01-02"
	SaleTimeLayout = "15:04"
)

// SaleOrder es una venta registrada en el backend.
// Correlativo es una etiqueta legible generada por el cliente; la identidad
// real de la venta es ID, asignado por el backend.
type SaleOrder struct {
	ID            int64
	Correlativo   string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	Status        string
	Total         decimal.Decimal
	Client        Client
	SellerID      int64
	SellerName    string
	PaymentMethod PaymentMethod
	Lines         []SaleLine
}

// SaleLine línea de detalle de la venta (detallesVenta).
type SaleLine struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// IsPending indica si la venta espera cobro en caja.
func (s SaleOrder) IsPending() bool { return s.Status == SaleStatusCreated }

// NewSaleFromCart arma la venta a partir del carrito. El total y los
// subtotales se calculan aquí, una sola vez, desde las líneas.
func NewSaleFromCart(correlativo string, now time.Time, lines []CartLine, client Client, sellerID int64) SaleOrder {
	details := make([]SaleLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		sub := l.Subtotal()
		total = total.Add(sub)
		details = append(details, SaleLine{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.UnitPrice,
			Subtotal:    sub,
		})
	}
	return SaleOrder{
		Correlativo: correlativo,
		Date:        now.Format(SaleDateLayout),
		Time:        now.Format(SaleTimeLayout),
		Status:      SaleStatusCreated,
		Total:       total,
		Client:      client,
		SellerID:    sellerID,
		Lines:       details,
	}
}
