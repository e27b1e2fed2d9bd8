package entity

import "github.com/shopspring/decimal"

// Product es la vista de catálogo que consume el vendedor (GET productos).
// UnitPrice se congela en la línea del carrito al momento de agregarlo.
type Product struct {
	ID          int64
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	ImageURL    string
	CategoryID  int64
	BrandID     int64
}
