// Package money formatea montos para mostrar (pantalla, recibos y reportes).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var tag = language.Spanish

// Format devuelve el monto con separador de miles y dos decimales.
// Ej: 1234.5 → "$1.234,50".
func Format(d decimal.Decimal) string {
	p := message.NewPrinter(tag)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Plain monto con dos decimales y punto decimal, sin símbolo (entrada y logs).
func Plain(d decimal.Decimal) string { return d.StringFixed(2) }
