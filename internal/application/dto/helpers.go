package dto

import "github.com/shopspring/decimal"

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// shortTime recorta "HH:MM:SS" a "HH:MM".
func shortTime(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
