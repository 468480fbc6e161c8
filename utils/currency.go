package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyEUR formats an amount the way Portuguese receipts show it.
// Example: 1234.5 -> "1.234,50 €"
func FormatCurrencyEUR(amount float64) string {
	formatted := decimal.NewFromFloat(amount).StringFixed(2)

	negative := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	// Tambahkan pemisah ribuan
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := strings.Join(groups, ".") + "," + decimalPart + " €"
	if negative {
		return "-" + result
	}
	return result
}

// RoundMoney rounds to cents with decimal arithmetic so totals never drift.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// SumMoney adds amounts in decimal space and rounds the result to cents.
func SumMoney(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}
