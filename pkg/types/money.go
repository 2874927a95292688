package types

import "github.com/shopspring/decimal"

// FormatCents renders an integer cent amount as a decimal string with two
// fractional digits, e.g. 1999 -> "19.99". All persistence stays in cents;
// this is only for API payloads.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}
