// Package money formats amounts for invoices and emails and converts between
// database numerics and decimals.
package money

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the code printed before amounts when none is configured.
const DefaultCurrency = "KZ"

// Format renders amount as "KZ 50.000,00".
func Format(amount decimal.Decimal) string {
	return FormatCurrency(DefaultCurrency, amount)
}

// FormatCurrency renders amount with two decimals, '.' as the thousands
// separator and ',' as the decimal separator, prefixed by code.
func FormatCurrency(code string, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if code != "" {
		b.WriteString(code)
		b.WriteByte(' ')
	}
	if neg && !amount.Round(2).IsZero() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FromNumeric converts a NUMERIC column. NULL, NaN and infinities map to zero.
func FromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// ToNumeric converts a decimal for a NUMERIC parameter.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// Parse reads a decimal string such as "50000" or "1250.5".
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
