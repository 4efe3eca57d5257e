package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for stored and displayed
// currency values.
const Scale = 2

const (
	maxAmountLength  = 32
	maxExponent      = 18
	maxIntegerDigits = 15
)

// ParseAmount turns user input into a currency amount. The value is kept as
// typed; rounding to Scale happens only when an entry is built, so limits are
// checked against what the user asked for.
// Blank input is a missing field. Anything decimal cannot parse, or whose
// magnitude no account could hold, is an invalid amount. Sign and ceilings are
// left to the validators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrMissingSelection
	}
	if len(trimmed) > maxAmountLength {
		return decimal.Zero, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	// Rescaling a value with an extreme exponent allocates a power of ten of
	// that size, so these are refused before anything rounds them.
	exp := amount.Exponent()
	if exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsZero() && amount.NumDigits()+int(exp) > maxIntegerDigits {
		return decimal.Zero, ErrInvalidAmount
	}

	return amount, nil
}

// FormatCurrency renders an amount with thousands separators, e.g. 10,000 or
// 1,250.50. Whole amounts are printed without a fractional part.
func FormatCurrency(amount decimal.Decimal) string {
	text := amount.StringFixed(Scale)
	if amount.Equal(amount.Truncate(0)) {
		text = amount.Truncate(0).String()
	}

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}

	whole, frac, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	if hasFrac {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}
