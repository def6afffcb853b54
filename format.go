package coins

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter turns figures into their report representation: a fixed number
// of decimal places, thousands grouped with ',' and an optional unit suffix,
// e.g. "20,000.00 USD".
type Formatter struct {
	Currency string
	Decimals Decimals
}

// NewFormatter returns the Formatter for the options of a run.
func NewFormatter(opts Options) Formatter {
	return Formatter{Currency: strings.ToUpper(opts.Currency), Decimals: opts.Decimals}
}

// Fiat formats an amount in the local currency.
func (f Formatter) Fiat(d decimal.Decimal) string {
	return format(d, f.Decimals.Fiat, "1 $", f.Currency)
}

// Crypto formats an amount expressed in the asset identified by symbol.
func (f Formatter) Crypto(d decimal.Decimal, symbol string) string {
	return format(d, f.Decimals.Crypto, "1 $", strings.ToUpper(symbol))
}

// Quantity formats a held quantity, without unit.
func (f Formatter) Quantity(d decimal.Decimal) string {
	return format(d, f.Decimals.Crypto, "1", "")
}

// Percent formats a percentage, e.g. "66.67%".
func (f Formatter) Percent(d decimal.Decimal) string {
	return format(d, f.Decimals.Percent, "1%", "")
}

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// format rounds d to places digits and lays it out with the money formatter.
func format(d decimal.Decimal, places int, template, unit string) string {
	if places < 0 {
		places = 0
	}
	minor := d.Round(int32(places)).Shift(int32(places))
	if minor.Abs().GreaterThan(maxMinor) {
		// out of int64 range for the money formatter, group the digits ourselves.
		return strings.Replace(strings.Replace(template, "1", group(d.StringFixed(int32(places))), 1), "$", unit, 1)
	}
	return money.NewFormatter(places, ".", ",", unit, template).Format(minor.IntPart())
}

// group inserts thousands separators in a fixed point decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// KnownCurrency reports whether code is an ISO 4217 currency known to the money package.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}
