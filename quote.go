package coins

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeCurrency is the unit every feed quote is published in.
const NativeCurrency = "USD"

// Quote holds the raw fields of one asset as received from a price feed.
//
// Prices are keyed by upper case currency code. A Quote is never modified
// once received.
type Quote struct {
	Rank   int
	ID     string // feed identifier, e.g. "bitcoin"
	Name   string
	Symbol string
	Prices map[string]decimal.Decimal
}

// NewQuote is a convenient factory for a Quote priced in the native currency.
func NewQuote[T float64 | int64 | decimal.Decimal](rank int, name, symbol string, usd T) Quote {
	return Quote{
		Rank:   rank,
		ID:     strings.ToLower(name),
		Name:   name,
		Symbol: symbol,
		Prices: map[string]decimal.Decimal{NativeCurrency: newDecimal(usd)},
	}
}

// With returns a copy of q with an additional price in currency cur.
func (q Quote) With(cur string, price decimal.Decimal) Quote {
	prices := make(map[string]decimal.Decimal, len(q.Prices)+1)
	for k, v := range q.Prices {
		prices[k] = v
	}
	prices[strings.ToUpper(cur)] = price
	q.Prices = prices
	return q
}

// LocalPrice returns the unit price of the asset in the currency cur.
//
// The native currency is read directly, any other currency must have been
// published by the feed, otherwise ErrUnsupportedCurrency is returned.
func (q Quote) LocalPrice(cur string) (decimal.Decimal, error) {
	cur = strings.ToUpper(cur)
	if cur == "" {
		cur = NativeCurrency
	}
	price, ok := q.Prices[cur]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s has no price in %s", ErrUnsupportedCurrency, q.Name, cur)
	}
	return price, nil
}

// Matches reports whether id designates this quote, by name or by symbol, ignoring case.
func (q Quote) Matches(id string) bool {
	return strings.EqualFold(id, q.Name) || strings.EqualFold(id, q.Symbol)
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}
