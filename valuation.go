package coins

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Figure is an amount that may be undefined, e.g. a price expressed in an
// unresolved anchor or in the asset itself.
type Figure struct {
	Value   decimal.Decimal
	Defined bool
}

func defined(d decimal.Decimal) Figure { return Figure{Value: d, Defined: true} }

// Asset is a held asset with every figure derived from its quote.
type Asset struct {
	Quote      Quote
	LocalPrice decimal.Decimal // unit price in the local currency
	Held       decimal.Decimal
	Value      decimal.Decimal // LocalPrice * Held
	PriceIn    [2]Figure       // unit price in each anchor
	ValueIn    [2]Figure       // held value in each anchor
	Percent    Figure          // share of the portfolio total, set by Finalize
}

// newAsset derives the raw figures of an asset. The percentage is left undefined.
func newAsset(q Quote, currency string, held decimal.Decimal, anchors Anchors) (Asset, error) {
	price, err := q.LocalPrice(currency)
	if err != nil {
		return Asset{}, err
	}
	a := Asset{
		Quote:      q,
		LocalPrice: price,
		Held:       held,
		Value:      price.Mul(held),
	}
	for i, anchor := range anchors {
		if !anchor.Resolved() || anchor.Is(q.Symbol) {
			continue
		}
		a.PriceIn[i] = defined(price.Div(anchor.LocalPrice))
		a.ValueIn[i] = defined(a.Value.Div(anchor.LocalPrice))
	}
	return a, nil
}

// Builder accumulates assets and the running portfolio total.
//
// It is the first phase of a valuation: percentages are only available on the
// Valuation returned by Finalize, once every value has contributed to the total.
// Add is safe for concurrent use.
type Builder struct {
	currency string
	anchors  Anchors

	mu        sync.Mutex
	assets    []Asset
	total     decimal.Decimal
	finalized bool
}

// NewBuilder returns an empty Builder valuing assets in currency against anchors.
func NewBuilder(currency string, anchors Anchors) *Builder {
	return &Builder{currency: currency, anchors: anchors}
}

// Add values held units of the quoted asset and adds it to the portfolio.
//
// Assets keep the order of the Add calls. A quote without a price in the
// local currency is rejected with ErrUnsupportedCurrency and does not
// contribute to the total.
func (b *Builder) Add(q Quote, held decimal.Decimal) (Asset, error) {
	if held.IsNegative() {
		return Asset{}, fmt.Errorf("negative quantity %v for %s", held, q.Name)
	}
	a, err := newAsset(q, b.currency, held, b.anchors)
	if err != nil {
		return Asset{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return Asset{}, ErrFinalized
	}
	b.assets = append(b.assets, a)
	b.total = b.total.Add(a.Value)
	return a, nil
}

// Total returns the running total value.
func (b *Builder) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Finalize closes the builder and computes every asset percentage.
//
// Percentages stay undefined when the total is zero.
func (b *Builder) Finalize() *Valuation {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalized = true

	v := &Valuation{
		Currency: b.currency,
		Anchors:  b.anchors,
		Assets:   make([]Asset, len(b.assets)),
		Total:    b.total,
	}
	copy(v.Assets, b.assets)
	if b.total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range v.Assets {
			v.Assets[i].Percent = defined(v.Assets[i].Value.Div(b.total).Mul(hundred))
		}
	}
	for i, anchor := range b.anchors {
		if anchor.Resolved() {
			v.TotalIn[i] = defined(b.total.Div(anchor.LocalPrice))
		}
	}
	return v
}

// Valuation is a finalized portfolio.
type Valuation struct {
	Currency string
	Anchors  Anchors
	Assets   []Asset
	Total    decimal.Decimal
	TotalIn  [2]Figure // total value in each anchor
}

// Sort orders the assets in place, see SortAssets.
func (v *Valuation) Sort(key SortKey, dir SortDirection) {
	SortAssets(v.Assets, key, dir)
}
