package coins

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AnchorDef identifies a comparison anchor in the feed.
type AnchorDef struct {
	Name   string // matched case-insensitively against the quote name
	Symbol string // unit used until the anchor is resolved
}

// AnchorDefs are the two comparison anchors, in column order.
var AnchorDefs = [2]AnchorDef{
	{Name: "bitcoin", Symbol: "BTC"},
	{Name: "ethereum", Symbol: "ETH"},
}

// Anchor is a reference asset resolved to its own local unit price.
//
// A zero Anchor is unresolved: every figure expressed in it is undefined.
type Anchor struct {
	Def        AnchorDef
	Quote      Quote
	LocalPrice decimal.Decimal
	resolved   bool
}

// Resolved reports whether the anchor price is known.
func (a Anchor) Resolved() bool { return a.resolved && a.LocalPrice.IsPositive() }

// Symbol returns the unit of figures expressed in this anchor.
func (a Anchor) Symbol() string {
	if a.resolved && a.Quote.Symbol != "" {
		return strings.ToUpper(a.Quote.Symbol)
	}
	return a.Def.Symbol
}

// Is reports whether the asset with this symbol is the anchor itself.
func (a Anchor) Is(symbol string) bool {
	return strings.EqualFold(symbol, a.Symbol())
}

// Anchors is the ordered pair of comparison anchors shared by every asset of a run.
type Anchors [2]Anchor

// NewAnchor builds an anchor from its quote, without any held quantity.
//
// A quote without a positive price in currency cannot serve as a divisor and
// fails with an error wrapping ErrAnchorNotFound.
func NewAnchor(def AnchorDef, q Quote, currency string) (Anchor, error) {
	price, err := q.LocalPrice(currency)
	if err != nil {
		return Anchor{Def: def}, err
	}
	if !price.IsPositive() {
		return Anchor{Def: def}, fmt.Errorf("%w: %q has no positive price in %s (%v)", ErrAnchorNotFound, def.Name, strings.ToUpper(currency), price)
	}
	return Anchor{Def: def, Quote: q, LocalPrice: price, resolved: true}, nil
}

// ResolveAnchors selects each anchor quote by name among quotes.
//
// Anchors that cannot be resolved are left unresolved and reported in the
// returned error, one *AnchorNotFoundError per missing anchor.
func ResolveAnchors(quotes []Quote, currency string) (Anchors, error) {
	var anchors Anchors
	var errs []error
	for i, def := range AnchorDefs {
		anchors[i] = Anchor{Def: def}
		q, ok := findByName(quotes, def.Name)
		if !ok {
			errs = append(errs, &AnchorNotFoundError{Name: def.Name})
			continue
		}
		a, err := NewAnchor(def, q, currency)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		anchors[i] = a
	}
	return anchors, errors.Join(errs...)
}

func findByName(quotes []Quote, name string) (Quote, bool) {
	for _, q := range quotes {
		if strings.EqualFold(q.Name, name) {
			return q, true
		}
	}
	return Quote{}, false
}
