package coins

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCurrency is returned when a quote has no price in the requested currency.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrAnchorNotFound is returned when a comparison anchor cannot be found in the feed.
	ErrAnchorNotFound = errors.New("anchor not found")
	// ErrAssetNotFound is returned when the feed explicitly reports an unknown asset.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrFetchFailure wraps any transport, timeout or decoding error from the feed.
	ErrFetchFailure = errors.New("fetch failure")
	// ErrConfigDefaulted flags a configuration value replaced by its default.
	ErrConfigDefaulted = errors.New("config value defaulted")
	// ErrDuplicateAsset is returned when two holdings resolve to the same asset.
	ErrDuplicateAsset = errors.New("duplicate asset")
	// ErrFinalized is returned when adding an asset to a finalized Builder.
	ErrFinalized = errors.New("valuation already finalized")
)

// AnchorNotFoundError names the anchor missing from the feed.
type AnchorNotFoundError struct {
	Name string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("%v: %q", ErrAnchorNotFound, e.Name)
}

func (e *AnchorNotFoundError) Unwrap() error { return ErrAnchorNotFound }

// LookupError names the holding that could not be priced.
type LookupError struct {
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrAssetNotFound) {
		return fmt.Sprintf("no matches found for coin name/symbol %q", e.ID)
	}
	return fmt.Sprintf("cannot price %q: %v", e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
