package coins

import (
	"fmt"
	"strings"
	"time"
)

// SortKey selects the field assets are ordered by.
type SortKey int

const (
	SortByRank SortKey = iota
	SortByName
	SortByValue
)

var sortKeyNames = map[string]SortKey{
	"rank":       SortByRank,
	"name":       SortByName,
	"held value": SortByValue,
	"held-value": SortByValue,
	"value":      SortByValue,
}

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortByValue:
		return "held value"
	default:
		return "rank"
	}
}

// ParseSortKey parses a sort key as written in the configuration file.
//
// An unknown key yields SortByRank and an error wrapping ErrConfigDefaulted
// that callers should report as a warning.
func ParseSortKey(s string) (SortKey, error) {
	if k, ok := sortKeyNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return SortByRank, fmt.Errorf("%w: sort key %q not recognised, valid options are 'rank', 'name' and 'held value', using 'rank'", ErrConfigDefaulted, s)
}

// SortDirection is either ascending or descending.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseSortDirection parses a sort direction, defaulting to Ascending with a warning.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending":
		return Ascending, nil
	case "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: sort direction %q not recognised, valid options are 'ascending' and 'descending', using 'ascending'", ErrConfigDefaulted, s)
}

// Decimals holds the number of decimal places per kind of figure.
type Decimals struct {
	Fiat    int
	Crypto  int
	Percent int
}

// FeedOptions configures the price feed client.
type FeedOptions struct {
	URL       string
	Timeout   time.Duration
	Limit     int     // number of assets requested from the bulk endpoint
	Workers   int     // concurrent individual lookups
	Retries   int     // retries on transport errors
	RateLimit float64 // requests per second
	CacheTTL  time.Duration
}

// Options is the immutable configuration of a run.
type Options struct {
	Currency      string
	Decimals      Decimals
	SortKey       SortKey
	SortDirection SortDirection
	Feed          FeedOptions
	LogLevel      string
}

// DefaultOptions returns the options used when the configuration file omits a value.
func DefaultOptions() Options {
	return Options{
		Currency: NativeCurrency,
		Decimals: Decimals{Fiat: 2, Crypto: 8, Percent: 2},
		Feed: FeedOptions{
			URL:       "https://api.coinmarketcap.com/v1",
			Timeout:   5 * time.Second,
			Limit:     100,
			Workers:   4,
			Retries:   2,
			RateLimit: 5,
			CacheTTL:  time.Minute,
		},
		LogLevel: "warn",
	}
}
