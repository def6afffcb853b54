package coins

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

var (
	BTC = NewQuote(1, "Bitcoin", "BTC", 20000.0)
	ETH = NewQuote(2, "Ethereum", "ETH", 1500.0)
	XRP = NewQuote(3, "XRP", "XRP", 0.5)
	ADA = NewQuote(8, "Cardano", "ADA", 0.25)
)

// D is a helper for test to create decimals from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// anchors returns the anchors resolved from bitcoin and ethereum in USD.
func anchors(t *testing.T) Anchors {
	t.Helper()
	a, err := ResolveAnchors([]Quote{BTC, ETH}, "USD")
	if err != nil {
		t.Fatalf("ResolveAnchors() error = %v", err)
	}
	return a
}

// fakeFeed is an in memory Feed.
type fakeFeed struct {
	ticker    []Quote
	tickerErr error
	lookups   map[string]Quote // by lower case id
	failures  map[string]error

	mu     sync.Mutex
	looked []string
}

func (f *fakeFeed) Ticker(context.Context) ([]Quote, error) {
	return f.ticker, f.tickerErr
}

func (f *fakeFeed) Lookup(_ context.Context, id string) (Quote, error) {
	f.mu.Lock()
	f.looked = append(f.looked, id)
	f.mu.Unlock()
	if err, ok := f.failures[id]; ok {
		return Quote{}, err
	}
	if q, ok := f.lookups[strings.ToLower(id)]; ok {
		return q, nil
	}
	return Quote{}, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
}
