package coins

import (
	"errors"
	"testing"
)

func TestQuote_LocalPrice(t *testing.T) {
	q := BTC.With("eur", D(18000))
	tests := []struct {
		currency string
		want     float64
		wantErr  error
	}{
		{"USD", 20000, nil},
		{"", 20000, nil},
		{"usd", 20000, nil},
		{"EUR", 18000, nil},
		{"JPY", 0, ErrUnsupportedCurrency},
	}
	for _, tt := range tests {
		got, err := q.LocalPrice(tt.currency)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("LocalPrice(%q) error = %v, want %v", tt.currency, err, tt.wantErr)
			continue
		}
		if !got.Equal(D(tt.want)) {
			t.Errorf("LocalPrice(%q) = %v, want %v", tt.currency, got, tt.want)
		}
	}
	if _, ok := BTC.Prices["EUR"]; ok {
		t.Error("With() modified the original quote")
	}
}

func TestQuote_Matches(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"bitcoin", true},
		{"BITCOIN", true},
		{"btc", true},
		{"BTC", true},
		{"bit", false},
		{"ethereum", false},
	}
	for _, tt := range tests {
		if got := BTC.Matches(tt.id); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNewAnchor_NonPositivePrice(t *testing.T) {
	for _, price := range []float64{0, -1} {
		a, err := NewAnchor(AnchorDefs[0], NewQuote(1, "Bitcoin", "BTC", price), "USD")
		if !errors.Is(err, ErrAnchorNotFound) {
			t.Errorf("NewAnchor(price %v) error = %v, want ErrAnchorNotFound", price, err)
		}
		if a.Resolved() {
			t.Errorf("NewAnchor(price %v) resolved, want unresolved", price)
		}
	}
}
