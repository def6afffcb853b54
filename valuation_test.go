package coins

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuilder_Scenario(t *testing.T) {
	b := NewBuilder("USD", anchors(t))
	if _, err := b.Add(BTC, D(1.5)); err != nil {
		t.Fatalf("Add(BTC) error = %v", err)
	}
	if _, err := b.Add(ETH, D(10)); err != nil {
		t.Fatalf("Add(ETH) error = %v", err)
	}
	v := b.Finalize()

	if want := D(45000); !v.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", v.Total, want)
	}
	btc, eth := v.Assets[0], v.Assets[1]

	if got, want := btc.Percent.Value.Round(2), D(66.67); !got.Equal(want) {
		t.Errorf("bitcoin Percent = %v, want %v", got, want)
	}
	if got, want := eth.Percent.Value.Round(2), D(33.33); !got.Equal(want) {
		t.Errorf("ethereum Percent = %v, want %v", got, want)
	}
	if btc.ValueIn[0].Defined || btc.PriceIn[0].Defined {
		t.Errorf("bitcoin in BTC = %v/%v, want undefined", btc.PriceIn[0], btc.ValueIn[0])
	}
	if !eth.ValueIn[0].Defined || !eth.ValueIn[0].Value.Equal(D(0.75)) {
		t.Errorf("ethereum value in BTC = %v, want 0.75", eth.ValueIn[0])
	}
	if eth.ValueIn[1].Defined {
		t.Errorf("ethereum value in ETH = %v, want undefined", eth.ValueIn[1])
	}
	if !btc.ValueIn[1].Value.Equal(D(20)) {
		t.Errorf("bitcoin value in ETH = %v, want 20", btc.ValueIn[1].Value)
	}
	if !v.TotalIn[0].Value.Equal(D(2.25)) || !v.TotalIn[1].Value.Equal(D(30)) {
		t.Errorf("TotalIn = %v, want 2.25 BTC and 30 ETH", v.TotalIn)
	}
}

func TestBuilder_Totals(t *testing.T) {
	b := NewBuilder("USD", anchors(t))
	held := []struct {
		q    Quote
		held float64
	}{
		{BTC, 0.123},
		{ETH, 3.7},
		{XRP, 1234.5678},
		{ADA, 0},
		{NewQuote(42, "Dust", "DST", 0.000001), 7},
	}
	for _, h := range held {
		a, err := b.Add(h.q, D(h.held))
		if err != nil {
			t.Fatalf("Add(%s) error = %v", h.q.Name, err)
		}
		if want := a.LocalPrice.Mul(D(h.held)); !a.Value.Equal(want) {
			t.Errorf("%s Value = %v, want %v", h.q.Name, a.Value, want)
		}
		if a.Percent.Defined {
			t.Errorf("%s Percent defined before Finalize", h.q.Name)
		}
	}
	v := b.Finalize()

	sum, percent := decimal.Zero, decimal.Zero
	for _, a := range v.Assets {
		sum = sum.Add(a.Value)
		percent = percent.Add(a.Percent.Value)
	}
	if !sum.Equal(v.Total) {
		t.Errorf("sum(Value) = %v, want Total %v", sum, v.Total)
	}
	if diff := percent.Sub(D(100)).Abs(); diff.GreaterThan(D(0.0001)) {
		t.Errorf("sum(Percent) = %v, want 100", percent)
	}
	if !v.Assets[3].Percent.Defined || !v.Assets[3].Percent.Value.IsZero() {
		t.Errorf("zero holding Percent = %v, want defined 0", v.Assets[3].Percent)
	}
}

func TestBuilder_EmptyPortfolio(t *testing.T) {
	v := NewBuilder("USD", anchors(t)).Finalize()
	if len(v.Assets) != 0 {
		t.Errorf("len(Assets) = %d, want 0", len(v.Assets))
	}
	if !v.Total.IsZero() {
		t.Errorf("Total = %v, want 0", v.Total)
	}
	if !v.TotalIn[0].Defined || !v.TotalIn[0].Value.IsZero() {
		t.Errorf("TotalIn[0] = %v, want defined 0", v.TotalIn[0])
	}
}

func TestBuilder_ZeroTotal(t *testing.T) {
	b := NewBuilder("USD", anchors(t))
	if _, err := b.Add(XRP, decimal.Zero); err != nil {
		t.Fatal(err)
	}
	v := b.Finalize()
	if v.Assets[0].Percent.Defined {
		t.Errorf("Percent = %v, want undefined when the total is zero", v.Assets[0].Percent)
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder("EUR", anchors(t))
	if _, err := b.Add(XRP, D(1)); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Errorf("Add() error = %v, want ErrUnsupportedCurrency", err)
	}
	if _, err := b.Add(XRP.With("EUR", D(0.4)), D(-1)); err == nil {
		t.Error("Add() with a negative quantity, want an error")
	}
	if !b.Total().IsZero() {
		t.Errorf("Total = %v, want 0 after rejected assets", b.Total())
	}
	b.Finalize()
	if _, err := b.Add(XRP.With("EUR", D(0.4)), D(1)); !errors.Is(err, ErrFinalized) {
		t.Errorf("Add() after Finalize error = %v, want ErrFinalized", err)
	}
}

func TestBuilder_Concurrent(t *testing.T) {
	b := NewBuilder("USD", anchors(t))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Add(XRP, D(2)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	v := b.Finalize()
	if want := D(50); !v.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", v.Total, want)
	}
}

func TestBuilder_CurrencyConversion(t *testing.T) {
	btc := BTC.With("eur", D(18000))
	eth := ETH.With("EUR", D(1350))
	a, err := ResolveAnchors([]Quote{btc, eth}, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder("EUR", a)
	asset, err := b.Add(eth, D(2))
	if err != nil {
		t.Fatal(err)
	}
	if !asset.Value.Equal(D(2700)) {
		t.Errorf("Value = %v, want 2700", asset.Value)
	}
	if !asset.PriceIn[0].Value.Equal(D(0.075)) {
		t.Errorf("PriceIn[0] = %v, want 0.075", asset.PriceIn[0].Value)
	}
}
