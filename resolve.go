package coins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Feed is a source of quotes.
type Feed interface {
	// Ticker returns the bulk list of quotes, ordered by rank.
	Ticker(ctx context.Context) ([]Quote, error)
	// Lookup returns the quote of a single asset by feed identifier.
	// It fails with ErrAssetNotFound when the feed does not know id.
	Lookup(ctx context.Context, id string) (Quote, error)
}

// lookup is the outcome of one individual lookup.
type lookup struct {
	id    string
	held  Holding
	quote Quote
	err   error
}

// Resolve prices holdings against feed and returns the finalized valuation.
//
// Holdings are first matched against the bulk ticker by name or symbol; the
// others are looked up individually, concurrently. A holding that cannot be
// priced is excluded and reported in diagnostics, as are unresolved anchors.
// Only a failure of the bulk ticker aborts the run.
//
// Assets are added in holdings order, bulk matches first. A holding resolving
// to an asset already valued for an earlier holding is reported, not added.
func Resolve(ctx context.Context, feed Feed, opts Options, holdings []Holding, logger *zap.Logger) (*Valuation, []error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("resolve")

	quotes, err := feed.Ticker(ctx)
	if err != nil {
		if !errors.Is(err, ErrFetchFailure) {
			err = fmt.Errorf("%w: %w", ErrFetchFailure, err)
		}
		return nil, nil, fmt.Errorf("cannot fetch ticker: %w", err)
	}
	logger.Debug("ticker fetched", zap.Int("quotes", len(quotes)))

	anchors, diagnostics := resolveAnchors(ctx, feed, opts, quotes, logger)

	// first pass: bulk matches, recorded in a seen set keyed by holding identifier.
	var bulk []lookup
	seen := make(map[string]bool)
	for _, h := range holdings {
		for _, q := range quotes {
			if q.Matches(h.ID) {
				bulk = append(bulk, lookup{id: h.ID, held: h, quote: q})
				seen[h.ID] = true
				break
			}
		}
	}

	// second pass: individual lookups for everything else.
	var pending []lookup
	for _, h := range holdings {
		if !seen[h.ID] {
			pending = append(pending, lookup{id: h.ID, held: h})
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Feed.Workers, 1))
	for i := range pending {
		g.Go(func() error {
			p := &pending[i]
			p.quote, p.err = feed.Lookup(gctx, p.id)
			if p.err != nil {
				logger.Debug("individual lookup failed", zap.String("id", p.id), zap.Error(p.err))
			}
			// a failed lookup only excludes its holding.
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	builder := NewBuilder(opts.Currency, anchors)
	// holding identifier by quote key, an asset is only valued once.
	valued := make(map[string]string)
	for _, l := range append(bulk, pending...) {
		if l.err == nil {
			key := quoteKey(l.quote)
			if prev, dup := valued[key]; dup {
				l.err = fmt.Errorf("%w: %s is already held as %q", ErrDuplicateAsset, l.quote.Name, prev)
			} else if _, l.err = builder.Add(l.quote, l.held.Quantity); l.err == nil {
				valued[key] = l.id
			}
		}
		if l.err != nil {
			diagnostics = append(diagnostics, &LookupError{ID: l.id, Err: l.err})
			continue
		}
		logger.Debug("asset valued", zap.String("id", l.id), zap.String("name", l.quote.Name))
	}
	return builder.Finalize(), diagnostics, nil
}

// quoteKey identifies the asset of q, by feed identifier or else by name.
func quoteKey(q Quote) string {
	if q.ID != "" {
		return strings.ToLower(q.ID)
	}
	return strings.ToLower(q.Name)
}

// resolveAnchors resolves anchors from the bulk quotes and falls back to an
// individual lookup for the ones the ticker does not list.
func resolveAnchors(ctx context.Context, feed Feed, opts Options, quotes []Quote, logger *zap.Logger) (Anchors, []error) {
	anchors, _ := ResolveAnchors(quotes, opts.Currency)

	var diagnostics [len(AnchorDefs)]error
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range AnchorDefs {
		if anchors[i].Resolved() {
			continue
		}
		if q, listed := findByName(quotes, def.Name); listed {
			// listed but not priced in the currency.
			_, diagnostics[i] = NewAnchor(def, q, opts.Currency)
			continue
		}
		g.Go(func() error {
			q, err := feed.Lookup(gctx, def.Name)
			if err != nil {
				logger.Debug("anchor lookup failed", zap.String("anchor", def.Name), zap.Error(err))
				diagnostics[i] = &AnchorNotFoundError{Name: def.Name}
				return nil
			}
			anchors[i], diagnostics[i] = NewAnchor(def, q, opts.Currency)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range diagnostics {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return anchors, errs
}
