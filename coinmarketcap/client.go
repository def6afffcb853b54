// Package coinmarketcap implements a coins.Feed on top of the CoinMarketCap v1 ticker API.
package coinmarketcap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/etnz/coins"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client queries the ticker API.
//
// Every request is rate limited, bounded by the feed timeout and retried on
// transport errors. Successful responses are cached by URL.
type Client struct {
	client   *fasthttp.Client
	baseURL  string
	currency string
	opts     coins.FeedOptions
	limiter  *rate.Limiter
	cache    *cache.Cache // nil when caching is disabled
	logger   *zap.Logger

	retryInterval time.Duration // first backoff interval
}

// New returns a Client for the feed options, requesting prices in currency
// in addition to the native one.
func New(opts coins.FeedOptions, currency string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	c := &Client{
		client:        &fasthttp.Client{Name: "coins"},
		baseURL:       strings.TrimRight(opts.URL, "/"),
		currency:      strings.ToUpper(currency),
		opts:          opts,
		limiter:       rate.NewLimiter(limit, max(opts.Workers, 1)),
		logger:        logger.Named("coinmarketcap"),
		retryInterval: 250 * time.Millisecond,
	}
	if opts.CacheTTL > 0 {
		c.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return c
}

// Ticker returns the bulk list of quotes.
func (c *Client) Ticker(ctx context.Context) ([]coins.Quote, error) {
	query := url.Values{}
	if c.opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(c.opts.Limit))
	}
	body, err := c.get(ctx, c.endpoint("ticker", query))
	if err != nil {
		return nil, err
	}
	return decode(body, c.logger)
}

// Lookup returns the quote of one asset by its feed identifier, e.g.
// "bitcoin" or "bitcoin cash".
func (c *Client) Lookup(ctx context.Context, id string) (coins.Quote, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "-")
	body, err := c.get(ctx, c.endpoint("ticker/"+url.PathEscape(slug), url.Values{}))
	if err != nil {
		return coins.Quote{}, err
	}
	quotes, err := decode(body, c.logger)
	if err != nil {
		return coins.Quote{}, err
	}
	if len(quotes) == 0 {
		return coins.Quote{}, fmt.Errorf("%w: %s", coins.ErrAssetNotFound, id)
	}
	return quotes[0], nil
}

// endpoint returns the URL of path, with the convert parameter when the
// currency is not the native one.
func (c *Client) endpoint(path string, query url.Values) string {
	if c.currency != "" && c.currency != coins.NativeCurrency {
		query.Set("convert", c.currency)
	}
	u := c.baseURL + "/" + path + "/"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get returns the body of a successful GET of addr.
func (c *Client) get(ctx context.Context, addr string) ([]byte, error) {
	if c.cache != nil {
		if body, found := c.cache.Get(addr); found {
			c.logger.Debug("cache hit", zap.String("url", addr))
			return body.([]byte), nil
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = c.retryInterval * 8

	notify := func(err error, d time.Duration) {
		c.logger.Info("retrying request", zap.String("url", addr), zap.Error(err), zap.Duration("backoff", d))
	}
	operation := func() ([]byte, error) {
		return c.do(ctx, addr)
	}
	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.opts.Retries+1)),
		backoff.WithNotify(notify))
	if err != nil {
		if !errors.Is(err, coins.ErrFetchFailure) && !errors.Is(err, coins.ErrAssetNotFound) {
			err = fmt.Errorf("%w: GET %s: %w", coins.ErrFetchFailure, addr, err)
		}
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(addr, body, cache.DefaultExpiration)
	}
	return body, nil
}

// do performs a single request. Errors that a retry cannot fix are permanent.
func (c *Client) do(ctx context.Context, addr string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: GET %s: %w", coins.ErrFetchFailure, addr, err))
	}
	c.logger.Debug("requesting", zap.String("url", addr))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(addr)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", coins.ErrFetchFailure, addr, err)
	}

	// the body is owned by resp, copy it before release.
	body := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusOK:
		return body, nil
	case status == fasthttp.StatusNotFound:
		return nil, backoff.Permanent(notFound(addr, body))
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return nil, fmt.Errorf("%w: GET %s: status %d", coins.ErrFetchFailure, addr, status)
	default:
		return nil, backoff.Permanent(fmt.Errorf("%w: GET %s: status %d: %s", coins.ErrFetchFailure, addr, status, body))
	}
}
