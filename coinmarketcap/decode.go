package coinmarketcap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/coins"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// A ticker record, every value is a string or null:
//
//	{
//	    "id": "bitcoin",
//	    "name": "Bitcoin",
//	    "symbol": "BTC",
//	    "rank": "1",
//	    "price_usd": "20000.0",
//	    "price_btc": "1.0",
//	    "price_eur": "18000.0",
//	    ...
//	}
const pricePrefix = "price_"

// feedError returns the message of an error response, e.g. {"error": "id not found"}.
func feedError(v any) (string, bool) {
	if _, ok := v.(map[string]any); !ok {
		return "", false
	}
	msg, err := jsonpath.Get("$.error", v)
	if err != nil {
		return "", false
	}
	return fmt.Sprint(msg), true
}

// notFound builds the error of a 404 response.
func notFound(addr string, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		if msg, ok := feedError(v); ok {
			return fmt.Errorf("%w: %s", coins.ErrAssetNotFound, msg)
		}
	}
	return fmt.Errorf("%w: GET %s", coins.ErrAssetNotFound, addr)
}

// decode parses a ticker response into quotes, in the order received.
//
// Records without a usable name are skipped, fields that cannot be parsed are
// left out of the quote.
func decode(body []byte, logger *zap.Logger) ([]coins.Quote, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: cannot decode ticker: %w", coins.ErrFetchFailure, err)
	}
	if msg, ok := feedError(v); ok {
		return nil, fmt.Errorf("%w: %s", coins.ErrAssetNotFound, msg)
	}
	records, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected ticker response %T", coins.ErrFetchFailure, v)
	}

	quotes := make([]coins.Quote, 0, len(records))
	for _, r := range records {
		record, ok := r.(map[string]any)
		if !ok {
			continue
		}
		q := coins.Quote{
			ID:     field(record, "id"),
			Name:   field(record, "name"),
			Symbol: strings.ToUpper(field(record, "symbol")),
			Prices: make(map[string]decimal.Decimal),
		}
		if q.Name == "" {
			logger.Debug("skipping record without name", zap.Any("record", record))
			continue
		}
		rank, err := strconv.Atoi(field(record, "rank"))
		if err != nil {
			logger.Debug("unranked record", zap.String("name", q.Name), zap.String("rank", field(record, "rank")), zap.Error(err))
		}
		q.Rank = rank
		for key := range record {
			cur, ok := strings.CutPrefix(key, pricePrefix)
			if !ok {
				continue
			}
			price, err := decimal.NewFromString(field(record, key))
			if err != nil {
				continue
			}
			q.Prices[strings.ToUpper(cur)] = price
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// field returns the string value of key, or "" when missing or null.
func field(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
