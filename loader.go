package coins

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// EnvPrefix prefixes the environment variables overriding configuration keys,
// e.g. COINS_OPTIONS_CURRENCY or COINS_DECIMAL_PLACES_FIAT.
const EnvPrefix = "COINS"

// configuration keys, as "section.key" in the INI file.
const (
	keyCurrency      = "options.currency"
	keyFiat          = "decimal places.fiat"
	keyCrypto        = "decimal places.crypto"
	keyPercent       = "decimal places.percent"
	keySortBy        = "sorting.sort by"
	keySortDirection = "sorting.sort direction"
	keyFeedURL       = "feed.url"
	keyFeedTimeout   = "feed.timeout"
	keyFeedLimit     = "feed.limit"
	keyFeedWorkers   = "feed.workers"
	keyFeedRetries   = "feed.retries"
	keyFeedRate      = "feed.rate limit"
	keyFeedCacheTTL  = "feed.cache ttl"
	keyLogLevel      = "logging.level"
)

// LoadOptions reads the configuration file at path.
//
// An empty path only applies defaults and environment overrides. Values that
// are invalid but recoverable are replaced by their default and reported in
// warnings wrapping ErrConfigDefaulted. The returned Options are always
// usable when err is nil.
func LoadOptions(path string) (opts Options, warnings []error, err error) {
	def := DefaultOptions()

	v := viper.New()
	defaults := map[string]any{
		keyCurrency:      def.Currency,
		keyFiat:          def.Decimals.Fiat,
		keyCrypto:        def.Decimals.Crypto,
		keyPercent:       def.Decimals.Percent,
		keySortBy:        def.SortKey.String(),
		keySortDirection: def.SortDirection.String(),
		keyFeedURL:       def.Feed.URL,
		keyFeedTimeout:   def.Feed.Timeout,
		keyFeedLimit:     def.Feed.Limit,
		keyFeedWorkers:   def.Feed.Workers,
		keyFeedRetries:   def.Feed.Retries,
		keyFeedRate:      def.Feed.RateLimit,
		keyFeedCacheTTL:  def.Feed.CacheTTL,
		keyLogLevel:      def.LogLevel,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", " ", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("ini")
		if err := v.ReadInConfig(); err != nil {
			return Options{}, nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	opts.Currency = strings.ToUpper(strings.TrimSpace(v.GetString(keyCurrency)))
	if opts.Currency == "" {
		opts.Currency = def.Currency
		warnings = append(warnings, fmt.Errorf("%w: empty currency, using %s", ErrConfigDefaulted, def.Currency))
	} else if !KnownCurrency(opts.Currency) {
		warnings = append(warnings, fmt.Errorf("currency %q is not an ISO 4217 code, the feed may not publish it", opts.Currency))
	}

	// typed getters, a malformed value falls back to its default with a warning.
	malformed := func(key string, err error, fallback any) {
		warnings = append(warnings, fmt.Errorf("%w: %s: %v, using %v", ErrConfigDefaulted, key, err, fallback))
	}
	getInt := func(key string, fallback int) int {
		n, err := cast.ToIntE(v.Get(key))
		if err != nil {
			malformed(key, err, fallback)
			return fallback
		}
		return n
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		d, err := cast.ToDurationE(v.Get(key))
		if err != nil {
			malformed(key, err, fallback)
			return fallback
		}
		return d
	}
	getFloat := func(key string, fallback float64) float64 {
		f, err := cast.ToFloat64E(v.Get(key))
		if err != nil {
			malformed(key, err, fallback)
			return fallback
		}
		return f
	}

	places := func(key string, fallback int) int {
		n := getInt(key, fallback)
		if n < 0 {
			warnings = append(warnings, fmt.Errorf("%w: %s = %d is negative, using %d", ErrConfigDefaulted, key, n, fallback))
			return fallback
		}
		return n
	}
	opts.Decimals = Decimals{
		Fiat:    places(keyFiat, def.Decimals.Fiat),
		Crypto:  places(keyCrypto, def.Decimals.Crypto),
		Percent: places(keyPercent, def.Decimals.Percent),
	}

	var w error
	if opts.SortKey, w = ParseSortKey(v.GetString(keySortBy)); w != nil {
		warnings = append(warnings, w)
	}
	if opts.SortDirection, w = ParseSortDirection(v.GetString(keySortDirection)); w != nil {
		warnings = append(warnings, w)
	}

	opts.Feed = FeedOptions{
		URL:       strings.TrimRight(v.GetString(keyFeedURL), "/"),
		Timeout:   getDuration(keyFeedTimeout, def.Feed.Timeout),
		Limit:     getInt(keyFeedLimit, def.Feed.Limit),
		Workers:   getInt(keyFeedWorkers, def.Feed.Workers),
		Retries:   getInt(keyFeedRetries, def.Feed.Retries),
		RateLimit: getFloat(keyFeedRate, def.Feed.RateLimit),
		CacheTTL:  getDuration(keyFeedCacheTTL, def.Feed.CacheTTL),
	}
	if opts.Feed.Timeout <= 0 {
		opts.Feed.Timeout = def.Feed.Timeout
		warnings = append(warnings, fmt.Errorf("%w: %s must be positive, using %v", ErrConfigDefaulted, keyFeedTimeout, def.Feed.Timeout))
	}
	if opts.Feed.Workers <= 0 {
		opts.Feed.Workers = def.Feed.Workers
		warnings = append(warnings, fmt.Errorf("%w: %s must be positive, using %d", ErrConfigDefaulted, keyFeedWorkers, def.Feed.Workers))
	}
	if opts.Feed.Limit < 0 {
		opts.Feed.Limit = def.Feed.Limit
		warnings = append(warnings, fmt.Errorf("%w: %s is negative, using %d", ErrConfigDefaulted, keyFeedLimit, def.Feed.Limit))
	}
	if opts.Feed.Retries < 0 {
		opts.Feed.Retries = 0
	}
	opts.LogLevel = v.GetString(keyLogLevel)
	return opts, warnings, nil
}

// Holding is a quantity of one asset, identified by its lower case name or symbol.
type Holding struct {
	ID       string
	Quantity decimal.Decimal
}

// LoadHoldings reads the holdings file at path.
//
// Each section describes one asset with a 'name' (feed name or symbol) and
// a 'held' quantity:
//
//	[btc]
//	name = bitcoin
//	held = 1.5
//
// Holdings keep the order of the file. Duplicate names, missing keys and
// negative or malformed quantities are rejected.
func LoadHoldings(path string) ([]Holding, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read holdings file %s: %w", path, err)
	}
	return decodeHoldings(f)
}

func decodeHoldings(f *ini.File) ([]Holding, error) {
	var holdings []Holding
	var errs []error
	seen := make(map[string]string)
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(section.Key("name").String()))
		if name == "" {
			errs = append(errs, fmt.Errorf("section [%s]: missing 'name'", section.Name()))
			continue
		}
		if prev, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("section [%s]: %q already held in section [%s]", section.Name(), name, prev))
			continue
		}
		seen[name] = section.Name()

		raw := strings.TrimSpace(section.Key("held").String())
		held, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("section [%s]: invalid 'held' quantity %q: %w", section.Name(), raw, err))
			continue
		}
		if held.IsNegative() {
			errs = append(errs, fmt.Errorf("section [%s]: negative 'held' quantity %v", section.Name(), held))
			continue
		}
		holdings = append(holdings, Holding{ID: name, Quantity: held})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return holdings, nil
}
