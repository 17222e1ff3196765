// Package symbol turns user-facing symbol input into cache keys.
//
// Accepted forms are a bare asset ("BTC"), asset and quote ("BTCUSDT") and
// separated pairs ("BTC/USDT", "btc-usdt"). The default quote is appended
// unless the input already ends in a known quote asset, so a base asset whose
// own ticker ends in a quote suffix cannot be told apart from a pair.
package symbol

import "strings"

var (
	DefaultQuoteAssets = []string{"usdt", "busd"}
	DefaultQuote       = "usdt"
)

type Normalizer struct {
	quotes       []string
	defaultQuote string
}

// NewNormalizer builds a normalizer; empty arguments fall back to the defaults.
func NewNormalizer(quoteAssets []string, defaultQuote string) Normalizer {
	quotes := make([]string, 0, len(quoteAssets))
	for _, q := range quoteAssets {
		if q = clean(q); q != "" {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) == 0 {
		quotes = append(quotes, DefaultQuoteAssets...)
	}

	defaultQuote = clean(defaultQuote)
	if defaultQuote == "" {
		defaultQuote = DefaultQuote
	}

	return Normalizer{
		quotes:       quotes,
		defaultQuote: defaultQuote,
	}
}

// Normalize lowercases the input, strips everything but [a-z0-9] and appends
// the default quote when no known quote suffix is present.
// Empty input normalizes to "".
func (n Normalizer) Normalize(input string) string {
	key := clean(input)
	if key == "" {
		return ""
	}

	for _, q := range n.quotes {
		if strings.HasSuffix(key, q) {
			return key
		}
	}

	return key + n.defaultQuote
}

func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
