package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pricefeed/internal/model"
)

const source = "Binance"

var (
	printer = message.NewPrinter(language.English)

	thousand      = decimal.NewFromInt(1000)
	one           = decimal.NewFromInt(1)
	tenThousandth = decimal.New(1, -4)
)

// Price renders a price with precision that grows as the magnitude shrinks:
// >= 1000 two grouped decimals, >= 1 four, >= 0.0001 six, otherwise eight.
func Price(p decimal.Decimal) string {
	switch {
	case p.GreaterThanOrEqual(thousand):
		return printer.Sprintf("%.2f", p.Round(2).InexactFloat64())
	case p.GreaterThanOrEqual(one):
		return p.StringFixed(4)
	case p.GreaterThanOrEqual(tenThousandth):
		return p.StringFixed(6)
	default:
		return p.StringFixed(8)
	}
}

// Volume renders a grouped whole number.
func Volume(v decimal.Decimal) string {
	return printer.Sprintf("%.0f", v.Round(0).InexactFloat64())
}

// Percent renders a signed two decimal percentage, "+" for zero and up.
func Percent(pct decimal.Decimal) string {
	sign := ""
	if !pct.IsNegative() {
		sign = "+"
	}
	return sign + pct.StringFixed(2) + "%"
}

// Summary renders the multi-line ticker summary of one snapshot.
func Summary(s model.PriceSnapshot) string {
	direction := "📈"
	if !s.Rising() {
		direction = "📉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n", direction, s.Symbol)
	fmt.Fprintf(&b, "💰 Price: $%s\n", Price(s.Price))
	fmt.Fprintf(&b, "📊 24h Change: %s\n", Percent(s.PriceChangePct))
	fmt.Fprintf(&b, "📈 24h High: $%s\n", Price(s.High24h))
	fmt.Fprintf(&b, "📉 24h Low: $%s\n", Price(s.Low24h))
	fmt.Fprintf(&b, "📦 24h Volume: %s\n\n", Volume(s.Volume24h))
	fmt.Fprintf(&b, "_Data from %s_", source)
	return b.String()
}

// NotFound is returned when no ticker was received for the input.
func NotFound(input string) string {
	return fmt.Sprintf("❌ Could not find price for \"%s\". Make sure it's a valid trading pair on %s.",
		strings.ToUpper(strings.TrimSpace(input)), source)
}

// Unavailable is returned while the stream is down.
func Unavailable() string {
	return "⚠️ Price service is temporarily unavailable. Please try again in a moment."
}
