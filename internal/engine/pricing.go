package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"oco_trader/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// ValidatePercent checks that a profit/loss percentage lies in (0, 100].
func ValidatePercent(name string, pct decimal.Decimal) error {
	if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(oneHundred) {
		return fmt.Errorf("%s must be in (0, 100], got %s", name, pct)
	}
	return nil
}

// BracketPrices derives the take-profit and stop prices from the buy fill
// price. profit and loss are percentages in (0, 100]; both results are
// rounded to the symbol's price precision.
func BracketPrices(fill, profit, loss decimal.Decimal, precision int32) (profitPrice, stopPrice decimal.Decimal) {
	profitPrice = fill.Mul(oneHundred.Add(profit)).Div(oneHundred).Round(precision)
	stopPrice = fill.Mul(oneHundred.Sub(loss)).Div(oneHundred).Round(precision)
	return profitPrice, stopPrice
}

// FormatPrice renders a price with a fixed number of decimal places. The
// exchange expects deterministic trailing-zero padding, not a
// variable-length decimal.
func FormatPrice(p decimal.Decimal, precision int32) string {
	return p.StringFixed(precision)
}

// FillPrice determines the effective buy price used for the bracket: the
// quoted price for a limit buy, the volume-weighted average
// (cumulative quote / executed quantity) for a market buy.
func FillPrice(spec domain.OrderSpec, info domain.OrderInfo) (decimal.Decimal, error) {
	switch spec.Kind {
	case domain.OrderKindLimitBuy:
		return info.Price, nil
	case domain.OrderKindMarketBuy:
		if info.ExecutedQty.IsZero() {
			return decimal.Zero, fmt.Errorf("market order %s reported zero executed quantity", spec.Symbol)
		}
		return info.CumulativeQuoteQty.Div(info.ExecutedQty), nil
	default:
		return decimal.Zero, fmt.Errorf("fill price undefined for order kind %s", spec.Kind)
	}
}
