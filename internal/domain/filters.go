package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Exchange filter type tags. Filters are always selected by tag, never by
// list position: the exchange does not guarantee filter ordering.
const (
	FilterTypePrice         = "PRICE_FILTER"
	FilterTypePercentPrice  = "PERCENT_PRICE"
	FilterTypeLotSize       = "LOT_SIZE"
	FilterTypeMarketLotSize = "MARKET_LOT_SIZE"
)

// PriceFilter bounds the price of any order on the symbol. TickSize is the
// minimal price increment; zero means no alignment constraint.
type PriceFilter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	TickSize decimal.Decimal
}

// PercentPriceFilter bounds the price relative to the recent average trade
// price: avg*MultiplierDown <= price <= avg*MultiplierUp.
type PercentPriceFilter struct {
	MultiplierUp   decimal.Decimal
	MultiplierDown decimal.Decimal
	AvgPriceMins   int // averaging window in minutes
}

// LotSizeFilter bounds the base-asset quantity of limit orders.
type LotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// MarketLotSizeFilter bounds the quantity of market orders.
type MarketLotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// Violation identifies which trading-rule sub-check a candidate failed.
type Violation int

const (
	ViolationNone Violation = iota
	ViolationBelowMin
	ViolationAboveMax
	ViolationStepMismatch
	ViolationAboveBand
	ViolationBelowBand
)

func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "ok"
	case ViolationBelowMin:
		return "below minimum"
	case ViolationAboveMax:
		return "above maximum"
	case ViolationStepMismatch:
		return "not aligned to step size"
	case ViolationAboveBand:
		return "above percent-price band"
	case ViolationBelowBand:
		return "below percent-price band"
	default:
		return "unknown violation"
	}
}

// maxDerivablePrecision bounds the precision search. Binance never reports
// increments finer than 1e-8; anything past 18 is certainly malformed.
const maxDerivablePrecision = 18

// DerivePrecision returns n such that 10^-n equals increment exactly.
// Any increment that is not an exact non-negative power-of-ten fraction
// (including zero) is a configuration error: formatting prices and
// quantities requires a definite decimal precision.
func DerivePrecision(increment decimal.Decimal) (int32, error) {
	for n := int32(0); n <= maxDerivablePrecision; n++ {
		if decimal.New(1, -n).Equal(increment) {
			return n, nil
		}
	}
	return 0, &ConfigError{
		Field: "increment",
		Err:   fmt.Errorf("%s is not an exact power-of-ten fraction", increment),
	}
}

// ValidateQuantity checks a base-asset quantity against the lot-size rule.
// Pure and idempotent. Step alignment is checked by rounding at the derived
// precision: since the step is a power-of-ten fraction, a quantity is an
// exact multiple of the step iff it rounds to itself.
func ValidateQuantity(rule LotSizeFilter, qty decimal.Decimal, precision int32) Violation {
	if qty.LessThan(rule.MinQty) {
		return ViolationBelowMin
	}
	if qty.GreaterThan(rule.MaxQty) {
		return ViolationAboveMax
	}
	if !rule.StepSize.IsZero() && !qty.Round(precision).Equal(qty) {
		return ViolationStepMismatch
	}
	return ViolationNone
}

// ValidateMarketTotal checks a market-order quantity against the
// market-lot-size rule.
func ValidateMarketTotal(rule MarketLotSizeFilter, total decimal.Decimal, precision int32) Violation {
	if total.LessThan(rule.MinQty) {
		return ViolationBelowMin
	}
	if total.GreaterThan(rule.MaxQty) {
		return ViolationAboveMax
	}
	if !rule.StepSize.IsZero() && !total.Round(precision).Equal(total) {
		return ViolationStepMismatch
	}
	return ViolationNone
}

// ValidatePrice checks a price against the price rule (range + tick) and
// the percent-price band around the average trade price.
func ValidatePrice(rule PriceFilter, band PercentPriceFilter, avgPrice, price decimal.Decimal, precision int32) Violation {
	if price.LessThan(rule.MinPrice) {
		return ViolationBelowMin
	}
	if price.GreaterThan(rule.MaxPrice) {
		return ViolationAboveMax
	}
	if !rule.TickSize.IsZero() && !price.Round(precision).Equal(price) {
		return ViolationStepMismatch
	}
	if price.GreaterThan(avgPrice.Mul(band.MultiplierUp)) {
		return ViolationAboveBand
	}
	if price.LessThan(avgPrice.Mul(band.MultiplierDown)) {
		return ViolationBelowBand
	}
	return ViolationNone
}
