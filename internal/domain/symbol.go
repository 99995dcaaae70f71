package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StatusTrading is the only symbol status on which orders may be placed.
const StatusTrading = "TRADING"

// FilterSnapshot is one raw filter entry as reported by the exchange.
// All numeric fields arrive as strings and are parsed into decimals by
// BuildSymbolProfile; absent fields stay empty.
type FilterSnapshot struct {
	Type           string
	MinPrice       string
	MaxPrice       string
	TickSize       string
	MultiplierUp   string
	MultiplierDown string
	AvgPriceMins   int
	MinQty         string
	MaxQty         string
	StepSize       string
}

// SymbolSnapshot is the raw symbol metadata fetched from the exchange.
type SymbolSnapshot struct {
	Symbol               string
	Status               string
	BaseAsset            string
	QuoteAsset           string
	IsSpotTradingAllowed bool
	OCOAllowed           bool
	Filters              []FilterSnapshot
}

// SymbolProfile is the fully resolved trading profile for one pair: the
// four exchange filters selected by type, the average trade price, and the
// decimal precisions derived from the price tick and quantity step.
// Built once per run; immutable afterwards.
type SymbolProfile struct {
	Symbol      string
	Status      string
	BaseAsset   string
	QuoteAsset  string
	SpotAllowed bool
	OCOAllowed  bool

	PriceRule     PriceFilter
	PercentRule   PercentPriceFilter
	LotRule       LotSizeFilter
	MarketLotRule MarketLotSizeFilter

	AvgPrice       decimal.Decimal
	PricePrecision int32
	QtyPrecision   int32
}

// BuildSymbolProfile validates a symbol snapshot and resolves it into an
// immutable profile. Fails with a ConfigError when the pair is not
// tradeable, a required filter type is missing, or a precision cannot be
// derived exactly.
func BuildSymbolProfile(snap *SymbolSnapshot, avgPrice decimal.Decimal) (*SymbolProfile, error) {
	if snap == nil {
		return nil, &ConfigError{Field: "symbol", Err: ErrSymbolNotFound}
	}
	if snap.Status != StatusTrading {
		return nil, &ConfigError{
			Field: "status",
			Err:   fmt.Errorf("%s is not trading (status %s)", snap.Symbol, snap.Status),
		}
	}
	if !snap.IsSpotTradingAllowed {
		return nil, &ConfigError{
			Field: "spot",
			Err:   fmt.Errorf("spot trading is not allowed on %s", snap.Symbol),
		}
	}
	if !snap.OCOAllowed {
		return nil, &ConfigError{
			Field: "oco",
			Err:   fmt.Errorf("OCO orders are not allowed on %s", snap.Symbol),
		}
	}

	priceRule, err := parsePriceFilter(snap.Filters)
	if err != nil {
		return nil, err
	}
	percentRule, err := parsePercentPriceFilter(snap.Filters)
	if err != nil {
		return nil, err
	}
	lotRule, err := parseLotSizeFilter(snap.Filters)
	if err != nil {
		return nil, err
	}
	marketLotRule, err := parseMarketLotSizeFilter(snap.Filters)
	if err != nil {
		return nil, err
	}

	pricePrecision, err := DerivePrecision(priceRule.TickSize)
	if err != nil {
		return nil, &ConfigError{Field: "tick_size", Err: err}
	}
	qtyPrecision, err := DerivePrecision(lotRule.StepSize)
	if err != nil {
		return nil, &ConfigError{Field: "step_size", Err: err}
	}

	return &SymbolProfile{
		Symbol:         snap.Symbol,
		Status:         snap.Status,
		BaseAsset:      snap.BaseAsset,
		QuoteAsset:     snap.QuoteAsset,
		SpotAllowed:    snap.IsSpotTradingAllowed,
		OCOAllowed:     snap.OCOAllowed,
		PriceRule:      priceRule,
		PercentRule:    percentRule,
		LotRule:        lotRule,
		MarketLotRule:  marketLotRule,
		AvgPrice:       avgPrice,
		PricePrecision: pricePrecision,
		QtyPrecision:   qtyPrecision,
	}, nil
}

func findFilter(filters []FilterSnapshot, filterType string) (FilterSnapshot, error) {
	for _, f := range filters {
		if f.Type == filterType {
			return f, nil
		}
	}
	return FilterSnapshot{}, &ConfigError{
		Field: "filters",
		Err:   fmt.Errorf("required filter %s is missing", filterType),
	}
}

func parseDecimalField(filterType, name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ConfigError{
			Field: "filters",
			Err:   fmt.Errorf("%s.%s: bad decimal %q", filterType, name, value),
		}
	}
	return d, nil
}

func parsePriceFilter(filters []FilterSnapshot) (PriceFilter, error) {
	raw, err := findFilter(filters, FilterTypePrice)
	if err != nil {
		return PriceFilter{}, err
	}
	min, err := parseDecimalField(raw.Type, "minPrice", raw.MinPrice)
	if err != nil {
		return PriceFilter{}, err
	}
	max, err := parseDecimalField(raw.Type, "maxPrice", raw.MaxPrice)
	if err != nil {
		return PriceFilter{}, err
	}
	tick, err := parseDecimalField(raw.Type, "tickSize", raw.TickSize)
	if err != nil {
		return PriceFilter{}, err
	}
	return PriceFilter{MinPrice: min, MaxPrice: max, TickSize: tick}, nil
}

func parsePercentPriceFilter(filters []FilterSnapshot) (PercentPriceFilter, error) {
	raw, err := findFilter(filters, FilterTypePercentPrice)
	if err != nil {
		return PercentPriceFilter{}, err
	}
	up, err := parseDecimalField(raw.Type, "multiplierUp", raw.MultiplierUp)
	if err != nil {
		return PercentPriceFilter{}, err
	}
	down, err := parseDecimalField(raw.Type, "multiplierDown", raw.MultiplierDown)
	if err != nil {
		return PercentPriceFilter{}, err
	}
	return PercentPriceFilter{MultiplierUp: up, MultiplierDown: down, AvgPriceMins: raw.AvgPriceMins}, nil
}

func parseLotSizeFilter(filters []FilterSnapshot) (LotSizeFilter, error) {
	raw, err := findFilter(filters, FilterTypeLotSize)
	if err != nil {
		return LotSizeFilter{}, err
	}
	min, err := parseDecimalField(raw.Type, "minQty", raw.MinQty)
	if err != nil {
		return LotSizeFilter{}, err
	}
	max, err := parseDecimalField(raw.Type, "maxQty", raw.MaxQty)
	if err != nil {
		return LotSizeFilter{}, err
	}
	step, err := parseDecimalField(raw.Type, "stepSize", raw.StepSize)
	if err != nil {
		return LotSizeFilter{}, err
	}
	return LotSizeFilter{MinQty: min, MaxQty: max, StepSize: step}, nil
}

func parseMarketLotSizeFilter(filters []FilterSnapshot) (MarketLotSizeFilter, error) {
	raw, err := findFilter(filters, FilterTypeMarketLotSize)
	if err != nil {
		return MarketLotSizeFilter{}, err
	}
	min, err := parseDecimalField(raw.Type, "minQty", raw.MinQty)
	if err != nil {
		return MarketLotSizeFilter{}, err
	}
	max, err := parseDecimalField(raw.Type, "maxQty", raw.MaxQty)
	if err != nil {
		return MarketLotSizeFilter{}, err
	}
	step, err := parseDecimalField(raw.Type, "stepSize", raw.StepSize)
	if err != nil {
		return MarketLotSizeFilter{}, err
	}
	return MarketLotSizeFilter{MinQty: min, MaxQty: max, StepSize: step}, nil
}
