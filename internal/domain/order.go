package domain

import "github.com/shopspring/decimal"

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TimeInForceGTC = "GTC"

	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"
)

// OrderKind tags the closed set of order variants. The execution engine
// matches on it exhaustively.
type OrderKind int

const (
	OrderKindMarketBuy OrderKind = iota
	OrderKindLimitBuy
	OrderKindStopLimit
	OrderKindOCOSell
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindMarketBuy:
		return "MARKET_BUY"
	case OrderKindLimitBuy:
		return "LIMIT_BUY"
	case OrderKindStopLimit:
		return "STOP_LIMIT"
	case OrderKindOCOSell:
		return "OCO_SELL"
	default:
		return "UNKNOWN"
	}
}

// OrderSpec is an immutable, already-validated order. Construct only
// through the New* constructors below; they run every applicable filter
// check and never return a partially valid spec. Fields not used by a
// variant stay zero.
type OrderSpec struct {
	Kind   OrderKind
	Symbol string
	Side   string

	Quantity       decimal.Decimal // base asset (limit, stop-limit, OCO)
	Price          decimal.Decimal // limit leg price
	TotalQuote     decimal.Decimal // quote asset total (market buy)
	StopPrice      decimal.Decimal // stop trigger (stop-limit, OCO)
	StopLimitPrice decimal.Decimal // stop leg limit price (OCO)
	TimeInForce    string

	// Formatting precisions, carried from the profile so the gateway can
	// render price strings with deterministic trailing-zero padding.
	PricePrecision int32
	QtyPrecision   int32
}

// NewMarketBuy builds a market buy spending totalQuote of the quote asset.
func NewMarketBuy(p *SymbolProfile, totalQuote decimal.Decimal) (OrderSpec, error) {
	if v := ValidateMarketTotal(p.MarketLotRule, totalQuote, p.QtyPrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "total", Value: totalQuote, Violation: v}
	}
	return OrderSpec{
		Kind:           OrderKindMarketBuy,
		Symbol:         p.Symbol,
		Side:           SideBuy,
		TotalQuote:     totalQuote,
		PricePrecision: p.PricePrecision,
		QtyPrecision:   p.QtyPrecision,
	}, nil
}

// NewLimitBuy builds a limit buy for qty of the base asset at price.
func NewLimitBuy(p *SymbolProfile, qty, price decimal.Decimal) (OrderSpec, error) {
	if v := ValidateQuantity(p.LotRule, qty, p.QtyPrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "quantity", Value: qty, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, price, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "price", Value: price, Violation: v}
	}
	return OrderSpec{
		Kind:           OrderKindLimitBuy,
		Symbol:         p.Symbol,
		Side:           SideBuy,
		Quantity:       qty,
		Price:          price,
		TimeInForce:    TimeInForceGTC,
		PricePrecision: p.PricePrecision,
		QtyPrecision:   p.QtyPrecision,
	}, nil
}

// NewStopLimit builds a stop-limit order. Both the limit price and the stop
// trigger price must independently satisfy the price rules.
func NewStopLimit(p *SymbolProfile, side string, qty, price, stopPrice decimal.Decimal) (OrderSpec, error) {
	if v := ValidateQuantity(p.LotRule, qty, p.QtyPrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "quantity", Value: qty, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, price, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "price", Value: price, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, stopPrice, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "stop_price", Value: stopPrice, Violation: v}
	}
	return OrderSpec{
		Kind:           OrderKindStopLimit,
		Symbol:         p.Symbol,
		Side:           side,
		Quantity:       qty,
		Price:          price,
		StopPrice:      stopPrice,
		TimeInForce:    TimeInForceGTC,
		PricePrecision: p.PricePrecision,
		QtyPrecision:   p.QtyPrecision,
	}, nil
}

// NewOCOSell builds a one-cancels-other sell bracket: a limit-maker
// take-profit leg at price and a stop-loss-limit leg triggering at
// stopPrice with limit stopLimitPrice. Every price leg must independently
// pass the price rules.
func NewOCOSell(p *SymbolProfile, qty, price, stopPrice, stopLimitPrice decimal.Decimal) (OrderSpec, error) {
	if v := ValidateQuantity(p.LotRule, qty, p.QtyPrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "quantity", Value: qty, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, price, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "price", Value: price, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, stopPrice, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "stop_price", Value: stopPrice, Violation: v}
	}
	if v := ValidatePrice(p.PriceRule, p.PercentRule, p.AvgPrice, stopLimitPrice, p.PricePrecision); v != ViolationNone {
		return OrderSpec{}, &ValidationError{Field: "stop_limit_price", Value: stopLimitPrice, Violation: v}
	}
	return OrderSpec{
		Kind:           OrderKindOCOSell,
		Symbol:         p.Symbol,
		Side:           SideSell,
		Quantity:       qty,
		Price:          price,
		StopPrice:      stopPrice,
		StopLimitPrice: stopLimitPrice,
		TimeInForce:    TimeInForceGTC,
		PricePrecision: p.PricePrecision,
		QtyPrecision:   p.QtyPrecision,
	}, nil
}

// OrderInfo is a point-in-time order snapshot from the exchange.
type OrderInfo struct {
	Status             string
	Price              decimal.Decimal
	ExecutedQty        decimal.Decimal
	CumulativeQuoteQty decimal.Decimal
}

// IsOpen checks if the order is still active.
func (i OrderInfo) IsOpen() bool {
	return i.Status == OrderStatusNew || i.Status == OrderStatusPartiallyFilled
}

// OrderInProgress tracks a submitted order through the fill poll loop.
// Owned exclusively by the execution engine; Info is refreshed on each
// successful poll and nowhere else.
type OrderInProgress struct {
	OrderID int64
	Spec    OrderSpec
	Info    OrderInfo
}

// OrderReport is one leg of an OCO response, as reported by the exchange.
// Values stay in exchange string form; they are display output, not inputs
// to further arithmetic.
type OrderReport struct {
	OrderID     int64
	Symbol      string
	Type        string
	Status      string
	Price       string
	StopPrice   string
	OrigQty     string
	TimeInForce string
}

// OCOResult pairs the two legs of a submitted OCO bracket.
type OCOResult struct {
	StopLossLimit OrderReport
	LimitMaker    OrderReport
}
