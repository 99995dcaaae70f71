package binance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	api "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"oco_trader/internal/domain"
	"oco_trader/internal/infra"
)

// Gateway implements domain.ExchangeGateway against the Binance spot REST
// API (boundary layer). All decimal/string conversion happens here.
type Gateway struct {
	client *api.Client
	logger *slog.Logger
}

// NewGateway creates a new Binance gateway from the application config.
func NewGateway(cfg *infra.Config) *Gateway {
	client := api.NewClient(cfg.API.Binance.APIKey, cfg.API.Binance.SecretKey)
	if cfg.API.Binance.RestURL != "" {
		client.BaseURL = cfg.API.Binance.RestURL
	}
	client.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 30 * time.Second,
		},
	}

	return &Gateway{
		client: client,
		logger: slog.Default().With("module", "binance_gateway"),
	}
}

// wrapErr classifies a gateway failure: an explicit exchange-reported API
// error is fatal, a transport-level failure is retriable.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return &domain.ExchangeError{Op: op, Code: apiErr.Code, Message: apiErr.Message}
	}
	return domain.NewNetworkError(op, err)
}

// newClientOrderID generates a unique client order id for submissions.
func newClientOrderID() string {
	return uuid.NewString()
}

// Ping checks API reachability.
func (g *Gateway) Ping(ctx context.Context) error {
	return wrapErr("ping", g.client.NewPingService().Do(ctx))
}

// ServerTime returns the exchange server clock.
func (g *Gateway) ServerTime(ctx context.Context) (time.Time, error) {
	ms, err := g.client.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, wrapErr("server_time", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// SymbolInfo fetches raw symbol metadata including the filter list.
func (g *Gateway) SymbolInfo(ctx context.Context, symbol string) (*domain.SymbolSnapshot, error) {
	info, err := g.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, wrapErr("exchange_info", err)
	}
	for i := range info.Symbols {
		if info.Symbols[i].Symbol == symbol {
			return toSnapshot(&info.Symbols[i]), nil
		}
	}
	return nil, &domain.ConfigError{
		Field: "symbol",
		Err:   fmt.Errorf("%s: %w", symbol, domain.ErrSymbolNotFound),
	}
}

func toSnapshot(s *api.Symbol) *domain.SymbolSnapshot {
	snap := &domain.SymbolSnapshot{
		Symbol:               s.Symbol,
		Status:               s.Status,
		BaseAsset:            s.BaseAsset,
		QuoteAsset:           s.QuoteAsset,
		IsSpotTradingAllowed: s.IsSpotTradingAllowed,
		OCOAllowed:           s.OcoAllowed,
	}
	for _, f := range s.Filters {
		snap.Filters = append(snap.Filters, domain.FilterSnapshot{
			Type:           asString(f["filterType"]),
			MinPrice:       asString(f["minPrice"]),
			MaxPrice:       asString(f["maxPrice"]),
			TickSize:       asString(f["tickSize"]),
			MultiplierUp:   asString(f["multiplierUp"]),
			MultiplierDown: asString(f["multiplierDown"]),
			AvgPriceMins:   asInt(f["avgPriceMins"]),
			MinQty:         asString(f["minQty"]),
			MaxQty:         asString(f["maxQty"]),
			StepSize:       asString(f["stepSize"]),
		})
	}
	return snap
}

// The filter list arrives as loosely typed JSON maps.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}

// AvgPrice fetches the current average trade price for the symbol.
func (g *Gateway) AvgPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	avg, err := g.client.NewAveragePriceService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, wrapErr("avg_price", err)
	}
	price, err := decimal.NewFromString(avg.Price)
	if err != nil {
		return decimal.Zero, domain.NewFatalNetworkError("avg_price", fmt.Errorf("bad price %q: %w", avg.Price, err))
	}
	return price, nil
}

// MarketBuy submits a market buy spending quoteTotal of the quote asset.
func (g *Gateway) MarketBuy(ctx context.Context, symbol string, quoteTotal decimal.Decimal) (int64, error) {
	res, err := g.client.NewCreateOrderService().
		Symbol(symbol).
		Side(api.SideTypeBuy).
		Type(api.OrderTypeMarket).
		QuoteOrderQty(quoteTotal.String()).
		NewClientOrderID(newClientOrderID()).
		Do(ctx)
	if err != nil {
		return 0, wrapErr("market_buy", err)
	}
	g.logger.Info("market buy accepted", "symbol", symbol, "order_id", res.OrderID)
	return res.OrderID, nil
}

// LimitBuy submits a GTC limit buy.
func (g *Gateway) LimitBuy(ctx context.Context, symbol string, qty, price decimal.Decimal) (int64, error) {
	res, err := g.client.NewCreateOrderService().
		Symbol(symbol).
		Side(api.SideTypeBuy).
		Type(api.OrderTypeLimit).
		TimeInForce(api.TimeInForceTypeGTC).
		Quantity(qty.String()).
		Price(price.String()).
		NewClientOrderID(newClientOrderID()).
		Do(ctx)
	if err != nil {
		return 0, wrapErr("limit_buy", err)
	}
	g.logger.Info("limit buy accepted", "symbol", symbol, "order_id", res.OrderID)
	return res.OrderID, nil
}

// GetOrder fetches the current order status snapshot.
func (g *Gateway) GetOrder(ctx context.Context, symbol string, orderID int64) (domain.OrderInfo, error) {
	o, err := g.client.NewGetOrderService().
		Symbol(symbol).
		OrderID(orderID).
		Do(ctx)
	if err != nil {
		return domain.OrderInfo{}, wrapErr("get_order", err)
	}

	price, err := decimal.NewFromString(o.Price)
	if err != nil {
		return domain.OrderInfo{}, domain.NewFatalNetworkError("get_order", fmt.Errorf("bad price %q: %w", o.Price, err))
	}
	executed, err := decimal.NewFromString(o.ExecutedQuantity)
	if err != nil {
		return domain.OrderInfo{}, domain.NewFatalNetworkError("get_order", fmt.Errorf("bad executedQty %q: %w", o.ExecutedQuantity, err))
	}
	cumQuote, err := decimal.NewFromString(o.CummulativeQuoteQuantity)
	if err != nil {
		return domain.OrderInfo{}, domain.NewFatalNetworkError("get_order", fmt.Errorf("bad cummulativeQuoteQty %q: %w", o.CummulativeQuoteQuantity, err))
	}

	return domain.OrderInfo{
		Status:             string(o.Status),
		Price:              price,
		ExecutedQty:        executed,
		CumulativeQuoteQty: cumQuote,
	}, nil
}

// CancelOrder issues a cancel for an open order.
func (g *Gateway) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	_, err := g.client.NewCancelOrderService().
		Symbol(symbol).
		OrderID(orderID).
		Do(ctx)
	if err != nil {
		return wrapErr("cancel_order", err)
	}
	g.logger.Info("order canceled", "symbol", symbol, "order_id", orderID)
	return nil
}

// CreateOCOSell submits the sell bracket. Prices are rendered with the
// spec's precision so the exchange receives deterministic trailing-zero
// padding.
func (g *Gateway) CreateOCOSell(ctx context.Context, spec domain.OrderSpec) (*domain.OCOResult, error) {
	res, err := g.client.NewCreateOCOService().
		Symbol(spec.Symbol).
		Side(api.SideTypeSell).
		Quantity(spec.Quantity.String()).
		Price(spec.Price.StringFixed(spec.PricePrecision)).
		StopPrice(spec.StopPrice.StringFixed(spec.PricePrecision)).
		StopLimitPrice(spec.StopLimitPrice.StringFixed(spec.PricePrecision)).
		StopLimitTimeInForce(api.TimeInForceTypeGTC).
		Do(ctx)
	if err != nil {
		return nil, wrapErr("create_oco", err)
	}

	var result domain.OCOResult
	for _, r := range res.OrderReports {
		report := domain.OrderReport{
			OrderID:     r.OrderID,
			Symbol:      r.Symbol,
			Type:        string(r.Type),
			Status:      string(r.Status),
			Price:       r.Price,
			StopPrice:   r.StopPrice,
			OrigQty:     r.OrigQuantity,
			TimeInForce: string(r.TimeInForce),
		}
		switch r.Type {
		case api.OrderTypeStopLossLimit:
			result.StopLossLimit = report
		case api.OrderTypeLimitMaker:
			result.LimitMaker = report
		}
	}
	g.logger.Info("OCO sell accepted",
		"symbol", spec.Symbol,
		"stop_loss_order_id", result.StopLossLimit.OrderID,
		"limit_maker_order_id", result.LimitMaker.OrderID)
	return &result, nil
}
