package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"oco_trader/internal/domain"
	"oco_trader/internal/infra"
)

// State identifies a step of the order lifecycle.
type State int

const (
	StateNew State = iota
	StateSubmitted
	StatePollingFill
	StateFilled
	StateCanceledExternally
	StateUnresponsive
	StateBracketSubmitted
	StateCancelAttempted
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSubmitted:
		return "SUBMITTED"
	case StatePollingFill:
		return "POLLING_FILL"
	case StateFilled:
		return "FILLED"
	case StateCanceledExternally:
		return "CANCELED_EXTERNALLY"
	case StateUnresponsive:
		return "UNRESPONSIVE"
	case StateBracketSubmitted:
		return "BRACKET_SUBMITTED"
	case StateCancelAttempted:
		return "CANCEL_ATTEMPTED"
	case StateFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Config carries the engine timing and retry knobs.
type Config struct {
	// SettleDelay is how long to wait after submission before the first
	// status fetch, letting the exchange's read path observe the order.
	SettleDelay time.Duration
	// PollInterval is the pause between poll cycles while unfilled.
	PollInterval time.Duration
	// PollRetry bounds transient-error retries inside one poll cycle.
	PollRetry Policy
}

// Executor drives one buy order to a terminal state, then protects the
// resulting position with an OCO sell bracket. One fully sequential flow:
// every gateway call blocks, and the only suspension is a plain sleep
// between poll cycles.
type Executor struct {
	gw      domain.ExchangeGateway
	profile *domain.SymbolProfile
	cfg     Config
	journal domain.TradeJournal // optional, nil disables journaling
	logger  *slog.Logger

	state State
}

// NewExecutor wires an executor for one symbol profile. journal may be nil.
func NewExecutor(gw domain.ExchangeGateway, profile *domain.SymbolProfile, cfg Config, journal domain.TradeJournal) *Executor {
	return &Executor{
		gw:      gw,
		profile: profile,
		cfg:     cfg,
		journal: journal,
		logger:  slog.Default().With("module", "executor", "symbol", profile.Symbol),
		state:   StateNew,
	}
}

// State returns the current lifecycle state.
func (e *Executor) State() State {
	return e.state
}

// ExecuteBuy submits the buy order and polls until it reaches a terminal
// fill/cancel state. Submission happens exactly once: a submission failure
// is fatal, never retried, so a duplicate order is impossible. Fill waiting
// has no overall deadline; only transient fetch errors inside one poll
// cycle are bounded, and exhausting that budget escalates to a single
// best-effort cancel.
func (e *Executor) ExecuteBuy(ctx context.Context, spec domain.OrderSpec) (*domain.OrderInProgress, error) {
	orderID, err := e.submit(ctx, spec)
	if err != nil {
		e.state = StateFatal
		infra.GlobalMetrics.RecordError()
		return nil, fmt.Errorf("buy submission failed for %s: %w", spec.Symbol, err)
	}
	e.state = StateSubmitted
	infra.GlobalMetrics.RecordOrderSubmitted()
	e.logger.Info("buy order submitted", "order_id", orderID, "kind", spec.Kind.String())

	order := &domain.OrderInProgress{OrderID: orderID, Spec: spec}

	time.Sleep(e.cfg.SettleDelay)
	e.state = StatePollingFill

	for {
		info, err := e.pollOnce(ctx, order)
		if err != nil {
			if domain.IsRetriable(err) {
				// Transient budget exhausted without one successful fetch.
				return nil, e.escalate(ctx, order, err)
			}
			e.state = StateFatal
			infra.GlobalMetrics.RecordError()
			return nil, fmt.Errorf("order %d on %s: status fetch failed: %w", orderID, spec.Symbol, err)
		}

		order.Info = info
		switch info.Status {
		case domain.OrderStatusFilled:
			e.state = StateFilled
			infra.GlobalMetrics.RecordOrderFilled()
			e.logger.Info("buy order filled",
				"order_id", orderID,
				"executed_qty", info.ExecutedQty.String(),
				"cumulative_quote", info.CumulativeQuoteQty.String())
			e.journalBuy(order)
			return order, nil

		case domain.OrderStatusCanceled:
			e.state = StateCanceledExternally
			infra.GlobalMetrics.RecordError()
			return nil, fmt.Errorf("order %d on %s (last status %s): %w",
				orderID, spec.Symbol, info.Status, domain.ErrOrderCanceled)

		default:
			e.logger.Info("buy order not filled yet", "order_id", orderID, "status", info.Status)
			time.Sleep(e.cfg.PollInterval)
		}
	}
}

// ExecuteSellBracket computes bracket prices from the confirmed fill and
// submits one OCO sell covering the full executed quantity. The OCO
// submission is never retried: a failure leaves the position unprotected
// and must surface loudly rather than risk duplicate sells.
func (e *Executor) ExecuteSellBracket(ctx context.Context, order *domain.OrderInProgress, profit, loss decimal.Decimal) (*domain.OCOResult, error) {
	if e.state != StateFilled {
		return nil, fmt.Errorf("sell bracket requires a filled buy, state is %s", e.state)
	}
	if err := ValidatePercent("profit", profit); err != nil {
		return nil, err
	}
	if err := ValidatePercent("loss", loss); err != nil {
		return nil, err
	}

	fill, err := FillPrice(order.Spec, order.Info)
	if err != nil {
		e.state = StateFatal
		return nil, err
	}

	profitPrice, stopPrice := BracketPrices(fill, profit, loss, e.profile.PricePrecision)
	e.logger.Info("bracket computed",
		"fill_price", FormatPrice(fill, e.profile.PricePrecision),
		"profit_price", FormatPrice(profitPrice, e.profile.PricePrecision),
		"stop_price", FormatPrice(stopPrice, e.profile.PricePrecision))

	// The stop leg's limit price reuses the stop trigger, as the original
	// bracket contract does.
	spec, err := domain.NewOCOSell(e.profile, order.Info.ExecutedQty, profitPrice, stopPrice, stopPrice)
	if err != nil {
		e.state = StateFatal
		infra.GlobalMetrics.RecordError()
		return nil, fmt.Errorf("position unprotected, bracket rejected by trading rules: %w", err)
	}

	result, err := e.gw.CreateOCOSell(ctx, spec)
	if err != nil {
		e.state = StateFatal
		infra.GlobalMetrics.RecordError()
		return nil, fmt.Errorf("position unprotected, OCO submission failed for order %d on %s: %w",
			order.OrderID, order.Spec.Symbol, err)
	}

	e.state = StateBracketSubmitted
	infra.GlobalMetrics.RecordOCOSubmitted()
	e.logger.Info("OCO sell bracket submitted",
		"stop_loss_order_id", result.StopLossLimit.OrderID,
		"limit_maker_order_id", result.LimitMaker.OrderID)
	e.journalOCO(spec, result)
	return result, nil
}

// submit dispatches exactly one submission call for the order variant.
func (e *Executor) submit(ctx context.Context, spec domain.OrderSpec) (int64, error) {
	switch spec.Kind {
	case domain.OrderKindMarketBuy:
		return e.gw.MarketBuy(ctx, spec.Symbol, spec.TotalQuote)
	case domain.OrderKindLimitBuy:
		return e.gw.LimitBuy(ctx, spec.Symbol, spec.Quantity, spec.Price)
	default:
		return 0, fmt.Errorf("order kind %s cannot be submitted as a buy", spec.Kind)
	}
}

// pollOnce runs one poll cycle: a status fetch retried on transient errors
// up to the policy's attempt cap.
func (e *Executor) pollOnce(ctx context.Context, order *domain.OrderInProgress) (domain.OrderInfo, error) {
	infra.GlobalMetrics.RecordPollCycle()
	var info domain.OrderInfo
	err := e.cfg.PollRetry.Do(ctx, func() error {
		var fetchErr error
		info, fetchErr = e.gw.GetOrder(ctx, order.Spec.Symbol, order.OrderID)
		if fetchErr != nil && domain.IsRetriable(fetchErr) {
			infra.GlobalMetrics.RecordTransientRetry()
			e.logger.Warn("status fetch failed, retrying", "order_id", order.OrderID, "error", fetchErr)
		}
		return fetchErr
	})
	return info, err
}

// escalate handles an unresponsive gateway: an open order with no fill
// confirmation is a dangling liability, so issue one best-effort cancel
// and terminate reporting both outcomes.
func (e *Executor) escalate(ctx context.Context, order *domain.OrderInProgress, cause error) error {
	e.state = StateUnresponsive
	e.logger.Warn("status polling exhausted, attempting cancel", "order_id", order.OrderID, "cause", cause)

	cancelErr := e.gw.CancelOrder(ctx, order.Spec.Symbol, order.OrderID)
	e.state = StateCancelAttempted
	infra.GlobalMetrics.RecordCancelAttempt()
	infra.GlobalMetrics.RecordError()

	if cancelErr != nil {
		return fmt.Errorf("order %d on %s: %w (cause: %v; cancel also failed: %v)",
			order.OrderID, order.Spec.Symbol, domain.ErrGatewayUnresponsive, cause, cancelErr)
	}
	e.logger.Info("order canceled after unresponsive gateway", "order_id", order.OrderID)
	return fmt.Errorf("order %d on %s: %w (cause: %v; order canceled)",
		order.OrderID, order.Spec.Symbol, domain.ErrGatewayUnresponsive, cause)
}

func (e *Executor) journalBuy(order *domain.OrderInProgress) {
	if e.journal == nil {
		return
	}
	rec := &domain.TradeRecord{
		Symbol:     order.Spec.Symbol,
		Side:       domain.SideBuy,
		Kind:       order.Spec.Kind.String(),
		OrderID:    order.OrderID,
		Price:      FormatPrice(order.Info.Price, e.profile.PricePrecision),
		Quantity:   order.Info.ExecutedQty.String(),
		QuoteTotal: order.Info.CumulativeQuoteQty.String(),
		Status:     order.Info.Status,
	}
	if err := e.journal.SaveTrade(rec); err != nil {
		e.logger.Warn("failed to journal buy fill", "order_id", order.OrderID, "error", err)
	}
}

func (e *Executor) journalOCO(spec domain.OrderSpec, result *domain.OCOResult) {
	if e.journal == nil {
		return
	}
	for _, leg := range []domain.OrderReport{result.StopLossLimit, result.LimitMaker} {
		rec := &domain.TradeRecord{
			Symbol:   spec.Symbol,
			Side:     domain.SideSell,
			Kind:     spec.Kind.String() + "/" + leg.Type,
			OrderID:  leg.OrderID,
			Price:    leg.Price,
			Quantity: leg.OrigQty,
			Status:   leg.Status,
		}
		if err := e.journal.SaveTrade(rec); err != nil {
			e.logger.Warn("failed to journal OCO leg", "order_id", leg.OrderID, "error", err)
		}
	}
}
