package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"oco_trader/internal/app"
	"oco_trader/internal/domain"
	"oco_trader/internal/engine"
	"oco_trader/internal/infra/binance"
	"oco_trader/internal/service"
)

type cliArgs struct {
	configPath string
	symbol     string
	buyType    string
	quantity   decimal.Decimal
	price      decimal.Decimal
	total      decimal.Decimal
	profit     decimal.Decimal
	loss       decimal.Decimal
}

func main() {
	args, err := parseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(args.configPath); err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap failed:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, bootstrap, args); err != nil {
		slog.Error("❌ Trade failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, bootstrap *app.Bootstrap, args *cliArgs) error {
	if err := bootstrap.CheckConnectivity(ctx); err != nil {
		return err
	}

	profile, err := service.NewSymbolService(bootstrap.Gateway).GetProfile(ctx, args.symbol)
	if err != nil {
		return err
	}

	var spec domain.OrderSpec
	switch args.buyType {
	case "limit":
		spec, err = domain.NewLimitBuy(profile, args.quantity, args.price)
	case "market":
		spec, err = domain.NewMarketBuy(profile, args.total)
	}
	if err != nil {
		return err
	}

	cfg := bootstrap.Config
	executor := engine.NewExecutor(bootstrap.Gateway, profile, engine.Config{
		SettleDelay:  cfg.SettleDelay(),
		PollInterval: cfg.PollInterval(),
		PollRetry: engine.Policy{
			MaxAttempts: cfg.Engine.PollRetryMax,
			Interval:    cfg.PollRetryDelay(),
		},
	}, bootstrap.TradeJournal())

	// Optional live price feed while waiting for the fill; display only.
	if cfg.Stream.Enabled {
		watcher := binance.NewWatcher(cfg.API.Binance.WSURL, profile.Symbol)
		if err := watcher.Start(ctx); err != nil {
			slog.Warn("price watcher failed to start", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	order, err := executor.ExecuteBuy(ctx, spec)
	if err != nil {
		return err
	}
	printBuySummary(profile, order)

	result, err := executor.ExecuteSellBracket(ctx, order, args.profit, args.loss)
	if err != nil {
		return err
	}
	printOCOSummary(result)
	return nil
}

func printBuySummary(p *domain.SymbolProfile, order *domain.OrderInProgress) {
	fmt.Println("=========================")
	fmt.Println("=== Buy order summary ===")
	fmt.Printf("=> Buy price: %s %s\n",
		engine.FormatPrice(order.Info.Price, p.PricePrecision), p.QuoteAsset)
	fmt.Printf("=> Total price: %s %s\n",
		engine.FormatPrice(order.Info.CumulativeQuoteQty, p.PricePrecision), p.QuoteAsset)
	fmt.Printf("=> Buy quantity: %s %s\n",
		engine.FormatPrice(order.Info.ExecutedQty, p.QtyPrecision), p.BaseAsset)
}

func printOCOSummary(result *domain.OCOResult) {
	fmt.Println("=========================")
	fmt.Println("=== OCO order summary ===")
	printLeg("Stop loss limit order", result.StopLossLimit)
	printLeg("Limit maker order", result.LimitMaker)
}

func printLeg(title string, leg domain.OrderReport) {
	fmt.Printf("== %s:\n", title)
	fmt.Printf("   id=%d status=%s price=%s stop=%s qty=%s tif=%s\n",
		leg.OrderID, leg.Status, leg.Price, leg.StopPrice, leg.OrigQty, leg.TimeInForce)
}

func parseArgs() (*cliArgs, error) {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to the yaml config file")
		symbol     = flag.String("symbol", "", "symbol of the crypto pair to trade (e.g. BTCUSDT)")
		buyType    = flag.String("buy-type", "", "type of buy order to execute: limit or market")
		quantity   = flag.String("quantity", "", "quantity to buy (limit orders, decimal)")
		price      = flag.String("price", "", "unit price to spend (limit orders, decimal)")
		total      = flag.String("total", "", "total quote amount to spend (market orders, decimal)")
		profit     = flag.String("profit", "", "profit to take, percentage in (0, 100]")
		loss       = flag.String("loss", "", "stoploss, percentage in (0, 100]")
	)
	flag.Parse()

	args := &cliArgs{configPath: *configPath, symbol: *symbol, buyType: *buyType}
	if args.symbol == "" {
		return nil, fmt.Errorf("-symbol is required")
	}

	var err error
	switch args.buyType {
	case "limit":
		if args.quantity, err = parsePositiveDecimal("quantity", *quantity); err != nil {
			return nil, err
		}
		if args.price, err = parsePositiveDecimal("price", *price); err != nil {
			return nil, err
		}
	case "market":
		if args.total, err = parsePositiveDecimal("total", *total); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("-buy-type must be limit or market, got %q", args.buyType)
	}

	if args.profit, err = parsePositiveDecimal("profit", *profit); err != nil {
		return nil, err
	}
	if args.loss, err = parsePositiveDecimal("loss", *loss); err != nil {
		return nil, err
	}
	if err := engine.ValidatePercent("profit", args.profit); err != nil {
		return nil, err
	}
	if err := engine.ValidatePercent("loss", args.loss); err != nil {
		return nil, err
	}
	return args, nil
}

func parsePositiveDecimal(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("-%s is required", name)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("-%s: invalid decimal %q", name, value)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("-%s must be positive, got %s", name, value)
	}
	return d, nil
}
