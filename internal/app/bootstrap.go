package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"oco_trader/internal/domain"
	"oco_trader/internal/infra"
	"oco_trader/internal/infra/binance"
	"oco_trader/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Journal *storage.Storage
	Gateway *binance.Gateway
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (env, config, logger,
// journal, gateway).
func (b *Bootstrap) Initialize(configPath string) error {
	// .env is optional; real deployments use exported variables.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Journal.Enabled {
		journal, err := storage.NewStorage(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = journal
		slog.Info("✅ Trade journal initialized")
	}

	b.Gateway = binance.NewGateway(cfg)
	return nil
}

// CheckConnectivity verifies the exchange is reachable and logs its clock.
// A run must not start against a down or unreachable API.
func (b *Bootstrap) CheckConnectivity(ctx context.Context) error {
	if err := b.Gateway.Ping(ctx); err != nil {
		return fmt.Errorf("exchange API is unreachable: %w", err)
	}
	serverTime, err := b.Gateway.ServerTime(ctx)
	if err != nil {
		return fmt.Errorf("exchange API is unreachable: %w", err)
	}
	slog.Info("✅ Exchange API is up", "server_time", serverTime.Format("2006-01-02 15:04:05Z"))
	return nil
}

// TradeJournal returns the journal as a domain interface, nil when
// journaling is disabled.
func (b *Bootstrap) TradeJournal() domain.TradeJournal {
	if b.Journal == nil {
		return nil
	}
	return b.Journal
}
