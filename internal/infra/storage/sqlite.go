package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"oco_trader/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the SQLite-backed trade journal.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the journal database at path. An empty
// path resolves to the user config directory.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.TradeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "OcoTrader", "data", "trades.db"), nil
}

// SaveTrade appends one trade record to the journal.
func (s *Storage) SaveTrade(rec *domain.TradeRecord) error {
	return s.db.Create(rec).Error
}

// ListTrades returns all journaled trades for a symbol, newest first.
func (s *Storage) ListTrades(symbol string) ([]*domain.TradeRecord, error) {
	var records []*domain.TradeRecord
	err := s.db.Where("symbol = ?", symbol).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LastTrade returns the most recent journaled trade for a symbol, or nil.
func (s *Storage) LastTrade(symbol string) (*domain.TradeRecord, error) {
	var rec domain.TradeRecord
	err := s.db.Where("symbol = ?", symbol).Order("created_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
