package domain

import (
	"time"
)

// TradeRecord is one journaled order event (a buy fill or a submitted OCO
// leg pair). Prices and quantities are stored as the exact strings sent to
// or received from the exchange.
type TradeRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Symbol     string    `gorm:"index" json:"symbol"`
	Side       string    `json:"side"`
	Kind       string    `json:"kind"` // MARKET_BUY, LIMIT_BUY, OCO_SELL
	OrderID    int64     `gorm:"index" json:"order_id"`
	Price      string    `json:"price"`
	Quantity   string    `json:"quantity"`
	QuoteTotal string    `json:"quote_total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
