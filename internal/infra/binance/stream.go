package binance

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	watchReadTimeout = 90 * time.Second
	watchMaxBackoff  = 30 * time.Second
)

// miniTickerMessage is the Binance <symbol>@miniTicker stream payload.
type miniTickerMessage struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

// Watcher streams miniTicker updates for one symbol while the engine waits
// for a fill. Display-only: it logs the last trade price and never touches
// engine state.
type Watcher struct {
	wsURL  string
	symbol string
	logger *slog.Logger

	conn      *websocket.Conn
	mu        sync.RWMutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWatcher creates a price watcher for symbol. wsURL is the stream host,
// e.g. wss://stream.binance.com:9443.
func NewWatcher(wsURL, symbol string) *Watcher {
	return &Watcher{
		wsURL:  wsURL,
		symbol: symbol,
		logger: slog.Default().With("module", "price_watcher", "symbol", symbol),
	}
}

// Start launches the watch loop in the background.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// IsConnected reports whether the stream is currently up.
func (w *Watcher) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *Watcher) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			w.logger.Warn("price stream connection failed", "error", err, "retry", retryCount)
			retryCount++
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff(retryCount)):
			}
			continue
		}
		retryCount = 0
		w.readLoop(ctx)
	}
}

func backoff(retry int) time.Duration {
	d := time.Second << uint(retry-1)
	if d <= 0 || d > watchMaxBackoff {
		return watchMaxBackoff
	}
	return d
}

func (w *Watcher) connect(ctx context.Context) error {
	url := w.wsURL + "/ws/" + strings.ToLower(w.symbol) + "@miniTicker"
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	w.logger.Info("price stream connected")
	return nil
}

func (w *Watcher) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.closeConnection()
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(watchReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Watcher) handleMessage(msg []byte) {
	var tick miniTickerMessage
	if err := json.Unmarshal(msg, &tick); err != nil {
		return
	}
	if tick.Event != "24hrMiniTicker" || tick.Close == "" {
		return
	}
	w.logger.Info("market price", "last", tick.Close)
}

func (w *Watcher) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
}

// Stop tears down the stream and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
