package exchange

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"arbdesk/internal/model"
)

const coindcxWSURL = "wss://stream.coindcx.com/market-stream"

// CoinDCXClient streams USDT/INR ticks over the CoinDCX websocket feed.
type CoinDCXClient struct {
	logger *slog.Logger
}

// NewCoinDCXClient creates a new CoinDCXClient.
func NewCoinDCXClient(logger *slog.Logger) *CoinDCXClient {
	return &CoinDCXClient{logger: logger}
}

func (c *CoinDCXClient) Name() string {
	return "coindcx"
}

// StartStream connects to the CoinDCX websocket, subscribes to the ticker
// channel for the pair, and streams quotes until the context is cancelled.
// Connection failures reconnect with capped exponential backoff.
func (c *CoinDCXClient) StartStream(ctx context.Context, quotes chan<- model.Quote, pair string) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("CoinDCXClient: context cancelled, shutting down")
			return nil
		default:
		}

		c.logger.Info("CoinDCXClient: connecting to WebSocket", "url", coindcxWSURL, "backoff", backoff)
		conn, _, err := websocket.DefaultDialer.Dial(coindcxWSURL, nil)
		if err != nil {
			c.logger.Error("CoinDCXClient: WebSocket connection failed", "error", err)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}

		subscription := map[string]interface{}{
			"event":   "subscribe",
			"channel": pair + "@ticker",
		}
		if err := conn.WriteJSON(subscription); err != nil {
			c.logger.Error("CoinDCXClient: failed to send subscription", "error", err)
			conn.Close()
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}

		// Reset backoff once subscribed
		backoff = time.Second
		c.logger.Info("CoinDCXClient: subscription sent successfully")

		// Close the connection when the context ends so the blocked read
		// below returns.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		c.readLoop(ctx, conn, quotes, pair)
		close(done)
		conn.Close()

		if ctx.Err() != nil {
			c.logger.Info("CoinDCXClient: context cancelled, shutting down")
			return nil
		}
	}
}

// readLoop consumes ticker messages until the connection breaks.
func (c *CoinDCXClient) readLoop(ctx context.Context, conn *websocket.Conn, quotes chan<- model.Quote, pair string) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error("CoinDCXClient: failed to read message", "error", err)
			}
			return
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn("CoinDCXClient: failed to parse message", "error", err)
			continue
		}

		if event, ok := msg["event"].(string); ok && event == "subscribed" {
			c.logger.Info("CoinDCXClient: subscription confirmed")
			continue
		}

		priceStr, ok := msg["p"].(string)
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			c.logger.Warn("CoinDCXClient: failed to parse price", "error", err)
			continue
		}
		var volume float64
		if volStr, ok := msg["v"].(string); ok {
			volume, _ = strconv.ParseFloat(volStr, 64)
		}

		quote := model.Quote{
			Exchange:  "coindcx",
			Pair:      pair,
			Price:     price,
			Volume:    volume,
			Timestamp: time.Now(),
		}

		select {
		case quotes <- quote:
			c.logger.Debug("CoinDCXClient: sent quote", "price", price)
		case <-ctx.Done():
			return
		}
	}
}

// sleepCtx waits for d or until the context ends, reporting whether the
// caller should keep going.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > 16*time.Second {
		d = 16 * time.Second
	}
	return d
}
