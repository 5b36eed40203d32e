package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"arbdesk/internal/model"
)

const (
	zebpayTickerURL  = "https://www.zebapi.com/pro/v1/market/%s/ticker"
	zebpayPollPeriod = 5 * time.Second
)

// ZebPayClient polls the ZebPay public ticker REST endpoint. ZebPay has no
// public websocket feed, so this client adapts the stream interface over
// fixed-cadence polling.
type ZebPayClient struct {
	logger *slog.Logger
	http   *http.Client
}

// NewZebPayClient creates a new ZebPayClient.
func NewZebPayClient(logger *slog.Logger) *ZebPayClient {
	return &ZebPayClient{
		logger: logger,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (z *ZebPayClient) Name() string {
	return "zebpay"
}

// zebpayTicker mirrors the fields we need from the ticker response.
// Prices arrive as strings.
type zebpayTicker struct {
	Market string `json:"market"`
	Sell   string `json:"sell"`
	Buy    string `json:"buy"`
	Volume string `json:"volume"`
}

// StartStream polls the ticker until the context is cancelled, sending one
// quote per successful poll. Pair uses dash notation, e.g. "USDT-INR".
func (z *ZebPayClient) StartStream(ctx context.Context, quotes chan<- model.Quote, pair string) error {
	url := fmt.Sprintf(zebpayTickerURL, pair)
	ticker := time.NewTicker(zebpayPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			z.logger.Info("ZebPayClient: context cancelled, shutting down")
			return nil
		case <-ticker.C:
			quote, err := z.fetch(ctx, url, pair)
			if err != nil {
				z.logger.Warn("ZebPayClient: poll failed", "error", err)
				continue
			}
			select {
			case quotes <- quote:
				z.logger.Debug("ZebPayClient: sent quote", "price", quote.Price)
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (z *ZebPayClient) fetch(ctx context.Context, url, pair string) (model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Quote{}, err
	}
	resp, err := z.http.Do(req)
	if err != nil {
		return model.Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, fmt.Errorf("ticker returned status %d", resp.StatusCode)
	}

	var t zebpayTicker
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return model.Quote{}, fmt.Errorf("failed to parse ticker: %w", err)
	}

	// Sell is what we would pay to buy USDT from the exchange.
	price, err := strconv.ParseFloat(t.Sell, 64)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to parse sell price %q: %w", t.Sell, err)
	}
	volume, _ := strconv.ParseFloat(t.Volume, 64)

	return model.Quote{
		Exchange:  "zebpay",
		Pair:      pair,
		Price:     price,
		Volume:    volume,
		Timestamp: time.Now(),
	}, nil
}
