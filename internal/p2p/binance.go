package p2p

import (
	"bytes"
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
	advSearchURL = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"
	pageRows     = 20
	maxPages     = 5
)

// BinanceClient fetches merchant listings from the Binance P2P adv-search
// endpoint. One FetchMerchants call returns a snapshot of the current book
// for a side; polling cadence is the caller's business.
type BinanceClient struct {
	logger  *slog.Logger
	http    *http.Client
	baseURL string
}

// NewBinanceClient creates a new Binance P2P listing client.
func NewBinanceClient(logger *slog.Logger) *BinanceClient {
	return &BinanceClient{
		logger:  logger,
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: advSearchURL,
	}
}

type advSearchRequest struct {
	Page      int      `json:"page"`
	Rows      int      `json:"rows"`
	Asset     string   `json:"asset"`
	Fiat      string   `json:"fiat"`
	TradeType string   `json:"tradeType"`
	PayTypes  []string `json:"payTypes"`
}

type advSearchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Adv struct {
			AdvNo                string `json:"advNo"`
			Price                string `json:"price"`
			MinSingleTransAmount string `json:"minSingleTransAmount"`
			MaxSingleTransAmount string `json:"maxSingleTransAmount"`
			SurplusAmount        string `json:"surplusAmount"`
			TradeMethods         []struct {
				Identifier string `json:"identifier"`
			} `json:"tradeMethods"`
		} `json:"adv"`
		Advertiser struct {
			NickName         string  `json:"nickName"`
			MonthOrderCount  int     `json:"monthOrderCount"`
			MonthFinishRate  float64 `json:"monthFinishRate"`
			AvgReleaseTimeMS int64   `json:"avgReleaseTime"`
		} `json:"advertiser"`
	} `json:"data"`
}

// FetchMerchants returns the current merchants on the given side of the
// book ("BUY" means they buy our USDT). Pages are fetched until the
// endpoint runs dry or maxPages is hit.
func (b *BinanceClient) FetchMerchants(ctx context.Context, asset, fiat, tradeType string) ([]model.Merchant, error) {
	var merchants []model.Merchant
	for page := 1; page <= maxPages; page++ {
		batch, err := b.fetchPage(ctx, asset, fiat, tradeType, page)
		if err != nil {
			return nil, fmt.Errorf("adv search page %d: %w", page, err)
		}
		merchants = append(merchants, batch...)
		if len(batch) < pageRows {
			break
		}
	}
	b.logger.Debug("BinanceClient: fetched merchants", "count", len(merchants), "side", tradeType)
	return merchants, nil
}

func (b *BinanceClient) fetchPage(ctx context.Context, asset, fiat, tradeType string, page int) ([]model.Merchant, error) {
	body, err := json.Marshal(advSearchRequest{
		Page:      page,
		Rows:      pageRows,
		Asset:     asset,
		Fiat:      fiat,
		TradeType: tradeType,
		PayTypes:  []string{},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adv search returned status %d", resp.StatusCode)
	}

	var parsed advSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse adv search response: %w", err)
	}

	merchants := make([]model.Merchant, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		price, err := strconv.ParseFloat(row.Adv.Price, 64)
		if err != nil {
			b.logger.Warn("BinanceClient: skipping adv with bad price", "advNo", row.Adv.AdvNo, "price", row.Adv.Price)
			continue
		}
		minAmt, _ := strconv.ParseFloat(row.Adv.MinSingleTransAmount, 64)
		maxAmt, _ := strconv.ParseFloat(row.Adv.MaxSingleTransAmount, 64)
		surplus, _ := strconv.ParseFloat(row.Adv.SurplusAmount, 64)

		methods := make([]string, 0, len(row.Adv.TradeMethods))
		for _, tm := range row.Adv.TradeMethods {
			methods = append(methods, tm.Identifier)
		}

		merchants = append(merchants, model.Merchant{
			ID:              row.Adv.AdvNo,
			Name:            row.Advertiser.NickName,
			Price:           price,
			MinOrderINR:     minAmt,
			MaxOrderINR:     maxAmt,
			AvailableUSDT:   surplus,
			CompletionRate:  row.Advertiser.MonthFinishRate * 100,
			MonthlyOrders:   row.Advertiser.MonthOrderCount,
			PaymentMethods:  methods,
			AvgResponseTime: time.Duration(row.Advertiser.AvgReleaseTimeMS) * time.Millisecond,
		})
	}
	return merchants, nil
}
