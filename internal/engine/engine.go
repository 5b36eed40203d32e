package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"arbdesk/internal/config"
	"arbdesk/internal/database"
	"arbdesk/internal/fees"
	"arbdesk/internal/ledger"
	"arbdesk/internal/merchant"
	"arbdesk/internal/model"
	"arbdesk/internal/notify"
)

// The sell side of every route is the Binance P2P book.
const sellVenue = "binance_p2p"

// QuoteCache is the slice of the cache the engine needs.
type QuoteCache interface {
	SetQuote(ctx context.Context, q model.Quote) error
}

// Engine holds the logic for identifying arbitrage opportunities between
// spot venue quotes and the P2P merchant book.
type Engine struct {
	logger   *slog.Logger
	repo     database.Repository
	notifier notify.Notifier
	cache    QuoteCache
	table    *fees.Table
	cfg      *config.Config
	spend    *ledger.SpendLedger

	mu           sync.Mutex
	latestQuotes map[string]model.Quote
	merchants    []model.Merchant
}

// New creates a new Engine.
func New(logger *slog.Logger, repo database.Repository, notifier notify.Notifier, cache QuoteCache, table *fees.Table, cfg *config.Config, spend *ledger.SpendLedger) *Engine {
	return &Engine{
		logger:       logger,
		repo:         repo,
		notifier:     notifier,
		cache:        cache,
		table:        table,
		cfg:          cfg,
		spend:        spend,
		latestQuotes: make(map[string]model.Quote),
	}
}

// Run consumes quote ticks and merchant listing snapshots until the
// context is cancelled.
func (e *Engine) Run(ctx context.Context, quotes <-chan model.Quote, listings <-chan []model.Merchant) {
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine: context cancelled, shutting down")
			return
		case q := <-quotes:
			e.ProcessQuote(ctx, q)
		case ms := <-listings:
			e.ProcessListings(ctx, ms)
		}
	}
}

// ProcessQuote records a new spot price tick and re-evaluates routes.
func (e *Engine) ProcessQuote(ctx context.Context, q model.Quote) {
	if err := e.repo.LogQuote(ctx, q); err != nil {
		e.logger.Error("engine: failed to log quote", "error", err)
	}
	if e.cache != nil {
		if err := e.cache.SetQuote(ctx, q); err != nil {
			e.logger.Warn("engine: failed to cache quote", "error", err)
		}
	}

	e.mu.Lock()
	e.latestQuotes[q.Exchange] = q
	e.mu.Unlock()

	e.evaluate(ctx)
}

// ProcessListings replaces the merchant book snapshot and re-evaluates.
func (e *Engine) ProcessListings(ctx context.Context, merchants []model.Merchant) {
	e.mu.Lock()
	e.merchants = merchants
	e.mu.Unlock()

	e.evaluate(ctx)
}

// evaluate scans every buy venue against the current merchant book and
// acts on the verdicts.
func (e *Engine) evaluate(ctx context.Context) {
	e.mu.Lock()
	quotes := make([]model.Quote, 0, len(e.latestQuotes))
	for _, q := range e.latestQuotes {
		quotes = append(quotes, q)
	}
	merchants := e.merchants
	e.mu.Unlock()

	if len(merchants) == 0 {
		return
	}

	amount := e.cfg.Arbitrage.TradeAmountUSDT
	for _, q := range quotes {
		constraint, err := e.table.Lookup(q.Exchange)
		if err != nil {
			e.logger.Error("engine: no fee schedule for quoted venue", "exchange", q.Exchange, "error", err)
			continue
		}

		best, ok, err := merchant.SelectBest(q.Price, amount, merchants, constraint,
			e.cfg.Arbitrage.MinROIPercent, e.cfg.Arbitrage.PaymentMethods)
		if err != nil {
			e.logger.Error("engine: merchant selection failed", "exchange", q.Exchange, "error", err)
			continue
		}
		if !ok {
			e.logger.Debug("engine: no compatible merchant", "exchange", q.Exchange)
			continue
		}

		e.act(ctx, q, best)
	}
}

// act handles a single route verdict: persistence, alerting and the
// spend ledger for executable trades.
func (e *Engine) act(ctx context.Context, q model.Quote, best merchant.Ranked) {
	a := best.Analysis

	switch a.Action {
	case model.ActionSkip:
		e.logger.Debug("engine: route unprofitable",
			"buyExchange", q.Exchange, "netProfit", a.NetProfit)
		return

	case model.ActionExecute:
		notional := a.BuyPrice * a.AmountUSDT
		if !e.spend.Check(notional, time.Now()) {
			e.logger.Warn("engine: spend cap reached, not executing",
				"buyExchange", q.Exchange, "notional", notional,
				"spentToday", e.spend.SpentToday(time.Now()))
			return
		}
		e.spend.Record(notional, time.Now())

		e.logger.Info("engine: profitable arbitrage opportunity found",
			"buyExchange", q.Exchange,
			"merchant", best.Merchant.Name,
			"buyPrice", a.BuyPrice,
			"sellPrice", a.SellPrice,
			"netProfit", a.NetProfit,
			"roi", a.ROIPercent,
		)

	case model.ActionReview:
		e.logger.Info("engine: marginal opportunity flagged for review",
			"buyExchange", q.Exchange,
			"merchant", best.Merchant.Name,
			"netProfit", a.NetProfit,
			"roi", a.ROIPercent,
		)
	}

	record := model.TradeRecord{
		Timestamp:    time.Now(),
		Pair:         e.cfg.Arbitrage.Pair,
		BuyExchange:  q.Exchange,
		SellExchange: sellVenue,
		MerchantID:   best.Merchant.ID,
		BuyPrice:     a.BuyPrice,
		SellPrice:    a.SellPrice,
		AmountUSDT:   a.AmountUSDT,
		GrossProfit:  a.GrossProfit,
		TotalFees:    a.TotalFees,
		NetProfit:    a.NetProfit,
		ROIPercent:   a.ROIPercent,
		Action:       string(a.Action),
	}
	if err := e.repo.LogTrade(ctx, record); err != nil {
		e.logger.Error("engine: failed to log trade", "error", err)
	}

	msg := fmt.Sprintf("[%s] buy %s @ %.2f, sell to %s @ %.2f: net %.2f INR (%.2f%% ROI)",
		a.Action, q.Exchange, a.BuyPrice, best.Merchant.Name, a.SellPrice, a.NetProfit, a.ROIPercent)
	if err := e.notifier.Alert(ctx, msg); err != nil {
		e.logger.Warn("engine: failed to send alert", "error", err)
	}
}
