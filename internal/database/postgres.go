package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbdesk/internal/model"
)

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{Pool: pool}
}

// Migrate creates the tables if they do not exist yet. Statements run
// one at a time; pgx's default exec mode rejects multi-command strings.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			id SERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			exchange VARCHAR(50) NOT NULL,
			pair VARCHAR(20) NOT NULL,
			price NUMERIC(20, 8) NOT NULL,
			volume NUMERIC(20, 8) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id SERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			pair VARCHAR(20) NOT NULL,
			buy_exchange VARCHAR(50) NOT NULL,
			sell_exchange VARCHAR(50) NOT NULL,
			merchant_id VARCHAR(64) NOT NULL DEFAULT '',
			buy_price NUMERIC(20, 8) NOT NULL,
			sell_price NUMERIC(20, 8) NOT NULL,
			amount_usdt NUMERIC(20, 8) NOT NULL,
			gross_profit_inr NUMERIC(20, 8) NOT NULL,
			total_fees_inr NUMERIC(20, 8) NOT NULL,
			net_profit_inr NUMERIC(20, 8) NOT NULL,
			roi_percent NUMERIC(10, 4) NOT NULL,
			action VARCHAR(10) NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// LogQuote persists one price observation.
func (r *PostgresRepository) LogQuote(ctx context.Context, quote model.Quote) error {
	const q = `INSERT INTO quotes (timestamp, exchange, pair, price, volume)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.Pool.Exec(ctx, q, quote.Timestamp, quote.Exchange, quote.Pair, quote.Price, quote.Volume); err != nil {
		return fmt.Errorf("failed to log quote: %w", err)
	}
	return nil
}

// LogTrade persists one evaluated opportunity.
func (r *PostgresRepository) LogTrade(ctx context.Context, trade model.TradeRecord) error {
	const q = `INSERT INTO trades (
			timestamp, pair, buy_exchange, sell_exchange, merchant_id,
			buy_price, sell_price, amount_usdt,
			gross_profit_inr, total_fees_inr, net_profit_inr, roi_percent, action
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.Pool.Exec(ctx, q,
		trade.Timestamp, trade.Pair, trade.BuyExchange, trade.SellExchange, trade.MerchantID,
		trade.BuyPrice, trade.SellPrice, trade.AmountUSDT,
		trade.GrossProfit, trade.TotalFees, trade.NetProfit, trade.ROIPercent, trade.Action,
	)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	return nil
}

// RecentTrades returns the newest trades, newest first.
func (r *PostgresRepository) RecentTrades(ctx context.Context, limit int) ([]model.TradeRecord, error) {
	const q = `SELECT id, timestamp, pair, buy_exchange, sell_exchange, merchant_id,
			buy_price, sell_price, amount_usdt,
			gross_profit_inr, total_fees_inr, net_profit_inr, roi_percent, action
		FROM trades ORDER BY timestamp DESC LIMIT $1`
	rows, err := r.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.TradeRecord
	for rows.Next() {
		var t model.TradeRecord
		if err := rows.Scan(
			&t.ID, &t.Timestamp, &t.Pair, &t.BuyExchange, &t.SellExchange, &t.MerchantID,
			&t.BuyPrice, &t.SellPrice, &t.AmountUSDT,
			&t.GrossProfit, &t.TotalFees, &t.NetProfit, &t.ROIPercent, &t.Action,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
