package database

import (
	"context"

	"arbdesk/internal/model"
)

// Repository defines the standard interface for database operations.
type Repository interface {
	Migrate(ctx context.Context) error
	LogQuote(ctx context.Context, quote model.Quote) error
	LogTrade(ctx context.Context, trade model.TradeRecord) error
	RecentTrades(ctx context.Context, limit int) ([]model.TradeRecord, error)
}
