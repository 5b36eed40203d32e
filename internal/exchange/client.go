package exchange

import (
	"context"

	"arbdesk/internal/model"
)

// Client defines the standard interface for all quote feed clients.
type Client interface {
	Name() string
	StartStream(ctx context.Context, quotes chan<- model.Quote, pair string) error
}
