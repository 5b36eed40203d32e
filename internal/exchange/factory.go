package exchange

import (
	"fmt"
	"log/slog"
)

// NewClient creates a quote feed client for the given venue name.
func NewClient(name string, logger *slog.Logger) (Client, error) {
	switch name {
	case "zebpay":
		return NewZebPayClient(logger), nil
	case "coindcx":
		return NewCoinDCXClient(logger), nil
	default:
		return nil, fmt.Errorf("unknown exchange: %s", name)
	}
}
