package fees

import (
	"errors"
	"fmt"

	"arbdesk/internal/config"
	"arbdesk/internal/model"
)

// ErrUnknownExchange is returned by Lookup for an unregistered venue.
// There are no implicit defaults: computing profit with a zero fee rate
// for an unrecognized venue would silently overstate every trade.
var ErrUnknownExchange = errors.New("unknown exchange")

// Table holds one constraint record per venue. It is populated once at
// startup and read-only afterwards, so concurrent lookups need no locking.
type Table struct {
	constraints map[string]model.ExchangeConstraint
}

// NewTable builds a Table from the exchanges section of the configuration.
// Fee percentages are converted to fractions here so the calculator never
// sees config units.
func NewTable(exchanges map[string]config.ExchangeConfig) *Table {
	constraints := make(map[string]model.ExchangeConstraint, len(exchanges))
	for name, ec := range exchanges {
		constraints[name] = model.ExchangeConstraint{
			Exchange:          name,
			TradingFeeRate:    ec.TradingFeePercent / 100,
			WithdrawalFeeUSDT: ec.WithdrawalFeeUSDT,
			TDSRate:           ec.TDSPercent / 100,
			MinOrderINR:       ec.MinOrderINR,
			MaxOrderINR:       ec.MaxOrderINR,
			PaymentMethods:    ec.PaymentMethods,
		}
	}
	return &Table{constraints: constraints}
}

// Lookup returns the constraint record for the given venue.
func (t *Table) Lookup(exchangeID string) (model.ExchangeConstraint, error) {
	c, ok := t.constraints[exchangeID]
	if !ok {
		return model.ExchangeConstraint{}, fmt.Errorf("%w: %s", ErrUnknownExchange, exchangeID)
	}
	return c, nil
}

// Exchanges returns the registered venue identifiers.
func (t *Table) Exchanges() []string {
	names := make([]string, 0, len(t.constraints))
	for name := range t.constraints {
		names = append(names, name)
	}
	return names
}
