package merchant

import (
	"sort"

	"arbdesk/internal/model"
	"arbdesk/internal/profit"
	"arbdesk/internal/validate"
)

// tieEpsilonINR is half the smallest meaningful currency unit (one paisa).
// Net profits closer than this are treated as equal and broken on
// reliability signals instead.
const tieEpsilonINR = 0.005

// Ranked pairs a surviving merchant with the analysis of selling to them.
type Ranked struct {
	Merchant model.Merchant
	Analysis model.TradeAnalysis
}

// Rank filters the candidate merchants for the given order and returns the
// survivors ordered best-first: highest net profit, then completion rate,
// then monthly order count.
//
// Merchants that fail validation (limits, payment methods) are dropped
// silently; a merchant listing full of incompatible counterparties is a
// normal market condition. The venue constraint supplies the fee schedule
// for the sell leg.
func Rank(buyPrice, amountUSDT float64, merchants []model.Merchant, c model.ExchangeConstraint, minROIPercent float64, paymentMethods []string) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(merchants))
	for _, m := range merchants {
		notional := m.Price * amountUSDT
		result, err := validate.Order(notional, m.MinOrderINR, m.MaxOrderINR, m.PaymentMethods, paymentMethods)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			continue
		}
		if m.AvailableUSDT > 0 && m.AvailableUSDT < amountUSDT {
			continue
		}

		analysis, err := profit.Analyze(buyPrice, m.Price, amountUSDT, c, minROIPercent)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Ranked{Merchant: m, Analysis: analysis})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return better(ranked[i], ranked[j])
	})
	return ranked, nil
}

// SelectBest returns the single best valid counterparty for the order, or
// ok=false when no merchant survives filtering. Callers must treat no
// match as SKIP, not as an error.
func SelectBest(buyPrice, amountUSDT float64, merchants []model.Merchant, c model.ExchangeConstraint, minROIPercent float64, paymentMethods []string) (Ranked, bool, error) {
	ranked, err := Rank(buyPrice, amountUSDT, merchants, c, minROIPercent, paymentMethods)
	if err != nil {
		return Ranked{}, false, err
	}
	if len(ranked) == 0 {
		return Ranked{}, false, nil
	}
	return ranked[0], true, nil
}

func better(a, b Ranked) bool {
	diff := a.Analysis.NetProfit - b.Analysis.NetProfit
	if diff > tieEpsilonINR {
		return true
	}
	if diff < -tieEpsilonINR {
		return false
	}
	if a.Merchant.CompletionRate != b.Merchant.CompletionRate {
		return a.Merchant.CompletionRate > b.Merchant.CompletionRate
	}
	return a.Merchant.MonthlyOrders > b.Merchant.MonthlyOrders
}
