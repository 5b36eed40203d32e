package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbdesk/internal/model"
)

var p2pRoute = model.ExchangeConstraint{Exchange: "binance_p2p"}

var zebpayRoute = model.ExchangeConstraint{
	Exchange:          "zebpay",
	TradingFeeRate:    0.0025,
	WithdrawalFeeUSDT: 8,
	TDSRate:           0.01,
}

func TestAnalyze_ZeroFeeRoute(t *testing.T) {
	a, err := Analyze(87.00, 90.50, 100, p2pRoute, 4.0)
	require.NoError(t, err)

	assert.InDelta(t, 350.00, a.GrossProfit, 1e-9)
	assert.InDelta(t, 350.00, a.NetProfit, 1e-9)
	assert.Zero(t, a.TotalFees)
	assert.InDelta(t, 4.0229885, a.ROIPercent, 1e-6)
	assert.True(t, a.Profitable)
	assert.Equal(t, model.ActionExecute, a.Action)
}

func TestAnalyze_SellBelowBuy(t *testing.T) {
	a, err := Analyze(90.58, 90.00, 100, p2pRoute, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, -58.00, a.NetProfit, 1e-9)
	assert.False(t, a.Profitable)
	assert.Equal(t, model.ActionSkip, a.Action)
}

func TestAnalyze_FeeComponents(t *testing.T) {
	// zebpay route: per-leg trading fee, withdrawal fee converted at the
	// buy price, TDS on the sale notional.
	a, err := Analyze(85.00, 90.00, 100, zebpayRoute, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 21.25, a.BuyFee, 1e-9)      // 8500 * 0.0025
	assert.InDelta(t, 22.50, a.SellFee, 1e-9)     // 9000 * 0.0025
	assert.InDelta(t, 680.0, a.WithdrawFee, 1e-9) // 8 USDT * 85
	assert.InDelta(t, 90.0, a.TDS, 1e-9)          // 9000 * 0.01
	assert.InDelta(t, 813.75, a.TotalFees, 1e-9)
	assert.InDelta(t, 500.0, a.GrossProfit, 1e-9)
	assert.InDelta(t, -313.75, a.NetProfit, 1e-9)
	assert.False(t, a.Profitable)
	assert.Equal(t, model.ActionSkip, a.Action)
}

func TestAnalyze_MarginalTradeFlaggedForReview(t *testing.T) {
	// Profitable but below the ROI threshold: manual judgement, not
	// auto-execution and not auto-rejection.
	a, err := Analyze(90.00, 90.50, 100, p2pRoute, 1.5)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, a.NetProfit, 1e-9)
	assert.True(t, a.Profitable)
	assert.Less(t, a.ROIPercent, 1.5)
	assert.Equal(t, model.ActionReview, a.Action)
}

func TestAnalyze_Deterministic(t *testing.T) {
	first, err := Analyze(86.43, 89.91, 250, zebpayRoute, 2.0)
	require.NoError(t, err)
	second, err := Analyze(86.43, 89.91, 250, zebpayRoute, 2.0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyze_InvalidInputs(t *testing.T) {
	cases := []struct {
		name              string
		buy, sell, amount float64
	}{
		{"zero buy price", 0, 90, 100},
		{"negative buy price", -1, 90, 100},
		{"zero sell price", 87, 0, 100},
		{"negative sell price", 87, -90, 100},
		{"zero amount", 87, 90, 0},
		{"negative amount", 87, 90, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Analyze(tc.buy, tc.sell, tc.amount, p2pRoute, 1.0)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}
