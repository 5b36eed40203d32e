package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbdesk/internal/model"
)

func listing(price, available, completion float64) model.Merchant {
	return model.Merchant{
		Price:          price,
		AvailableUSDT:  available,
		CompletionRate: completion,
		MaxOrderINR:    30000,
	}
}

func TestAnalyzeCompetitors(t *testing.T) {
	listings := []model.Merchant{
		listing(83, 100, 92),
		listing(84, 100, 92),
		listing(85, 100, 92),
		listing(86, 100, 96),
		listing(87, 100, 99),
	}

	stats, err := AnalyzeCompetitors(listings)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 85.0, stats.Median)
	assert.LessOrEqual(t, stats.P10, stats.P25)
	assert.LessOrEqual(t, stats.P25, stats.Median)
	assert.LessOrEqual(t, stats.Median, stats.P75)
	assert.LessOrEqual(t, stats.P75, stats.P90)
	assert.Equal(t, 500.0, stats.TotalVolumeUSDT)
	assert.Equal(t, 30000.0, stats.AvgMaxOrderINR)

	// Equal volumes: VWAP collapses to the mean.
	assert.InDelta(t, 85.0, stats.VWAP, 1e-9)

	// Quality merchants (86, 87) price above the market mean of 85.
	assert.InDelta(t, 1.5, stats.QualityPremium, 1e-9)
}

func TestAnalyzeCompetitors_VolumeWeighted(t *testing.T) {
	listings := []model.Merchant{
		listing(80, 900, 92),
		listing(90, 100, 92),
	}
	stats, err := AnalyzeCompetitors(listings)
	require.NoError(t, err)
	assert.InDelta(t, 81.0, stats.VWAP, 1e-9)
}

func TestAnalyzeCompetitors_Empty(t *testing.T) {
	_, err := AnalyzeCompetitors(nil)
	assert.ErrorIs(t, err, ErrNoListings)
}

func TestOptimalListingPrice_Adjustments(t *testing.T) {
	stats := CompetitorStats{
		Median:         85.0,
		P10:            83.0,
		P25:            84.0,
		P75:            86.0,
		P90:            87.0,
		AvgMaxOrderINR: 30000,
	}

	t.Run("strong profile in a thin market prices up", func(t *testing.T) {
		s := OptimalListingPrice(stats, Profile{
			CompletionRate: 98.5,
			MaxOrderINR:    50000, // > 1.5x the market average
			PaymentMethods: []string{"UPI"},
		}, Market{
			TotalLiquidityINR: 500_000, // thin
			SpreadPercent:     2.5,     // wide
		})

		// +0.3 completion, +0.2 volume, +0.15 instant rails, +0.2 liquidity, +0.1 spread
		assert.InDelta(t, 0.95, s.Adjustment, 1e-9)
		assert.InDelta(t, 85.95, s.OptimalPrice, 1e-9)
		assert.Equal(t, 85.0, s.BasePrice)
	})

	t.Run("weak profile in a deep market discounts", func(t *testing.T) {
		s := OptimalListingPrice(stats, Profile{
			CompletionRate: 88,
			MaxOrderINR:    20000,
			PaymentMethods: []string{"PayPal"},
		}, Market{
			TotalLiquidityINR: 10_000_000,
			SpreadPercent:     0.3,
		})

		// -0.5 completion, -0.1 liquidity, -0.05 spread
		assert.InDelta(t, -0.65, s.Adjustment, 1e-9)
		assert.InDelta(t, 84.35, s.OptimalPrice, 1e-9)
	})
}

func TestFillProbability_Tiers(t *testing.T) {
	stats := CompetitorStats{P10: 83, P25: 84, Median: 85, P75: 86, P90: 87}

	assert.Equal(t, 0.95, FillProbability(82.5, stats))
	assert.Equal(t, 0.80, FillProbability(83.5, stats))
	assert.Equal(t, 0.60, FillProbability(84.5, stats))
	assert.Equal(t, 0.40, FillProbability(85.5, stats))
	assert.Equal(t, 0.20, FillProbability(86.5, stats))
	assert.Equal(t, 0.10, FillProbability(88.0, stats))
}
