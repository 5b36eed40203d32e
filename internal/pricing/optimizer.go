package pricing

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"arbdesk/internal/model"
)

// ErrNoListings is returned when competitor analysis is asked for an
// empty market.
var ErrNoListings = errors.New("no competitor listings")

// Instant settlement methods command a small premium in the Indian P2P
// market; buyers pay up for speed.
var instantMethods = map[string]bool{
	"UPI":           true,
	"IMPS":          true,
	"Bank Transfer": true,
}

// CompetitorStats summarizes the competing sell listings on a venue.
type CompetitorStats struct {
	Count           int
	P10             float64
	P25             float64
	Median          float64
	P75             float64
	P90             float64
	VWAP            float64
	PriceStdDev     float64
	QualityPremium  float64 // mean price of >=95% completion merchants minus market mean
	AvgMaxOrderINR  float64
	TotalVolumeUSDT float64
}

// Profile describes our own listing for pricing adjustments.
type Profile struct {
	CompletionRate float64
	MaxOrderINR    float64
	PaymentMethods []string
}

// Market describes current venue-wide conditions.
type Market struct {
	TotalLiquidityINR float64
	SpreadPercent     float64
}

// Suggestion is the optimizer's output: a listing price plus how it was
// reached and how likely it is to fill.
type Suggestion struct {
	OptimalPrice    float64
	BasePrice       float64
	Adjustment      float64
	FillProbability float64
}

// AnalyzeCompetitors computes percentile, volume and quality statistics
// over the current merchant listings.
func AnalyzeCompetitors(listings []model.Merchant) (CompetitorStats, error) {
	if len(listings) == 0 {
		return CompetitorStats{}, ErrNoListings
	}

	prices := make([]float64, len(listings))
	volumes := make([]float64, len(listings))
	var maxOrderSum, volumeSum float64
	var qualityPrices []float64
	for i, m := range listings {
		prices[i] = m.Price
		volumes[i] = m.AvailableUSDT
		maxOrderSum += m.MaxOrderINR
		volumeSum += m.AvailableUSDT
		if m.CompletionRate >= 95 {
			qualityPrices = append(qualityPrices, m.Price)
		}
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	vwap := stat.Mean(prices, nil)
	if volumeSum > 0 {
		vwap = stat.Mean(prices, volumes)
	}

	var qualityPremium float64
	if len(qualityPrices) > 0 {
		qualityPremium = stat.Mean(qualityPrices, nil) - stat.Mean(prices, nil)
	}

	return CompetitorStats{
		Count:           len(listings),
		P10:             stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P25:             stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median:          stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P75:             stat.Quantile(0.75, stat.Empirical, sorted, nil),
		P90:             stat.Quantile(0.90, stat.Empirical, sorted, nil),
		VWAP:            vwap,
		PriceStdDev:     stat.StdDev(prices, nil),
		QualityPremium:  qualityPremium,
		AvgMaxOrderINR:  maxOrderSum / float64(len(listings)),
		TotalVolumeUSDT: volumeSum,
	}, nil
}

// OptimalListingPrice derives a listing price from the market median plus
// profile and market-condition adjustments. Adjustments are absolute INR
// offsets calibrated for the USDT/INR book.
func OptimalListingPrice(stats CompetitorStats, profile Profile, market Market) Suggestion {
	base := stats.Median
	var adj float64

	switch {
	case profile.CompletionRate >= 98:
		adj += 0.3
	case profile.CompletionRate >= 95:
		adj += 0.1
	case profile.CompletionRate < 90:
		adj -= 0.5
	}

	if stats.AvgMaxOrderINR > 0 && profile.MaxOrderINR > stats.AvgMaxOrderINR*1.5 {
		adj += 0.2
	}

	for _, m := range profile.PaymentMethods {
		if instantMethods[m] {
			adj += 0.15
			break
		}
	}

	switch {
	case market.TotalLiquidityINR > 0 && market.TotalLiquidityINR < 1_000_000:
		adj += 0.2
	case market.TotalLiquidityINR > 5_000_000:
		adj -= 0.1
	}

	switch {
	case market.SpreadPercent > 2.0:
		adj += 0.1
	case market.SpreadPercent > 0 && market.SpreadPercent < 0.5:
		adj -= 0.05
	}

	price := base + adj
	return Suggestion{
		OptimalPrice:    price,
		BasePrice:       base,
		Adjustment:      adj,
		FillProbability: FillProbability(price, stats),
	}
}

// FillProbability estimates how likely a sell listing at the given price
// is to fill, from its position in the competitor price distribution.
// Cheaper than the 10th percentile fills almost surely; above the 90th
// it mostly sits.
func FillProbability(price float64, stats CompetitorStats) float64 {
	switch {
	case price <= stats.P10:
		return 0.95
	case price <= stats.P25:
		return 0.80
	case price <= stats.Median:
		return 0.60
	case price <= stats.P75:
		return 0.40
	case price <= stats.P90:
		return 0.20
	default:
		return 0.10
	}
}
