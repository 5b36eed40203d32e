package perf

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"arbdesk/internal/model"
)

// Report summarizes realized performance over a set of trade records.
type Report struct {
	TotalTrades   int
	WinRate       float64 // 0-100
	TotalProfit   float64
	AvgProfit     float64
	AvgWin        float64
	AvgLoss       float64
	ProfitFactor  float64 // +Inf when there are wins and no losses
	MaxDrawdown   float64 // worst peak-to-trough fall of cumulative profit, INR
	BestTrade     float64
	WorstTrade    float64
	ProfitStdDev  float64
	ByBuyExchange map[string]RouteStats
}

// RouteStats breaks results down per buy venue.
type RouteStats struct {
	Trades    int
	NetProfit float64
}

// Build computes a Report from trade records in chronological order.
// An empty slice yields a zero Report rather than an error; "no trades
// yet" is a normal state for a fresh desk.
func Build(trades []model.TradeRecord) Report {
	if len(trades) == 0 {
		return Report{}
	}

	profits := make([]float64, len(trades))
	var wins, losses []float64
	byRoute := make(map[string]RouteStats)

	best := math.Inf(-1)
	worst := math.Inf(1)
	var total float64
	for i, t := range trades {
		p := t.NetProfit
		profits[i] = p
		total += p
		if p > 0 {
			wins = append(wins, p)
		} else {
			losses = append(losses, p)
		}
		if p > best {
			best = p
		}
		if p < worst {
			worst = p
		}
		rs := byRoute[t.BuyExchange]
		rs.Trades++
		rs.NetProfit += p
		byRoute[t.BuyExchange] = rs
	}

	report := Report{
		TotalTrades:   len(trades),
		WinRate:       float64(len(wins)) / float64(len(trades)) * 100,
		TotalProfit:   total,
		AvgProfit:     stat.Mean(profits, nil),
		MaxDrawdown:   maxDrawdown(profits),
		BestTrade:     best,
		WorstTrade:    worst,
		ByBuyExchange: byRoute,
	}
	if len(profits) > 1 {
		report.ProfitStdDev = stat.StdDev(profits, nil)
	}
	if len(wins) > 0 {
		report.AvgWin = stat.Mean(wins, nil)
	}
	if len(losses) > 0 {
		report.AvgLoss = stat.Mean(losses, nil)
	}

	lossSum := sum(losses)
	switch {
	case lossSum != 0:
		report.ProfitFactor = math.Abs(sum(wins) / lossSum)
	case len(wins) > 0:
		report.ProfitFactor = math.Inf(1)
	}

	return report
}

// maxDrawdown returns the largest peak-to-trough decline of the
// cumulative profit curve, in INR.
func maxDrawdown(profits []float64) float64 {
	var cum, peak, worst float64
	for _, p := range profits {
		cum += p
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > worst {
			worst = dd
		}
	}
	return worst
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
