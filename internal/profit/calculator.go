package profit

import (
	"fmt"

	"arbdesk/internal/model"
)

// Analyze computes the full cost breakdown and verdict for a candidate
// buy/sell pair. All amounts are INR except amountUSDT.
//
// Fee components follow the venue's constraint record:
//   - per-leg trading fee on both the buy and sell notional
//   - fixed withdrawal fee in USDT, converted at the buy price
//   - TDS on the sale notional (zero for P2P routes)
//
// minROIPercent is the caller's threshold for auto-execution; trades that
// clear fees but fall short of it are flagged REVIEW for manual judgement.
//
// Analyze is a pure function: no I/O, no mutation, deterministic.
func Analyze(buyPrice, sellPrice, amountUSDT float64, c model.ExchangeConstraint, minROIPercent float64) (model.TradeAnalysis, error) {
	if buyPrice <= 0 {
		return model.TradeAnalysis{}, fmt.Errorf("%w: buy price %.4f", model.ErrInvalidInput, buyPrice)
	}
	if sellPrice <= 0 {
		return model.TradeAnalysis{}, fmt.Errorf("%w: sell price %.4f", model.ErrInvalidInput, sellPrice)
	}
	if amountUSDT <= 0 {
		return model.TradeAnalysis{}, fmt.Errorf("%w: amount %.4f", model.ErrInvalidInput, amountUSDT)
	}

	buyNotional := buyPrice * amountUSDT
	sellNotional := sellPrice * amountUSDT

	buyFee := buyNotional * c.TradingFeeRate
	sellFee := sellNotional * c.TradingFeeRate
	withdrawFee := c.WithdrawalFeeUSDT * buyPrice
	tds := sellNotional * c.TDSRate
	totalFees := buyFee + sellFee + withdrawFee + tds

	grossProfit := amountUSDT * (sellPrice - buyPrice)
	netProfit := grossProfit - totalFees
	roi := netProfit / buyNotional * 100

	analysis := model.TradeAnalysis{
		BuyPrice:    buyPrice,
		SellPrice:   sellPrice,
		AmountUSDT:  amountUSDT,
		GrossProfit: grossProfit,
		BuyFee:      buyFee,
		SellFee:     sellFee,
		WithdrawFee: withdrawFee,
		TDS:         tds,
		TotalFees:   totalFees,
		NetProfit:   netProfit,
		ROIPercent:  roi,
		Profitable:  netProfit > 0,
	}

	switch {
	case netProfit <= 0:
		analysis.Action = model.ActionSkip
	case roi >= minROIPercent:
		analysis.Action = model.ActionExecute
	default:
		analysis.Action = model.ActionReview
	}

	return analysis, nil
}
