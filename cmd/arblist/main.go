// Command arblist fetches the current P2P merchant book and suggests a
// listing price for our own sell ad.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"arbdesk/internal/config"
	"arbdesk/internal/p2p"
	"arbdesk/internal/pricing"
)

func main() {
	completionRate := flag.Float64("completion", 97.0, "our completion rate percent")
	maxOrder := flag.Float64("max-order", 50000, "our max order size in INR")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	client := p2p.NewBinanceClient(logger)

	ctx := context.Background()
	// SELL listings are our competitors when we list USDT for sale.
	listings, err := client.FetchMerchants(ctx, "USDT", "INR", "SELL")
	if err != nil {
		log.Fatalf("cannot fetch listings: %v", err)
	}

	stats, err := pricing.AnalyzeCompetitors(listings)
	if err != nil {
		log.Fatalf("cannot analyze competitors: %v", err)
	}

	suggestion := pricing.OptimalListingPrice(stats, pricing.Profile{
		CompletionRate: *completionRate,
		MaxOrderINR:    *maxOrder,
		PaymentMethods: cfg.Arbitrage.PaymentMethods,
	}, pricing.Market{})

	fmt.Printf("competitors: %d  median %.2f  vwap %.2f  p25 %.2f  p75 %.2f\n",
		stats.Count, stats.Median, stats.VWAP, stats.P25, stats.P75)
	fmt.Printf("quality premium: %.2f INR  price stddev: %.2f\n", stats.QualityPremium, stats.PriceStdDev)
	fmt.Printf("suggested listing price: %.2f (base %.2f %+.2f)\n",
		suggestion.OptimalPrice, suggestion.BasePrice, suggestion.Adjustment)
	fmt.Printf("estimated fill probability: %.0f%%\n", suggestion.FillProbability*100)
}
