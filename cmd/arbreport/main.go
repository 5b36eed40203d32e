// Command arbreport prints a performance summary of recently evaluated
// trades from the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbdesk/internal/config"
	"arbdesk/internal/database"
	"arbdesk/internal/perf"
)

func main() {
	limit := flag.Int("limit", 500, "number of recent trades to analyze")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	ctx := context.Background()
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer pool.Close()

	repo := database.NewPostgresRepository(pool)
	trades, err := repo.RecentTrades(ctx, *limit)
	if err != nil {
		log.Fatalf("cannot load trades: %v", err)
	}

	report := perf.Build(trades)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "trades\t%d\n", report.TotalTrades)
	fmt.Fprintf(w, "win rate\t%.1f%%\n", report.WinRate)
	fmt.Fprintf(w, "total profit\t%.2f INR\n", report.TotalProfit)
	fmt.Fprintf(w, "avg profit\t%.2f INR\n", report.AvgProfit)
	fmt.Fprintf(w, "avg win / avg loss\t%.2f / %.2f INR\n", report.AvgWin, report.AvgLoss)
	fmt.Fprintf(w, "profit factor\t%.2f\n", report.ProfitFactor)
	fmt.Fprintf(w, "max drawdown\t%.2f INR\n", report.MaxDrawdown)
	fmt.Fprintf(w, "best / worst trade\t%.2f / %.2f INR\n", report.BestTrade, report.WorstTrade)
	fmt.Fprintln(w)
	for venue, rs := range report.ByBuyExchange {
		fmt.Fprintf(w, "%s\t%d trades\t%.2f INR\n", venue, rs.Trades, rs.NetProfit)
	}
	w.Flush()
}
