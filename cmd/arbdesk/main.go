package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"arbdesk/internal/cache"
	"arbdesk/internal/config"
	"arbdesk/internal/database"
	"arbdesk/internal/engine"
	"arbdesk/internal/exchange"
	"arbdesk/internal/fees"
	"arbdesk/internal/ledger"
	"arbdesk/internal/model"
	"arbdesk/internal/notify"
	"arbdesk/internal/p2p"
)

const listingPollPeriod = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Info("received signal, shutting down")
		cancel()
	}()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		logger.Error("cannot connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := database.NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	quoteCache := cache.NewQuoteCache(rdb)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Telegram.BotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	table := fees.NewTable(cfg.Exchanges)
	spend := ledger.New(cfg.Arbitrage.DailyCapINR, cfg.Arbitrage.MonthlyCapINR)

	quotes := make(chan model.Quote, 64)
	listings := make(chan []model.Merchant, 4)

	for name := range cfg.Exchanges {
		client, err := exchange.NewClient(name, logger)
		if err != nil {
			// The P2P venue has no ticker stream; its listings are polled below.
			logger.Debug("no quote stream for venue", "exchange", name)
			continue
		}
		go func(c exchange.Client) {
			if err := c.StartStream(ctx, quotes, cfg.Arbitrage.Pair); err != nil {
				logger.Error("quote stream stopped", "exchange", c.Name(), "error", err)
			}
		}(client)
	}

	p2pClient := p2p.NewBinanceClient(logger)
	go pollListings(ctx, logger, p2pClient, listings)

	eng := engine.New(logger, repo, notifier, quoteCache, table, &cfg, spend)
	eng.Run(ctx, quotes, listings)
}

// pollListings fetches the P2P buy-side book on a fixed cadence. "BUY"
// listings are merchants buying USDT, i.e. our sell counterparties.
func pollListings(ctx context.Context, logger *slog.Logger, client *p2p.BinanceClient, out chan<- []model.Merchant) {
	ticker := time.NewTicker(listingPollPeriod)
	defer ticker.Stop()

	for {
		merchants, err := client.FetchMerchants(ctx, "USDT", "INR", "BUY")
		if err != nil {
			logger.Warn("failed to fetch merchant listings", "error", err)
		} else {
			select {
			case out <- merchants:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
