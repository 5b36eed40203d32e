package engine

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"arbdesk/internal/config"
	"arbdesk/internal/fees"
	"arbdesk/internal/ledger"
	"arbdesk/internal/model"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) LogQuote(ctx context.Context, quote model.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockRepository) LogTrade(ctx context.Context, trade model.TradeRecord) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *MockRepository) RecentTrades(ctx context.Context, limit int) ([]model.TradeRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.TradeRecord), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Alert(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Arbitrage: config.ArbitrageConfig{
			Pair:            "USDT-INR",
			TradeAmountUSDT: 100,
			MinROIPercent:   1.0,
			DailyCapINR:     1_000_000,
			MonthlyCapINR:   10_000_000,
			PaymentMethods:  []string{"UPI"},
		},
		Exchanges: map[string]config.ExchangeConfig{
			// Zero-fee test schedule keeps the expected numbers round.
			"zebpay": {MinOrderINR: 100, MaxOrderINR: 1_000_000},
		},
	}
}

func testMerchant(price float64) model.Merchant {
	return model.Merchant{
		ID:             "adv-1",
		Name:           "fastpay",
		Price:          price,
		MinOrderINR:    1000,
		MaxOrderINR:    100000,
		AvailableUSDT:  5000,
		CompletionRate: 98,
		MonthlyOrders:  250,
		PaymentMethods: []string{"UPI"},
	}
}

func newTestEngine(cfg *config.Config, repo *MockRepository, notifier *MockNotifier) *Engine {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	table := fees.NewTable(cfg.Exchanges)
	spend := ledger.New(cfg.Arbitrage.DailyCapINR, cfg.Arbitrage.MonthlyCapINR)
	return New(logger, repo, notifier, nil, table, cfg, spend)
}

func quote(exchange string, price float64) model.Quote {
	return model.Quote{Exchange: exchange, Pair: "USDT-INR", Price: price, Timestamp: time.Now()}
}

func TestEngine_ProfitableOpportunity(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(testConfig(), repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)
	repo.On("LogTrade", mock.Anything, mock.MatchedBy(func(tr model.TradeRecord) bool {
		return tr.Action == string(model.ActionExecute) &&
			tr.BuyExchange == "zebpay" &&
			tr.MerchantID == "adv-1"
	})).Return(nil)
	notifier.On("Alert", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	eng.ProcessQuote(ctx, quote("zebpay", 87.00))
	eng.ProcessListings(ctx, []model.Merchant{testMerchant(90.50)})

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestEngine_UnprofitableRouteSkipped(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(testConfig(), repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	eng.ProcessQuote(ctx, quote("zebpay", 90.58))
	eng.ProcessListings(ctx, []model.Merchant{testMerchant(90.00)})

	repo.AssertNotCalled(t, "LogTrade")
	notifier.AssertNotCalled(t, "Alert")
}

func TestEngine_MarginalRouteFlaggedForReview(t *testing.T) {
	cfg := testConfig()
	cfg.Arbitrage.MinROIPercent = 5.0

	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(cfg, repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)
	repo.On("LogTrade", mock.Anything, mock.MatchedBy(func(tr model.TradeRecord) bool {
		return tr.Action == string(model.ActionReview)
	})).Return(nil)
	notifier.On("Alert", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	eng.ProcessQuote(ctx, quote("zebpay", 87.00))
	// 4.02% ROI sits under the 5% threshold: profitable but marginal.
	eng.ProcessListings(ctx, []model.Merchant{testMerchant(90.50)})

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestEngine_SpendCapBlocksExecution(t *testing.T) {
	cfg := testConfig()
	cfg.Arbitrage.DailyCapINR = 1000 // far below one trade's notional

	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(cfg, repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	eng.ProcessQuote(ctx, quote("zebpay", 87.00))
	eng.ProcessListings(ctx, []model.Merchant{testMerchant(90.50)})

	repo.AssertNotCalled(t, "LogTrade")
	notifier.AssertNotCalled(t, "Alert")
}

func TestEngine_UnknownVenueQuoted(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(testConfig(), repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	eng.ProcessQuote(ctx, quote("wazirx", 85.00))
	eng.ProcessListings(ctx, []model.Merchant{testMerchant(90.50)})

	// No fee schedule means no verdict, never a zero-fee default.
	repo.AssertNotCalled(t, "LogTrade")
}

func TestEngine_NoMerchants(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	eng := newTestEngine(testConfig(), repo, notifier)

	repo.On("LogQuote", mock.Anything, mock.Anything).Return(nil)

	eng.ProcessQuote(context.Background(), quote("zebpay", 87.00))

	repo.AssertNotCalled(t, "LogTrade")
	notifier.AssertNotCalled(t, "Alert")
}
