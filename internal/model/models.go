package model

import "time"

// Quote represents a single USDT/INR price observation from a venue.
type Quote struct {
	Exchange  string
	Pair      string
	Price     float64
	Volume    float64 // available volume in USDT, 0 when the venue does not report it
	Timestamp time.Time
}

// ExchangeConstraint holds the static fee schedule and order limits for one venue.
// Loaded once from configuration and read-only afterwards.
type ExchangeConstraint struct {
	Exchange          string
	TradingFeeRate    float64 // fraction, e.g. 0.0025 for 0.25%
	WithdrawalFeeUSDT float64 // fixed withdrawal fee in USDT, 0 for internal transfers
	TDSRate           float64 // tax deducted at source on the sale leg, fraction
	MinOrderINR       float64
	MaxOrderINR       float64
	PaymentMethods    []string
}

// Merchant is a P2P counterparty advertising a buy/sell listing.
type Merchant struct {
	ID              string
	Name            string
	Price           float64 // INR per USDT
	MinOrderINR     float64
	MaxOrderINR     float64
	AvailableUSDT   float64
	CompletionRate  float64 // 0-100
	MonthlyOrders   int
	PaymentMethods  []string
	AvgResponseTime time.Duration
}

// Action is the recommendation attached to a TradeAnalysis.
type Action string

const (
	ActionExecute Action = "EXECUTE"
	ActionSkip    Action = "SKIP"
	ActionReview  Action = "REVIEW"
)

// TradeAnalysis is the calculator's verdict on a single buy/sell pair.
// It is derived purely from its inputs and carries no identity.
type TradeAnalysis struct {
	BuyPrice    float64
	SellPrice   float64
	AmountUSDT  float64
	GrossProfit float64
	BuyFee      float64
	SellFee     float64
	WithdrawFee float64
	TDS         float64
	TotalFees   float64
	NetProfit   float64
	ROIPercent  float64
	Profitable  bool
	Action      Action
}

// Reason explains why an order failed validation.
type Reason string

const (
	ReasonBelowMinimum          Reason = "BELOW_MINIMUM"
	ReasonAboveMaximum          Reason = "ABOVE_MAXIMUM"
	ReasonPaymentMethodMismatch Reason = "PAYMENT_METHOD_MISMATCH"
)

// ValidationResult is the validator's answer for a candidate order.
// Business invalidity is a value, never an error.
type ValidationResult struct {
	Valid  bool
	Reason Reason
}

// TradeRecord represents an evaluated opportunity persisted for later analysis.
type TradeRecord struct {
	ID           int64     `db:"id"`
	Timestamp    time.Time `db:"timestamp"`
	Pair         string    `db:"pair"`
	BuyExchange  string    `db:"buy_exchange"`
	SellExchange string    `db:"sell_exchange"`
	MerchantID   string    `db:"merchant_id"`
	BuyPrice     float64   `db:"buy_price"`
	SellPrice    float64   `db:"sell_price"`
	AmountUSDT   float64   `db:"amount_usdt"`
	GrossProfit  float64   `db:"gross_profit_inr"`
	TotalFees    float64   `db:"total_fees_inr"`
	NetProfit    float64   `db:"net_profit_inr"`
	ROIPercent   float64   `db:"roi_percent"`
	Action       string    `db:"action"`
}
