package config

import (
	"github.com/spf13/viper"
	"strings"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Arbitrage ArbitrageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
	Exchanges map[string]ExchangeConfig
}

// ArbitrageConfig defines the scan and decision settings.
type ArbitrageConfig struct {
	Pair            string   `mapstructure:"pair"`
	TradeAmountUSDT float64  `mapstructure:"trade_amount_usdt"`
	MinROIPercent   float64  `mapstructure:"min_roi_percent"`
	DailyCapINR     float64  `mapstructure:"daily_cap_inr"`
	MonthlyCapINR   float64  `mapstructure:"monthly_cap_inr"`
	PaymentMethods  []string `mapstructure:"payment_methods"`
}

// DatabaseConfig defines the database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string `mapstructure:"dbname"`
}

// RedisConfig defines the quote cache connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TelegramConfig defines the alert bot settings.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ExchangeConfig defines the fee schedule and limits for a specific venue.
type ExchangeConfig struct {
	TradingFeePercent float64  `mapstructure:"trading_fee_percent"`
	WithdrawalFeeUSDT float64  `mapstructure:"withdrawal_fee_usdt"`
	TDSPercent        float64  `mapstructure:"tds_percent"`
	MinOrderINR       float64  `mapstructure:"min_order_inr"`
	MaxOrderINR       float64  `mapstructure:"max_order_inr"`
	PaymentMethods    []string `mapstructure:"payment_methods"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
