package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Feed      FeedConfig      `mapstructure:",squash"`
	Lock      LockConfig      `mapstructure:",squash"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	AccrualSpec string `mapstructure:"SCHEDULER_ACCRUAL_SPEC"`
	BillingSpec string `mapstructure:"SCHEDULER_BILLING_SPEC"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BusinessConfig carries the affordability and billing-cycle tunables. All of
// these are operator-adjustable without a code change.
type BusinessConfig struct {
	MinCreditScore        int    `mapstructure:"MIN_CREDIT_SCORE_FOR_LOAN"`
	MinAnnualIncome       string `mapstructure:"MIN_ANNUAL_INCOME"`
	MaxLoanAmount         string `mapstructure:"MAX_LOAN_AMOUNT"`
	MinInterestRate       string `mapstructure:"MIN_INTEREST_RATE"`
	MinMonthlyInterest    string `mapstructure:"MIN_MONTHLY_INTEREST"`
	MaxEMIPercentOfIncome string `mapstructure:"MAX_EMI_PERCENTAGE_OF_INCOME"`
	BillingCycleDays      int    `mapstructure:"BILLING_CYCLE_DAYS"`
	DueDateOffsetDays     int    `mapstructure:"DUE_DATE_OFFSET_DAYS"`
}

type FeedConfig struct {
	TransactionCSVPath string `mapstructure:"TRANSACTION_FEED_PATH"`
}

type LockConfig struct {
	WaitTimeout string `mapstructure:"LOCK_WAIT_TIMEOUT"`
	Backend     string `mapstructure:"LOCK_BACKEND"` // "memory" or "redis"
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	// registered empty so AutomaticEnv can bind it; Validate rejects the blank
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("SCHEDULER_ACCRUAL_SPEC", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_BILLING_SPEC", "0 30 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("MIN_CREDIT_SCORE_FOR_LOAN", 450)
	viper.SetDefault("MIN_ANNUAL_INCOME", "150000")
	viper.SetDefault("MAX_LOAN_AMOUNT", "5000")
	viper.SetDefault("MIN_INTEREST_RATE", "12")
	viper.SetDefault("MIN_MONTHLY_INTEREST", "50")
	viper.SetDefault("MAX_EMI_PERCENTAGE_OF_INCOME", "20")
	viper.SetDefault("BILLING_CYCLE_DAYS", 30)
	viper.SetDefault("DUE_DATE_OFFSET_DAYS", 15)
	viper.SetDefault("TRANSACTION_FEED_PATH", "./data/transactions.csv")
	viper.SetDefault("LOCK_WAIT_TIMEOUT", "5s")
	viper.SetDefault("LOCK_BACKEND", "memory")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.BillingCycleDays <= 0 {
		return fmt.Errorf("BILLING_CYCLE_DAYS must be greater than 0")
	}

	if c.Business.DueDateOffsetDays <= 0 {
		return fmt.Errorf("DUE_DATE_OFFSET_DAYS must be greater than 0")
	}

	if c.Business.MinCreditScore < 300 || c.Business.MinCreditScore > 900 {
		return fmt.Errorf("MIN_CREDIT_SCORE_FOR_LOAN must be between 300 and 900")
	}

	for name, v := range map[string]string{
		"MIN_ANNUAL_INCOME":            c.Business.MinAnnualIncome,
		"MAX_LOAN_AMOUNT":              c.Business.MaxLoanAmount,
		"MIN_INTEREST_RATE":            c.Business.MinInterestRate,
		"MIN_MONTHLY_INTEREST":         c.Business.MinMonthlyInterest,
		"MAX_EMI_PERCENTAGE_OF_INCOME": c.Business.MaxEMIPercentOfIncome,
	} {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	if _, err := time.ParseDuration(c.Lock.WaitTimeout); err != nil {
		return fmt.Errorf("LOCK_WAIT_TIMEOUT must be a valid duration: %w", err)
	}

	if c.Lock.Backend != "memory" && c.Lock.Backend != "redis" {
		return fmt.Errorf("LOCK_BACKEND must be \"memory\" or \"redis\"")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// Typed getters for values validated in Validate.

func (c *Config) MinAnnualIncome() decimal.Decimal {
	return mustDecimal(c.Business.MinAnnualIncome)
}

func (c *Config) MaxLoanAmount() decimal.Decimal {
	return mustDecimal(c.Business.MaxLoanAmount)
}

func (c *Config) MinInterestRate() decimal.Decimal {
	return mustDecimal(c.Business.MinInterestRate)
}

func (c *Config) MinMonthlyInterest() decimal.Decimal {
	return mustDecimal(c.Business.MinMonthlyInterest)
}

func (c *Config) MaxEMIPercentOfIncome() decimal.Decimal {
	return mustDecimal(c.Business.MaxEMIPercentOfIncome)
}

func (c *Config) LockWaitTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Lock.WaitTimeout)
	return d
}

func mustDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
