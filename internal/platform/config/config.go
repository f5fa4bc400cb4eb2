package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PostingAccountCodes names the chart codes the document poster writes to.
type PostingAccountCodes struct {
	Cash          string `mapstructure:"POSTING_CASH_CODE"`
	Receivable    string `mapstructure:"POSTING_RECEIVABLE_CODE"`
	Payable       string `mapstructure:"POSTING_PAYABLE_CODE"`
	SalesRevenue  string `mapstructure:"POSTING_SALES_REVENUE_CODE"`
	TaxPayable    string `mapstructure:"POSTING_TAX_PAYABLE_CODE"`
	Purchases     string `mapstructure:"POSTING_PURCHASES_CODE"`
	TaxReceivable string `mapstructure:"POSTING_TAX_RECEIVABLE_CODE"`
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimitRPM is requests per minute per client IP; 0 disables limiting.
	RateLimitRPM int64

	PostingAccounts PostingAccountCodes

	// AgingBoundaries are the upper day limits of the finite aging buckets,
	// e.g. {30,60,90} for current / 1-30 / 31-60 / 61-90 / 90+.
	AgingBoundaries []int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT_RPM", 300)
	// Default chart codes match the seeded chart of accounts.
	viper.SetDefault("POSTING_CASH_CODE", "1-1001")
	viper.SetDefault("POSTING_RECEIVABLE_CODE", "1-1201")
	viper.SetDefault("POSTING_PAYABLE_CODE", "2-2001")
	viper.SetDefault("POSTING_SALES_REVENUE_CODE", "4-4001")
	viper.SetDefault("POSTING_TAX_PAYABLE_CODE", "2-2101")
	viper.SetDefault("POSTING_PURCHASES_CODE", "5-5101")
	viper.SetDefault("POSTING_TAX_RECEIVABLE_CODE", "1-1401")
	viper.SetDefault("AGING_BOUNDARIES", "30,60,90")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimitRPM = viper.GetInt64("RATE_LIMIT_RPM")

	cfg.PostingAccounts = PostingAccountCodes{
		Cash:          viper.GetString("POSTING_CASH_CODE"),
		Receivable:    viper.GetString("POSTING_RECEIVABLE_CODE"),
		Payable:       viper.GetString("POSTING_PAYABLE_CODE"),
		SalesRevenue:  viper.GetString("POSTING_SALES_REVENUE_CODE"),
		TaxPayable:    viper.GetString("POSTING_TAX_PAYABLE_CODE"),
		Purchases:     viper.GetString("POSTING_PURCHASES_CODE"),
		TaxReceivable: viper.GetString("POSTING_TAX_RECEIVABLE_CODE"),
	}

	boundaries, err := parseBoundaries(viper.GetString("AGING_BOUNDARIES"))
	if err != nil {
		return nil, fmt.Errorf("invalid AGING_BOUNDARIES: %w", err)
	}
	cfg.AgingBoundaries = boundaries

	return cfg, nil
}

// parseBoundaries parses a comma-separated list of day limits, which must be
// positive and strictly increasing.
func parseBoundaries(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	boundaries := make([]int, 0, len(parts))
	prev := 0
	for _, part := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if days <= prev {
			return nil, fmt.Errorf("boundaries must be strictly increasing, got %d after %d", days, prev)
		}
		boundaries = append(boundaries, days)
		prev = days
	}
	return boundaries, nil
}
