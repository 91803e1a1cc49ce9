package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"euclid-swap/pkg/swap"
)

// ErrMissingPrivateKey is returned when no signing key is configured
var ErrMissingPrivateKey = errors.New("private key not found. Please set PRIVATE_KEY in your environment or .env file")

// Config holds the application configuration
type Config struct {
	PrivateKey string `mapstructure:"private_key"`

	RPCURL        string `mapstructure:"rpc_url" validate:"required,url"`
	ChainID       int64  `mapstructure:"chain_id" validate:"gt=0"`
	APIURL        string `mapstructure:"api_url" validate:"required,url"`
	TrackURL      string `mapstructure:"track_url" validate:"required,url"`
	ReferralCode  string `mapstructure:"referral_code"`
	RouterAddress string `mapstructure:"router_address" validate:"required,eth_addr"`
	ExplorerURL   string `mapstructure:"explorer_url" validate:"required,url"`

	RetryAttempts  int           `mapstructure:"retry_attempts" validate:"gt=0"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gt=0"`
	MinDelay       time.Duration `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay       time.Duration `mapstructure:"max_delay" validate:"gtefield=MinDelay"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout" validate:"gt=0"`

	GasEstimatePerTx string `mapstructure:"gas_estimate_per_tx" validate:"required,numeric"`
	MaxFeeGwei       string `mapstructure:"max_fee_gwei" validate:"required,numeric"`
	PriorityFeeGwei  string `mapstructure:"priority_fee_gwei" validate:"required,numeric"`
	SlippageBps      int    `mapstructure:"slippage_bps" validate:"gte=0,lte=10000"`
	PartnerFeeBps    int    `mapstructure:"partner_fee_bps" validate:"gte=0,lte=10000"`
	StrictQuote      bool   `mapstructure:"strict_quote"`

	HopRatios map[string]string `mapstructure:"hop_ratios" validate:"required,dive,numeric"`

	LogFile string `mapstructure:"log_file"`
}

// Defaults are the values used when neither the config file nor the
// environment sets a key.
var Defaults = map[string]any{
	"rpc_url":             "https://sepolia-rollup.arbitrum.io/rpc",
	"chain_id":            421614,
	"api_url":             "https://testnet.api.euclidprotocol.com",
	"track_url":           "https://testnet.euclidswap.io",
	"referral_code":       "EUCLIDEAN667247",
	"router_address":      "0x7f2CC9FE79961f628Da671Ac62d1f2896638edd5",
	"explorer_url":        "https://sepolia.arbiscan.io",
	"retry_attempts":      5,
	"retry_base_delay":    "5s",
	"min_delay":           "15s",
	"max_delay":           "25s",
	"confirm_timeout":     "5m",
	"gas_estimate_per_tx": "0.00009794",
	"max_fee_gwei":        "0.1",
	"priority_fee_gwei":   "0.1",
	"slippage_bps":        500,
	"partner_fee_bps":     10,
	"strict_quote":        false,
	"hop_ratios":          swap.DefaultHopRatios,
	"log_file":            "",
}

var globalConfig *Config

// Load reads configuration from environment variables and config file.
// configFile overrides the default search path when set.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".euclid-swap")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	for k, def := range Defaults {
		v.SetDefault(k, def)
	}

	// Read from environment variables
	v.SetEnvPrefix("EUCLID_SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("private_key", "PRIVATE_KEY", "EUCLID_SWAP_PRIVATE_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// Validate checks every field constraint
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequirePrivateKey fails when no signing key is configured
func (c *Config) RequirePrivateKey() error {
	if strings.TrimSpace(c.PrivateKey) == "" {
		return ErrMissingPrivateKey
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
