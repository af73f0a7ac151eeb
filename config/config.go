package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"vendas-report/aggregate"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	SERVER_PORT_DEFAULT        = "8080"
	COMMISSION_FORMULA_DEFAULT = string(aggregate.FormulaPercentOffset)
	COMMISSION_RATE_DEFAULT    = 0.06
	COMMISSION_OFFSET_DEFAULT  = 140.0
	FEE_RATE_DEFAULT           = 0.04
	DATASET_TTL_MINS_DEFAULT   = 60
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the service configuration, sourced from the environment.
type Config struct {
	ServerPort       string  `validate:"required"`
	Formula          string  `validate:"oneof=percent percent_offset"`
	CommissionRate   float64 `validate:"gte=0,lte=1"`
	CommissionOffset float64 `validate:"gte=0"`
	FeeRate          float64 `validate:"gte=0,lte=1"`
	DatasetTTLMins   int     `validate:"gt=0"`
}

// Load reads the configuration from the environment, loading .env.local
// first outside production.
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Info().Msg("no .env.local file, using process environment")
		}
	}

	cfg := &Config{
		ServerPort:       getEnvOrDefault("SERVER_PORT", SERVER_PORT_DEFAULT),
		Formula:          getEnvOrDefault("COMMISSION_FORMULA", COMMISSION_FORMULA_DEFAULT),
		CommissionRate:   COMMISSION_RATE_DEFAULT,
		CommissionOffset: COMMISSION_OFFSET_DEFAULT,
		FeeRate:          FEE_RATE_DEFAULT,
		DatasetTTLMins:   DATASET_TTL_MINS_DEFAULT,
	}

	var err error
	if cfg.CommissionRate, err = getFloatOrDefault("COMMISSION_RATE", COMMISSION_RATE_DEFAULT); err != nil {
		return nil, err
	}
	if cfg.CommissionOffset, err = getFloatOrDefault("COMMISSION_OFFSET", COMMISSION_OFFSET_DEFAULT); err != nil {
		return nil, err
	}
	if cfg.FeeRate, err = getFloatOrDefault("FEE_RATE", FEE_RATE_DEFAULT); err != nil {
		return nil, err
	}
	if cfg.DatasetTTLMins, err = getIntOrDefault("DATASET_TTL_MINUTES", DATASET_TTL_MINS_DEFAULT); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Aggregate returns the commission and fee parameters.
func (c *Config) Aggregate() aggregate.Config {
	return aggregate.Config{
		Formula:          aggregate.CommissionFormula(c.Formula),
		CommissionRate:   c.CommissionRate,
		CommissionOffset: c.CommissionOffset,
		FeeRate:          c.FeeRate,
	}
}

// DatasetTTL is how long a processed dataset stays exportable.
func (c *Config) DatasetTTL() time.Duration {
	return time.Duration(c.DatasetTTLMins) * time.Minute
}

func getEnvOrDefault(key, fallback string) string {
	if value, found := os.LookupEnv(key); found {
		return value
	}
	return fallback
}

func getFloatOrDefault(key string, fallback float64) (float64, error) {
	value, found := os.LookupEnv(key)
	if !found {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getIntOrDefault(key string, fallback int) (int, error) {
	value, found := os.LookupEnv(key)
	if !found {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}
