package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ClawGrabSOL/pumpsnek.io/logging"
)

// runtimeConfig captures the knobs an operator can override via environment
// variables. Everything else is a compile-time constant in constants.go.
type runtimeConfig struct {
	Port         string
	MinPlayers   int
	RoundSeconds int
	PrizeSOL     float64
	PayoutDB     string
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		Port:         defaultPort,
		MinPlayers:   defaultMinPlayers,
		RoundSeconds: defaultRoundSeconds,
		PrizeSOL:     defaultPrizeSOL,
		PayoutDB:     defaultPayoutDB,
	}
}

// loadConfig reads a .env file when one exists, then applies environment
// overrides on top of the defaults. Unparseable values are logged and ignored.
func loadConfig() runtimeConfig {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logging.Log.WithError(err).Warn("failed to load .env file")
		}
	}

	cfg := defaultRuntimeConfig()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MIN_PLAYERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MinPlayers = n
		} else {
			logging.Log.Warnf("ignoring invalid MIN_PLAYERS=%q", v)
		}
	}
	if v := os.Getenv("ROUND_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoundSeconds = n
		} else {
			logging.Log.Warnf("ignoring invalid ROUND_SECONDS=%q", v)
		}
	}
	if v := os.Getenv("PRIZE_SOL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.PrizeSOL = f
		} else {
			logging.Log.Warnf("ignoring invalid PRIZE_SOL=%q", v)
		}
	}
	if v := os.Getenv("PAYOUT_DB"); v != "" {
		cfg.PayoutDB = v
	}

	return cfg
}
