package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/arbitrage"
)

// Defaults for configuration values.
const (
	DefaultSpreadStdDev    = analysis.DefaultSpreadStdDev
	DefaultPointTolerance  = arbitrage.DefaultPointTolerance
	DefaultKellyFraction   = 0.25
	DefaultTopN            = 0
	DefaultMinArbProfitPct = 0.0
	DefaultOddsFile        = "data/odds.json"
	DefaultPredictionsFile = "data/predictions.json"
	DefaultResultsFile     = "data/results.json"
	DefaultLedgerPath      = "data/ledger.db"
	DefaultScanInterval    = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
	DefaultAlertCooldown   = 30 * time.Minute
	DefaultWorkers         = 4
	DefaultLogLevel        = "info"
)

// Config holds all application configuration.
type Config struct {
	// Model settings
	SpreadStdDev    float64
	PointTolerance  float64
	KellyFraction   float64
	TopN            int // 0 = report every positive-EV bet
	MinArbProfitPct float64
	MaxOddsAge      time.Duration // 0 = accept quotes of any age

	// Snapshot files
	OddsFile        string
	PredictionsFile string
	ResultsFile     string
	AliasFile       string // Optional team alias table (yaml/json/toml)

	LedgerPath string

	// Watch loop settings
	ScanInterval  time.Duration
	AlertCooldown time.Duration
	Workers       int

	// Stake sizing
	Bankroll      float64 // 0 = report Kelly fractions only
	MaxBetDollars float64 // 0 = no cap

	LogLevel string
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		SpreadStdDev:    DefaultSpreadStdDev,
		PointTolerance:  DefaultPointTolerance,
		KellyFraction:   DefaultKellyFraction,
		TopN:            DefaultTopN,
		MinArbProfitPct: DefaultMinArbProfitPct,
		OddsFile:        DefaultOddsFile,
		PredictionsFile: DefaultPredictionsFile,
		ResultsFile:     DefaultResultsFile,
		AliasFile:       os.Getenv("ALIAS_FILE"),
		LedgerPath:      DefaultLedgerPath,
		ScanInterval:    DefaultScanInterval,
		AlertCooldown:   DefaultAlertCooldown,
		Workers:         DefaultWorkers,
		LogLevel:        DefaultLogLevel,
	}

	if v := os.Getenv("SPREAD_STD_DEV"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SpreadStdDev = f
		}
	}

	if v := os.Getenv("SPREAD_POINT_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.PointTolerance = f
		}
	}

	if v := os.Getenv("KELLY_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.KellyFraction = f
		}
	}

	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TopN = n
		}
	}

	if v := os.Getenv("MIN_ARB_PROFIT_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinArbProfitPct = f
		}
	}

	if v := os.Getenv("MAX_ODDS_AGE_MIN"); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			cfg.MaxOddsAge = time.Duration(m) * time.Minute
		}
	}

	if v := os.Getenv("ODDS_FILE"); v != "" {
		cfg.OddsFile = v
	}
	if v := os.Getenv("PREDICTIONS_FILE"); v != "" {
		cfg.PredictionsFile = v
	}
	if v := os.Getenv("RESULTS_FILE"); v != "" {
		cfg.ResultsFile = v
	}
	if v := os.Getenv("LEDGER_PATH"); v != "" {
		cfg.LedgerPath = v
	}

	if v := os.Getenv("SCAN_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.ScanInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if v := os.Getenv("ALERT_COOLDOWN_MIN"); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			cfg.AlertCooldown = time.Duration(m) * time.Minute
		}
	}

	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("BANKROLL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Bankroll = f
		}
	}

	if v := os.Getenv("MAX_BET_DOLLARS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxBetDollars = f
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.SpreadStdDev <= 0 {
		return fmt.Errorf("SPREAD_STD_DEV must be positive, got %f", cfg.SpreadStdDev)
	}
	if cfg.PointTolerance <= 0 || cfg.PointTolerance >= 1 {
		return fmt.Errorf("SPREAD_POINT_TOLERANCE must be between 0 and 1, got %f", cfg.PointTolerance)
	}
	if cfg.KellyFraction <= 0 || cfg.KellyFraction > 1 {
		return fmt.Errorf("KELLY_FRACTION must be between 0 and 1, got %f", cfg.KellyFraction)
	}
	if cfg.TopN < 0 {
		return fmt.Errorf("TOP_N must be non-negative, got %d", cfg.TopN)
	}
	if cfg.MinArbProfitPct < 0 {
		return fmt.Errorf("MIN_ARB_PROFIT_PCT must be non-negative, got %f", cfg.MinArbProfitPct)
	}
	if cfg.MaxOddsAge < 0 {
		return fmt.Errorf("MAX_ODDS_AGE_MIN must be non-negative, got %v", cfg.MaxOddsAge)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", cfg.Workers)
	}
	if cfg.ScanInterval < time.Second {
		return fmt.Errorf("SCAN_INTERVAL_MS must be at least 1s, got %v", cfg.ScanInterval)
	}
	if cfg.Bankroll < 0 {
		return fmt.Errorf("BANKROLL must be non-negative, got %f", cfg.Bankroll)
	}
	if cfg.MaxBetDollars < 0 {
		return fmt.Errorf("MAX_BET_DOLLARS must be non-negative, got %f", cfg.MaxBetDollars)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// AnalysisConfig returns the EV finder settings.
func (c Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		SpreadStdDev:  c.SpreadStdDev,
		TopN:          c.TopN,
		KellyFraction: c.KellyFraction,
		MaxOddsAge:    c.MaxOddsAge,
	}
}

// ArbConfig returns the arbitrage detector settings.
func (c Config) ArbConfig() arbitrage.Config {
	return arbitrage.Config{
		PointTolerance: c.PointTolerance,
		MinProfitPct:   c.MinArbProfitPct,
	}
}

// ParseLogLevel maps LOG_LEVEL to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
}

// SetupLogger installs a text slog handler at cfg.LogLevel as the default logger.
func SetupLogger(cfg Config) error {
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// FormatMaxBet returns a human-readable string for the max bet setting.
func FormatMaxBet(maxBet float64) string {
	if maxBet <= 0 {
		return "no cap"
	}
	return fmt.Sprintf("$%.2f", maxBet)
}
