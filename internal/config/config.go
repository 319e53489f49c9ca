package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	ForecastRPS    float64  `yaml:"forecast_rps" mapstructure:"forecast_rps"`
	ForecastBurst  int      `yaml:"forecast_burst" mapstructure:"forecast_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ScoringConfig holds the lead scoring weights and demographic tables.
// Weights must sum to 1.0.
type ScoringConfig struct {
	EngagementWeight   float64 `yaml:"engagement_weight" mapstructure:"engagement_weight"`
	BehaviorWeight     float64 `yaml:"behavior_weight" mapstructure:"behavior_weight"`
	DemographicsWeight float64 `yaml:"demographics_weight" mapstructure:"demographics_weight"`
	InteractionWeight  float64 `yaml:"interaction_weight" mapstructure:"interaction_weight"`
	TimelineWeight     float64 `yaml:"timeline_weight" mapstructure:"timeline_weight"`
	BudgetWeight       float64 `yaml:"budget_weight" mapstructure:"budget_weight"`
	AuthorityWeight    float64 `yaml:"authority_weight" mapstructure:"authority_weight"`
	NeedWeight         float64 `yaml:"need_weight" mapstructure:"need_weight"`

	// LuxuryMarkets are matched case-insensitively as substrings of the
	// client's location.
	LuxuryMarkets []string `yaml:"luxury_markets" mapstructure:"luxury_markets"`

	// BulkConcurrency bounds concurrent clients during bulk scoring.
	BulkConcurrency int `yaml:"bulk_concurrency" mapstructure:"bulk_concurrency"`
}

// ForecastConfig holds the seasonal tables and tuning constants of the
// forecasting engine.
type ForecastConfig struct {
	// MonthlyTrend has 12 entries (January first); QuarterlyTrend has 4.
	MonthlyTrend   []float64 `yaml:"monthly_trend" mapstructure:"monthly_trend"`
	QuarterlyTrend []float64 `yaml:"quarterly_trend" mapstructure:"quarterly_trend"`

	// NewLeadsPerPeriod is the assumed count of new qualified leads arriving
	// each monthly period.
	NewLeadsPerPeriod float64 `yaml:"new_leads_per_period" mapstructure:"new_leads_per_period"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "crm-insight.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.forecast_rps", 1.0)
	v.SetDefault("server.forecast_burst", 3)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("scoring.engagement_weight", 0.25)
	v.SetDefault("scoring.behavior_weight", 0.20)
	v.SetDefault("scoring.demographics_weight", 0.15)
	v.SetDefault("scoring.interaction_weight", 0.15)
	v.SetDefault("scoring.timeline_weight", 0.10)
	v.SetDefault("scoring.budget_weight", 0.10)
	v.SetDefault("scoring.authority_weight", 0.05)
	v.SetDefault("scoring.need_weight", 0.10)
	v.SetDefault("scoring.luxury_markets", []string{"dubai", "geneva", "hong kong", "singapore", "monaco", "zurich"})
	v.SetDefault("scoring.bulk_concurrency", 5)
	v.SetDefault("forecast.monthly_trend", []float64{0.9, 0.9, 1.0, 1.1, 1.1, 1.0, 0.8, 0.8, 1.1, 1.2, 1.3, 1.2})
	v.SetDefault("forecast.quarterly_trend", []float64{1.0, 1.1, 0.9, 1.2})
	v.SetDefault("forecast.new_leads_per_period", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// WeightSum returns the sum of all scoring factor weights.
func (c ScoringConfig) WeightSum() float64 {
	return c.EngagementWeight + c.BehaviorWeight + c.DemographicsWeight +
		c.InteractionWeight + c.TimelineWeight + c.BudgetWeight +
		c.AuthorityWeight + c.NeedWeight
}

// ValidateScoring checks that a ScoringConfig is internally consistent.
func ValidateScoring(c ScoringConfig) error {
	var errs []string

	weights := map[string]float64{
		"engagement_weight":   c.EngagementWeight,
		"behavior_weight":     c.BehaviorWeight,
		"demographics_weight": c.DemographicsWeight,
		"interaction_weight":  c.InteractionWeight,
		"timeline_weight":     c.TimelineWeight,
		"budget_weight":       c.BudgetWeight,
		"authority_weight":    c.AuthorityWeight,
		"need_weight":         c.NeedWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if sum := c.WeightSum(); math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.3f", sum))
	}

	if c.BulkConcurrency < 1 {
		errs = append(errs, "bulk_concurrency must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: scoring validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateForecast checks that the seasonal tables have the right shape.
func ValidateForecast(c ForecastConfig) error {
	var errs []string
	if len(c.MonthlyTrend) != 12 {
		errs = append(errs, fmt.Sprintf("monthly_trend must have 12 entries, got %d", len(c.MonthlyTrend)))
	}
	if len(c.QuarterlyTrend) != 4 {
		errs = append(errs, fmt.Sprintf("quarterly_trend must have 4 entries, got %d", len(c.QuarterlyTrend)))
	}
	if c.NewLeadsPerPeriod < 0 {
		errs = append(errs, "new_leads_per_period must be >= 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("config: forecast validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
