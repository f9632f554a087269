package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bitebot/backend/internal/scoring"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	USDA      USDAConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Log       LogConfig
	Matching  MatchingConfig
	Scoring   scoring.Policy
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds USDA API configuration. Food scoring is disabled without a key.
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP, 0 disables
	USDA  int `mapstructure:"usda"`   // requests per hour to USDA
}

// AuthConfig holds bearer token settings. An empty secret disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // "json" or "text"
	AddSource bool   `mapstructure:"add_source"`
}

// MatchingConfig holds USDA search result matching settings
type MatchingConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bitebot/")

	// BITEBOT_SERVER_PORT -> server.port
	v.SetEnvPrefix("BITEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment. Variables that are already set
// win over the file. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)

	v.SetDefault("matching.min_confidence", 40.0)

	setScoringDefaults(v, scoring.DefaultPolicy())
}

// setScoringDefaults registers every scoring key so each one can be overridden from the
// environment, e.g. BITEBOT_SCORING_HEART_HEALTH_SODIUM_LIMIT_MG.
func setScoringDefaults(v *viper.Viper, p scoring.Policy) {
	defaults := map[string]any{
		"glycemic.base":          p.Glycemic.Base,
		"glycemic.fiber_credit":  p.Glycemic.FiberCredit,
		"glycemic.sugar_penalty": p.Glycemic.SugarPenalty,

		"inflammatory.base":            p.Inflammatory.Base,
		"inflammatory.fat_limit_g":     p.Inflammatory.FatLimitG,
		"inflammatory.fat_penalty":     p.Inflammatory.FatPenalty,
		"inflammatory.sodium_limit_mg": p.Inflammatory.SodiumLimitMg,
		"inflammatory.sodium_penalty":  p.Inflammatory.SodiumPenalty,
		"inflammatory.fiber_limit_g":   p.Inflammatory.FiberLimitG,
		"inflammatory.fiber_credit":    p.Inflammatory.FiberCredit,

		"heart_health.base":            p.HeartHealth.Base,
		"heart_health.fat_limit_g":     p.HeartHealth.FatLimitG,
		"heart_health.fat_penalty":     p.HeartHealth.FatPenalty,
		"heart_health.sodium_limit_mg": p.HeartHealth.SodiumLimitMg,
		"heart_health.sodium_penalty":  p.HeartHealth.SodiumPenalty,
		"heart_health.fiber_limit_g":   p.HeartHealth.FiberLimitG,
		"heart_health.fiber_bonus":     p.HeartHealth.FiberBonus,

		"digestive.base":          p.Digestive.Base,
		"digestive.fiber_limit_g": p.Digestive.FiberLimitG,
		"digestive.fiber_bonus":   p.Digestive.FiberBonus,
		"digestive.fat_limit_g":   p.Digestive.FatLimitG,
		"digestive.fat_penalty":   p.Digestive.FatPenalty,
		"digestive.sugar_limit_g": p.Digestive.SugarLimitG,
		"digestive.sugar_penalty": p.Digestive.SugarPenalty,

		"meal_balance.ideal_protein_pct":  p.MealBalance.IdealProteinPct,
		"meal_balance.ideal_carbs_pct":    p.MealBalance.IdealCarbsPct,
		"meal_balance.ideal_fats_pct":     p.MealBalance.IdealFatsPct,
		"meal_balance.protein_kcal_per_g": p.MealBalance.ProteinKcalPerG,
		"meal_balance.carbs_kcal_per_g":   p.MealBalance.CarbsKcalPerG,
		"meal_balance.fats_kcal_per_g":    p.MealBalance.FatsKcalPerG,
		"meal_balance.calorie_basis":      p.MealBalance.CalorieBasis,
	}
	for key, value := range defaults {
		v.SetDefault("scoring."+key, value)
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "json" && config.Log.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.USDA < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if config.Matching.MinConfidence < 0 || config.Matching.MinConfidence > 100 {
		return fmt.Errorf("matching min confidence must be within 0-100, got: %v", config.Matching.MinConfidence)
	}

	if err := config.Scoring.Validate(); err != nil {
		return err
	}

	return nil
}
