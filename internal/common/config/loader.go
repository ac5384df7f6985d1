// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	// Load .env from multiple possible locations
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like MODERATION_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations (for running from different directories)
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // for tests in test/e2e/
		"../../../.env",
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("Loaded .env from: %s\n", path)
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Moderation.APIKey == "" {
		if val := os.Getenv("MODERATION_API_KEY"); val != "" {
			cfg.Moderation.APIKey = val
		}
	}

	if cfg.Recognizer.APIKey == "" {
		if val := os.Getenv("LUIS_API_KEY"); val != "" {
			cfg.Recognizer.APIKey = val
		}
	}
	if cfg.Recognizer.AppID == "" {
		if val := os.Getenv("LUIS_APP_ID"); val != "" {
			cfg.Recognizer.AppID = val
		}
	}

	if cfg.Telemetry.InstrumentationKey == "" {
		if val := os.Getenv("TELEMETRY_INSTRUMENTATION_KEY"); val != "" {
			cfg.Telemetry.InstrumentationKey = val
		}
	}

	if cfg.Skill.ClientID == "" {
		if val := os.Getenv("SKILL_CLIENT_ID"); val != "" {
			cfg.Skill.ClientID = val
		}
	}
	if cfg.Skill.ClientSecret == "" {
		if val := os.Getenv("SKILL_CLIENT_SECRET"); val != "" {
			cfg.Skill.ClientSecret = val
		}
	}

	// Database overrides
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Bot defaults
	if cfg.Bot.ListenAddress == "" {
		cfg.Bot.ListenAddress = ":3978"
	}
	if cfg.Bot.EchoTemplate == "" {
		cfg.Bot.EchoTemplate = "Echo: %s"
	}
	if cfg.Bot.TurnTimeout == 0 {
		cfg.Bot.TurnTimeout = 30000
	}

	// Skill defaults
	if cfg.Skill.RequestTimeout == 0 {
		cfg.Skill.RequestTimeout = 30000
	}

	// Recognizer defaults
	if cfg.Recognizer.Timeout == 0 {
		cfg.Recognizer.Timeout = 10000
	}

	// Moderation defaults
	if cfg.Moderation.Timeout == 0 {
		cfg.Moderation.Timeout = 10000
	}
	if cfg.Moderation.CacheTTL == 0 {
		cfg.Moderation.CacheTTL = 300
	}
	if cfg.Moderation.Language == "" {
		cfg.Moderation.Language = "eng"
	}

	// Telemetry defaults
	if cfg.Telemetry.BatchSize == 0 {
		cfg.Telemetry.BatchSize = 50
	}
	if cfg.Telemetry.FlushInterval == 0 {
		cfg.Telemetry.FlushInterval = 5000
	}
	if cfg.Telemetry.Elasticsearch.Index == "" {
		cfg.Telemetry.Elasticsearch.Index = "bot-telemetry"
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Elasticsearch URL fallback
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Moderation.BaseURL == "" {
		return fmt.Errorf("moderation.base_url is required")
	}

	if cfg.Recognizer.Endpoint == "" {
		return fmt.Errorf("recognizer.endpoint is required")
	}

	if cfg.Telemetry.IngestionURL == "" && !cfg.Telemetry.Elasticsearch.Enabled {
		return fmt.Errorf("telemetry.ingestion_url or telemetry.elasticsearch.enabled is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetMiddlewareConfig retrieves middleware-specific configuration with fallback to defaults
func GetMiddlewareConfig(cfg *Config, name string) MiddlewareConfig {
	if mw, exists := cfg.Middleware[name]; exists {
		return mw
	}

	return MiddlewareConfig{
		Enabled:                true,
		LogPersonalInformation: false,
		AlertOnReview:          false,
	}
}

// IsMiddlewareEnabled checks if a specific middleware is enabled
func IsMiddlewareEnabled(cfg *Config, name string) bool {
	if mw, exists := cfg.Middleware[name]; exists {
		return mw.Enabled
	}
	return true
}
