// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                   `mapstructure:"app"`
	Bot           BotConfig                   `mapstructure:"bot"`
	Skill         SkillConfig                 `mapstructure:"skill"`
	Recognizer    RecognizerConfig            `mapstructure:"recognizer"`
	Moderation    ModerationConfig            `mapstructure:"moderation"`
	Telemetry     TelemetryConfig             `mapstructure:"telemetry"`
	Database      DatabaseConfig              `mapstructure:"database"`
	Middleware    map[string]MiddlewareConfig `mapstructure:"middleware"`
	Notifications NotificationConfig          `mapstructure:"notifications"`
	Logging       LoggingConfig               `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BotConfig holds settings for the activity host endpoint.
type BotConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	AppID         string `mapstructure:"app_id"`
	EchoTemplate  string `mapstructure:"echo_template"`
	TurnTimeout   int    `mapstructure:"turn_timeout"` // milliseconds
}

// SkillConfig holds settings for forwarding activities to a remote skill.
type SkillConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TokenURL       string `mapstructure:"token_url"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	Scope          string `mapstructure:"scope"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// RecognizerConfig holds settings for the LUIS-compatible intent recognizer.
type RecognizerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	AppID    string `mapstructure:"app_id"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// ModerationConfig holds settings for the content moderation REST client.
type ModerationConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Timeout     int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds
	AutoCorrect bool   `mapstructure:"autocorrect"`
	PII         bool   `mapstructure:"pii"`
	Classify    bool   `mapstructure:"classify"`
	Language    string `mapstructure:"language"`
}

// TelemetryConfig holds settings for the telemetry sinks.
type TelemetryConfig struct {
	IngestionURL       string `mapstructure:"ingestion_url"`
	InstrumentationKey string `mapstructure:"instrumentation_key"`
	BatchSize          int    `mapstructure:"batch_size"`
	FlushInterval      int    `mapstructure:"flush_interval"` // milliseconds

	Elasticsearch struct {
		Enabled bool   `mapstructure:"enabled"`
		Index   string `mapstructure:"index"`
	} `mapstructure:"elasticsearch"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MiddlewareConfig holds the core settings applicable to every middleware.
type MiddlewareConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	LogPersonalInformation bool `mapstructure:"log_personal_information"`
	AlertOnReview          bool `mapstructure:"alert_on_review"`
}

// NotificationConfig holds settings for flagged-content alerting.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled     bool   `mapstructure:"enabled"`
		FromEmail   string `mapstructure:"from_email"`
		ReviewInbox string `mapstructure:"review_inbox"`
	} `mapstructure:"ses"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
