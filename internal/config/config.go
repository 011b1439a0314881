package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Engagement EngagementConfig `mapstructure:"engagement"`
	Persona    PersonaConfig    `mapstructure:"persona"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// EngagementConfig tunes the engagement policy state machine
type EngagementConfig struct {
	CautiousThreshold   float64       `mapstructure:"cautious_threshold"`
	AggressiveThreshold float64       `mapstructure:"aggressive_threshold"`
	CautiousMaxTurns    int           `mapstructure:"cautious_max_turns"`
	AggressiveMaxTurns  int           `mapstructure:"aggressive_max_turns"`
	MaxDuration         time.Duration `mapstructure:"max_duration"`
	StaleTurnLimit      int           `mapstructure:"stale_turn_limit"`
	URLGraceTurns       int           `mapstructure:"url_grace_turns"`
}

// PersonaConfig tunes the victim persona's extraction-question cadence
type PersonaConfig struct {
	QuestionBaseProbability    float64 `mapstructure:"question_base_probability"`
	QuestionTurnIncrement      float64 `mapstructure:"question_turn_increment"`
	QuestionExtractedDecrement float64 `mapstructure:"question_extracted_decrement"`
	QuestionMaxProbability     float64 `mapstructure:"question_max_probability"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scambait-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SCAMBAIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "SCAMBAIT_REDIS_ENABLED")
	v.BindEnv("redis.host", "SCAMBAIT_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMBAIT_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMBAIT_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "SCAMBAIT_DATABASE_ENABLED")
	v.BindEnv("database.host", "SCAMBAIT_DATABASE_HOST")
	v.BindEnv("database.port", "SCAMBAIT_DATABASE_PORT")
	v.BindEnv("database.user", "SCAMBAIT_DATABASE_USER")
	v.BindEnv("database.password", "SCAMBAIT_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "SCAMBAIT_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "SCAMBAIT_DATABASE_SSLMODE")
	v.BindEnv("nats.enabled", "SCAMBAIT_NATS_ENABLED")
	v.BindEnv("nats.url", "SCAMBAIT_NATS_URL")
	v.BindEnv("app.environment", "SCAMBAIT_APP_ENVIRONMENT")

	// Read config file; a missing file is fine, defaults and env carry the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scambait-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.key_prefix", "scambait:")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("engagement.cautious_threshold", 0.5)
	v.SetDefault("engagement.aggressive_threshold", 0.85)
	v.SetDefault("engagement.cautious_max_turns", 10)
	v.SetDefault("engagement.aggressive_max_turns", 20)
	v.SetDefault("engagement.max_duration", 30*time.Minute)
	v.SetDefault("engagement.stale_turn_limit", 3)
	v.SetDefault("engagement.url_grace_turns", 2)

	v.SetDefault("persona.question_base_probability", 0.3)
	v.SetDefault("persona.question_turn_increment", 0.05)
	v.SetDefault("persona.question_extracted_decrement", 0.04)
	v.SetDefault("persona.question_max_probability", 0.9)
}
