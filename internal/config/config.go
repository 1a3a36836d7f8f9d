package config

import (
	"errors"
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
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Engine     EngineConfig     `mapstructure:"engine"`
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
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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

// ClassifierConfig configures the external generative classifier. The
// engine makes a single attempt per request with separate connect and
// read timeouts; retries belong to the caller, not the engine.
type ClassifierConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Model          string        `mapstructure:"model"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	MaxPromptChars int           `mapstructure:"max_prompt_chars"`
	NumPredict     int           `mapstructure:"num_predict"`
	NumCtx         int           `mapstructure:"num_ctx"`
	Seed           int           `mapstructure:"seed"`
	Temperature    float64       `mapstructure:"temperature"`
	TopP           float64       `mapstructure:"top_p"`
}

// EngineConfig holds the empirically tuned engine constants. They are
// configuration rather than code so they can be re-tuned against a
// labeled evaluation set without a release.
type EngineConfig struct {
	ShortTextRunes  int           `mapstructure:"short_text_runes"`
	VerdictCacheTTL time.Duration `mapstructure:"verdict_cache_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/callguard-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("CALLGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "CALLGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "CALLGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "CALLGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "CALLGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "CALLGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "CALLGUARD_DATABASE_USER")
	v.BindEnv("database.password", "CALLGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "CALLGUARD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "CALLGUARD_DATABASE_SSLMODE")
	v.BindEnv("classifier.host", "CALLGUARD_CLASSIFIER_HOST")
	v.BindEnv("classifier.model", "CALLGUARD_CLASSIFIER_MODEL")
	v.BindEnv("app.environment", "CALLGUARD_APP_ENVIRONMENT")

	// Read config file; a missing file is fine, the defaults cover it
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

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
	v.SetDefault("app.name", "callguard-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 150*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "callguard")
	v.SetDefault("database.dbname", "callguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "callguard:")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-API-Key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("classifier.enabled", true)
	v.SetDefault("classifier.host", "http://127.0.0.1:11434")
	v.SetDefault("classifier.model", "scam-guard")
	v.SetDefault("classifier.connect_timeout", 5*time.Second)
	v.SetDefault("classifier.read_timeout", 120*time.Second)
	v.SetDefault("classifier.max_prompt_chars", 4000)
	v.SetDefault("classifier.num_predict", 256)
	v.SetDefault("classifier.num_ctx", 2048)
	v.SetDefault("classifier.seed", 42)
	v.SetDefault("classifier.temperature", 0.0)
	v.SetDefault("classifier.top_p", 0.9)

	v.SetDefault("engine.short_text_runes", 20)
	v.SetDefault("engine.verdict_cache_ttl", 10*time.Minute)
}
