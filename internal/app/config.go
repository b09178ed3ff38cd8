package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	ConfigPathEnvVar = "CONFIG_PATH"
	envPrefix        = "PETFIT_"
)

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/petfit/config.yaml",
}

type Config struct {
	Server         ServerConfig         `koanf:"server"`
	Log            LogConfig            `koanf:"log"`
	Database       DatabaseConfig       `koanf:"database"`
	Redis          RedisConfig          `koanf:"redis"`
	Cache          CacheConfig          `koanf:"cache"`
	Recommendation RecommendationConfig `koanf:"recommendation"`
	OpenAI         OpenAIConfig         `koanf:"openai"`
	Breaker        BreakerConfig        `koanf:"breaker"`
	Otel           OtelConfig           `koanf:"otel"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	AdminToken      string        `koanf:"admin_token"`
}

type LogConfig struct {
	Mode string `koanf:"mode" validate:"oneof=development production test"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"oneof=postgres sqlite"`
	Host            string        `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int           `koanf:"port" validate:"required_if=Driver postgres"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string        `koanf:"sslmode"`
	SQLitePath      string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	Enabled             bool          `koanf:"enabled"`
	Addr                string        `koanf:"addr" validate:"required_if=Enabled true"`
	Password            string        `koanf:"password"`
	DB                  int           `koanf:"db" validate:"gte=0"`
	DialTimeout         time.Duration `koanf:"dial_timeout"`
	InvalidationChannel string        `koanf:"invalidation_channel"`
}

type CacheConfig struct {
	RecommendationTTL time.Duration `koanf:"recommendation_ttl" validate:"gt=0"`
	SummaryTTL        time.Duration `koanf:"summary_ttl" validate:"gt=0"`
	ScoreTTL          time.Duration `koanf:"score_ttl" validate:"gt=0"`
	FreshnessWindow   time.Duration `koanf:"freshness_window" validate:"gt=0"`
	OpTimeout         time.Duration `koanf:"op_timeout" validate:"gt=0"`
	DurableTimeout    time.Duration `koanf:"durable_timeout" validate:"gt=0"`
}

type RecommendationConfig struct {
	ListLimit      int           `koanf:"list_limit" validate:"gte=1,lte=100"`
	ComputeTimeout time.Duration `koanf:"compute_timeout" validate:"gt=0"`
	ExplainTop     int           `koanf:"explain_top" validate:"gte=0"`
	ExplainTimeout time.Duration `koanf:"explain_timeout" validate:"gt=0"`
}

type OpenAIConfig struct {
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	Model         string        `koanf:"model"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxRetries    int           `koanf:"max_retries" validate:"gte=0"`
	Temperature   float64       `koanf:"temperature" validate:"gte=0,lte=2"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	Burst         int           `koanf:"burst" validate:"gte=0"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
	OpenTimeout         time.Duration `koanf:"open_timeout"`
}

type OtelConfig struct {
	Enabled     bool              `koanf:"enabled"`
	ServiceName string            `koanf:"service_name"`
	Environment string            `koanf:"environment"`
	Endpoint    string            `koanf:"endpoint"`
	Insecure    bool              `koanf:"insecure"`
	Headers     map[string]string `koanf:"headers"`
	SampleRatio float64           `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{Mode: "development"},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "petfit",
			SSLMode:         "disable",
			SQLitePath:      "petfit.db",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{
			Enabled:     true,
			Addr:        "localhost:6379",
			DialTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			RecommendationTTL: 7 * 24 * time.Hour,
			SummaryTTL:        time.Hour,
			ScoreTTL:          time.Hour,
			FreshnessWindow:   7 * 24 * time.Hour,
			OpTimeout:         500 * time.Millisecond,
			DurableTimeout:    2 * time.Second,
		},
		Recommendation: RecommendationConfig{
			ListLimit:      10,
			ComputeTimeout: 20 * time.Second,
			ExplainTop:     3,
			ExplainTimeout: 10 * time.Second,
		},
		OpenAI: OpenAIConfig{
			Model:         "gpt-4o-mini",
			Timeout:       30 * time.Second,
			MaxRetries:    2,
			Temperature:   0.7,
			RatePerSecond: 5,
			Burst:         5,
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
		},
		Otel: OtelConfig{
			ServiceName: "petfit-backend",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers struct defaults, an optional YAML file and PETFIT_ environment variables, in that
// order. Nested keys use a double underscore: PETFIT_REDIS__ADDR sets redis.addr.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := splitCSV(k, "server.cors_origins"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitCSV turns a comma-separated env value into a slice; YAML lists pass through.
func splitCSV(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}
