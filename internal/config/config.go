package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/aquaflow/internal/seed"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "AQUAFLOW"

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	Backend  string      `mapstructure:"backend"`
	DBPath   string      `mapstructure:"db_path"`
	Redis    RedisConfig `mapstructure:"redis"`
	Actor    string      `mapstructure:"actor"`
	PageSize int         `mapstructure:"page_size"`
	Phone    PhoneConfig `mapstructure:"phone"`

	// Thresholds override seeded config values. They only apply when the
	// document is first seeded.
	Thresholds map[string]int64 `mapstructure:"-"`
}

// RedisConfig addresses the Redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// PhoneConfig controls customer phone validation.
type PhoneConfig struct {
	Region string `mapstructure:"region"`
	Strict bool   `mapstructure:"strict"`
}

// Options selects the files Load reads.
type Options struct {
	// ConfigFile is an explicit config path. Empty searches the default
	// locations and tolerates a missing file.
	ConfigFile string

	// EnvFile is the dotenv path. Empty means ".env"; a missing file is ignored.
	EnvFile string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		DBPath:   "aquaflow.db",
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "aquaflow:"},
		Actor:    "Admin",
		PageSize: 5,
		Phone:    PhoneConfig{Region: "PK"},
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Load never overrides variables already set in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("aquaflow")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "aquaflow"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Thresholds = thresholds(v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("actor", d.Actor)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("phone.region", d.Phone.Region)
	v.SetDefault("phone.strict", d.Phone.Strict)
}

// thresholds collects the thresholds.* keys that are set in any source.
func thresholds(v *viper.Viper) map[string]int64 {
	out := make(map[string]int64)
	for _, k := range seed.ThresholdKeys {
		key := "thresholds." + k
		if v.IsSet(key) {
			out[k] = v.GetInt64(key)
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string
	switch c.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("backend %q must be one of sqlite, redis, memory", c.Backend))
	}
	if c.Backend == BackendSQLite && c.DBPath == "" {
		problems = append(problems, "db_path is required for the sqlite backend")
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required for the redis backend")
	}
	if c.PageSize <= 0 {
		problems = append(problems, fmt.Sprintf("page_size must be > 0, got %d", c.PageSize))
	}
	for _, k := range seed.ThresholdKeys {
		if val, ok := c.Thresholds[k]; ok && val < 0 {
			problems = append(problems, fmt.Sprintf("thresholds.%s must be >= 0, got %d", k, val))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
