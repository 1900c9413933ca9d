// Package config loads server configuration from defaults, an optional YAML
// file, a .env file and POKEBATTLE_* environment variables, in that order
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "POKEBATTLE_"

// Config holds all configuration for the server
type Config struct {
	HTTPPort       int           `yaml:"http_port"`
	GRPCPort       int           `yaml:"grpc_port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RedisAddr selects Redis backed stores. Empty keeps everything in memory.
	RedisAddr string        `yaml:"redis_addr"`
	PokeAPI   PokeAPIConfig `yaml:"pokeapi"`
	Cache     CacheConfig   `yaml:"cache"`
	Battle    BattleConfig  `yaml:"battle"`
	Log       LogConfig     `yaml:"log"`
}

// PokeAPIConfig configures the upstream client
type PokeAPIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	MoveConcurrency int           `yaml:"move_concurrency"`
}

// CacheConfig configures the upstream response cache
type CacheConfig struct {
	TTL  time.Duration `yaml:"ttl"`
	Size int           `yaml:"size"`
}

// BattleConfig configures battle defaults and storage
type BattleConfig struct {
	DefaultLevel    int           `yaml:"default_level"`
	DefaultMaxTurns int           `yaml:"default_max_turns"`
	MaxTurnsLimit   int           `yaml:"max_turns_limit"`
	MaxLevel        int           `yaml:"max_level"`
	ResultTTL       time.Duration `yaml:"result_ttl"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		HTTPPort:       8000,
		GRPCPort:       50051,
		RequestTimeout: 60 * time.Second,
		PokeAPI: PokeAPIConfig{
			BaseURL:         "https://pokeapi.co/api/v2",
			UserAgent:       "pokemon-mcp-server/0/1",
			Timeout:         15 * time.Second,
			MaxRetries:      3,
			RetryDelay:      500 * time.Millisecond,
			MoveConcurrency: 8,
		},
		Cache: CacheConfig{
			TTL:  24 * time.Hour,
			Size: 512,
		},
		Battle: BattleConfig{
			DefaultLevel:    50,
			DefaultMaxTurns: 200,
			MaxTurnsLimit:   10000,
			MaxLevel:        1000,
			ResultTTL:       time.Hour,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Load builds the configuration. path names an optional YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to parse config file %s", path)
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("HTTPPort", c.HTTPPort, 1, 65535, vb)
	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	if c.HTTPPort == c.GRPCPort {
		vb.Field("GRPCPort", "must differ from HTTPPort")
	}
	errors.ValidatePositiveDuration("RequestTimeout", c.RequestTimeout, vb)

	errors.ValidateRequired("PokeAPI.BaseURL", c.PokeAPI.BaseURL, vb)
	errors.ValidatePositiveDuration("PokeAPI.Timeout", c.PokeAPI.Timeout, vb)
	errors.ValidateRange("PokeAPI.MaxRetries", c.PokeAPI.MaxRetries, 1, 10, vb)
	errors.ValidateNonNegativeDuration("PokeAPI.RetryDelay", c.PokeAPI.RetryDelay, vb)
	errors.ValidateRange("PokeAPI.MoveConcurrency", c.PokeAPI.MoveConcurrency, 1, 64, vb)

	errors.ValidatePositiveDuration("Cache.TTL", c.Cache.TTL, vb)
	errors.ValidatePositive("Cache.Size", c.Cache.Size, vb)

	errors.ValidateRange("Battle.MaxLevel", c.Battle.MaxLevel, 1, 1000, vb)
	errors.ValidateRange("Battle.DefaultLevel", c.Battle.DefaultLevel, 1, c.Battle.MaxLevel, vb)
	errors.ValidatePositive("Battle.MaxTurnsLimit", c.Battle.MaxTurnsLimit, vb)
	errors.ValidateRange("Battle.DefaultMaxTurns", c.Battle.DefaultMaxTurns, 1, c.Battle.MaxTurnsLimit, vb)
	errors.ValidatePositiveDuration("Battle.ResultTTL", c.Battle.ResultTTL, vb)

	errors.ValidateEnum("Log.Format", c.Log.Format, []string{logging.FormatText, logging.FormatJSON}, vb)

	return vb.Build()
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	vb := errors.NewValidationBuilder()
	env := envReader{lookup: lookup, vb: vb}

	env.int("HTTP_PORT", &c.HTTPPort)
	env.int("GRPC_PORT", &c.GRPCPort)
	env.duration("REQUEST_TIMEOUT", &c.RequestTimeout)
	env.string("REDIS_ADDR", &c.RedisAddr)

	env.string("POKEAPI_BASE_URL", &c.PokeAPI.BaseURL)
	env.string("POKEAPI_USER_AGENT", &c.PokeAPI.UserAgent)
	env.duration("POKEAPI_TIMEOUT", &c.PokeAPI.Timeout)
	env.int("POKEAPI_MAX_RETRIES", &c.PokeAPI.MaxRetries)
	env.duration("POKEAPI_RETRY_DELAY", &c.PokeAPI.RetryDelay)
	env.int("POKEAPI_MOVE_CONCURRENCY", &c.PokeAPI.MoveConcurrency)

	env.duration("CACHE_TTL", &c.Cache.TTL)
	env.int("CACHE_SIZE", &c.Cache.Size)

	env.int("BATTLE_DEFAULT_LEVEL", &c.Battle.DefaultLevel)
	env.int("BATTLE_DEFAULT_MAX_TURNS", &c.Battle.DefaultMaxTurns)
	env.int("BATTLE_MAX_TURNS_LIMIT", &c.Battle.MaxTurnsLimit)
	env.int("BATTLE_MAX_LEVEL", &c.Battle.MaxLevel)
	env.duration("BATTLE_RESULT_TTL", &c.Battle.ResultTTL)

	env.string("LOG_FORMAT", &c.Log.Format)
	env.string("LOG_LEVEL", &c.Log.Level)

	return vb.Build()
}

// envReader overrides fields from prefixed variables, collecting parse failures
type envReader struct {
	lookup lookupFunc
	vb     *errors.ValidationBuilder
}

func (r envReader) get(key string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r envReader) string(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r envReader) int(key string, dst *int) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.vb.Fieldf(EnvPrefix+key, "must be an integer, got %q", v)
		return
	}
	*dst = n
}

func (r envReader) duration(key string, dst *time.Duration) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.vb.Fieldf(EnvPrefix+key, "must be a duration, got %q", v)
		return
	}
	*dst = d
}
