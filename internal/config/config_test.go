package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokebattle-api/internal/config"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) writeFile(content string) string {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load("")
	s.Require().NoError(err)

	s.Equal(8000, cfg.HTTPPort)
	s.Equal(50051, cfg.GRPCPort)
	s.Empty(cfg.RedisAddr)
	s.Equal("https://pokeapi.co/api/v2", cfg.PokeAPI.BaseURL)
	s.Equal("pokemon-mcp-server/0/1", cfg.PokeAPI.UserAgent)
	s.Equal(15*time.Second, cfg.PokeAPI.Timeout)
	s.Equal(3, cfg.PokeAPI.MaxRetries)
	s.Equal(500*time.Millisecond, cfg.PokeAPI.RetryDelay)
	s.Equal(24*time.Hour, cfg.Cache.TTL)
	s.Equal(512, cfg.Cache.Size)
	s.Equal(50, cfg.Battle.DefaultLevel)
	s.Equal(200, cfg.Battle.DefaultMaxTurns)
	s.Equal(1000, cfg.Battle.MaxLevel)
	s.Equal(time.Hour, cfg.Battle.ResultTTL)
	s.Equal(60*time.Second, cfg.RequestTimeout)
}

func (s *ConfigTestSuite) TestYAMLFile() {
	path := s.writeFile(`
http_port: 9000
redis_addr: localhost:6379
pokeapi:
  timeout: 5s
  max_retries: 5
cache:
  size: 64
battle:
  result_ttl: 10m
log:
  format: json
`)

	cfg, err := config.Load(path)
	s.Require().NoError(err)
	s.Equal(9000, cfg.HTTPPort)
	s.Equal("localhost:6379", cfg.RedisAddr)
	s.Equal(5*time.Second, cfg.PokeAPI.Timeout)
	s.Equal(5, cfg.PokeAPI.MaxRetries)
	s.Equal(64, cfg.Cache.Size)
	s.Equal(10*time.Minute, cfg.Battle.ResultTTL)
	s.Equal("json", cfg.Log.Format)
	// untouched keys keep their defaults
	s.Equal(50051, cfg.GRPCPort)
	s.Equal(24*time.Hour, cfg.Cache.TTL)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	path := s.writeFile("http_port: 9000\n")
	s.T().Setenv("POKEBATTLE_HTTP_PORT", "9100")
	s.T().Setenv("POKEBATTLE_CACHE_TTL", "2h")
	s.T().Setenv("POKEBATTLE_POKEAPI_BASE_URL", "http://localhost:1234/api/v2")

	cfg, err := config.Load(path)
	s.Require().NoError(err)
	s.Equal(9100, cfg.HTTPPort)
	s.Equal(2*time.Hour, cfg.Cache.TTL)
	s.Equal("http://localhost:1234/api/v2", cfg.PokeAPI.BaseURL)
}

func (s *ConfigTestSuite) TestBadEnvValues() {
	s.T().Setenv("POKEBATTLE_GRPC_PORT", "abc")
	s.T().Setenv("POKEBATTLE_BATTLE_RESULT_TTL", "soon")

	_, err := config.Load("")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "POKEBATTLE_GRPC_PORT")
	s.Contains(err.Error(), "POKEBATTLE_BATTLE_RESULT_TTL")
}

func (s *ConfigTestSuite) TestMissingFile() {
	_, err := config.Load(filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "port out of range", mutate: func(c *config.Config) { c.HTTPPort = 70000 }, field: "HTTPPort"},
		{name: "port clash", mutate: func(c *config.Config) { c.GRPCPort = c.HTTPPort }, field: "GRPCPort"},
		{name: "no base url", mutate: func(c *config.Config) { c.PokeAPI.BaseURL = "" }, field: "PokeAPI.BaseURL"},
		{name: "zero retries", mutate: func(c *config.Config) { c.PokeAPI.MaxRetries = 0 }, field: "PokeAPI.MaxRetries"},
		{name: "zero cache size", mutate: func(c *config.Config) { c.Cache.Size = 0 }, field: "Cache.Size"},
		{name: "max turns over limit", mutate: func(c *config.Config) { c.Battle.DefaultMaxTurns = 20000 }, field: "Battle.DefaultMaxTurns"},
		{name: "max level over engine cap", mutate: func(c *config.Config) { c.Battle.MaxLevel = 5000 }, field: "Battle.MaxLevel"},
		{name: "default level over max level", mutate: func(c *config.Config) { c.Battle.MaxLevel = 40 }, field: "Battle.DefaultLevel"},
		{name: "unknown log format", mutate: func(c *config.Config) { c.Log.Format = "xml" }, field: "Log.Format"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := config.Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}

	s.NoError(config.Default().Validate())
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
