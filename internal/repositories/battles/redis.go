package battles

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/pokebattle-api/internal/redis"
)

const (
	// Key pattern: battle:{battle_id}
	battleKeyPrefix = "battle:"
	defaultTTL      = time.Hour

	// Error messages
	errResultNil     = "result cannot be nil"
	errBattleIDEmpty = "battle ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for battle results
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Create stores a battle result with TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Result == nil {
		return nil, errors.InvalidArgument(errResultNil)
	}
	if input.Result.ID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	data, err := json.Marshal(input.Result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal battle result")
	}

	if err := r.client.Set(ctx, buildBattleKey(input.Result.ID), data, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store battle %s in Redis", input.Result.ID)
	}

	return &CreateOutput{ExpiresAt: r.clock.Now().Add(ttl)}, nil
}

// Get retrieves a battle result by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	data, err := r.client.Get(ctx, buildBattleKey(input.BattleID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("battle %s not found", input.BattleID).
				WithMeta("battle_id", input.BattleID)
		}
		return nil, errors.Wrapf(err, "failed to get battle %s from Redis", input.BattleID)
	}

	var result entities.BattleResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal battle result")
	}

	return &GetOutput{Result: &result}, nil
}

func buildBattleKey(battleID string) string {
	return battleKeyPrefix + battleID
}
