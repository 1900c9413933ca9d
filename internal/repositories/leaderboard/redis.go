package leaderboard

import (
	"context"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokebattle-api/internal/redis"
)

const (
	// Sorted set of names scored by negated wins, so an ascending range is
	// wins descending with ties broken by name ascending
	rankingKey = "leaderboard:ranking"
	// Key pattern: leaderboard:stats:{name}
	statsKeyPrefix = "leaderboard:stats:"

	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldDraws  = "draws"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for the leaderboard
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// RecordWin updates the ranking and both stat hashes in one transaction
func (r *redisRepository) RecordWin(ctx context.Context, input RecordWinInput) error {
	if err := input.validate(); err != nil {
		return err
	}
	winner, loser := normalize(input.Winner), normalize(input.Loser)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, rankingKey, -1, winner)
		pipe.ZAddNX(ctx, rankingKey, redis.Z{Score: 0, Member: loser})
		pipe.HIncrBy(ctx, buildStatsKey(winner), fieldWins, 1)
		pipe.HIncrBy(ctx, buildStatsKey(loser), fieldLosses, 1)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to record win in Redis")
	}
	return nil
}

// RecordDraw adds a draw to both sides in one transaction
func (r *redisRepository) RecordDraw(ctx context.Context, input RecordDrawInput) error {
	if err := input.validate(); err != nil {
		return err
	}
	p1, p2 := normalize(input.Pokemon1), normalize(input.Pokemon2)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, rankingKey, redis.Z{Score: 0, Member: p1}, redis.Z{Score: 0, Member: p2})
		pipe.HIncrBy(ctx, buildStatsKey(p1), fieldDraws, 1)
		pipe.HIncrBy(ctx, buildStatsKey(p2), fieldDraws, 1)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to record draw in Redis")
	}
	return nil
}

// Top reads the head of the ranking and the stats of each listed name
func (r *redisRepository) Top(ctx context.Context, input TopInput) (*TopOutput, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	names, err := r.client.ZRange(ctx, rankingKey, 0, int64(input.Limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read leaderboard ranking")
	}
	if len(names) == 0 {
		return &TopOutput{Entries: []*entities.LeaderboardEntry{}}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HGetAll(ctx, buildStatsKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to read leaderboard stats")
	}

	entries := make([]*entities.LeaderboardEntry, 0, len(names))
	for i, name := range names {
		stats := cmds[i].Val()
		entries = append(entries, &entities.LeaderboardEntry{
			Name:   name,
			Wins:   atoi(stats[fieldWins]),
			Losses: atoi(stats[fieldLosses]),
			Draws:  atoi(stats[fieldDraws]),
		})
	}

	return &TopOutput{Entries: entries}, nil
}

func buildStatsKey(name string) string {
	return statsKeyPrefix + name
}

// atoi treats missing hash fields as zero
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
