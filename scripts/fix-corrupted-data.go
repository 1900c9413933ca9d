// Command fix-corrupted-data scans stored battle results and leaderboard
// stats for entries the server can no longer read and offers to delete them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)

	var corruptedKeys []string
	checked := 0

	fmt.Println("Scanning battle results...")
	n, keys := scan(ctx, client, "battle:*", func(key string) string {
		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			return fmt.Sprintf("unreadable: %v", err)
		}
		var result entities.BattleResult
		if err := json.Unmarshal(data, &result); err != nil {
			return "corrupted JSON"
		}
		if result.ID == "" || result.Params.Pokemon1 == "" || result.Params.Pokemon2 == "" {
			return "missing id or participants"
		}
		return ""
	})
	checked += n
	corruptedKeys = append(corruptedKeys, keys...)

	fmt.Println("Scanning leaderboard stats...")
	n, keys = scan(ctx, client, "leaderboard:stats:*", func(key string) string {
		fields, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Sprintf("unreadable: %v", err)
		}
		for field, value := range fields {
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Sprintf("%s is %q", field, value)
			}
		}
		return ""
	})
	checked += n
	corruptedKeys = append(corruptedKeys, keys...)

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checked, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response) // nolint:errcheck // empty input means no

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}

// scan runs check on every key matching pattern. check returns a reason for
// corrupted keys and an empty string otherwise.
func scan(ctx context.Context, client *redis.Client, pattern string, check func(key string) string) (int, []string) {
	var corrupted []string
	count := 0

	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		count++
		if reason := check(key); reason != "" {
			fmt.Printf("  x %s: %s\n", key, reason)
			corrupted = append(corrupted, key)
		}
	}
	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	return count, corrupted
}
