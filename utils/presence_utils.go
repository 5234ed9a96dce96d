package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// Redis only has string type, there is no boolean or int, so we use "1" to
	// represent an alive heartbeat.
	RedisTrue = "1"

	// PresenceTTL is how long a heartbeat keeps a user online. Clients are
	// expected to heartbeat on every poll cycle, well inside this window.
	PresenceTTL = 60 * time.Second
)

// RedisPresenceStore tracks which users currently have a live session, backed
// by TTL keys. A user is online iff their heartbeat key has not expired.
type RedisPresenceStore struct {
	inner *redis.Client
}

func GetRedisPresenceStore() (*RedisPresenceStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(context.Background()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisPresenceStore{inner: redisClient}, nil
}

func presenceKey(userId string) string {
	return "presence__" + userId
}

// Heartbeat marks the user online for the next PresenceTTL.
func (r *RedisPresenceStore) Heartbeat(ctx context.Context, userId string) error {
	return r.inner.Set(ctx, presenceKey(userId), RedisTrue, PresenceTTL).Err()
}

// GetOnlineStatus returns one flag per queried user id, in input order.
func (r *RedisPresenceStore) GetOnlineStatus(ctx context.Context, userIds []string) ([]bool, error) {
	if len(userIds) == 0 {
		return []bool{}, nil
	}

	keys := []string{}
	for _, uid := range userIds {
		keys = append(keys, presenceKey(uid))
	}

	res, err := r.inner.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	status := []bool{}
	for _, v := range res {
		status = append(status, v != nil)
	}
	return status, nil
}
