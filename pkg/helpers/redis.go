package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// PingRedis checks the connection once. Sessions and rate limits run without Redis
// when it returns false.
func PingRedis(ctx context.Context, rdb *redis.Client, logger *logrus.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		OrNop(logger).WithError(err).Warn("redis unreachable: sessions and rate limits disabled")
		return false
	}
	return true
}

// SessionKey is the Redis hash holding a user's active session.
func SessionKey(userID string) string {
	return "user:session:" + userID
}
