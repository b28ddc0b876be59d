package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/chitledger/internal/infrastructure/redis"
)

// newTestRedisClient dials an in-process miniredis through the same URL
// path the server uses.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClientWithOptions(context.Background(), "redis://"+mr.Addr(), infraredis.Options{PoolSize: 4})
	if err != nil {
		t.Fatalf("connect to miniredis: %v", err)
	}

	return client, mr
}
