package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
)

// NewRedis returns a client backed by an in-process miniredis instance.
// The instance is shared across scenarios; use ClearRedis between them.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		srv, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisClient = redis.NewClient(&redis.Options{Addr: srv.Addr()})
	})
	return redisClient
}

func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}
