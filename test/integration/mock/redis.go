package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is a miniredis server plus a client connected to it.
type Redis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

var (
	redisOnce sync.Once
	redisMock *Redis
)

// NewRedis starts the shared miniredis server on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
			Server: server,
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.Background()).Err()
}

// KeysMatching lists keys matching a glob pattern.
func (r *Redis) KeysMatching(pattern string) ([]string, error) {
	return r.Client.Keys(context.Background(), pattern).Result()
}
