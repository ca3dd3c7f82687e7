package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func InitRedisServer(ctx context.Context, cfg *AppConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	_, err := client.Ping(ctx).Result()
	if err != nil {
		panic(err)
	}

	return client
}
