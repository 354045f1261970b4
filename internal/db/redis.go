package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/concursopilotos/contest-api/internal/config"
)

func OpenRedis(conf *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%v:%v", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis.Ping -> %w", err)
	}

	return client, nil
}
