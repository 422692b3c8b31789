package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzbank/config"
)

type RedisParams struct {
	fx.In

	Config *config.AppConfig
	Logger *zap.Logger
}

func NewRedisClient(p RedisParams) (*redis.Client, error) {
	if p.Config.MockMode {
		return nil, nil
	}

	options, err := redis.ParseURL(p.Config.RedisUrl)
	if err != nil {
		p.Logger.Error("Failed to parse Redis URL", zap.Error(err))
		return nil, err
	}
	client := redis.NewClient(options)

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		p.Logger.Error("Failed to connect to Redis", zap.Error(err))
		return nil, err
	}

	p.Logger.Debug("Redis client created successfully")
	return client, nil
}
