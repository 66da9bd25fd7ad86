// Package redis はキャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"courtier_backend/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient は設定からクライアントを生成し、疎通確認を行います。
// REDIS_HOST が空の場合はキャッシュ無効として nil, nil を返します。
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Host == "" {
		slog.Info("REDIS_HOST not set; lead cache disabled")
		return nil, nil
	}
	addr := cfg.RedisAddr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
