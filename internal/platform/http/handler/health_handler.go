// Package handler はプラットフォームレベルのエンドポイント（/healthz, /readyz）用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Check は依存先（DB, Redis など）の疎通確認です。
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health はプロセス生存確認用の /healthz エンドポイントを処理します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready は登録された依存先をすべて確認し、いずれかが失敗した場合は503を返すハンドラーを生成します。
func Ready(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		status := http.StatusOK
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				slog.Warn("readiness check failed", "check", chk.Name, "error", err)
				results[chk.Name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[chk.Name] = "up"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
