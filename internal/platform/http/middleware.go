package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/platform/apperr"
)

// ErrorHandler は c.Errors に積まれた最後のエラーをレスポンスに変換するミドルウェアです。
// ハンドラーは c.Error(err) を呼んで return するだけでよく、ステータスとメッセージの決定はここで一元化されます。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		// 想定外のエラーのみErrorレベルで記録する
		if apperr.KindOf(err) == apperr.KindInternal {
			slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		} else {
			slog.Warn("request rejected", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		}
		AbortWithError(c, err)
	}
}

// SecurityHeaders sets the response headers browsers use to harden API responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
