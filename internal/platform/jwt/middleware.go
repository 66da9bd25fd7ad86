package jwtmw

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/platform/apperr"
	httpx "courtier_backend/internal/platform/http"
)

// ContextUser is the gin context key holding the authenticated *entity.User.
const ContextUser = "user"

var (
	errMissingToken = apperr.New(apperr.KindUnauthorized, "Unauthorized")
	errForbidden    = apperr.New(apperr.KindForbidden, "Forbidden resource")
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*Claims, error)
}

// UserFinder loads the account named by a verified token.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and attaches the caller's user record to the context.
//   - ヘッダー欠落・形式不正・署名/期限エラーは401
//   - トークンのメールアドレスに一致するユーザーが存在しない場合は404
func AuthRequired(parser TokenParser, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			httpx.AbortWithError(c, errMissingToken)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := parser.Parse(tokenStr)
		if err != nil {
			httpx.AbortWithError(c, apperr.Wrap(apperr.KindUnauthorized, "Unauthorized", err))
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			// domain.ErrUserNotFound は404として返る
			httpx.AbortWithError(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRole is the role guard. It must run after AuthRequired and lets the request
// through only when the caller's role is one of roles.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	allowed := entity.NewRoleSet(roles...)
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !allowed.Contains(user.Role) {
			httpx.AbortWithError(c, errForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
