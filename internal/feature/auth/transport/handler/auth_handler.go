// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/feature/auth/transport/http/dto"
	"courtier_backend/internal/feature/auth/usecase"
	"courtier_backend/internal/feature/user/domain/entity"
	httpx "courtier_backend/internal/platform/http"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// エラーは c.Error に積まれ、httpx.ErrorHandler がレスポンスに変換します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はPOST /auth/registerを処理します。成功時は201と作成されたユーザーを返します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusCreated, "User registered successfully", user)
}

// Login はPOST /auth/loginを処理します。
// 未登録のメールアドレスは401、パスワード不一致は400になります。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	httpx.JSON(c, http.StatusOK, "Login successful", dto.LoginResponse{
		AccessToken: res.AccessToken,
		User:        res.User,
	})
}

// ForgotPassword はPOST /auth/forgot-passwordを処理します。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword はPOST /auth/password-reset/:tokenを処理します。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Password reset successfully", nil)
}
