// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "courtier_backend/internal/feature/user/domain/entity"

// LoginRequest は/auth/loginエンドポイントのリクエストボディを表します。
// パスワードポリシーの検証はusecase側で行います。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse はログイン成功時に返却されるデータです。
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *entity.User `json:"user"`
}
