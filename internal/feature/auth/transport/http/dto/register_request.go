package dto

// RegisterRequest は/auth/registerエンドポイントのリクエストボディを表します。
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required"`
}
