package dto

// ForgotPasswordRequest は/auth/forgot-passwordのリクエストボディです。
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest は/auth/password-reset/:tokenのリクエストボディです。
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}
