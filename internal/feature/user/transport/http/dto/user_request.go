// Package dto はuserフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "courtier_backend/internal/feature/user/domain/entity"

// CreateUserRequest は/user/createと/user/admin/addUserのリクエストボディです。
// /user/update/:id も同じ形式を受け付けます。
type CreateUserRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone"`
}

// Profile converts the request to a full profile update.
func (r CreateUserRequest) Profile() entity.ProfileUpdate {
	return entity.ProfileUpdate{Name: &r.Name, Email: &r.Email, Phone: r.Phone}
}

// UpdateUserRequest は/user/admin/updateUser/:idのリクエストボディです。全フィールド任意です。
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// Profile converts the request to a partial profile update.
func (r UpdateUserRequest) Profile() entity.ProfileUpdate {
	return entity.ProfileUpdate{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// SendEmailRequest は/user/sendEmailのリクエストボディです。
type SendEmailRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Type   string `json:"type" binding:"required"`
	LeadID uint   `json:"leadId" binding:"required"`
}
