// Package entity defines the domain entities for the user feature.
package entity

import "time"

// User represents an account. Leads reference users by ID.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Email is unique across all users and matched exactly.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	Name string `gorm:"size:255;not null" json:"name"`

	Phone *string `gorm:"size:64" json:"phone"`

	// Password is the bcrypt hash. It is nil for accounts created without credentials.
	Password *string `gorm:"size:255" json:"-"`

	Role Role `gorm:"type:varchar(16);not null" json:"role"`

	// ResetPasswordToken mirrors the single outstanding password-reset token.
	ResetPasswordToken *string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PasswordHash returns the stored hash or an empty string when none is set.
func (u *User) PasswordHash() string {
	if u.Password == nil {
		return ""
	}
	return *u.Password
}

// ProfileUpdate carries the user fields an update may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// Columns returns the column/value pairs to update.
func (p ProfileUpdate) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	return cols
}
