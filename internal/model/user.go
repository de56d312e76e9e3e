package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "campusmarket/internal/errors"
)

// User is a campus account. Its email identifies the owner of listings and
// account info rows.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail trims and lower-cases an email so one inbox maps to one
// account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave stores the normalized email and rejects accounts without a
// name, email or password hash.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)

	fields := map[string]string{}
	if u.Email == "" {
		fields["Email"] = "is required"
	}
	if u.Name == "" {
		fields["Name"] = "is required"
	}
	if u.PasswordHash == "" {
		fields["Password"] = "is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}
