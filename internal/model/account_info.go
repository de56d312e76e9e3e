package model

import (
	"time"

	"gorm.io/gorm"

	apperrors "campusmarket/internal/errors"
)

// Defaults written when an account info row is lazily created.
const (
	DefaultPhone   = "N/A"
	DefaultPayment = "Other"
	DefaultCollege = "Other"
)

// AccountInfo holds the contact details a seller shares with buyers.
// Email is indexed but not unique.
type AccountInfo struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"size:255;not null;index"`
	Phone     string    `json:"phone" gorm:"size:64"`
	Payment   string    `json:"payment" gorm:"size:32;not null"`
	College   string    `json:"college" gorm:"size:32;not null"`
	Address   string    `json:"address" gorm:"size:512"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name to the singular form.
func (AccountInfo) TableName() string {
	return "account_info"
}

// NewDefaultAccountInfo returns the row inserted on a user's first account visit.
func NewDefaultAccountInfo(email string) *AccountInfo {
	return &AccountInfo{
		Email:   email,
		Phone:   DefaultPhone,
		Payment: DefaultPayment,
		College: DefaultCollege,
	}
}

// Validate checks the enum constraints of an account info row.
func (a *AccountInfo) Validate() error {
	fields := map[string]string{}
	if !IsPaymentMethod(a.Payment) {
		fields["Payment"] = "must be one of the listed payment methods"
	}
	if !IsCollege(a.College) {
		fields["College"] = "must be one of the listed colleges"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}

// BeforeSave rejects rows that violate the account info constraints.
func (a *AccountInfo) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

// IsOwnedBy reports whether the row belongs to email.
func (a *AccountInfo) IsOwnedBy(email string) bool {
	return email != "" && a.Email == email
}
