package model

import (
	"time"

	"gorm.io/gorm"

	apperrors "campusmarket/internal/errors"
)

// Listing represents an item offered for sale on the marketplace.
type Listing struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Condition   string    `json:"condition" gorm:"size:32;not null;index"`
	Category    string    `json:"category" gorm:"size:32;not null;index"`
	Price       int       `json:"price" gorm:"not null;default:0;index"`
	Image       string    `json:"image" gorm:"type:longtext"` // data:<mime>;base64,<payload>
	Description string    `json:"description" gorm:"type:text"`
	Creator     string    `json:"creator" gorm:"size:255;index"`
	Interest    int       `json:"interest" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table name to the singular form.
func (Listing) TableName() string {
	return "listing"
}

// Validate checks the enum and range constraints of a listing.
func (l *Listing) Validate() error {
	fields := map[string]string{}
	if l.Name == "" {
		fields["Name"] = "is required"
	}
	if !IsCondition(l.Condition) {
		fields["Condition"] = "must be one of the listed conditions"
	}
	if !IsCategory(l.Category) {
		fields["Category"] = "must be one of the listed categories"
	}
	if !PriceInRange(l.Price) {
		fields["Price"] = "must be between 1 and 1000000"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}

// BeforeSave rejects rows that violate the listing constraints.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	return l.Validate()
}

// IsOwnedBy reports whether email created the listing.
func (l *Listing) IsOwnedBy(email string) bool {
	return email != "" && l.Creator == email
}
