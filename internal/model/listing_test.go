package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campusmarket/internal/errors"
)

func validListing() *Listing {
	return &Listing{
		Name:      "Desk lamp",
		Condition: "Used - Good",
		Category:  "Dorm Gear",
		Price:     15,
		Creator:   "seller@ucsc.edu",
	}
}

func TestListing_Validate_Price(t *testing.T) {
	tests := []struct {
		name    string
		price   int
		wantErr bool
	}{
		{name: "zero default", price: 0, wantErr: true},
		{name: "negative", price: -5, wantErr: true},
		{name: "lower bound", price: 1, wantErr: false},
		{name: "upper bound", price: 1_000_000, wantErr: false},
		{name: "above upper bound", price: 1_000_001, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			l.Price = tt.price
			err := l.Validate()
			if tt.wantErr {
				verr, ok := apperrors.AsValidationError(err)
				require.True(t, ok)
				assert.Contains(t, verr.Fields, "Price")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestListing_Validate_Enums(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		category  string
		wantField []string
	}{
		{name: "all known", condition: "New", category: "Electronics"},
		{name: "unknown condition", condition: "Broken", category: "Electronics", wantField: []string{"Condition"}},
		{name: "unknown category", condition: "Used - Fair", category: "Cars", wantField: []string{"Category"}},
		{name: "case matters", condition: "new", category: "electronics", wantField: []string{"Condition", "Category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			l.Condition = tt.condition
			l.Category = tt.category
			err := l.Validate()
			if len(tt.wantField) == 0 {
				assert.NoError(t, err)
				return
			}
			verr, ok := apperrors.AsValidationError(err)
			require.True(t, ok)
			for _, f := range tt.wantField {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantField))
		})
	}
}

func TestListing_IsOwnedBy(t *testing.T) {
	l := validListing()
	assert.True(t, l.IsOwnedBy("seller@ucsc.edu"))
	assert.False(t, l.IsOwnedBy("other@ucsc.edu"))
	assert.False(t, (&Listing{}).IsOwnedBy(""))
}

func TestAccountInfo_Validate(t *testing.T) {
	info := NewDefaultAccountInfo("buyer@ucsc.edu")
	assert.NoError(t, info.Validate())
	assert.Equal(t, "N/A", info.Phone)

	info.Payment = "Bitcoin"
	info.College = "Merrill"
	verr, ok := apperrors.AsValidationError(info.Validate())
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "Payment")
	assert.Contains(t, verr.Fields, "College")
}
