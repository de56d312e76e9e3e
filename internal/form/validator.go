package form

import (
	"github.com/go-playground/validator/v10"

	"campusmarket/internal/model"
)

// Enum validation tags usable in `validate` struct tags.
const (
	tagCondition = "condition"
	tagCategory  = "category"
	tagPayment   = "payment"
	tagCollege   = "college"
)

// NewValidator returns a validator with the marketplace enum tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	enums := map[string]func(string) bool{
		tagCondition: model.IsCondition,
		tagCategory:  model.IsCategory,
		tagPayment:   model.IsPaymentMethod,
		tagCollege:   model.IsCollege,
	}
	for tag, allowed := range enums {
		allowed := allowed
		// registration only fails on an empty tag or nil func
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return allowed(fl.Field().String())
		})
	}
	return v
}
