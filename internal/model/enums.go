package model

import "slices"

// Price bounds accepted for a listing, inclusive.
const (
	MinPrice = 1
	MaxPrice = 1_000_000
)

// Conditions lists the allowed values of Listing.Condition.
var Conditions = []string{
	"New",
	"Used - Like New",
	"Used - Good",
	"Used - Fair",
}

// Categories lists the allowed values of Listing.Category.
var Categories = []string{
	"Clothing",
	"Electronics",
	"Dorm Gear",
	"School Supplies",
	"Free Stuff",
	"Other",
}

// PaymentMethods lists the allowed values of AccountInfo.Payment.
var PaymentMethods = []string{
	"Venmo",
	"CashApp",
	"Zelle",
	"Apple Pay",
	"Cash",
	"Other",
}

// Colleges lists the allowed values of AccountInfo.College.
var Colleges = []string{
	"Cowell",
	"Stevenson",
	"Crown",
	"Merill",
	"Porter",
	"Kresge",
	"Oakes",
	"Rachel Carson",
	"College Nine",
	"College Ten",
	"Graduate Student",
	"Other",
}

// IsCondition reports whether v is a known listing condition.
func IsCondition(v string) bool { return slices.Contains(Conditions, v) }

// IsCategory reports whether v is a known listing category.
func IsCategory(v string) bool { return slices.Contains(Categories, v) }

// IsPaymentMethod reports whether v is a known payment method.
func IsPaymentMethod(v string) bool { return slices.Contains(PaymentMethods, v) }

// IsCollege reports whether v is a known college.
func IsCollege(v string) bool { return slices.Contains(Colleges, v) }

// PriceInRange reports whether p is an acceptable listing price.
func PriceInRange(p int) bool { return p >= MinPrice && p <= MaxPrice }
