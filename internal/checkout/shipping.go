package checkout

import (
	"strings"

	"shophub/internal/domain"
)

// Method is one shipping option. MinSubtotalCents gates availability: the
// free tier requires the cart subtotal to reach the threshold.
type Method struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PriceCents       int64  `json:"priceCents"`
	EstimatedDays    string `json:"estimatedDays"`
	MinSubtotalCents int64  `json:"minSubtotalCents,omitempty"`
}

// FreeShippingThresholdCents is the subtotal at which free shipping unlocks.
const FreeShippingThresholdCents = 10_000

// Methods is the fixed shipping method table.
var Methods = []Method{
	{ID: "standard", Name: "Standard", PriceCents: 999, EstimatedDays: "3-5"},
	{ID: "express", Name: "Express", PriceCents: 1999, EstimatedDays: "1-2"},
	{ID: "free", Name: "Free Shipping", PriceCents: 0, EstimatedDays: "5-7", MinSubtotalCents: FreeShippingThresholdCents},
}

func methodByID(id string) (Method, bool) {
	for _, m := range Methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// taxRatePercent is the flat rate applied to the pre-shipping subtotal.
const taxRatePercent = 9

// TaxCents rounds half-up to the nearest cent.
func TaxCents(subtotalCents int64) int64 {
	return (subtotalCents*taxRatePercent + 50) / 100
}

func validateAddress(a domain.ShippingAddress) []domain.FieldError {
	var errs []domain.FieldError
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, domain.FieldError{Field: field, Message: field + " is required"})
		}
	}
	check("fullName", a.FullName)
	check("address", a.Address)
	check("city", a.City)
	check("state", a.State)
	check("postalCode", a.PostalCode)
	check("country", a.Country)
	return errs
}
