package validation

import (
	"finbridge/internal/models"

	"github.com/shopspring/decimal"
)

// Customer validates a customer create/update payload.
func (v *Validator) Customer(c *models.Customer) {
	v.Required("full_name", c.FullName)
	v.Phone("phone", c.Phone)
	v.PAN("pan", c.PAN)
	v.Required("branch_code", c.BranchCode)
	if c.Email != "" {
		v.Email("email", c.Email)
	}
	if c.Gender != "" {
		v.Check(c.Gender == "female" || c.Gender == "male" || c.Gender == "other",
			"gender", "must be female, male or other")
	}
	if c.DateOfBirth != nil {
		v.Past("date_of_birth", *c.DateOfBirth)
	}
}

// Booking validates the caller-controlled parts of a deposit booking; the
// catalog engine re-checks amount and tenure against the product itself.
func (v *Validator) Booking(customerID uint, issuerCode, schemeID string, amount decimal.Decimal, tenureMonths int, frequency models.PayoutFrequency) {
	v.Required("customer_id", customerID)
	v.Required("issuer_code", issuerCode)
	v.Required("scheme_id", schemeID)
	v.Check(amount.IsPositive(), "amount", "must be greater than zero")
	v.Check(tenureMonths > 0, "tenure_months", "must be greater than zero")
	v.Check(models.ValidPayoutFrequency(frequency), "payout_frequency", "is not a known frequency")
}
