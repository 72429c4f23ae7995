package catalog

import (
	"fmt"

	"finbridge/internal/models"

	"github.com/shopspring/decimal"
)

// Rule identifiers, used to tag violations so API callers can render
// field-level errors.
const (
	RuleStructure           = "structure"
	RuleTenureOrder         = "tenure_order"
	RuleSlabBandWithinScheme = "slab_band_within_scheme"
	RuleCumulativeFrequency = "cumulative_frequency"
	RuleOnMaturityForbidden = "on_maturity_forbidden"
	RuleSlabFrequencyAllowed = "slab_frequency_allowed"
	RulePrematureTerms      = "premature_terms"
	RuleNonNegativeLimits   = "non_negative_limits"
	RuleDuplicateID         = "duplicate_id"
)

// MaxBaseRateBps caps the annual interest rate at 30.00%.
const MaxBaseRateBps = 3000

// Violation is one broken invariant, tagged with the offending scheme/slab.
type Violation struct {
	Rule     string `json:"rule"`
	SchemeID string `json:"scheme_id,omitempty"`
	SlabID   string `json:"slab_id,omitempty"`
	Message  string `json:"message"`
}

// ValidationError wraps the full violation set for a rejected write. The
// store never commits a tree that carries one of these.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "catalog validation failed: " + e.Violations[0].Message
	}
	return fmt.Sprintf("catalog validation failed with %d violations", len(e.Violations))
}

// rule is one independently testable predicate over the full issuer tree.
type rule struct {
	id    string
	check func(*models.Issuer, *collector)
}

type collector struct {
	rule       string
	violations []Violation
}

func (c *collector) add(schemeID, slabID, format string, args ...interface{}) {
	c.violations = append(c.violations, Violation{
		Rule:     c.rule,
		SchemeID: schemeID,
		SlabID:   slabID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ruleTable enumerates every invariant enforced on a write to an issuer.
// All rules run over the whole candidate tree; cross-level rules need the
// full context, not just the changed sub-node.
var ruleTable = []rule{
	{RuleStructure, checkStructure},
	{RuleTenureOrder, checkTenureOrder},
	{RuleSlabBandWithinScheme, checkSlabBandWithinScheme},
	{RuleCumulativeFrequency, checkCumulativeFrequency},
	{RuleOnMaturityForbidden, checkOnMaturityForbidden},
	{RuleSlabFrequencyAllowed, checkSlabFrequencyAllowed},
	{RulePrematureTerms, checkPrematureTerms},
	{RuleNonNegativeLimits, checkNonNegativeLimits},
	{RuleDuplicateID, checkDuplicateIDs},
}

// Validate checks every invariant against the candidate issuer tree and
// returns all violations found, not just the first.
func Validate(issuer *models.Issuer) []Violation {
	var violations []Violation
	for _, r := range ruleTable {
		c := &collector{rule: r.id}
		r.check(issuer, c)
		violations = append(violations, c.violations...)
	}
	return violations
}

func checkStructure(issuer *models.Issuer, c *collector) {
	if issuer.Code == "" {
		c.add("", "", "issuer code must not be empty")
	}
	if issuer.LegalName == "" {
		c.add("", "", "issuer legal name must not be empty")
	}
	if !models.ValidIssuerCategory(issuer.Category) {
		c.add("", "", "unknown issuer category %q", issuer.Category)
	}
	if !issuer.HasRatedPair() {
		c.add("", "", "rating agency and grade must both be set or both be empty")
	}
	if issuer.PrematurePolicy == "" {
		c.add("", "", "premature withdrawal policy must not be empty")
	}
	if len(issuer.Schemes) == 0 {
		c.add("", "", "issuer must carry at least one scheme")
	}
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.ID == "" {
			c.add(scheme.ID, "", "scheme id must not be empty")
		}
		if scheme.Name == "" {
			c.add(scheme.ID, "", "scheme name must not be empty")
		}
		if len(scheme.AllowedFrequencies) == 0 {
			c.add(scheme.ID, "", "scheme must allow at least one payout frequency")
		}
		for _, f := range scheme.AllowedFrequencies {
			if !models.ValidPayoutFrequency(f) {
				c.add(scheme.ID, "", "unknown payout frequency %q", f)
			}
		}
		if len(scheme.RateSlabs) == 0 {
			c.add(scheme.ID, "", "scheme must carry at least one rate slab")
		}
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if slab.ID == "" {
				c.add(scheme.ID, slab.ID, "rate slab id must not be empty")
			}
			if !models.ValidPayoutFrequency(slab.PayoutFrequency) {
				c.add(scheme.ID, slab.ID, "unknown payout frequency %q", slab.PayoutFrequency)
			}
			if slab.CompoundingFrequency != "" && slab.CompoundingFrequency.PeriodsPerYear() == 0 {
				c.add(scheme.ID, slab.ID, "compounding frequency %q has no period schedule", slab.CompoundingFrequency)
			}
		}
	}
}

func checkTenureOrder(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.MinTenureMonths > scheme.MaxTenureMonths {
			c.add(scheme.ID, "", "scheme min tenure %d exceeds max tenure %d",
				scheme.MinTenureMonths, scheme.MaxTenureMonths)
		}
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if slab.MinTenureMonths > slab.MaxTenureMonths {
				c.add(scheme.ID, slab.ID, "slab min tenure %d exceeds max tenure %d",
					slab.MinTenureMonths, slab.MaxTenureMonths)
			}
		}
	}
}

func checkSlabBandWithinScheme(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if slab.MinTenureMonths < scheme.MinTenureMonths || slab.MaxTenureMonths > scheme.MaxTenureMonths {
				c.add(scheme.ID, slab.ID,
					"slab band [%d,%d] lies outside scheme tenure range [%d,%d]",
					slab.MinTenureMonths, slab.MaxTenureMonths,
					scheme.MinTenureMonths, scheme.MaxTenureMonths)
			}
		}
	}
}

func checkCumulativeFrequency(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if !scheme.IsCumulative {
			continue
		}
		if len(scheme.AllowedFrequencies) != 1 || scheme.AllowedFrequencies[0] != models.PayoutOnMaturity {
			c.add(scheme.ID, "", "cumulative scheme must allow exactly the ON_MATURITY frequency")
		}
	}
}

func checkOnMaturityForbidden(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.IsCumulative {
			continue
		}
		if scheme.AllowsFrequency(models.PayoutOnMaturity) {
			c.add(scheme.ID, "", "non-cumulative scheme must not allow the ON_MATURITY frequency")
		}
	}
}

func checkSlabFrequencyAllowed(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if !scheme.AllowsFrequency(slab.PayoutFrequency) {
				c.add(scheme.ID, slab.ID, "slab payout frequency %q is not allowed by the scheme",
					slab.PayoutFrequency)
			}
		}
	}
}

func checkPrematureTerms(issuer *models.Issuer, c *collector) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.PrematureAllowed && scheme.PrematureTerms == "" {
			c.add(scheme.ID, "", "premature withdrawal terms are required when withdrawal is allowed")
		}
		if !scheme.PrematureAllowed && scheme.PrematureTerms != "" {
			c.add(scheme.ID, "", "premature withdrawal terms must be empty when withdrawal is not allowed")
		}
	}
}

func checkNonNegativeLimits(issuer *models.Issuer, c *collector) {
	if issuer.MinDeposit.IsNegative() {
		c.add("", "", "issuer minimum deposit must not be negative")
	}
	if issuer.MaxDeposit != nil {
		if issuer.MaxDeposit.IsNegative() {
			c.add("", "", "issuer maximum deposit must not be negative")
		} else if issuer.MaxDeposit.LessThan(issuer.MinDeposit) {
			c.add("", "", "issuer maximum deposit is below the minimum deposit")
		}
	}
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.SeniorBonusBps < 0 || scheme.WomenBonusBps < 0 || scheme.RenewalBonusBps < 0 {
			c.add(scheme.ID, "", "bonus rates must not be negative")
		}
		if scheme.LockInMonths < 0 {
			c.add(scheme.ID, "", "lock-in period must not be negative")
		}
		checkDepositBounds(scheme, c)
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if slab.BaseRateBps < 0 {
				c.add(scheme.ID, slab.ID, "base rate must not be negative")
			}
			if slab.BaseRateBps > MaxBaseRateBps {
				c.add(scheme.ID, slab.ID, "base rate %d bps exceeds the %d bps ceiling",
					slab.BaseRateBps, MaxBaseRateBps)
			}
			if slab.EffectiveYieldBps != nil && *slab.EffectiveYieldBps < 0 {
				c.add(scheme.ID, slab.ID, "effective yield must not be negative")
			}
		}
	}
}

func checkDepositBounds(scheme *models.Scheme, c *collector) {
	zero := decimal.Zero
	if scheme.MinDeposit != nil && scheme.MinDeposit.LessThan(zero) {
		c.add(scheme.ID, "", "scheme minimum deposit must not be negative")
	}
	if scheme.MaxDeposit != nil && scheme.MaxDeposit.LessThan(zero) {
		c.add(scheme.ID, "", "scheme maximum deposit must not be negative")
	}
	if scheme.MinDeposit != nil && scheme.MaxDeposit != nil && scheme.MaxDeposit.LessThan(*scheme.MinDeposit) {
		c.add(scheme.ID, "", "scheme maximum deposit is below the minimum deposit")
	}
}

func checkDuplicateIDs(issuer *models.Issuer, c *collector) {
	seenSchemes := make(map[string]bool, len(issuer.Schemes))
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.ID != "" && seenSchemes[scheme.ID] {
			c.add(scheme.ID, "", "scheme id %q appears more than once", scheme.ID)
		}
		seenSchemes[scheme.ID] = true

		seenSlabs := make(map[string]bool, len(scheme.RateSlabs))
		for j := range scheme.RateSlabs {
			slab := &scheme.RateSlabs[j]
			if slab.ID != "" && seenSlabs[slab.ID] {
				c.add(scheme.ID, slab.ID, "slab id %q appears more than once", slab.ID)
			}
			seenSlabs[slab.ID] = true
		}
	}
}
