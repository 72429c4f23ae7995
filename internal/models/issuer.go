package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// IssuerCategory classifies a deposit-taking entity.
type IssuerCategory string

const (
	CategoryNBFC      IssuerCategory = "NBFC"
	CategoryBank      IssuerCategory = "BANK"
	CategoryCorporate IssuerCategory = "CORPORATE"
)

// ValidIssuerCategory reports whether c is a known category.
func ValidIssuerCategory(c IssuerCategory) bool {
	switch c {
	case CategoryNBFC, CategoryBank, CategoryCorporate:
		return true
	}
	return false
}

// PayoutFrequency is how often interest is disbursed on a deposit.
type PayoutFrequency string

const (
	PayoutMonthly    PayoutFrequency = "MONTHLY"
	PayoutQuarterly  PayoutFrequency = "QUARTERLY"
	PayoutHalfYearly PayoutFrequency = "HALF_YEARLY"
	PayoutYearly     PayoutFrequency = "YEARLY"
	PayoutOnMaturity PayoutFrequency = "ON_MATURITY"
)

// PeriodsPerYear returns the number of disbursement (or compounding) periods
// per year. ON_MATURITY has no periodic schedule and returns 0.
func (f PayoutFrequency) PeriodsPerYear() int {
	switch f {
	case PayoutMonthly:
		return 12
	case PayoutQuarterly:
		return 4
	case PayoutHalfYearly:
		return 2
	case PayoutYearly:
		return 1
	}
	return 0
}

// ValidPayoutFrequency reports whether f is a known frequency.
func ValidPayoutFrequency(f PayoutFrequency) bool {
	switch f {
	case PayoutMonthly, PayoutQuarterly, PayoutHalfYearly, PayoutYearly, PayoutOnMaturity:
		return true
	}
	return false
}

// RateSlab is a tenure band with an interest rate inside a scheme.
// Rates are carried as integer basis points (750 == 7.50% p.a.).
type RateSlab struct {
	ID                   string          `json:"id"`
	MinTenureMonths      int             `json:"min_tenure_months"`
	MaxTenureMonths      int             `json:"max_tenure_months"`
	PayoutFrequency      PayoutFrequency `json:"payout_frequency"`
	BaseRateBps          int             `json:"base_rate_bps"`
	CompoundingFrequency PayoutFrequency `json:"compounding_frequency,omitempty"`
	// EffectiveYieldBps is display metadata supplied by the issuer; the
	// calculator never derives maturity from it.
	EffectiveYieldBps *int `json:"effective_yield_bps,omitempty"`
	IsActive          bool `json:"is_active"`
}

// TenureWidth is the size of the slab's band in months.
func (s *RateSlab) TenureWidth() int {
	return s.MaxTenureMonths - s.MinTenureMonths
}

// Contains reports whether the tenure falls inside the slab's band.
func (s *RateSlab) Contains(tenureMonths int) bool {
	return tenureMonths >= s.MinTenureMonths && tenureMonths <= s.MaxTenureMonths
}

// Scheme is a fixed-deposit product variant offered by an issuer.
// A cumulative scheme compounds interest and pays it with the principal at
// maturity; a non-cumulative scheme disburses interest every payout period.
type Scheme struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	IsCumulative       bool              `json:"is_cumulative"`
	AllowedFrequencies []PayoutFrequency `json:"allowed_frequencies"`
	LockInMonths       int               `json:"lock_in_months"`
	PrematureAllowed   bool              `json:"premature_allowed"`
	PrematureTerms     string            `json:"premature_terms,omitempty"`
	MinTenureMonths    int               `json:"min_tenure_months"`
	MaxTenureMonths    int               `json:"max_tenure_months"`
	// Deposit bounds override the issuer-level bounds when present.
	MinDeposit        *decimal.Decimal `json:"min_deposit,omitempty"`
	MaxDeposit        *decimal.Decimal `json:"max_deposit,omitempty"`
	SeniorBonusBps    int              `json:"senior_bonus_bps"`
	WomenBonusBps     int              `json:"women_bonus_bps"`
	RenewalBonusBps   int              `json:"renewal_bonus_bps"`
	TDSApplicable     bool             `json:"tds_applicable"`
	Form15GHAvailable bool             `json:"form_15g_15h_available"`
	IsActive          bool             `json:"is_active"`
	RateSlabs         []RateSlab       `json:"rate_slabs"`
}

// AllowsFrequency reports whether f is in the scheme's allowed set.
func (s *Scheme) AllowsFrequency(f PayoutFrequency) bool {
	for _, allowed := range s.AllowedFrequencies {
		if allowed == f {
			return true
		}
	}
	return false
}

// Slab returns the slab with the given id, or nil.
func (s *Scheme) Slab(slabID string) *RateSlab {
	for i := range s.RateSlabs {
		if s.RateSlabs[i].ID == slabID {
			return &s.RateSlabs[i]
		}
	}
	return nil
}

// SchemeList is the ordered scheme collection embedded in an issuer row.
// It is stored as a single JSONB column so every cross-level invariant can be
// checked against one coherent tree per write.
type SchemeList []Scheme

// Value implements the driver.Valuer interface.
func (l SchemeList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(SchemeList{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface.
func (l *SchemeList) Scan(value interface{}) error {
	if value == nil {
		*l = SchemeList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for SchemeList")
	}
	return json.Unmarshal(data, l)
}

// Issuer is a deposit-taking entity and the unit of storage and concurrency
// for the product catalog: one row per issuer with the full scheme/slab tree
// embedded. Revision backs the optimistic replace cycle.
type Issuer struct {
	ID           uint           `gorm:"primarykey" json:"-"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`
	LegalName    string         `gorm:"not null" json:"legal_name"`
	DisplayName  string         `gorm:"not null" json:"display_name"`
	Category     IssuerCategory `gorm:"not null" json:"category"`
	RatingAgency string         `json:"rating_agency,omitempty"`
	RatingGrade  string         `json:"rating_grade,omitempty"`
	MinDeposit   decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"min_deposit"`
	MaxDeposit   *decimal.Decimal `gorm:"type:numeric(16,2)" json:"max_deposit,omitempty"`
	PrematurePolicy string      `gorm:"not null" json:"premature_policy"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	Revision     int            `gorm:"not null;default:1" json:"revision"`
	Schemes      SchemeList     `gorm:"type:jsonb;not null" json:"schemes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Scheme returns the scheme with the given id, or nil.
func (i *Issuer) Scheme(schemeID string) *Scheme {
	for idx := range i.Schemes {
		if i.Schemes[idx].ID == schemeID {
			return &i.Schemes[idx]
		}
	}
	return nil
}

// HasRatedPair reports whether the credit-rating pair is consistently set:
// both agency and grade present, or both absent.
func (i *Issuer) HasRatedPair() bool {
	return (i.RatingAgency == "") == (i.RatingGrade == "")
}

// IssuerSummary is the listing projection without the embedded tree.
type IssuerSummary struct {
	Code        string         `json:"code"`
	DisplayName string         `json:"display_name"`
	Category    IssuerCategory `json:"category"`
	RatingAgency string        `json:"rating_agency,omitempty"`
	RatingGrade string         `json:"rating_grade,omitempty"`
	IsActive    bool           `json:"is_active"`
	SchemeCount int            `json:"scheme_count"`
}

// Summary builds the listing projection for the issuer.
func (i *Issuer) Summary() IssuerSummary {
	return IssuerSummary{
		Code:         i.Code,
		DisplayName:  i.DisplayName,
		Category:     i.Category,
		RatingAgency: i.RatingAgency,
		RatingGrade:  i.RatingGrade,
		IsActive:     i.IsActive,
		SchemeCount:  len(i.Schemes),
	}
}
