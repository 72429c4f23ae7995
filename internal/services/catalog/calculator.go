package catalog

import (
	"math"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultCompounding applies to cumulative slabs that do not state a
// compounding frequency.
const DefaultCompounding = models.PayoutQuarterly

// Flags are the depositor attributes that unlock scheme bonuses.
type Flags struct {
	SeniorCitizen bool `json:"senior_citizen"`
	Women         bool `json:"women"`
	Renewal       bool `json:"renewal"`
}

// Quote is the calculated output of a rate/maturity request. Tax flags are
// copied through from the scheme; no tax computation happens here.
type Quote struct {
	IssuerCode        string                 `json:"issuer_code"`
	SchemeID          string                 `json:"scheme_id"`
	SlabID            string                 `json:"slab_id"`
	Principal         decimal.Decimal        `json:"principal"`
	TenureMonths      int                    `json:"tenure_months"`
	PayoutFrequency   models.PayoutFrequency `json:"payout_frequency"`
	IsCumulative      bool                   `json:"is_cumulative"`
	TotalRateBps      int                    `json:"total_rate_bps"`
	// PeriodicPayout is the interest disbursed each payout period; nil for
	// cumulative schemes.
	PeriodicPayout    *decimal.Decimal `json:"periodic_payout,omitempty"`
	MaturityAmount    decimal.Decimal  `json:"maturity_amount"`
	DepositDate       time.Time        `json:"deposit_date"`
	MaturityDate      time.Time        `json:"maturity_date"`
	TDSApplicable     bool             `json:"tds_applicable"`
	Form15GHAvailable bool             `json:"form_15g_15h_available"`
	EffectiveYieldBps *int             `json:"effective_yield_bps,omitempty"`
}

// Calculate produces a quote for a deposit against a resolved slab. The
// tenure/frequency fit is re-checked here because resolution and calculation
// may be invoked independently; the calculator never quotes a pair the
// resolver would reject. Invalid input is reported, never clamped.
func Calculate(
	issuer *models.Issuer,
	scheme *models.Scheme,
	slab *models.RateSlab,
	amount decimal.Decimal,
	tenureMonths int,
	frequency models.PayoutFrequency,
	flags Flags,
	depositDate time.Time,
) (*Quote, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrAmountOutOfRange
	}
	minDeposit, maxDeposit := effectiveDepositBounds(issuer, scheme)
	if amount.LessThan(minDeposit) {
		return nil, errors.ErrAmountOutOfRange
	}
	if maxDeposit != nil && amount.GreaterThan(*maxDeposit) {
		return nil, errors.ErrAmountOutOfRange
	}

	if !slab.IsActive || !slab.Contains(tenureMonths) {
		return nil, errors.ErrTenureOutOfRange
	}
	if slab.PayoutFrequency != frequency {
		return nil, errors.ErrFrequencyMismatch
	}

	// Bonuses are additive on top of the base rate, never compounded with
	// each other.
	totalBps := slab.BaseRateBps
	if flags.SeniorCitizen {
		totalBps += scheme.SeniorBonusBps
	}
	if flags.Women {
		totalBps += scheme.WomenBonusBps
	}
	if flags.Renewal {
		totalBps += scheme.RenewalBonusBps
	}

	quote := &Quote{
		IssuerCode:        issuer.Code,
		SchemeID:          scheme.ID,
		SlabID:            slab.ID,
		Principal:         amount,
		TenureMonths:      tenureMonths,
		PayoutFrequency:   frequency,
		IsCumulative:      scheme.IsCumulative,
		TotalRateBps:      totalBps,
		DepositDate:       depositDate,
		MaturityDate:      depositDate.AddDate(0, tenureMonths, 0),
		TDSApplicable:     scheme.TDSApplicable,
		Form15GHAvailable: scheme.Form15GHAvailable,
		EffectiveYieldBps: slab.EffectiveYieldBps,
	}

	if scheme.IsCumulative {
		quote.MaturityAmount = compoundMaturity(amount, totalBps, tenureMonths, slab.CompoundingFrequency)
		return quote, nil
	}

	periodsPerYear := frequency.PeriodsPerYear()
	if periodsPerYear == 0 {
		return nil, errors.ErrFrequencyMismatch
	}
	payout := amount.
		Mul(decimal.NewFromInt(int64(totalBps))).
		Div(decimal.NewFromInt(int64(10000 * periodsPerYear))).
		Round(2)
	quote.PeriodicPayout = &payout
	// Interest is disbursed each period; only the principal returns at term end.
	quote.MaturityAmount = amount
	return quote, nil
}

// compoundMaturity compounds the principal at the total rate over the tenure.
// The growth factor is computed in float64 because the number of compounding
// periods need not be whole; the result is applied and rounded in decimal.
func compoundMaturity(principal decimal.Decimal, totalBps, tenureMonths int, compounding models.PayoutFrequency) decimal.Decimal {
	if compounding == "" {
		compounding = DefaultCompounding
	}
	n := float64(compounding.PeriodsPerYear())
	ratePerPeriod := float64(totalBps) / 10000.0 / n
	periods := n * float64(tenureMonths) / 12.0
	factor := math.Pow(1+ratePerPeriod, periods)
	return principal.Mul(decimal.NewFromFloat(factor)).Round(2)
}

// effectiveDepositBounds returns the scheme bounds where present, falling
// back to the issuer-wide bounds.
func effectiveDepositBounds(issuer *models.Issuer, scheme *models.Scheme) (decimal.Decimal, *decimal.Decimal) {
	minDeposit := issuer.MinDeposit
	if scheme.MinDeposit != nil {
		minDeposit = *scheme.MinDeposit
	}
	maxDeposit := issuer.MaxDeposit
	if scheme.MaxDeposit != nil {
		maxDeposit = scheme.MaxDeposit
	}
	return minDeposit, maxDeposit
}
