package catalog

import (
	"testing"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatorFixture() (*models.Issuer, *models.Scheme, *models.RateSlab) {
	issuer := validIssuer()
	issuer.Schemes[0].RenewalBonusBps = 25
	scheme := &issuer.Schemes[0]
	return issuer, scheme, &scheme.RateSlabs[0]
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculate_CumulativeMaturity(t *testing.T) {
	issuer, scheme, slab := calculatorFixture()

	// 1,00,000 at 7.50% compounded quarterly over 12 months.
	quote, err := Calculate(issuer, scheme, slab,
		decimal.NewFromInt(100000), 12, models.PayoutOnMaturity, Flags{}, date(2026, time.April, 1))
	require.NoError(t, err)

	assert.Equal(t, 750, quote.TotalRateBps)
	assert.True(t, quote.IsCumulative)
	assert.Nil(t, quote.PeriodicPayout)
	maturity, _ := quote.MaturityAmount.Float64()
	assert.InDelta(t, 107713.59, maturity, 0.5)
	assert.Equal(t, date(2027, time.April, 1), quote.MaturityDate)
}

func TestCalculate_BonusesAreAdditive(t *testing.T) {
	issuer, scheme, slab := calculatorFixture()

	quote, err := Calculate(issuer, scheme, slab,
		decimal.NewFromInt(100000), 12, models.PayoutOnMaturity,
		Flags{SeniorCitizen: true, Women: true}, date(2026, time.April, 1))
	require.NoError(t, err)

	// 750 base + 50 senior + 25 women.
	assert.Equal(t, 825, quote.TotalRateBps)

	renewed, err := Calculate(issuer, scheme, slab,
		decimal.NewFromInt(100000), 12, models.PayoutOnMaturity,
		Flags{SeniorCitizen: true, Women: true, Renewal: true}, date(2026, time.April, 1))
	require.NoError(t, err)
	assert.Equal(t, 850, renewed.TotalRateBps)
	assert.True(t, renewed.MaturityAmount.GreaterThan(quote.MaturityAmount))
}

func TestCalculate_NonCumulativePayout(t *testing.T) {
	issuer := validIssuer()
	scheme := &issuer.Schemes[1]
	slab := &scheme.RateSlabs[0]

	principal := decimal.NewFromInt(100000)
	quote, err := Calculate(issuer, scheme, slab,
		principal, 24, models.PayoutMonthly, Flags{}, date(2026, time.April, 1))
	require.NoError(t, err)

	// 7.00% on 1,00,000 pays 583.33 a month; only the principal returns at
	// term end.
	require.NotNil(t, quote.PeriodicPayout)
	assert.Equal(t, "583.33", quote.PeriodicPayout.StringFixed(2))
	assert.True(t, quote.MaturityAmount.Equal(principal))
	assert.False(t, quote.IsCumulative)
}

func TestCalculate_MaturityDateNormalizes(t *testing.T) {
	issuer, scheme, slab := calculatorFixture()

	// Aug 31 + 6 months lands on the nonexistent Feb 31 and rolls forward.
	quote, err := Calculate(issuer, scheme, &models.RateSlab{
		ID:              slab.ID,
		MinTenureMonths: 1,
		MaxTenureMonths: 60,
		PayoutFrequency: models.PayoutOnMaturity,
		BaseRateBps:     750,
		IsActive:        true,
	}, decimal.NewFromInt(100000), 6, models.PayoutOnMaturity, Flags{}, date(2026, time.August, 31))
	require.NoError(t, err)
	assert.Equal(t, date(2027, time.March, 3), quote.MaturityDate)
}

func TestCalculate_Rejections(t *testing.T) {
	issuer, scheme, slab := calculatorFixture()
	deposit := date(2026, time.April, 1)

	t.Run("zero amount", func(t *testing.T) {
		_, err := Calculate(issuer, scheme, slab, decimal.Zero, 12, models.PayoutOnMaturity, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrAmountOutOfRange)
	})

	t.Run("below issuer minimum", func(t *testing.T) {
		_, err := Calculate(issuer, scheme, slab, decimal.NewFromInt(5000), 12, models.PayoutOnMaturity, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrAmountOutOfRange)
	})

	t.Run("scheme bounds override issuer bounds", func(t *testing.T) {
		minDeposit := decimal.NewFromInt(25000)
		scheme.MinDeposit = &minDeposit
		defer func() { scheme.MinDeposit = nil }()

		_, err := Calculate(issuer, scheme, slab, decimal.NewFromInt(20000), 12, models.PayoutOnMaturity, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrAmountOutOfRange)
	})

	t.Run("tenure outside slab band", func(t *testing.T) {
		_, err := Calculate(issuer, scheme, slab, decimal.NewFromInt(100000), 48, models.PayoutOnMaturity, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrTenureOutOfRange)
	})

	t.Run("inactive slab", func(t *testing.T) {
		inactive := *slab
		inactive.IsActive = false
		_, err := Calculate(issuer, scheme, &inactive, decimal.NewFromInt(100000), 12, models.PayoutOnMaturity, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrTenureOutOfRange)
	})

	t.Run("frequency mismatch", func(t *testing.T) {
		_, err := Calculate(issuer, scheme, slab, decimal.NewFromInt(100000), 12, models.PayoutMonthly, Flags{}, deposit)
		assert.ErrorIs(t, err, errors.ErrFrequencyMismatch)
	})
}
