package catalog

import (
	"testing"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"github.com/stretchr/testify/assert"
)

func resolverScheme() *models.Scheme {
	return &models.Scheme{
		ID:                 "cumulative",
		Name:               "Cumulative Deposit",
		IsCumulative:       true,
		AllowedFrequencies: []models.PayoutFrequency{models.PayoutOnMaturity},
		MinTenureMonths:    12,
		MaxTenureMonths:    60,
		IsActive:           true,
		RateSlabs: []models.RateSlab{
			{ID: "wide", MinTenureMonths: 12, MaxTenureMonths: 60, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 700, IsActive: true},
			{ID: "narrow", MinTenureMonths: 24, MaxTenureMonths: 35, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 750, IsActive: true},
		},
	}
}

func TestResolveSlab(t *testing.T) {
	t.Run("narrowest band wins when bands overlap", func(t *testing.T) {
		slab, err := ResolveSlab(resolverScheme(), 30, models.PayoutOnMaturity)
		assert.NoError(t, err)
		assert.Equal(t, "narrow", slab.ID)
	})

	t.Run("wide band serves tenures the narrow one misses", func(t *testing.T) {
		slab, err := ResolveSlab(resolverScheme(), 48, models.PayoutOnMaturity)
		assert.NoError(t, err)
		assert.Equal(t, "wide", slab.ID)
	})

	t.Run("band edges are inclusive", func(t *testing.T) {
		scheme := resolverScheme()
		for _, tenure := range []int{24, 35} {
			slab, err := ResolveSlab(scheme, tenure, models.PayoutOnMaturity)
			assert.NoError(t, err)
			assert.Equal(t, "narrow", slab.ID)
		}
	})

	t.Run("equal widths tie-break on smaller min tenure", func(t *testing.T) {
		scheme := resolverScheme()
		scheme.RateSlabs = []models.RateSlab{
			{ID: "late", MinTenureMonths: 24, MaxTenureMonths: 36, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 760, IsActive: true},
			{ID: "early", MinTenureMonths: 20, MaxTenureMonths: 32, PayoutFrequency: models.PayoutOnMaturity, BaseRateBps: 740, IsActive: true},
		}
		slab, err := ResolveSlab(scheme, 30, models.PayoutOnMaturity)
		assert.NoError(t, err)
		assert.Equal(t, "early", slab.ID)
	})

	t.Run("inactive slabs are never candidates", func(t *testing.T) {
		scheme := resolverScheme()
		scheme.RateSlabs[1].IsActive = false
		slab, err := ResolveSlab(scheme, 30, models.PayoutOnMaturity)
		assert.NoError(t, err)
		assert.Equal(t, "wide", slab.ID)
	})

	t.Run("frequency must match exactly", func(t *testing.T) {
		_, err := ResolveSlab(resolverScheme(), 30, models.PayoutMonthly)
		assert.ErrorIs(t, err, errors.ErrNoMatchingSlab)
	})

	t.Run("tenure outside every band", func(t *testing.T) {
		_, err := ResolveSlab(resolverScheme(), 6, models.PayoutOnMaturity)
		assert.ErrorIs(t, err, errors.ErrNoMatchingSlab)
	})

	t.Run("deterministic over repeated calls", func(t *testing.T) {
		scheme := resolverScheme()
		first, err := ResolveSlab(scheme, 30, models.PayoutOnMaturity)
		assert.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := ResolveSlab(scheme, 30, models.PayoutOnMaturity)
			assert.NoError(t, err)
			assert.Equal(t, first.ID, again.ID)
		}
	})
}
