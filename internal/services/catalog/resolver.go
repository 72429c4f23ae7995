package catalog

import (
	"finbridge/internal/errors"
	"finbridge/internal/models"
)

// ResolveSlab finds the rate slab applicable to the requested tenure and
// payout frequency. Candidates are the scheme's active slabs whose band
// contains the tenure and whose frequency matches; among them the narrowest
// band wins, ties broken by the smaller minimum tenure. Bands are expected
// non-overlapping by construction, but the resolver does not assume it.
//
// When nothing fits, ErrNoMatchingSlab is returned; callers must not
// substitute a default rate.
func ResolveSlab(scheme *models.Scheme, tenureMonths int, frequency models.PayoutFrequency) (*models.RateSlab, error) {
	var best *models.RateSlab
	for i := range scheme.RateSlabs {
		slab := &scheme.RateSlabs[i]
		if !slab.IsActive {
			continue
		}
		if slab.PayoutFrequency != frequency || !slab.Contains(tenureMonths) {
			continue
		}
		if best == nil {
			best = slab
			continue
		}
		if slab.TenureWidth() < best.TenureWidth() ||
			(slab.TenureWidth() == best.TenureWidth() && slab.MinTenureMonths < best.MinTenureMonths) {
			best = slab
		}
	}
	if best == nil {
		return nil, errors.ErrNoMatchingSlab
	}
	return best, nil
}
