package catalog

import (
	"context"
	"testing"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIssuerRepo struct {
	mock.Mock
}

func (m *MockIssuerRepo) Create(ctx context.Context, issuer *models.Issuer) error {
	args := m.Called(ctx, issuer)
	return args.Error(0)
}

func (m *MockIssuerRepo) GetByCode(ctx context.Context, code string) (*models.Issuer, error) {
	args := m.Called(ctx, code)
	if issuer, ok := args.Get(0).(*models.Issuer); ok {
		return issuer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIssuerRepo) List(ctx context.Context, activeOnly bool) ([]models.Issuer, error) {
	args := m.Called(ctx, activeOnly)
	if issuers, ok := args.Get(0).([]models.Issuer); ok {
		return issuers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIssuerRepo) Replace(ctx context.Context, issuer *models.Issuer, expectedRevision int) error {
	args := m.Called(ctx, issuer, expectedRevision)
	return args.Error(0)
}

func (m *MockIssuerRepo) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockIssuerCache struct {
	mock.Mock
}

func (m *MockIssuerCache) GetIssuer(ctx context.Context, code string) (*models.Issuer, error) {
	args := m.Called(ctx, code)
	if issuer, ok := args.Get(0).(*models.Issuer); ok {
		return issuer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIssuerCache) CacheIssuer(ctx context.Context, issuer *models.Issuer) error {
	args := m.Called(ctx, issuer)
	return args.Error(0)
}

func (m *MockIssuerCache) InvalidateIssuer(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockReceiptCounter struct {
	mock.Mock
}

func (m *MockReceiptCounter) CountByIssuer(ctx context.Context, issuerCode string) (int64, error) {
	args := m.Called(ctx, issuerCode)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService() (Service, *MockIssuerRepo, *MockIssuerCache, *MockReceiptCounter) {
	repo := new(MockIssuerRepo)
	cache := new(MockIssuerCache)
	receipts := new(MockReceiptCounter)
	return NewService(repo, cache, receipts), repo, cache, receipts
}

func TestCreateIssuer(t *testing.T) {
	t.Run("valid tree is stored at revision 1", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		repo.On("Create", mock.Anything, issuer).Return(nil)
		cache.On("CacheIssuer", mock.Anything, issuer).Return(nil)

		created, err := svc.CreateIssuer(context.Background(), issuer)
		require.NoError(t, err)
		assert.Equal(t, 1, created.Revision)
		repo.AssertExpectations(t)
	})

	t.Run("missing ids are assigned before validation", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		issuer.Schemes[0].ID = ""
		issuer.Schemes[0].RateSlabs[0].ID = ""
		repo.On("Create", mock.Anything, issuer).Return(nil)
		cache.On("CacheIssuer", mock.Anything, issuer).Return(nil)

		created, err := svc.CreateIssuer(context.Background(), issuer)
		require.NoError(t, err)
		assert.NotEmpty(t, created.Schemes[0].ID)
		assert.NotEmpty(t, created.Schemes[0].RateSlabs[0].ID)
	})

	t.Run("invalid tree never reaches the store", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		issuer := validIssuer()
		issuer.LegalName = ""

		_, err := svc.CreateIssuer(context.Background(), issuer)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Violations)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate code propagates", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		issuer := validIssuer()
		repo.On("Create", mock.Anything, issuer).Return(errors.ErrDuplicateIssuerCode)

		_, err := svc.CreateIssuer(context.Background(), issuer)
		assert.ErrorIs(t, err, errors.ErrDuplicateIssuerCode)
	})
}

func TestGetIssuer(t *testing.T) {
	t.Run("cache hit skips the store", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		cache.On("GetIssuer", mock.Anything, "SFL").Return(issuer, nil)

		got, err := svc.GetIssuer(context.Background(), "SFL")
		require.NoError(t, err)
		assert.Equal(t, issuer, got)
		repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls through and backfills", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		cache.On("GetIssuer", mock.Anything, "SFL").Return(nil, assert.AnError)
		repo.On("GetByCode", mock.Anything, "SFL").Return(issuer, nil)
		cache.On("CacheIssuer", mock.Anything, issuer).Return(nil)

		got, err := svc.GetIssuer(context.Background(), "SFL")
		require.NoError(t, err)
		assert.Equal(t, issuer, got)
		cache.AssertExpectations(t)
	})
}

func TestReplaceIssuer(t *testing.T) {
	t.Run("successful replace bumps revision and invalidates cache", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		repo.On("Replace", mock.Anything, issuer, 3).Return(nil)
		cache.On("InvalidateIssuer", mock.Anything, "SFL").Return(nil)

		updated, err := svc.ReplaceIssuer(context.Background(), "SFL", 3, issuer)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Revision)
		cache.AssertExpectations(t)
	})

	t.Run("stale revision conflicts", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		issuer := validIssuer()
		repo.On("Replace", mock.Anything, issuer, 2).Return(errors.ErrRevisionConflict)

		_, err := svc.ReplaceIssuer(context.Background(), "SFL", 2, issuer)
		assert.ErrorIs(t, err, errors.ErrRevisionConflict)
	})

	t.Run("path code wins over body code", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		issuer.Code = "OTHER"
		repo.On("Replace", mock.Anything, issuer, 1).Return(nil)
		cache.On("InvalidateIssuer", mock.Anything, "SFL").Return(nil)

		updated, err := svc.ReplaceIssuer(context.Background(), "SFL", 1, issuer)
		require.NoError(t, err)
		assert.Equal(t, "SFL", updated.Code)
	})
}

func TestDeleteIssuer(t *testing.T) {
	t.Run("unreferenced issuer is deleted", func(t *testing.T) {
		svc, repo, cache, receipts := newTestService()
		receipts.On("CountByIssuer", mock.Anything, "SFL").Return(int64(0), nil)
		repo.On("Delete", mock.Anything, "SFL").Return(nil)
		cache.On("InvalidateIssuer", mock.Anything, "SFL").Return(nil)

		assert.NoError(t, svc.DeleteIssuer(context.Background(), "SFL"))
		repo.AssertExpectations(t)
	})

	t.Run("issuer with receipts is kept", func(t *testing.T) {
		svc, repo, _, receipts := newTestService()
		receipts.On("CountByIssuer", mock.Anything, "SFL").Return(int64(7), nil)

		err := svc.DeleteIssuer(context.Background(), "SFL")
		assert.ErrorIs(t, err, errors.ErrIssuerReferenced)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestUpsertScheme(t *testing.T) {
	t.Run("subtree edit re-validates the whole tree", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		issuer := validIssuer()
		repo.On("GetByCode", mock.Anything, "SFL").Return(issuer, nil)

		// Cumulative schemes may only pay out on maturity.
		bad := models.Scheme{
			Name:               "Broken",
			IsCumulative:       true,
			AllowedFrequencies: []models.PayoutFrequency{models.PayoutMonthly},
			MinTenureMonths:    12,
			MaxTenureMonths:    24,
			IsActive:           true,
			RateSlabs: []models.RateSlab{
				{ID: "b1", MinTenureMonths: 12, MaxTenureMonths: 24, PayoutFrequency: models.PayoutMonthly, BaseRateBps: 700, IsActive: true},
			},
		}

		_, err := svc.UpsertScheme(context.Background(), "SFL", 1, bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new scheme is appended with a generated id", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		repo.On("GetByCode", mock.Anything, "SFL").Return(issuer, nil)
		repo.On("Replace", mock.Anything, mock.Anything, 1).Return(nil)
		cache.On("InvalidateIssuer", mock.Anything, "SFL").Return(nil)

		scheme := models.Scheme{
			Name:               "Quarterly Income",
			AllowedFrequencies: []models.PayoutFrequency{models.PayoutQuarterly},
			MinTenureMonths:    12,
			MaxTenureMonths:    36,
			IsActive:           true,
			RateSlabs: []models.RateSlab{
				{ID: "q1", MinTenureMonths: 12, MaxTenureMonths: 36, PayoutFrequency: models.PayoutQuarterly, BaseRateBps: 710, IsActive: true},
			},
		}

		updated, err := svc.UpsertScheme(context.Background(), "SFL", 1, scheme)
		require.NoError(t, err)
		assert.Len(t, updated.Schemes, 3)
		assert.NotEmpty(t, updated.Schemes[2].ID)
		assert.Equal(t, 2, updated.Revision)
	})

	t.Run("existing scheme is replaced in place", func(t *testing.T) {
		svc, repo, cache, _ := newTestService()
		issuer := validIssuer()
		repo.On("GetByCode", mock.Anything, "SFL").Return(issuer, nil)
		repo.On("Replace", mock.Anything, mock.Anything, 1).Return(nil)
		cache.On("InvalidateIssuer", mock.Anything, "SFL").Return(nil)

		replacement := issuer.Schemes[1]
		replacement.Name = "Renamed"

		updated, err := svc.UpsertScheme(context.Background(), "SFL", 1, replacement)
		require.NoError(t, err)
		assert.Len(t, updated.Schemes, 2)
		assert.Equal(t, "Renamed", updated.Scheme(replacement.ID).Name)
	})
}

func TestDeleteSlab(t *testing.T) {
	t.Run("deleting the last slab fails validation", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		issuer := validIssuer()
		repo.On("GetByCode", mock.Anything, "SFL").Return(issuer, nil)

		// The monthly scheme has a single slab; removing it leaves a scheme
		// with none, which the tree rules reject.
		_, err := svc.DeleteSlab(context.Background(), "SFL", 1, "monthly", "m1")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown slab", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetByCode", mock.Anything, "SFL").Return(validIssuer(), nil)

		_, err := svc.DeleteSlab(context.Background(), "SFL", 1, "monthly", "missing")
		assert.ErrorIs(t, err, errors.ErrSlabNotFound)
	})
}

func TestQuote(t *testing.T) {
	quoteReq := func(issuer *models.Issuer) QuoteRequest {
		return QuoteRequest{
			IssuerCode:      issuer.Code,
			SchemeID:        "cumulative",
			Amount:          decimal.NewFromInt(100000),
			TenureMonths:    24,
			PayoutFrequency: models.PayoutOnMaturity,
		}
	}

	t.Run("resolves and calculates against the cached tree", func(t *testing.T) {
		svc, _, cache, _ := newTestService()
		issuer := validIssuer()
		cache.On("GetIssuer", mock.Anything, "SFL").Return(issuer, nil)

		quote, err := svc.Quote(context.Background(), quoteReq(issuer))
		require.NoError(t, err)
		assert.Equal(t, "s1", quote.SlabID)
		assert.Equal(t, 750, quote.TotalRateBps)
	})

	t.Run("inactive issuer is not quotable", func(t *testing.T) {
		svc, _, cache, _ := newTestService()
		issuer := validIssuer()
		issuer.IsActive = false
		cache.On("GetIssuer", mock.Anything, "SFL").Return(issuer, nil)

		_, err := svc.Quote(context.Background(), quoteReq(issuer))
		assert.ErrorIs(t, err, errors.ErrInactiveProduct)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		svc, _, cache, _ := newTestService()
		issuer := validIssuer()
		cache.On("GetIssuer", mock.Anything, "SFL").Return(issuer, nil)

		req := quoteReq(issuer)
		req.SchemeID = "missing"
		_, err := svc.Quote(context.Background(), req)
		assert.ErrorIs(t, err, errors.ErrSchemeNotFound)
	})

	t.Run("no slab for the tenure", func(t *testing.T) {
		svc, _, cache, _ := newTestService()
		issuer := validIssuer()
		cache.On("GetIssuer", mock.Anything, "SFL").Return(issuer, nil)

		req := quoteReq(issuer)
		req.TenureMonths = 6
		_, err := svc.Quote(context.Background(), req)
		assert.ErrorIs(t, err, errors.ErrNoMatchingSlab)
	})
}
