package catalog

import (
	"context"
	"fmt"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cache is the issuer read-through cache the service depends on.
type Cache interface {
	GetIssuer(ctx context.Context, code string) (*models.Issuer, error)
	CacheIssuer(ctx context.Context, issuer *models.Issuer) error
	InvalidateIssuer(ctx context.Context, code string) error
}

// ReceiptCounter reports how many booked receipts reference an issuer.
type ReceiptCounter interface {
	CountByIssuer(ctx context.Context, issuerCode string) (int64, error)
}

// QuoteRequest is a rate/maturity calculation request.
type QuoteRequest struct {
	IssuerCode      string                 `json:"issuer_code"`
	SchemeID        string                 `json:"scheme_id"`
	Amount          decimal.Decimal        `json:"amount"`
	TenureMonths    int                    `json:"tenure_months"`
	PayoutFrequency models.PayoutFrequency `json:"payout_frequency"`
	Flags           Flags                  `json:"flags"`
	DepositDate     time.Time              `json:"deposit_date"`
}

// Service owns the fixed-deposit product catalog: validated writes to the
// issuer tree, catalog queries, and rate quotes. Every write validates the
// complete candidate tree before anything is persisted; a change that fails
// validation is never partially applied.
type Service interface {
	CreateIssuer(ctx context.Context, issuer *models.Issuer) (*models.Issuer, error)
	GetIssuer(ctx context.Context, code string) (*models.Issuer, error)
	ListIssuers(ctx context.Context, activeOnly bool) ([]models.IssuerSummary, error)
	ReplaceIssuer(ctx context.Context, code string, revision int, issuer *models.Issuer) (*models.Issuer, error)
	DeleteIssuer(ctx context.Context, code string) error

	UpsertScheme(ctx context.Context, code string, revision int, scheme models.Scheme) (*models.Issuer, error)
	DeleteScheme(ctx context.Context, code string, revision int, schemeID string) (*models.Issuer, error)
	UpsertSlab(ctx context.Context, code string, revision int, schemeID string, slab models.RateSlab) (*models.Issuer, error)
	DeleteSlab(ctx context.Context, code string, revision int, schemeID, slabID string) (*models.Issuer, error)

	GetScheme(ctx context.Context, code, schemeID string) (*models.Scheme, error)
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

type service struct {
	repo     repositories.IssuerRepository
	cache    Cache
	receipts ReceiptCounter
}

// NewService creates the catalog service.
func NewService(repo repositories.IssuerRepository, cache Cache, receipts ReceiptCounter) Service {
	if repo == nil {
		panic("issuer repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	return &service{repo: repo, cache: cache, receipts: receipts}
}

func (s *service) CreateIssuer(ctx context.Context, issuer *models.Issuer) (*models.Issuer, error) {
	assignIDs(issuer)
	if violations := Validate(issuer); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	issuer.Revision = 1
	if err := s.repo.Create(ctx, issuer); err != nil {
		return nil, err
	}
	s.cache.CacheIssuer(ctx, issuer)
	return issuer, nil
}

func (s *service) GetIssuer(ctx context.Context, code string) (*models.Issuer, error) {
	if issuer, err := s.cache.GetIssuer(ctx, code); err == nil && issuer != nil {
		return issuer, nil
	}
	issuer, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache.CacheIssuer(ctx, issuer)
	return issuer, nil
}

func (s *service) ListIssuers(ctx context.Context, activeOnly bool) ([]models.IssuerSummary, error) {
	issuers, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list issuers: %w", err)
	}
	summaries := make([]models.IssuerSummary, 0, len(issuers))
	for i := range issuers {
		summaries = append(summaries, issuers[i].Summary())
	}
	return summaries, nil
}

// ReplaceIssuer replaces the whole issuer tree. The caller supplies the
// revision it last read; a stale revision loses with ErrRevisionConflict and
// must re-read and retry. No lock is held across validate and write.
func (s *service) ReplaceIssuer(ctx context.Context, code string, revision int, issuer *models.Issuer) (*models.Issuer, error) {
	issuer.Code = code
	assignIDs(issuer)
	if violations := Validate(issuer); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if err := s.repo.Replace(ctx, issuer, revision); err != nil {
		return nil, err
	}
	issuer.Revision = revision + 1
	s.cache.InvalidateIssuer(ctx, code)
	return issuer, nil
}

func (s *service) DeleteIssuer(ctx context.Context, code string) error {
	if s.receipts != nil {
		count, err := s.receipts.CountByIssuer(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to count issuer references: %w", err)
		}
		if count > 0 {
			return errors.ErrIssuerReferenced
		}
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}
	return s.cache.InvalidateIssuer(ctx, code)
}

// UpsertScheme merges a whole scheme subtree into the issuer and re-validates
// the full tree before committing.
func (s *service) UpsertScheme(ctx context.Context, code string, revision int, scheme models.Scheme) (*models.Issuer, error) {
	return s.mutate(ctx, code, revision, func(issuer *models.Issuer) error {
		if scheme.ID == "" {
			scheme.ID = uuid.NewString()
		}
		for i := range issuer.Schemes {
			if issuer.Schemes[i].ID == scheme.ID {
				issuer.Schemes[i] = scheme
				return nil
			}
		}
		issuer.Schemes = append(issuer.Schemes, scheme)
		return nil
	})
}

func (s *service) DeleteScheme(ctx context.Context, code string, revision int, schemeID string) (*models.Issuer, error) {
	return s.mutate(ctx, code, revision, func(issuer *models.Issuer) error {
		for i := range issuer.Schemes {
			if issuer.Schemes[i].ID == schemeID {
				issuer.Schemes = append(issuer.Schemes[:i], issuer.Schemes[i+1:]...)
				return nil
			}
		}
		return errors.ErrSchemeNotFound
	})
}

func (s *service) UpsertSlab(ctx context.Context, code string, revision int, schemeID string, slab models.RateSlab) (*models.Issuer, error) {
	return s.mutate(ctx, code, revision, func(issuer *models.Issuer) error {
		scheme := issuer.Scheme(schemeID)
		if scheme == nil {
			return errors.ErrSchemeNotFound
		}
		if slab.ID == "" {
			slab.ID = uuid.NewString()
		}
		for i := range scheme.RateSlabs {
			if scheme.RateSlabs[i].ID == slab.ID {
				scheme.RateSlabs[i] = slab
				return nil
			}
		}
		scheme.RateSlabs = append(scheme.RateSlabs, slab)
		return nil
	})
}

func (s *service) DeleteSlab(ctx context.Context, code string, revision int, schemeID, slabID string) (*models.Issuer, error) {
	return s.mutate(ctx, code, revision, func(issuer *models.Issuer) error {
		scheme := issuer.Scheme(schemeID)
		if scheme == nil {
			return errors.ErrSchemeNotFound
		}
		for i := range scheme.RateSlabs {
			if scheme.RateSlabs[i].ID == slabID {
				scheme.RateSlabs = append(scheme.RateSlabs[:i], scheme.RateSlabs[i+1:]...)
				return nil
			}
		}
		return errors.ErrSlabNotFound
	})
}

func (s *service) GetScheme(ctx context.Context, code, schemeID string) (*models.Scheme, error) {
	issuer, err := s.GetIssuer(ctx, code)
	if err != nil {
		return nil, err
	}
	scheme := issuer.Scheme(schemeID)
	if scheme == nil {
		return nil, errors.ErrSchemeNotFound
	}
	return scheme, nil
}

// Quote resolves the applicable slab and calculates the rate, maturity amount
// and maturity date. It is read-only and races freely with catalog edits,
// observing whichever committed revision is current.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	issuer, err := s.GetIssuer(ctx, req.IssuerCode)
	if err != nil {
		return nil, err
	}
	scheme := issuer.Scheme(req.SchemeID)
	if scheme == nil {
		return nil, errors.ErrSchemeNotFound
	}
	if !issuer.IsActive || !scheme.IsActive {
		return nil, errors.ErrInactiveProduct
	}
	slab, err := ResolveSlab(scheme, req.TenureMonths, req.PayoutFrequency)
	if err != nil {
		return nil, err
	}
	return Calculate(issuer, scheme, slab, req.Amount, req.TenureMonths, req.PayoutFrequency, req.Flags, req.DepositDate)
}

// mutate runs the read-modify-validate-replace cycle for a subtree edit. The
// tree is re-read fresh from the store, spliced, validated in full and
// replaced against the caller-held revision.
func (s *service) mutate(ctx context.Context, code string, revision int, splice func(*models.Issuer) error) (*models.Issuer, error) {
	issuer, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := splice(issuer); err != nil {
		return nil, err
	}
	if violations := Validate(issuer); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if err := s.repo.Replace(ctx, issuer, revision); err != nil {
		return nil, err
	}
	issuer.Revision = revision + 1
	s.cache.InvalidateIssuer(ctx, code)
	return issuer, nil
}

// assignIDs fills in ids for schemes and slabs created without one.
func assignIDs(issuer *models.Issuer) {
	for i := range issuer.Schemes {
		scheme := &issuer.Schemes[i]
		if scheme.ID == "" {
			scheme.ID = uuid.NewString()
		}
		for j := range scheme.RateSlabs {
			if scheme.RateSlabs[j].ID == "" {
				scheme.RateSlabs[j].ID = uuid.NewString()
			}
		}
	}
}
