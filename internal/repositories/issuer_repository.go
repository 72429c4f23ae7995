package repositories

import (
	"context"

	"finbridge/internal/models"
)

// IssuerRepository defines storage for issuer catalog documents. One issuer
// row is the unit of atomicity; schemes and slabs are embedded, never
// independently addressable rows.
type IssuerRepository interface {
	// Create persists a new issuer tree. Returns ErrDuplicateIssuerCode when
	// the code is taken.
	Create(ctx context.Context, issuer *models.Issuer) error

	// GetByCode retrieves the full issuer tree.
	GetByCode(ctx context.Context, code string) (*models.Issuer, error)

	// List retrieves issuers, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]models.Issuer, error)

	// Replace overwrites the issuer tree if and only if the stored revision
	// still equals expectedRevision, incrementing it. A stale revision fails
	// with ErrRevisionConflict; concurrent writers never both succeed on the
	// same base revision.
	Replace(ctx context.Context, issuer *models.Issuer, expectedRevision int) error

	// Delete removes the issuer row.
	Delete(ctx context.Context, code string) error
}
