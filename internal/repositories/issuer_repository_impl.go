package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type issuerRepository struct {
	db *gorm.DB
}

func NewIssuerRepository(db *gorm.DB) IssuerRepository {
	return &issuerRepository{db: db}
}

func (r *issuerRepository) Create(ctx context.Context, issuer *models.Issuer) error {
	if err := r.db.WithContext(ctx).Create(issuer).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.ErrDuplicateIssuerCode
		}
		return fmt.Errorf("failed to create issuer: %w", err)
	}
	return nil
}

func (r *issuerRepository) GetByCode(ctx context.Context, code string) (*models.Issuer, error) {
	var issuer models.Issuer
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&issuer).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrIssuerNotFound
		}
		return nil, fmt.Errorf("failed to get issuer: %w", err)
	}
	return &issuer, nil
}

func (r *issuerRepository) List(ctx context.Context, activeOnly bool) ([]models.Issuer, error) {
	var issuers []models.Issuer
	q := r.db.WithContext(ctx).Order("display_name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&issuers).Error; err != nil {
		return nil, fmt.Errorf("failed to list issuers: %w", err)
	}
	return issuers, nil
}

// Replace is the commit side of the optimistic read-modify-write cycle: the
// update only lands when the stored revision still matches the one the caller
// read, so the losing concurrent writer observes zero affected rows.
func (r *issuerRepository) Replace(ctx context.Context, issuer *models.Issuer, expectedRevision int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Issuer{}).
		Where("code = ? AND revision = ?", issuer.Code, expectedRevision).
		Updates(map[string]interface{}{
			"legal_name":       issuer.LegalName,
			"display_name":     issuer.DisplayName,
			"category":         issuer.Category,
			"rating_agency":    issuer.RatingAgency,
			"rating_grade":     issuer.RatingGrade,
			"min_deposit":      issuer.MinDeposit,
			"max_deposit":      issuer.MaxDeposit,
			"premature_policy": issuer.PrematurePolicy,
			"is_active":        issuer.IsActive,
			"schemes":          issuer.Schemes,
			"revision":         gorm.Expr("revision + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to replace issuer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Issuer{}).
			Where("code = ?", issuer.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check issuer existence: %w", err)
		}
		if count == 0 {
			return errors.ErrIssuerNotFound
		}
		return errors.ErrRevisionConflict
	}
	return nil
}

func (r *issuerRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Issuer{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete issuer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrIssuerNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
