package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"gorm.io/gorm"
)

var ErrReceiptNotFound = &errors.DomainError{Code: "RECEIPT_NOT_FOUND", Message: "receipt not found"}

// ReceiptFilter narrows receipt listings and exports.
type ReceiptFilter struct {
	BranchCode string
	IssuerCode string
	CustomerID uint
	Status     string
	From       *time.Time
	To         *time.Time
}

// ReceiptStats is the aggregate over a receipt set.
type ReceiptStats struct {
	Count          int64   `json:"count"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalMaturity  float64 `json:"total_maturity"`
	AvgRateBps     float64 `json:"avg_rate_bps"`
}

// ReceiptRepository defines the interface for receipt database operations.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	GetByNumber(ctx context.Context, number string) (*models.Receipt, error)
	Update(ctx context.Context, receipt *models.Receipt) error
	List(ctx context.Context, filter ReceiptFilter, offset, limit int) ([]models.Receipt, int64, error)
	ListAll(ctx context.Context, filter ReceiptFilter) ([]models.Receipt, error)
	CountByIssuer(ctx context.Context, issuerCode string) (int64, error)
	Stats(ctx context.Context, filter ReceiptFilter) (*ReceiptStats, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

func (r *receiptRepository) GetByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).Preload("Customer").Where("number = ?", number).First(&receipt).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepository) Update(ctx context.Context, receipt *models.Receipt) error {
	if err := r.db.WithContext(ctx).Save(receipt).Error; err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	return nil
}

func (r *receiptRepository) List(ctx context.Context, filter ReceiptFilter, offset, limit int) ([]models.Receipt, int64, error) {
	var receipts []models.Receipt
	var total int64

	q := r.filtered(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	err := q.Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, total, nil
}

func (r *receiptRepository) ListAll(ctx context.Context, filter ReceiptFilter) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.filtered(ctx, filter).
		Preload("Customer").
		Order("created_at ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

func (r *receiptRepository) CountByIssuer(ctx context.Context, issuerCode string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Receipt{}).
		Where("issuer_code = ?", issuerCode).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts by issuer: %w", err)
	}
	return count, nil
}

func (r *receiptRepository) Stats(ctx context.Context, filter ReceiptFilter) (*ReceiptStats, error) {
	var stats ReceiptStats
	err := r.filtered(ctx, filter).
		Select(`
			COUNT(*) as count,
			COALESCE(SUM(principal), 0) as total_principal,
			COALESCE(SUM(maturity_amount), 0) as total_maturity,
			COALESCE(AVG(total_rate_bps), 0) as avg_rate_bps
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt stats: %w", err)
	}
	return &stats, nil
}

func (r *receiptRepository) filtered(ctx context.Context, filter ReceiptFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Receipt{})
	if filter.BranchCode != "" {
		q = q.Where("branch_code = ?", filter.BranchCode)
	}
	if filter.IssuerCode != "" {
		q = q.Where("issuer_code = ?", filter.IssuerCode)
	}
	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("deposit_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("deposit_date <= ?", *filter.To)
	}
	return q
}
