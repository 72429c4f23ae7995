package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"finbridge/internal/errors"
	"finbridge/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound  = &errors.DomainError{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found"}
	ErrCustomerDuplicate = &errors.DomainError{Code: "CUSTOMER_DUPLICATE", Message: "a customer with this phone or PAN already exists"}
)

// CustomerRepository defines the interface for customer database operations.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, branchCode string, offset, limit int) ([]models.Customer, int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerDuplicate
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerDuplicate
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context, branchCode string, offset, limit int) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Customer{})
	if branchCode != "" {
		q = q.Where("branch_code = ?", branchCode)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := q.Order("full_name ASC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}
