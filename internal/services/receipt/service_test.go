package receipt

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/models"
	"finbridge/internal/repositories"
	"finbridge/internal/services/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *models.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) GetByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	args := m.Called(ctx, number)
	if r, ok := args.Get(0).(*models.Receipt); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReceiptRepo) Update(ctx context.Context, receipt *models.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) List(ctx context.Context, filter repositories.ReceiptFilter, offset, limit int) ([]models.Receipt, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]models.Receipt), args.Get(1).(int64), args.Error(2)
}

func (m *MockReceiptRepo) ListAll(ctx context.Context, filter repositories.ReceiptFilter) ([]models.Receipt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Receipt), args.Error(1)
}

func (m *MockReceiptRepo) CountByIssuer(ctx context.Context, issuerCode string) (int64, error) {
	args := m.Called(ctx, issuerCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepo) Stats(ctx context.Context, filter repositories.ReceiptFilter) (*repositories.ReceiptStats, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(*repositories.ReceiptStats), args.Error(1)
}

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepo) List(ctx context.Context, branchCode string, offset, limit int) ([]models.Customer, int64, error) {
	args := m.Called(ctx, branchCode, offset, limit)
	return args.Get(0).([]models.Customer), args.Get(1).(int64), args.Error(2)
}

// stubCatalog satisfies catalog.Service for booking tests; only Quote is
// exercised here.
type stubCatalog struct {
	catalog.Service
	quote func(ctx context.Context, req catalog.QuoteRequest) (*catalog.Quote, error)
}

func (s *stubCatalog) Quote(ctx context.Context, req catalog.QuoteRequest) (*catalog.Quote, error) {
	return s.quote(ctx, req)
}

func seniorWoman() *models.Customer {
	return &models.Customer{
		FullName:      "Lakshmi Narayanan",
		Phone:         "9840012345",
		PAN:           "ABCPE1234F",
		Gender:        "female",
		SeniorCitizen: true,
		BranchCode:    "CHN-01",
	}
}

func TestBook(t *testing.T) {
	depositDate := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	input := BookInput{
		CustomerID:      1,
		IssuerCode:      "SFL",
		SchemeID:        "cumulative",
		Amount:          decimal.NewFromInt(100000),
		TenureMonths:    24,
		PayoutFrequency: models.PayoutOnMaturity,
		DepositDate:     depositDate,
	}

	t.Run("snapshot carries the quoted figures", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		customers := new(MockCustomerRepo)
		customer := seniorWoman()
		customer.ID = 1
		customers.On("GetByID", mock.Anything, uint(1)).Return(customer, nil)
		receipts.On("Create", mock.Anything, mock.Anything).Return(nil)

		var seenFlags catalog.Flags
		cat := &stubCatalog{quote: func(ctx context.Context, req catalog.QuoteRequest) (*catalog.Quote, error) {
			seenFlags = req.Flags
			return &catalog.Quote{
				IssuerCode:      req.IssuerCode,
				SchemeID:        req.SchemeID,
				SlabID:          "s1",
				Principal:       req.Amount,
				TenureMonths:    req.TenureMonths,
				PayoutFrequency: req.PayoutFrequency,
				IsCumulative:    true,
				TotalRateBps:    825,
				MaturityAmount:  decimal.RequireFromString("117797.09"),
				DepositDate:     req.DepositDate,
				MaturityDate:    req.DepositDate.AddDate(0, req.TenureMonths, 0),
				TDSApplicable:   true,
			}, nil
		}}

		svc := NewService(receipts, customers, cat)
		booked, err := svc.Book(context.Background(), input, 42)
		require.NoError(t, err)

		// The customer's attributes drive the bonus flags.
		assert.True(t, seenFlags.SeniorCitizen)
		assert.True(t, seenFlags.Women)
		assert.False(t, seenFlags.Renewal)

		assert.NotEmpty(t, booked.Number)
		assert.Equal(t, 825, booked.TotalRateBps)
		assert.Equal(t, "117797.09", booked.MaturityAmount.StringFixed(2))
		assert.Equal(t, "s1", booked.SlabID)
		assert.Equal(t, "CHN-01", booked.BranchCode)
		assert.Equal(t, models.ReceiptStatusActive, booked.Status)
		assert.Equal(t, uint(42), booked.CreatedBy)
		receipts.AssertExpectations(t)
	})

	t.Run("quote failure books nothing", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		customers := new(MockCustomerRepo)
		customer := seniorWoman()
		customer.ID = 1
		customers.On("GetByID", mock.Anything, uint(1)).Return(customer, nil)

		cat := &stubCatalog{quote: func(ctx context.Context, req catalog.QuoteRequest) (*catalog.Quote, error) {
			return nil, errors.ErrNoMatchingSlab
		}}

		svc := NewService(receipts, customers, cat)
		_, err := svc.Book(context.Background(), input, 42)
		assert.ErrorIs(t, err, errors.ErrNoMatchingSlab)
		receipts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		customers := new(MockCustomerRepo)
		customers.On("GetByID", mock.Anything, uint(1)).Return(nil, repositories.ErrCustomerNotFound)

		svc := NewService(receipts, customers, &stubCatalog{})
		_, err := svc.Book(context.Background(), input, 42)
		assert.ErrorIs(t, err, repositories.ErrCustomerNotFound)
	})
}

func TestExportCSV(t *testing.T) {
	receipts := new(MockReceiptRepo)
	customers := new(MockCustomerRepo)

	depositDate := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.Receipt{
		{
			Number:          "r-1",
			Customer:        &models.Customer{FullName: "Lakshmi Narayanan"},
			IssuerCode:      "SFL",
			SchemeID:        "cumulative",
			BranchCode:      "CHN-01",
			Principal:       decimal.NewFromInt(100000),
			TenureMonths:    24,
			PayoutFrequency: models.PayoutOnMaturity,
			TotalRateBps:    825,
			MaturityAmount:  decimal.RequireFromString("117797.09"),
			DepositDate:     depositDate,
			MaturityDate:    depositDate.AddDate(0, 24, 0),
			Status:          models.ReceiptStatusActive,
		},
	}
	receipts.On("ListAll", mock.Anything, mock.Anything).Return(rows, nil)

	svc := NewService(receipts, customers, &stubCatalog{})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), repositories.ReceiptFilter{}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "maturity_amount")
	assert.Contains(t, lines[1], "r-1")
	assert.Contains(t, lines[1], "117797.09")
	assert.Contains(t, lines[1], "2028-04-01")
}
