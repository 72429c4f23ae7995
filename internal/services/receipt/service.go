// Package receipt books fixed deposits against live catalog quotes and keeps
// the booking history queryable and exportable.
package receipt

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"finbridge/internal/models"
	"finbridge/internal/repositories"
	"finbridge/internal/services/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookInput is a deposit booking request. The quote is computed at booking
// time from the current catalog, never supplied by the caller.
type BookInput struct {
	CustomerID      uint                   `json:"customer_id"`
	IssuerCode      string                 `json:"issuer_code"`
	SchemeID        string                 `json:"scheme_id"`
	Amount          decimal.Decimal        `json:"amount"`
	TenureMonths    int                    `json:"tenure_months"`
	PayoutFrequency models.PayoutFrequency `json:"payout_frequency"`
	Renewal         bool                   `json:"renewal"`
	DepositDate     time.Time              `json:"deposit_date"`
	BranchCode      string                 `json:"branch_code"`
}

type Service interface {
	Book(ctx context.Context, input BookInput, bookedBy uint) (*models.Receipt, error)
	GetByNumber(ctx context.Context, number string) (*models.Receipt, error)
	List(ctx context.Context, filter repositories.ReceiptFilter, offset, limit int) ([]models.Receipt, int64, error)
	ExportCSV(ctx context.Context, filter repositories.ReceiptFilter, w io.Writer) error
	Stats(ctx context.Context, filter repositories.ReceiptFilter) (*repositories.ReceiptStats, error)
}

type service struct {
	receipts  repositories.ReceiptRepository
	customers repositories.CustomerRepository
	catalog   catalog.Service
}

func NewService(receipts repositories.ReceiptRepository, customers repositories.CustomerRepository, catalogService catalog.Service) Service {
	if receipts == nil {
		panic("receipt repository is required")
	}
	if customers == nil {
		panic("customer repository is required")
	}
	if catalogService == nil {
		panic("catalog service is required")
	}
	return &service{receipts: receipts, customers: customers, catalog: catalogService}
}

func (s *service) Book(ctx context.Context, input BookInput, bookedBy uint) (*models.Receipt, error) {
	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	depositDate := input.DepositDate
	if depositDate.IsZero() {
		depositDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	// Depositor attributes drive the bonus flags; the women bonus follows
	// the customer's recorded gender.
	flags := catalog.Flags{
		SeniorCitizen: customer.SeniorCitizen,
		Women:         customer.Gender == "female",
		Renewal:       input.Renewal,
	}

	quote, err := s.catalog.Quote(ctx, catalog.QuoteRequest{
		IssuerCode:      input.IssuerCode,
		SchemeID:        input.SchemeID,
		Amount:          input.Amount,
		TenureMonths:    input.TenureMonths,
		PayoutFrequency: input.PayoutFrequency,
		Flags:           flags,
		DepositDate:     depositDate,
	})
	if err != nil {
		return nil, err
	}

	branchCode := input.BranchCode
	if branchCode == "" {
		branchCode = customer.BranchCode
	}

	receipt := &models.Receipt{
		Number:            uuid.NewString(),
		CustomerID:        customer.ID,
		IssuerCode:        quote.IssuerCode,
		SchemeID:          quote.SchemeID,
		SlabID:            quote.SlabID,
		BranchCode:        branchCode,
		Principal:         quote.Principal,
		TenureMonths:      quote.TenureMonths,
		PayoutFrequency:   quote.PayoutFrequency,
		TotalRateBps:      quote.TotalRateBps,
		MaturityAmount:    quote.MaturityAmount,
		MaturityDate:      quote.MaturityDate,
		DepositDate:       quote.DepositDate,
		SeniorCitizen:     flags.SeniorCitizen,
		Women:             flags.Women,
		Renewal:           flags.Renewal,
		TDSApplicable:     quote.TDSApplicable,
		Form15GHAvailable: quote.Form15GHAvailable,
		Status:            models.ReceiptStatusActive,
		CreatedBy:         bookedBy,
	}

	if err := s.receipts.Create(ctx, receipt); err != nil {
		return nil, err
	}
	receipt.Customer = customer
	return receipt, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	return s.receipts.GetByNumber(ctx, number)
}

func (s *service) List(ctx context.Context, filter repositories.ReceiptFilter, offset, limit int) ([]models.Receipt, int64, error) {
	return s.receipts.List(ctx, filter, offset, limit)
}

var csvHeader = []string{
	"number", "customer", "issuer_code", "scheme_id", "branch_code",
	"principal", "tenure_months", "payout_frequency", "total_rate_bps",
	"maturity_amount", "deposit_date", "maturity_date", "status",
}

// ExportCSV streams the filtered receipts as CSV.
func (s *service) ExportCSV(ctx context.Context, filter repositories.ReceiptFilter, w io.Writer) error {
	receipts, err := s.receipts.ListAll(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range receipts {
		r := &receipts[i]
		customerName := ""
		if r.Customer != nil {
			customerName = r.Customer.FullName
		}
		row := []string{
			r.Number,
			customerName,
			r.IssuerCode,
			r.SchemeID,
			r.BranchCode,
			r.Principal.StringFixed(2),
			strconv.Itoa(r.TenureMonths),
			string(r.PayoutFrequency),
			strconv.Itoa(r.TotalRateBps),
			r.MaturityAmount.StringFixed(2),
			r.DepositDate.Format("2006-01-02"),
			r.MaturityDate.Format("2006-01-02"),
			r.Status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *service) Stats(ctx context.Context, filter repositories.ReceiptFilter) (*repositories.ReceiptStats, error) {
	return s.receipts.Stats(ctx, filter)
}
