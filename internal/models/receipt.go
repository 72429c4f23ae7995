package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt statuses
const (
	ReceiptStatusActive    = "active"
	ReceiptStatusMatured   = "matured"
	ReceiptStatusCancelled = "cancelled"
)

// Receipt records a booked fixed deposit. It snapshots the quote it was booked
// against (rate, maturity amount and date), so later catalog edits never
// rewrite history.
type Receipt struct {
	ID                uint            `gorm:"primarykey" json:"-"`
	Number            string          `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID        uint            `gorm:"index;not null" json:"customer_id"`
	Customer          *Customer       `json:"customer,omitempty"`
	IssuerCode        string          `gorm:"index;not null" json:"issuer_code"`
	SchemeID          string          `gorm:"not null" json:"scheme_id"`
	SlabID            string          `gorm:"not null" json:"slab_id"`
	BranchCode        string          `gorm:"index;not null" json:"branch_code"`
	Principal         decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"principal"`
	TenureMonths      int             `gorm:"not null" json:"tenure_months"`
	PayoutFrequency   PayoutFrequency `gorm:"not null" json:"payout_frequency"`
	TotalRateBps      int             `gorm:"not null" json:"total_rate_bps"`
	MaturityAmount    decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"maturity_amount"`
	MaturityDate      time.Time       `gorm:"not null" json:"maturity_date"`
	DepositDate       time.Time       `gorm:"not null" json:"deposit_date"`
	SeniorCitizen     bool            `json:"senior_citizen"`
	Women             bool            `json:"women"`
	Renewal           bool            `json:"renewal"`
	TDSApplicable     bool            `json:"tds_applicable"`
	Form15GHAvailable bool            `json:"form_15g_15h_available"`
	Status            string          `gorm:"default:'active'" json:"status"`
	CreatedBy         uint            `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
