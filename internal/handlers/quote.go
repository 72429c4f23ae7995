package handlers

import (
	"finbridge/internal/models"
	"finbridge/internal/services/catalog"
	"finbridge/internal/utils"
	"finbridge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// QuoteHandler serves rate and maturity quotes against the live catalog.
type QuoteHandler struct {
	catalogService catalog.Service
}

func NewQuoteHandler(catalogService catalog.Service) *QuoteHandler {
	return &QuoteHandler{catalogService: catalogService}
}

type quoteRequest struct {
	IssuerCode      string                 `json:"issuer_code"`
	SchemeID        string                 `json:"scheme_id"`
	Amount          decimal.Decimal        `json:"amount"`
	TenureMonths    int                    `json:"tenure_months"`
	PayoutFrequency models.PayoutFrequency `json:"payout_frequency"`
	SeniorCitizen   bool                   `json:"senior_citizen"`
	Women           bool                   `json:"women"`
	Renewal         bool                   `json:"renewal"`
	DepositDate     string                 `json:"deposit_date"`
}

// Quote computes the applicable rate, maturity amount and maturity date for a
// prospective deposit. Quotes are stateless; nothing is booked.
func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Required("issuer_code", req.IssuerCode)
	v.Required("scheme_id", req.SchemeID)
	v.Check(req.Amount.IsPositive(), "amount", "must be greater than zero")
	v.Check(req.TenureMonths > 0, "tenure_months", "must be greater than zero")
	v.Check(models.ValidPayoutFrequency(req.PayoutFrequency), "payout_frequency", "is not a known frequency")
	if !v.Valid() {
		return utils.UnprocessableEntity(c, fiber.Map{"error": "invalid quote request", "fields": v.Errors})
	}

	depositDate, err := parseDateOrToday(req.DepositDate)
	if err != nil {
		return utils.BadRequest(c, "deposit_date must be YYYY-MM-DD")
	}

	quote, err := h.catalogService.Quote(c.Context(), catalog.QuoteRequest{
		IssuerCode:      req.IssuerCode,
		SchemeID:        req.SchemeID,
		Amount:          req.Amount,
		TenureMonths:    req.TenureMonths,
		PayoutFrequency: req.PayoutFrequency,
		Flags: catalog.Flags{
			SeniorCitizen: req.SeniorCitizen,
			Women:         req.Women,
			Renewal:       req.Renewal,
		},
		DepositDate: depositDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, quote)
}
