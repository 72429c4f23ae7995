package handlers

import (
	"time"

	"finbridge/internal/repositories"
	"finbridge/internal/services/receipt"
	"finbridge/internal/utils"
	"finbridge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ReceiptHandler struct {
	receiptService receipt.Service
}

func NewReceiptHandler(receiptService receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Book creates a fixed deposit receipt. The rate and maturity figures are
// computed from the current catalog and snapshotted onto the receipt, so later
// catalog edits never change a booked deposit.
func (h *ReceiptHandler) Book(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input receipt.BookInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Booking(input.CustomerID, input.IssuerCode, input.SchemeID, input.Amount, input.TenureMonths, input.PayoutFrequency)
	if !v.Valid() {
		return utils.UnprocessableEntity(c, fiber.Map{"error": "invalid booking", "fields": v.Errors})
	}

	booked, err := h.receiptService.Book(c.Context(), input, userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, booked)
}

// Get returns one receipt by its number.
func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	booked, err := h.receiptService.GetByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, booked)
}

// List returns receipts, paginated and filtered.
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)
	filter, err := receiptFilterFromQuery(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	receipts, total, err := h.receiptService.List(c.Context(), filter, pagination.Offset, pagination.Limit)
	if err != nil {
		return respondError(c, err)
	}
	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(receipts, pagination))
}

// Export streams the filtered receipts as a CSV download.
func (h *ReceiptHandler) Export(c *fiber.Ctx) error {
	filter, err := receiptFilterFromQuery(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipts.csv"`)
	if err := h.receiptService.ExportCSV(c.Context(), filter, c.Response().BodyWriter()); err != nil {
		return respondError(c, err)
	}
	return nil
}

// Stats returns count and amount aggregates over the filtered receipts.
func (h *ReceiptHandler) Stats(c *fiber.Ctx) error {
	filter, err := receiptFilterFromQuery(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	stats, err := h.receiptService.Stats(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, stats)
}

func receiptFilterFromQuery(c *fiber.Ctx) (repositories.ReceiptFilter, error) {
	filter := repositories.ReceiptFilter{
		BranchCode: c.Query("branch_code"),
		IssuerCode: c.Query("issuer_code"),
		CustomerID: uint(c.QueryInt("customer_id", 0)),
		Status:     c.Query("status"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errInvalidDateRange
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errInvalidDateRange
		}
		filter.To = &to
	}
	return filter, nil
}
