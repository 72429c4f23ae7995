package handlers

import (
	"strconv"

	"finbridge/internal/models"
	"finbridge/internal/repositories"
	"finbridge/internal/utils"
	"finbridge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerHandler(customerRepo repositories.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo}
}

// Create registers a depositor.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Customer(&customer)
	if !v.Valid() {
		return utils.UnprocessableEntity(c, fiber.Map{"error": "invalid customer", "fields": v.Errors})
	}

	if err := h.customerRepo.Create(c.Context(), &customer); err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, customer)
}

// Get returns one customer by id.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid customer id")
	}

	customer, err := h.customerRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, customer)
}

// Update replaces a customer's profile.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid customer id")
	}

	existing, err := h.customerRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	customer.ID = existing.ID
	customer.CreatedAt = existing.CreatedAt

	v := validation.New()
	v.Customer(&customer)
	if !v.Valid() {
		return utils.UnprocessableEntity(c, fiber.Map{"error": "invalid customer", "fields": v.Errors})
	}

	if err := h.customerRepo.Update(c.Context(), &customer); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, customer)
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid customer id")
	}

	if err := h.customerRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "customer deleted"})
}

// List returns customers, paginated, optionally filtered by branch.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)
	branchCode := c.Query("branch_code")

	customers, total, err := h.customerRepo.List(c.Context(), branchCode, pagination.Offset, pagination.Limit)
	if err != nil {
		return respondError(c, err)
	}
	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(customers, pagination))
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
