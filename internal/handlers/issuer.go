package handlers

import (
	"finbridge/internal/models"
	"finbridge/internal/services/catalog"
	"finbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// IssuerHandler exposes the product catalog: public reads and admin writes
// over the issuer/scheme/slab tree.
type IssuerHandler struct {
	catalogService catalog.Service
}

func NewIssuerHandler(catalogService catalog.Service) *IssuerHandler {
	return &IssuerHandler{catalogService: catalogService}
}

// List returns issuer summaries. Pass ?active_only=true to hide inactive
// issuers.
func (h *IssuerHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)
	summaries, err := h.catalogService.ListIssuers(c.Context(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"issuers": summaries})
}

// Get returns the full issuer tree including all schemes and slabs.
func (h *IssuerHandler) Get(c *fiber.Ctx) error {
	issuer, err := h.catalogService.GetIssuer(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, issuer)
}

// GetScheme returns a single scheme subtree.
func (h *IssuerHandler) GetScheme(c *fiber.Ctx) error {
	scheme, err := h.catalogService.GetScheme(c.Context(), c.Params("code"), c.Params("schemeId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, scheme)
}

// Create registers a new issuer with its full scheme/slab tree.
func (h *IssuerHandler) Create(c *fiber.Ctx) error {
	var issuer models.Issuer
	if err := c.BodyParser(&issuer); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	created, err := h.catalogService.CreateIssuer(c.Context(), &issuer)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, created)
}

// Replace swaps the whole issuer tree against the revision the caller read.
func (h *IssuerHandler) Replace(c *fiber.Ctx) error {
	revision, err := revisionFromRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var issuer models.Issuer
	if err := c.BodyParser(&issuer); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	updated, err := h.catalogService.ReplaceIssuer(c.Context(), c.Params("code"), revision, &issuer)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, updated)
}

// Delete removes an issuer. Issuers referenced by booked receipts cannot be
// deleted and should be deactivated instead.
func (h *IssuerHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteIssuer(c.Context(), c.Params("code")); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "issuer deleted"})
}

// UpsertScheme inserts or replaces one scheme subtree.
func (h *IssuerHandler) UpsertScheme(c *fiber.Ctx) error {
	revision, err := revisionFromRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var scheme models.Scheme
	if err := c.BodyParser(&scheme); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	// The path id wins; without one a new scheme is created.
	if schemeID := c.Params("schemeId"); schemeID != "" {
		scheme.ID = schemeID
	}

	issuer, err := h.catalogService.UpsertScheme(c.Context(), c.Params("code"), revision, scheme)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, issuer)
}

// DeleteScheme removes one scheme and all of its slabs.
func (h *IssuerHandler) DeleteScheme(c *fiber.Ctx) error {
	revision, err := revisionFromRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	issuer, err := h.catalogService.DeleteScheme(c.Context(), c.Params("code"), revision, c.Params("schemeId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, issuer)
}

// UpsertSlab inserts or replaces one rate slab within a scheme.
func (h *IssuerHandler) UpsertSlab(c *fiber.Ctx) error {
	revision, err := revisionFromRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var slab models.RateSlab
	if err := c.BodyParser(&slab); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if slabID := c.Params("slabId"); slabID != "" {
		slab.ID = slabID
	}

	issuer, err := h.catalogService.UpsertSlab(c.Context(), c.Params("code"), revision, c.Params("schemeId"), slab)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, issuer)
}

// DeleteSlab removes one rate slab.
func (h *IssuerHandler) DeleteSlab(c *fiber.Ctx) error {
	revision, err := revisionFromRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	issuer, err := h.catalogService.DeleteSlab(c.Context(), c.Params("code"), revision, c.Params("schemeId"), c.Params("slabId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, issuer)
}
