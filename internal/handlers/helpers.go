// Package handlers contains the HTTP handlers for the API. Handlers parse and
// sanity-check requests, delegate to the services and translate domain errors
// into HTTP responses.
package handlers

import (
	stderrors "errors"
	"strconv"
	"time"

	"finbridge/internal/errors"
	"finbridge/internal/services/catalog"
	"finbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
)

var errInvalidDateRange = stderrors.New("from/to must be YYYY-MM-DD dates")

// respondError maps a service error onto the HTTP surface. Validation errors
// carry their full violation list; domain errors keep their stable code.
func respondError(c *fiber.Ctx, err error) error {
	var verr *catalog.ValidationError
	if stderrors.As(err, &verr) {
		return utils.UnprocessableEntity(c, fiber.Map{
			"error":      "catalog validation failed",
			"violations": verr.Violations,
		})
	}

	var derr *errors.DomainError
	if stderrors.As(err, &derr) {
		return utils.Respond(c, statusForCode(derr.Code), fiber.Map{
			"error": derr.Message,
			"code":  derr.Code,
		})
	}

	return utils.InternalError(c, "internal server error")
}

func statusForCode(code string) int {
	switch code {
	case "NOT_FOUND", "ISSUER_NOT_FOUND", "SCHEME_NOT_FOUND", "SLAB_NOT_FOUND",
		"CUSTOMER_NOT_FOUND", "RECEIPT_NOT_FOUND", "USER_NOT_FOUND":
		return fiber.StatusNotFound
	case "CONFLICT", "REVISION_CONFLICT", "DUPLICATE_ISSUER_CODE",
		"CUSTOMER_DUPLICATE", "ISSUER_REFERENCED", "EMAIL_TAKEN":
		return fiber.StatusConflict
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "INVALID_INPUT":
		return fiber.StatusBadRequest
	case "NO_MATCHING_SLAB", "AMOUNT_OUT_OF_RANGE", "TENURE_OUT_OF_RANGE",
		"FREQUENCY_MISMATCH", "INACTIVE_PRODUCT":
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// revisionFromRequest reads the issuer revision the caller last saw, from the
// If-Match header or the revision query parameter.
func revisionFromRequest(c *fiber.Ctx) (int, error) {
	raw := c.Get("If-Match")
	if raw == "" {
		raw = c.Query("revision")
	}
	if raw == "" {
		return 0, stderrors.New("missing revision: supply If-Match header or revision query parameter")
	}
	revision, err := strconv.Atoi(raw)
	if err != nil || revision < 1 {
		return 0, stderrors.New("revision must be a positive integer")
	}
	return revision, nil
}

// parseDateOrToday parses a YYYY-MM-DD date, defaulting to today (UTC).
func parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", raw)
}
