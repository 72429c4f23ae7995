package errors

var (
	ErrIssuerNotFound = &DomainError{
		Code:    "ISSUER_NOT_FOUND",
		Message: "issuer not found",
	}
	ErrSchemeNotFound = &DomainError{
		Code:    "SCHEME_NOT_FOUND",
		Message: "scheme not found",
	}
	ErrSlabNotFound = &DomainError{
		Code:    "SLAB_NOT_FOUND",
		Message: "rate slab not found",
	}
	ErrDuplicateIssuerCode = &DomainError{
		Code:    "DUPLICATE_ISSUER_CODE",
		Message: "an issuer with this code already exists",
	}
	ErrRevisionConflict = &DomainError{
		Code:    "REVISION_CONFLICT",
		Message: "issuer was modified concurrently, re-fetch and retry",
	}
	ErrNoMatchingSlab = &DomainError{
		Code:    "NO_MATCHING_SLAB",
		Message: "no rate slab matches the requested tenure and payout frequency",
	}
	ErrIssuerReferenced = &DomainError{
		Code:    "ISSUER_REFERENCED",
		Message: "issuer has booked receipts; deactivate it instead of deleting",
	}
	ErrAmountOutOfRange = &DomainError{
		Code:    "AMOUNT_OUT_OF_RANGE",
		Message: "deposit amount is outside the scheme's accepted range",
	}
	ErrTenureOutOfRange = &DomainError{
		Code:    "TENURE_OUT_OF_RANGE",
		Message: "tenure is outside the slab's band",
	}
	ErrFrequencyMismatch = &DomainError{
		Code:    "FREQUENCY_MISMATCH",
		Message: "payout frequency does not match the slab",
	}
	ErrInactiveProduct = &DomainError{
		Code:    "INACTIVE_PRODUCT",
		Message: "issuer or scheme is not active",
	}
)
