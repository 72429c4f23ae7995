package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Catalog permissions
	PermissionCatalogRead  = "catalog:read"
	PermissionCatalogWrite = "catalog:write"

	// Branch staff permissions
	PermissionCustomerRead  = "customer:read"
	PermissionCustomerWrite = "customer:write"
	PermissionReceiptRead   = "receipt:read"
	PermissionReceiptWrite  = "receipt:write"
	PermissionQuoteRead     = "quote:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	BranchCode   string   `json:"branch_code,omitempty"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionCatalogRead,
			PermissionCatalogWrite,
			PermissionCustomerRead,
			PermissionCustomerWrite,
			PermissionReceiptRead,
			PermissionReceiptWrite,
			PermissionQuoteRead,
		}
	case "staff":
		return []string{
			PermissionCatalogRead,
			PermissionCustomerRead,
			PermissionCustomerWrite,
			PermissionReceiptRead,
			PermissionReceiptWrite,
			PermissionQuoteRead,
		}
	default:
		return []string{PermissionCatalogRead, PermissionQuoteRead}
	}
}
