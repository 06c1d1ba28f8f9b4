package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. The
// supplier ID is only set for supplier users and points at their profile row.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	UserType   enums.UserType
	SupplierID *uuid.UUID
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	UserType   enums.UserType `json:"user_type"`
	SupplierID *uuid.UUID     `json:"supplier_id,omitempty"`
	jwt.RegisteredClaims
}
