package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/petparadise/petparadise-api/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. The user id is
// carried both as "id" and as the registered subject.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
