package services

import (
	"errors"
	"strings"

	"github.com/journeykit/journeykit-go/internal/infrastructure/security"
)

// JWTVerifier is the default IdentityVerifier: an HS256 JWT whose claims
// carry the principal id, role and organization binding.
type JWTVerifier struct {
	secret string
}

// NewJWTVerifier creates a new JWT verifier
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// VerifyToken validates the token and extracts the principal. Accepts the
// raw token with or without a "Bearer " prefix.
func (v *JWTVerifier) VerifyToken(raw string) (*Principal, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")
	if raw == "" {
		return nil, errors.New("empty token")
	}

	claims, err := security.ValidateJWT(raw, v.secret)
	if err != nil {
		return nil, err
	}

	principal := &Principal{}
	if sub, ok := claims["sub"].(string); ok {
		principal.ID = sub
	}
	if role, ok := claims["role"].(string); ok {
		principal.Role = role
	}
	if companyID, ok := claims["companyId"].(string); ok {
		principal.CompanyID = companyID
	}

	if principal.ID == "" {
		return nil, errors.New("token carries no principal")
	}
	return principal, nil
}
