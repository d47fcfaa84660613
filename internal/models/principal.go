package models

import "github.com/golang-jwt/jwt/v5"

const RoleSeller = "seller"

// Principal is the authenticated actor resolved from a provider-issued token.
// Its identifier is opaque; this system never mints user identities.
type Principal struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (p *Principal) IsSeller() bool {
	return p != nil && p.Role == RoleSeller
}

// Claims is the token payload the identity provider signs for a session.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
