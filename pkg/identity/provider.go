package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quickcart-io/quickcart/internal/models"
)

var (
	ErrNoToken      = errors.New("authorization header is missing or malformed")
	ErrInvalidToken = errors.New("token is invalid or expired")
)

// Provider resolves a request's authenticated principal from a token minted
// by the hosted identity provider, and can mint tokens itself for tooling and
// tests. Session lifecycle, credentials and user records live with the
// provider, never here.
type Provider interface {
	ResolvePrincipal(r *http.Request) (*models.Principal, error)
	IssueToken(principal *models.Principal, ttl time.Duration) (string, error)
}

type hmacProvider struct {
	signingKey []byte
	issuer     string
}

func NewHMACProvider(signingKey []byte, issuer string) Provider {
	return &hmacProvider{signingKey: signingKey, issuer: issuer}
}

func (p *hmacProvider) ResolvePrincipal(r *http.Request) (*models.Principal, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrNoToken
	}

	// Token is of format: "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, ErrNoToken
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.signingKey, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Principal{ID: claims.Subject, Role: claims.Role}, nil
}

func (p *hmacProvider) IssueToken(principal *models.Principal, ttl time.Duration) (string, error) {

	claims := &models.Claims{
		Role: principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(p.signingKey)
}
