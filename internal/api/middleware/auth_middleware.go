package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/quickcart-io/quickcart/internal/utils/response"
	"github.com/quickcart-io/quickcart/pkg/identity"
)

type principalContextKey string

const PrincipalContextKey = principalContextKey("principal")

type AuthMiddleware struct {
	provider identity.Provider
}

func NewAuthMiddleware(provider identity.Provider) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// Authenticate resolves the request's principal through the identity provider
// and stores it in the context. Requests without a valid provider-issued
// token never reach the wrapped handler.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		principal, err := m.provider.ResolvePrincipal(r)
		if err != nil {
			logger.Warn("Principal resolution failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or missing session token").WithError(err))
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)

		requestScopedLogger := logger.With(slog.String("userId", principal.ID))
		ctx = ContextWithLogger(ctx, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request was not authenticated.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	if principal, ok := ctx.Value(PrincipalContextKey).(*models.Principal); ok {
		return principal
	}

	return nil
}

// ContextWithPrincipal is exported for handler tests.
func ContextWithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, principal)
}
