package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/payinstr/internal/domain"
	"github.com/iho/payinstr/internal/infrastructure/auth"
)

type clientIDKey struct{}

const bearerScheme = "Bearer"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a bearer token and stores the caller's client id in the
// request context. Failures answer 401 with a JSON error body.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", bearerScheme)
				writeMiddlewareError(w, http.StatusUnauthorized, "missing or malformed bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					msg = "token has expired"
				}
				w.Header().Set("WWW-Authenticate", bearerScheme+` error="invalid_token"`)
				writeMiddlewareError(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), claims.ClientID)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithClientID returns a copy of ctx carrying the authenticated client id.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// ClientIDFromContext returns the client id set by AuthMiddleware.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey{}).(string)
	return clientID, ok
}
