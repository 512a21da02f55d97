// Package auth verifies the portal's signed session token. The token is an
// HS256 JWT carried in the authToken cookie, shared with the rest of the
// portal's protected endpoints.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie the portal sets at login.
const CookieName = "authToken"

var (
	// ErrNoToken means the request carried no session cookie.
	ErrNoToken = errors.New("token de autenticacion no encontrado")
	// ErrInvalidToken covers bad signatures, expiry, and malformed tokens.
	ErrInvalidToken = errors.New("token invalido o expirado")
)

// Claims is the verified session payload.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Rol   string `json:"rol,omitempty"`
}

// Guard verifies session tokens against the shared signing secret.
type Guard struct {
	secret []byte
	logger *slog.Logger
}

// NewGuard constructs a Guard.
func NewGuard(secret []byte, logger *slog.Logger) *Guard {
	return &Guard{
		secret: secret,
		logger: logger.With(slog.String("component", "auth")),
	}
}

// Verify extracts the session cookie and validates its signature and expiry,
// returning the decoded claims.
func (g *Guard) Verify(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware rejects unauthenticated requests with 401 and stores the claims
// in the request context for handlers downstream.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := g.Verify(r)
			if err != nil {
				g.logger.Debug("acceso no autorizado",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"No autorizado."}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFromContext returns the verified claims, or nil outside the guard.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}
