package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"loan-ledger/internal/pkg/auth"
)

type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// Authenticate rejects requests without a valid bearer token and stores the
// token's claims in the request context.
func Authenticate(enabled bool, parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	if !enabled {
		return passthrough
	}
	logger = logger.With("component", "AuthMiddleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(r.Context(), "Missing or malformed Authorization header")
				writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := parser.Parse(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected bearer token", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			logger.DebugContext(r.Context(), "Authenticated request", slog.Int64("userID", claims.UserID), slog.String("role", claims.Role))
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole must run after Authenticate.
func RequireRole(enabled bool, roles ...string) func(http.Handler) http.Handler {
	if !enabled {
		return passthrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeError(w, http.StatusForbidden, "Access denied. Insufficient permissions.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
