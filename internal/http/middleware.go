package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"motogarage/internal/auth"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newSlogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)
			logger.Info("http request", "method", r.Method, "path", r.URL.Path, "status", recorder.status, "duration", duration.String())
		})
	}
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated request principal attached to the context by
// the bearer gate.
type Principal struct {
	User  *auth.Principal
	Roles []string
}

// PrincipalFromContext extracts the authenticated principal from the request
// context. Returns nil when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey).(*Principal)
	return principal
}

// ContextWithPrincipal attaches a principal; used by tests and the gate.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// sessionValidator is the slice of the token provider the gate needs.
type sessionValidator interface {
	Validate(token string) (string, error)
}

// principalLoader is the slice of the directory the gate needs.
type principalLoader interface {
	FindByStableID(ctx context.Context, stableID uuid.UUID) (*auth.Principal, error)
}

const bearerPrefix = "Bearer "

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// newBearerAuthMiddleware builds the per-request authentication gate. It only
// ever enriches the context: a missing, invalid or unresolvable credential
// leaves the request unauthenticated and hands it to the next stage, which
// decides whether the route requires a principal. The gate never writes a
// response and never aborts the request.
func newBearerAuthMiddleware(tokens sessionValidator, directory principalLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("session token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			stableID, err := uuid.Parse(subject)
			if err != nil {
				logger.Debug("session token subject is not a stable id", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := directory.FindByStableID(r.Context(), stableID)
			if err != nil {
				if errors.Is(err, auth.ErrNotFound) {
					logger.Debug("no principal for valid session token", "stable_id", stableID)
				} else {
					logger.Error("principal lookup failed during gate", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			principal := &Principal{User: user, Roles: auth.ParseRoles(user.Roles)}
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth is the route policy stage: it rejects requests the gate left
// unauthenticated. It runs after the gate on every protected route group.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) == nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "authentication required")
}

func newSecurityHeadersMiddleware(environment string) func(http.Handler) http.Handler {
	isDev := strings.EqualFold(environment, "development")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if !isDev {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
