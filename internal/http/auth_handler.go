package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"motogarage/internal/auth"
)

// loginService is the slice of the auth service the handler needs.
type loginService interface {
	Login(ctx context.Context, rawIDToken string) (*auth.LoginResult, error)
}

// AuthHandler exposes the federated login endpoints.
type AuthHandler struct {
	service loginService
	logger  *slog.Logger
}

// NewAuthHandler creates a handler.
func NewAuthHandler(service loginService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// userView is the principal projection returned to clients.
type userView struct {
	ID           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	DisplayEmail string    `json:"displayEmail"`
	StableID     string    `json:"stableId"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserView(p *auth.Principal) userView {
	return userView{
		ID:           p.ID.String(),
		Nickname:     p.Nickname,
		DisplayEmail: p.Email,
		StableID:     p.StableID.String(),
		Roles:        auth.ParseRoles(p.Roles),
		CreatedAt:    p.CreatedAt,
	}
}

// Login handles POST /auth/login. It accepts a Google ID token and responds
// with a session token and the principal it resolved to.
//
// All authentication failures produce the same generic 401 body; the internal
// distinction between a forged assertion and a policy rejection stays in logs.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDToken string `json:"idToken"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	if strings.TrimSpace(payload.IDToken) == "" {
		writeError(w, http.StatusBadRequest, "idToken is required")
		return
	}

	result, err := h.service.Login(r.Context(), payload.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAssertion) || errors.Is(err, auth.ErrAuthentication) {
			h.logger.Warn("login rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "authentication failed")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": result.AccessToken,
		"tokenType":   "Bearer",
		"user":        newUserView(result.Principal),
	})
}

// Me handles GET /auth/me, returning the authenticated principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(principal.User))
}
