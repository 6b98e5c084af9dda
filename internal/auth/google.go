package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuerURL = "https://accounts.google.com"

// DefaultNickname is used when the provider omits the display name claim.
// A missing name never fails a login on its own.
const DefaultNickname = "Rider"

// idTokenVerifier is the slice of oidc.IDTokenVerifier the GoogleVerifier needs.
type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// GoogleVerifier validates Google-issued ID tokens against Google's published keys
// and this deployment's client ID, and normalizes the claims they carry.
type GoogleVerifier struct {
	config   *oauth2.Config
	verifier idTokenVerifier
}

// NewGoogleVerifier creates a GoogleVerifier. The provider discovery call fetches
// Google's key set metadata once at startup.
func NewGoogleVerifier(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &GoogleVerifier{
		config:   config,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// googleClaims is the raw claim set read from a verified Google ID token.
type googleClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerifyIDToken validates the raw token's signature, issuer, audience and expiry,
// then extracts normalized identity claims. Every failure mode collapses into
// ErrInvalidAssertion.
func (g *GoogleVerifier) VerifyIDToken(ctx context.Context, rawToken string) (*ExternalClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidAssertion)
	}

	idToken, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", ErrInvalidAssertion, err)
	}

	return normalizeClaims(claims)
}

// normalizeClaims maps raw provider claims onto ExternalClaims. The subject is
// mandatory; the display name falls back to DefaultNickname.
func normalizeClaims(claims googleClaims) (*ExternalClaims, error) {
	if strings.TrimSpace(claims.Sub) == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidAssertion)
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = DefaultNickname
	}

	return &ExternalClaims{
		Subject: claims.Sub,
		Email:   strings.TrimSpace(claims.Email),
		Name:    name,
	}, nil
}

// AuthURL generates the Google OAuth consent URL with the given state.
func (g *GoogleVerifier) AuthURL(state string) string {
	return g.config.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades the authorization code for tokens and verifies the ID token in
// the response, feeding the same normalization as the direct login path.
func (g *GoogleVerifier) Exchange(ctx context.Context, code string) (*ExternalClaims, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", ErrInvalidAssertion, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: no id_token in response", ErrInvalidAssertion)
	}

	return g.VerifyIDToken(ctx, rawIDToken)
}

// DisabledVerifier rejects every assertion. It stands in when no Google client
// is configured so that logins fail cleanly instead of at wiring time.
type DisabledVerifier struct{}

// VerifyIDToken always fails with ErrInvalidAssertion.
func (DisabledVerifier) VerifyIDToken(context.Context, string) (*ExternalClaims, error) {
	return nil, fmt.Errorf("%w: identity federation is not configured", ErrInvalidAssertion)
}

// GenerateState generates a cryptographically secure random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
