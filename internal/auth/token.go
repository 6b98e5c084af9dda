package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider issues and validates self-contained session tokens. The signing
// key is loaded once at startup and held immutably for the process lifetime;
// no issued token is ever recorded server-side, so validity is determined
// entirely by signature and expiry.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenProvider wires a TokenProvider with the process signing key.
func NewTokenProvider(secret []byte, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a session token for the given stable identifier, valid from now
// until now plus the configured lifetime.
func (p *TokenProvider) Issue(stableID string) (string, error) {
	if strings.TrimSpace(stableID) == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	now := p.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   stableID,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the token's signature and expiry and returns the subject
// claim. Expiry is an exclusive boundary with no leeway: a token presented at
// exactly its expiry instant is already expired. All failures collapse into
// ErrInvalidToken.
func (p *TokenProvider) Validate(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
