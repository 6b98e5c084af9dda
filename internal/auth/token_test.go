package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestProvider(ttl time.Duration) *TokenProvider {
	return NewTokenProvider([]byte("test-signing-key"), "motogarage-test", ttl)
}

func TestTokenRoundTrip(t *testing.T) {
	provider := newTestProvider(time.Hour)
	stableID := uuid.New().String()

	token, err := provider.Issue(stableID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	subject, err := provider.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if subject != stableID {
		t.Fatalf("expected subject %q, got %q", stableID, subject)
	}
}

func TestTokenRejectsEmptySubject(t *testing.T) {
	provider := newTestProvider(time.Hour)
	if _, err := provider.Issue("  "); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestTokenTamperedSignatureFails(t *testing.T) {
	provider := newTestProvider(time.Hour)
	token, err := provider.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Replace the final signature character with a different base64url character.
	last := token[len(token)-1]
	replacement := byte('A')
	if last == replacement {
		replacement = 'B'
	}
	tampered := token[:len(token)-1] + string(replacement)

	if _, err := provider.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenTamperedClaimsFail(t *testing.T) {
	provider := newTestProvider(time.Hour)
	token, err := provider.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	mutated := []byte(parts[1])
	if mutated[0] == 'A' {
		mutated[0] = 'B'
	} else {
		mutated[0] = 'A'
	}
	tampered := parts[0] + "." + string(mutated) + "." + parts[2]

	if _, err := provider.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered claims, got %v", err)
	}
}

func TestTokenWrongKeyFails(t *testing.T) {
	issuerProvider := newTestProvider(time.Hour)
	token, err := issuerProvider.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewTokenProvider([]byte("a-different-key"), "motogarage-test", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestTokenMalformedFails(t *testing.T) {
	provider := newTestProvider(time.Hour)
	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := provider.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestTokenExpiryBoundaryIsExclusive(t *testing.T) {
	provider := newTestProvider(time.Hour)
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return issuedAt }

	token, err := provider.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// One second before expiry the token is still valid.
	provider.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	if _, err := provider.Validate(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	// At exactly the expiry instant the token is already expired.
	provider.now = func() time.Time { return issuedAt.Add(time.Hour) }
	if _, err := provider.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry instant, got %v", err)
	}
}

func TestTokenWrongIssuerFails(t *testing.T) {
	foreign := NewTokenProvider([]byte("test-signing-key"), "someone-else", time.Hour)
	token, err := foreign.Issue(uuid.New().String())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	provider := newTestProvider(time.Hour)
	if _, err := provider.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
