package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"motogarage/internal/auth"
)

type validatorStub struct {
	validate func(token string) (string, error)
}

func (s *validatorStub) Validate(token string) (string, error) {
	return s.validate(token)
}

type loaderStub struct {
	findByStableID func(ctx context.Context, stableID uuid.UUID) (*auth.Principal, error)
}

func (s *loaderStub) FindByStableID(ctx context.Context, stableID uuid.UUID) (*auth.Principal, error) {
	return s.findByStableID(ctx, stableID)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerGateInjectsPrincipal(t *testing.T) {
	stableID := uuid.New()
	user := &auth.Principal{ID: uuid.New(), StableID: stableID, Nickname: "Rider", Roles: "admin,member"}

	tokens := &validatorStub{validate: func(token string) (string, error) {
		if token != "valid-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return stableID.String(), nil
	}}
	directory := &loaderStub{findByStableID: func(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
		if id != stableID {
			t.Fatalf("unexpected stable id %s", id)
		}
		return user, nil
	}}

	gate := newBearerAuthMiddleware(tokens, directory, discardLogger())
	next := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			t.Fatal("expected principal in context")
		}
		if principal.User.StableID != stableID {
			t.Fatalf("expected stable id %s, got %s", stableID, principal.User.StableID)
		}
		if len(principal.Roles) != 2 || principal.Roles[0] != "admin" {
			t.Fatalf("unexpected roles %v", principal.Roles)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestBearerGatePassesThroughWithoutCredential(t *testing.T) {
	tokens := &validatorStub{validate: func(string) (string, error) {
		t.Fatal("validator must not run without a credential")
		return "", nil
	}}
	directory := &loaderStub{findByStableID: func(context.Context, uuid.UUID) (*auth.Principal, error) {
		t.Fatal("directory must not run without a credential")
		return nil, nil
	}}

	gate := newBearerAuthMiddleware(tokens, directory, discardLogger())
	next := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) != nil {
			t.Fatal("expected no principal in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected the gate to hand the request on, got %d", rec.Code)
	}
}

func TestBearerGatePassesThroughInvalidToken(t *testing.T) {
	tokens := &validatorStub{validate: func(string) (string, error) {
		return "", auth.ErrInvalidToken
	}}
	directory := &loaderStub{findByStableID: func(context.Context, uuid.UUID) (*auth.Principal, error) {
		t.Fatal("directory must not run for a rejected token")
		return nil, nil
	}}

	gate := newBearerAuthMiddleware(tokens, directory, discardLogger())
	reached := false
	next := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if PrincipalFromContext(r.Context()) != nil {
			t.Fatal("expected no principal for invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	req.Header.Set("Authorization", "Bearer tampered")
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if !reached {
		t.Fatal("expected the gate to hand the request to the next stage")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 from next stage, got %d", rec.Code)
	}
}

func TestBearerGatePassesThroughMissingPrincipal(t *testing.T) {
	stableID := uuid.New()
	tokens := &validatorStub{validate: func(string) (string, error) {
		return stableID.String(), nil
	}}
	directory := &loaderStub{findByStableID: func(context.Context, uuid.UUID) (*auth.Principal, error) {
		return nil, auth.ErrNotFound
	}}

	gate := newBearerAuthMiddleware(tokens, directory, discardLogger())
	next := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) != nil {
			t.Fatal("expected no principal when the directory has none")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	req.Header.Set("Authorization", "Bearer valid-but-orphaned")
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestBearerGatePassesThroughDirectoryFailure(t *testing.T) {
	tokens := &validatorStub{validate: func(string) (string, error) {
		return uuid.New().String(), nil
	}}
	directory := &loaderStub{findByStableID: func(context.Context, uuid.UUID) (*auth.Principal, error) {
		return nil, errors.New("connection refused")
	}}

	gate := newBearerAuthMiddleware(tokens, directory, discardLogger())
	next := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected the gate not to write a response, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsUnauthenticated(t *testing.T) {
	next := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a principal")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected WWW-Authenticate header, got %q", rec.Header().Get("WWW-Authenticate"))
	}
}

func TestRequireAuthAdmitsAuthenticated(t *testing.T) {
	next := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	principal := &Principal{User: &auth.Principal{ID: uuid.New(), StableID: uuid.New()}}
	req := httptest.NewRequest(http.MethodGet, "/api/motorcycles", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestBearerTokenParsing(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer ", ""},
		{"extra whitespace", "Bearer   abc123  ", "abc123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := bearerToken(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
