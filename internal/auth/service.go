package auth

import (
	"context"
	"fmt"

	"log/slog"
)

// AssertionVerifier validates an externally issued identity token and extracts
// normalized claims.
type AssertionVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (*ExternalClaims, error)
}

// Service is the login use case: verify the external assertion, reconcile the
// principal, issue a session token. It owns no state of its own.
type Service struct {
	verifier  AssertionVerifier
	directory *Directory
	tokens    *TokenProvider
	logger    *slog.Logger
}

// NewService wires the login composition.
func NewService(verifier AssertionVerifier, directory *Directory, tokens *TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		verifier:  verifier,
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

// LoginResult is the externally visible outcome of a successful login.
type LoginResult struct {
	AccessToken string
	Principal   *Principal
}

// Login verifies the raw external token, finds or creates the local principal,
// and issues a session token bound to its stable identifier.
//
// Although the provider allows tokens without an email claim, this deployment
// requires one: a verified assertion with no email fails with ErrAuthentication
// before any directory access happens.
func (s *Service) Login(ctx context.Context, rawIDToken string) (*LoginResult, error) {
	claims, err := s.verifier.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	return s.CompleteLogin(ctx, claims)
}

// CompleteLogin runs the post-verification half of the login composition. The
// browser OAuth flow enters here after its own code exchange has produced
// verified claims.
func (s *Service) CompleteLogin(ctx context.Context, claims *ExternalClaims) (*LoginResult, error) {
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: assertion carries no email", ErrAuthentication)
	}

	principal, err := s.directory.FindOrCreate(ctx, claims.Subject, claims.Name, claims.Email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(principal.StableID.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("login successful", "stable_id", principal.StableID, "nickname", principal.Nickname)

	return &LoginResult{
		AccessToken: token,
		Principal:   principal,
	}, nil
}

// Directory exposes the principal directory for the request gate.
func (s *Service) Directory() *Directory {
	return s.directory
}

// Tokens exposes the session token provider for the request gate.
func (s *Service) Tokens() *TokenProvider {
	return s.tokens
}
