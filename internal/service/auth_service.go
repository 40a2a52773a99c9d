package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foresttime-admin/internal/domain"
)

const (
	actionLogin      = "login"
	actionCheckToken = "checkToken"
)

// AuthService issues and validates sessions through the remote authority.
// It never stores or caches tokens.
type AuthService struct {
	authority Caller
}

func NewAuthService(authority Caller) *AuthService {
	return &AuthService{
		authority: authority,
	}
}

// Login exchanges credentials for a session token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidLocalRequest)
	}

	res, err := s.authority.Call(ctx, actionLogin, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	// A success without a token cannot establish a session
	if res.Head.Token == "" {
		return "", fmt.Errorf("%s: success without token: %w", actionLogin, domain.ErrUpstreamRejected)
	}

	return res.Head.Token, nil
}

// ValidateToken asks the remote authority whether token is still valid. Every failure,
// including transport and decoding errors, is reported as ErrSessionInvalid.
func (s *AuthService) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: %w", domain.ErrSessionInvalid, domain.ErrMissingCredential)
	}

	if _, err := s.authority.Call(ctx, actionCheckToken, domain.NewEnvelope(token)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionInvalid, err)
	}
	return nil
}

// Ping checks that the remote authority answers with a JSON envelope. A rejection still
// proves it is reachable.
func (s *AuthService) Ping(ctx context.Context) error {
	_, err := s.authority.Call(ctx, actionCheckToken, domain.NewEnvelope(""))
	if err != nil && !errors.Is(err, domain.ErrUpstreamRejected) {
		return err
	}
	return nil
}
