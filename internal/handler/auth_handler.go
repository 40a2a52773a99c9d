package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/observability"
	"foresttime-admin/internal/service"
)

// maxLoginBytes caps the login request body
const maxLoginBytes = 16 << 10

// AuthHandler handles the session endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials with the remote authority and stores the issued token in
// the session cookie. The token itself never appears in the response body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithAction(r.Context(), "login")
	r = r.WithContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginBytes)).Decode(&req); err != nil {
		writeFailure(w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidLocalRequest, err))
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		status := StatusFor(err)
		if errors.Is(err, domain.ErrUpstreamRejected) {
			status = http.StatusUnauthorized
		}
		writeFailure(w, r, status, err)
		return
	}

	http.SetCookie(w, domain.NewSessionCookie(token))

	observability.FromContext(ctx).Info("login accepted")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie. It never contacts the remote authority and always
// succeeds, with or without a cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, domain.ClearedSessionCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
