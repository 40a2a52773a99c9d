package handler

import (
	"testing"
	"time"

	"foresttime-admin/internal/authority"
	"foresttime-admin/internal/service"
	"foresttime-admin/internal/testutil"
)

// newServices wires the real services against an in-process remote authority
func newServices(t *testing.T, timeout time.Duration) (*testutil.MockAuthority, *service.AuthService, *service.ProxyService) {
	t.Helper()
	mock := testutil.NewMockAuthority(t)
	client := authority.NewClient(mock.URL(), timeout)
	return mock, service.NewAuthService(client), service.NewProxyService(client)
}
