package service

import (
	"context"

	"foresttime-admin/internal/authority"
)

// Caller sends one action to the remote authority
type Caller interface {
	Call(ctx context.Context, action string, body any) (*authority.Result, error)
}
