package service

import (
	"context"
	"errors"
	"fmt"

	"foresttime-admin/internal/authority"
	"foresttime-admin/internal/domain"
)

type recordedCall struct {
	action string
	body   any
}

// mockCaller implements Caller for testing
type mockCaller struct {
	callFunc func(ctx context.Context, action string, body any) (*authority.Result, error)
	calls    []recordedCall
}

func (m *mockCaller) Call(ctx context.Context, action string, body any) (*authority.Result, error) {
	m.calls = append(m.calls, recordedCall{action: action, body: body})
	if m.callFunc != nil {
		return m.callFunc(ctx, action, body)
	}
	return nil, errors.New("not implemented")
}

// respond returns a callFunc answering every action with raw
func respond(raw string) func(context.Context, string, any) (*authority.Result, error) {
	return func(ctx context.Context, action string, body any) (*authority.Result, error) {
		head, err := domain.DecodeResponseHead([]byte(raw))
		if err != nil {
			return nil, err
		}
		res := &authority.Result{Head: head, Body: []byte(raw)}
		if !head.Success {
			return res, fmt.Errorf("%s: %w", action, domain.ErrUpstreamRejected)
		}
		return res, nil
	}
}

func fail(err error) func(context.Context, string, any) (*authority.Result, error) {
	return func(ctx context.Context, action string, body any) (*authority.Result, error) {
		return nil, err
	}
}
