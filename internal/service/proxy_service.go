package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"foresttime-admin/internal/domain"

	"github.com/google/uuid"
)

// maxRequestBytes caps the local request body of a relayed action
const maxRequestBytes = 1 << 20

// ProxyService relays table-driven actions to the remote authority
type ProxyService struct {
	authority Caller
}

func NewProxyService(authority Caller) *ProxyService {
	return &ProxyService{
		authority: authority,
	}
}

// Relay checks the local request, forwards {token, ...payload} to the remote authority and
// returns the raw success body. Only the fields the action declares are forwarded. Nothing is sent upstream unless the token and payload pass.
func (s *ProxyService) Relay(ctx context.Context, spec domain.ActionSpec, token string, body io.Reader) ([]byte, error) {
	if spec.RequiresToken && token == "" {
		return nil, domain.ErrMissingCredential
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	payload, err = spec.UpstreamPayload(payload)
	if err != nil {
		return nil, err
	}

	if spec.GenerateID != "" {
		if v, ok := payload[spec.GenerateID].(string); !ok || v == "" {
			payload[spec.GenerateID] = uuid.New().String()
		}
	}

	env := domain.NewEnvelope(token)
	if spec.PayloadKey != "" {
		env[spec.PayloadKey] = payload
	} else {
		env.Merge(payload)
	}

	res, err := s.authority.Call(ctx, spec.UpstreamAction, env)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// decodePayload reads a JSON object body. An empty body is an empty payload.
func decodePayload(body io.Reader) (map[string]any, error) {
	if body == nil {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, maxRequestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrInvalidLocalRequest, err)
	}
	if len(data) > maxRequestBytes {
		return nil, fmt.Errorf("%w: body too large", domain.ErrInvalidLocalRequest)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", domain.ErrInvalidLocalRequest, err)
	}
	if payload == nil {
		// literal null
		payload = map[string]any{}
	}
	return payload, nil
}
