package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is an outbound request body: {token?, ...action fields}
type Envelope map[string]any

// NewEnvelope builds the envelope for a token-carrying action. An empty token is omitted.
func NewEnvelope(token string) Envelope {
	env := Envelope{}
	if token != "" {
		env["token"] = token
	}
	return env
}

// Merge copies payload fields into the envelope without letting them override the token
func (e Envelope) Merge(payload map[string]any) Envelope {
	for k, v := range payload {
		if k == "token" {
			continue
		}
		e[k] = v
	}
	return e
}

// ResponseHead is the part of a remote authority response every action shares
type ResponseHead struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// DecodeResponseHead reads the {success, token?} head of a remote authority response.
// A body that is not a JSON object, or lacks a boolean success field, is malformed.
func DecodeResponseHead(body []byte) (*ResponseHead, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformedResponse, err)
	}

	successRaw, ok := raw["success"]
	if !ok {
		return nil, fmt.Errorf("%w: missing success field", ErrUpstreamMalformedResponse)
	}

	head := &ResponseHead{}
	if err := json.Unmarshal(successRaw, &head.Success); err != nil {
		return nil, fmt.Errorf("%w: success is not a boolean", ErrUpstreamMalformedResponse)
	}

	// only a JSON string counts as a token; numbers, objects and null leave it empty
	var token any
	if err := json.Unmarshal(raw["token"], &token); err == nil {
		head.Token, _ = token.(string)
	}

	return head, nil
}
