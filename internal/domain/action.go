package domain

import (
	"fmt"
	"strings"
)

// ActionSpec describes one relayed action: the local route, the remote action name and
// the shape its payload must have before anything is sent upstream.
type ActionSpec struct {
	Name           string   `yaml:"name"`
	Route          string   `yaml:"route"`
	UpstreamAction string   `yaml:"upstream_action"`
	RequiresToken  bool     `yaml:"requires_token"`
	PayloadKey     string   `yaml:"payload_key"`
	Required       []string `yaml:"required"`
	Fields         []string `yaml:"fields"` // optional fields forwarded alongside required ones
	Schema         string   `yaml:"schema"`
	GenerateID     string   `yaml:"generate_id"`
}

// Validate checks that the table entry itself is usable
func (a ActionSpec) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("action name is required")
	}
	if a.UpstreamAction == "" {
		return fmt.Errorf("action %q: upstream_action is required", a.Name)
	}
	if a.Route == "" || strings.Contains(a.Route, "/") {
		return fmt.Errorf("action %q: route must be a single path segment, got %q", a.Name, a.Route)
	}
	if a.Schema != "" {
		if _, ok := payloadSchemas[a.Schema]; !ok {
			return fmt.Errorf("action %q: unknown schema %q", a.Name, a.Schema)
		}
	}
	return nil
}

// UpstreamPayload checks payload and narrows it to what the remote authority receives.
// Schema actions forward the decoded record; the others forward only their required
// and listed fields. Anything else the client sent is dropped.
func (a ActionSpec) UpstreamPayload(payload map[string]any) (map[string]any, error) {
	for _, field := range a.Required {
		if isBlank(payload[field]) {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidLocalRequest, field)
		}
	}

	if a.Schema != "" {
		return payloadSchemas[a.Schema](payload)
	}

	out := make(map[string]any, len(a.Required)+len(a.Fields))
	for _, fields := range [][]string{a.Required, a.Fields} {
		for _, field := range fields {
			if v, ok := payload[field]; ok && field != "token" {
				out[field] = v
			}
		}
	}
	return out, nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}
