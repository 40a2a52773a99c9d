package config

import (
	_ "embed"
	"fmt"
	"os"

	"foresttime-admin/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed actions.yaml
var defaultActions []byte

// reservedRoutes are served by dedicated handlers
var reservedRoutes = map[string]bool{"login": true, "logout": true}

type actionTable struct {
	Actions []domain.ActionSpec `yaml:"actions"`
}

// LoadActions reads the action table from path, or the embedded table when path is empty
func LoadActions(path string) ([]domain.ActionSpec, error) {
	data := defaultActions
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read actions file: %w", err)
		}
	}
	return ParseActions(data)
}

// ParseActions decodes and validates an action table
func ParseActions(data []byte) ([]domain.ActionSpec, error) {
	var table actionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse actions: %w", err)
	}

	if len(table.Actions) == 0 {
		return nil, fmt.Errorf("action table is empty")
	}

	names := make(map[string]bool, len(table.Actions))
	routes := make(map[string]bool, len(table.Actions))
	for _, a := range table.Actions {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if names[a.Name] {
			return nil, fmt.Errorf("duplicate action name %q", a.Name)
		}
		if routes[a.Route] || reservedRoutes[a.Route] {
			return nil, fmt.Errorf("action %q: route %q is already taken", a.Name, a.Route)
		}
		names[a.Name] = true
		routes[a.Route] = true
	}

	return table.Actions, nil
}
