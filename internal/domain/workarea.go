package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LatLng is a WGS84 coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WorkArea is a circular geofence employees punch in against
type WorkArea struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Center      *LatLng `json:"center"`
	Radius      float64 `json:"radius"` // meters
	Color       string  `json:"color,omitempty"`
}

// MinWorkAreaRadius is the smallest radius, in meters, accepted for a work area
const MinWorkAreaRadius = 1.0

// Validate checks the fields an admin must provide when creating a work area
func (w *WorkArea) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: work area name is required", ErrInvalidLocalRequest)
	}
	if w.Center == nil {
		return fmt.Errorf("%w: work area center is required", ErrInvalidLocalRequest)
	}
	if w.Center.Lat < -90 || w.Center.Lat > 90 || w.Center.Lng < -180 || w.Center.Lng > 180 {
		return fmt.Errorf("%w: work area center out of range", ErrInvalidLocalRequest)
	}
	if w.Radius < MinWorkAreaRadius {
		return fmt.Errorf("%w: work area radius must be at least %.0fm", ErrInvalidLocalRequest, MinWorkAreaRadius)
	}
	return nil
}

// recordFields turns a typed record back into a generic JSON object
func recordFields(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocalRequest, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocalRequest, err)
	}
	return out, nil
}

// decodeInto re-decodes a generic payload into a typed record
func decodeInto(payload map[string]any, dst any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocalRequest, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocalRequest, err)
	}
	return nil
}
