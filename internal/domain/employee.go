package domain

import (
	"fmt"
	"strings"
)

// Employee is a field worker record held by the remote authority
type Employee struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employeeNumber"`
	Department     string `json:"department,omitempty"`
	Position       string `json:"position,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Email          string `json:"email,omitempty"`
	HireDate       string `json:"hireDate,omitempty"`
	IsActive       bool   `json:"isActive"`
}

func (e *Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: employee name is required", ErrInvalidLocalRequest)
	}
	if strings.TrimSpace(e.EmployeeNumber) == "" {
		return fmt.Errorf("%w: employee number is required", ErrInvalidLocalRequest)
	}
	return nil
}

// payloadSchemas decode a payload into its record, validate it and return the record's
// own fields, so unknown keys never reach the remote authority.
var payloadSchemas = map[string]func(map[string]any) (map[string]any, error){
	"employee": func(payload map[string]any) (map[string]any, error) {
		// an employee is created active unless the admin says otherwise
		e := Employee{IsActive: true}
		if err := decodeInto(payload, &e); err != nil {
			return nil, err
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		return recordFields(e)
	},
	"workarea": func(payload map[string]any) (map[string]any, error) {
		var w WorkArea
		if err := decodeInto(payload, &w); err != nil {
			return nil, err
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		return recordFields(w)
	},
}
