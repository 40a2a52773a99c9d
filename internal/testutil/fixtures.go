package testutil

import (
	"fmt"
	"sync/atomic"

	"foresttime-admin/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// EmployeeOptions allows customizing employee fixture creation
type EmployeeOptions struct {
	ID             string
	Name           string
	EmployeeNumber string
	Department     string
	IsActive       bool
}

// NewTestEmployee creates a test employee with sensible defaults
// Pass options to override specific fields
func NewTestEmployee(opts ...func(*EmployeeOptions)) *domain.Employee {
	o := &EmployeeOptions{
		ID:         nextID("emp"),
		Department: "森林管理部",
		IsActive:   true,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Name == "" {
		o.Name = fmt.Sprintf("作業員%d", idCounter.Load())
	}
	if o.EmployeeNumber == "" {
		o.EmployeeNumber = fmt.Sprintf("EMP%03d", idCounter.Load())
	}

	return &domain.Employee{
		ID:             o.ID,
		Name:           o.Name,
		EmployeeNumber: o.EmployeeNumber,
		Department:     o.Department,
		Position:       "作業員",
		PhoneNumber:    "090-0000-0000",
		HireDate:       "2024-04-01",
		IsActive:       o.IsActive,
	}
}

// WithEmployeeID sets the employee ID
func WithEmployeeID(id string) func(*EmployeeOptions) {
	return func(o *EmployeeOptions) {
		o.ID = id
	}
}

// WithEmployeeName sets the employee name
func WithEmployeeName(name string) func(*EmployeeOptions) {
	return func(o *EmployeeOptions) {
		o.Name = name
	}
}

// WithEmployeeNumber sets the employee number
func WithEmployeeNumber(number string) func(*EmployeeOptions) {
	return func(o *EmployeeOptions) {
		o.EmployeeNumber = number
	}
}

// WithInactive marks the employee as no longer active
func WithInactive() func(*EmployeeOptions) {
	return func(o *EmployeeOptions) {
		o.IsActive = false
	}
}

// WorkAreaOptions allows customizing work area fixture creation
type WorkAreaOptions struct {
	ID     string
	Name   string
	Center domain.LatLng
	Radius float64
	Color  string
}

// NewTestWorkArea creates a test work area with sensible defaults
func NewTestWorkArea(opts ...func(*WorkAreaOptions)) *domain.WorkArea {
	o := &WorkAreaOptions{
		ID:     nextID("area"),
		Center: domain.LatLng{Lat: 35.6762, Lng: 139.6503},
		Radius: 100,
		Color:  "#3b82f6",
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Name == "" {
		o.Name = fmt.Sprintf("作業エリア%d", idCounter.Load())
	}

	center := o.Center
	return &domain.WorkArea{
		ID:     o.ID,
		Name:   o.Name,
		Center: &center,
		Radius: o.Radius,
		Color:  o.Color,
	}
}

// WithWorkAreaID sets the work area ID
func WithWorkAreaID(id string) func(*WorkAreaOptions) {
	return func(o *WorkAreaOptions) {
		o.ID = id
	}
}

// WithWorkAreaName sets the work area name
func WithWorkAreaName(name string) func(*WorkAreaOptions) {
	return func(o *WorkAreaOptions) {
		o.Name = name
	}
}

// WithRadius sets the geofence radius in meters
func WithRadius(radius float64) func(*WorkAreaOptions) {
	return func(o *WorkAreaOptions) {
		o.Radius = radius
	}
}

// WithCenter sets the geofence center
func WithCenter(lat, lng float64) func(*WorkAreaOptions) {
	return func(o *WorkAreaOptions) {
		o.Center = domain.LatLng{Lat: lat, Lng: lng}
	}
}

// NewTestWorkSession creates a completed work session for an employee in an area
func NewTestWorkSession(userID, workArea string) *domain.WorkSession {
	return &domain.WorkSession{
		SessionID:         nextID("session"),
		UserID:            userID,
		WorkArea:          workArea,
		StartTime:         "2024-09-01T08:00:00+09:00",
		EndTime:           "2024-09-01T17:00:00+09:00",
		TotalWorkDuration: "8:00",
		TotalBreakTime:    "1:00",
		StepCount:         12000,
		DistanceTraveled:  "8.4",
		SyncTimestamp:     "2024-09-01T17:05:00+09:00",
		DeviceInfo:        "Android 14",
		WeatherInfo:       "晴れ",
		SessionStatus:     "completed",
	}
}

// DefaultEmployees mirrors the development data set the remote authority serves
func DefaultEmployees() []*domain.Employee {
	return []*domain.Employee{
		{ID: "1", Name: "田中太郎", EmployeeNumber: "EMP001", Department: "森林管理部", Position: "主任", PhoneNumber: "090-1234-5678", Email: "tanaka@forestry.co.jp", HireDate: "2020-04-01", IsActive: true},
		{ID: "2", Name: "佐藤花子", EmployeeNumber: "EMP002", Department: "森林管理部", Position: "作業員", PhoneNumber: "090-2345-6789", HireDate: "2021-06-15", IsActive: true},
		{ID: "3", Name: "鈴木一郎", EmployeeNumber: "EMP003", Department: "森林管理部", Position: "作業員", PhoneNumber: "090-3456-7890", HireDate: "2022-03-10", IsActive: true},
	}
}

// DefaultWorkAreas mirrors the development data set the remote authority serves
func DefaultWorkAreas() []*domain.WorkArea {
	return []*domain.WorkArea{
		NewTestWorkArea(WithWorkAreaID("1"), WithWorkAreaName("北山作業エリア"), WithCenter(35.6762, 139.6503), WithRadius(100)),
		NewTestWorkArea(WithWorkAreaID("2"), WithWorkAreaName("南山作業エリア"), WithCenter(35.6662, 139.6403), WithRadius(150)),
	}
}

// ResetIDCounter resets the ID counter (useful for deterministic tests)
func ResetIDCounter() {
	idCounter.Store(0)
}
