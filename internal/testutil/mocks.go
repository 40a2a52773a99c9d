// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the ForestTime admin gateway.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Credentials and token accepted by MockAuthority by default
const (
	MockUsername = "admin"
	MockPassword = "admin123"
	MockToken    = "test-token"
)

// AuthorityRequest is one request received by MockAuthority
type AuthorityRequest struct {
	Action      string
	ContentType string
	Body        map[string]any
}

// MockAuthority is an in-process remote authority. Every request is
// POST /?action={name} with a JSON body; answers follow the development data set
// unless an action is overridden with Handle.
type MockAuthority struct {
	Server *httptest.Server

	mu        sync.Mutex
	handlers  map[string]http.HandlerFunc
	requests  []AuthorityRequest
	tokens    map[string]bool
	employees []any
	areas     []any
}

// NewMockAuthority starts a mock remote authority that is closed with the test
func NewMockAuthority(t *testing.T) *MockAuthority {
	t.Helper()

	m := &MockAuthority{
		handlers: make(map[string]http.HandlerFunc),
		tokens:   map[string]bool{MockToken: true},
	}
	for _, e := range DefaultEmployees() {
		m.employees = append(m.employees, e)
	}
	for _, a := range DefaultWorkAreas() {
		m.areas = append(m.areas, a)
	}

	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the remote authority base URL
func (m *MockAuthority) URL() string {
	return m.Server.URL
}

// Handle overrides the answer for one action
func (m *MockAuthority) Handle(action string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[action] = h
}

// RespondRaw makes action answer with the given status and raw body
func (m *MockAuthority) RespondRaw(action string, status int, body string) {
	m.Handle(action, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// RevokeToken makes checkToken and every token-carrying action reject token
func (m *MockAuthority) RevokeToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

// Calls returns how many requests named action were received
func (m *MockAuthority) Calls(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, req := range m.requests {
		if req.Action == action {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of requests received for any action
func (m *MockAuthority) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request named action, or nil
func (m *MockAuthority) LastRequest(action string) *AuthorityRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].Action == action {
			req := m.requests[i]
			return &req
		}
	}
	return nil
}

func (m *MockAuthority) serve(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	var body map[string]any
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &body)

	m.mu.Lock()
	m.requests = append(m.requests, AuthorityRequest{
		Action:      action,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	override := m.handlers[action]
	m.mu.Unlock()

	if override != nil {
		override(w, r)
		return
	}

	writeAuthorityJSON(w, m.answer(action, body))
}

func (m *MockAuthority) answer(action string, body map[string]any) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action == "login" {
		if body["username"] == MockUsername && body["password"] == MockPassword {
			return map[string]any{"success": true, "token": MockToken}
		}
		return map[string]any{"success": false}
	}

	token, _ := body["token"].(string)
	if !m.tokens[token] {
		return map[string]any{"success": false}
	}

	switch action {
	case "checkToken":
		return map[string]any{"success": true}
	case "getAllEmployees":
		return map[string]any{"success": true, "employees": m.employees}
	case "getAllWorkareas":
		return map[string]any{"success": true, "workareas": m.areas}
	case "getAllWorksessions":
		return map[string]any{"success": true, "worksessions": []any{
			NewTestWorkSession("1", "北山作業エリア"),
		}}
	case "addEmployee":
		m.employees = append(m.employees, body["employee"])
		return map[string]any{"success": true}
	case "addWorkarea":
		m.areas = append(m.areas, body["area"])
		return map[string]any{"success": true}
	case "deleteEmployee", "deleteWorkarea":
		return map[string]any{"success": true}
	default:
		return map[string]any{"success": false}
	}
}

func writeAuthorityJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
