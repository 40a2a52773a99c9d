package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"foresttime-admin/internal/testutil"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		shouldAllow    bool
	}{
		{
			name:           "allowed origin",
			allowedOrigins: []string{"http://localhost:3000", "https://admin.foresttime.example"},
			requestOrigin:  "http://localhost:3000",
			shouldAllow:    true,
		},
		{
			name:           "allowed second origin",
			allowedOrigins: []string{"http://localhost:3000", "https://admin.foresttime.example"},
			requestOrigin:  "https://admin.foresttime.example",
			shouldAllow:    true,
		},
		{
			name:           "disallowed origin",
			allowedOrigins: []string{"http://localhost:3000"},
			requestOrigin:  "http://malicious.com",
			shouldAllow:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.allowedOrigins)(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/getAllEmployees", nil)
			req.Header.Set("Origin", tt.requestOrigin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			testutil.AssertStatusCode(t, w, http.StatusOK)
			if tt.shouldAllow {
				testutil.AssertHeader(t, w, "Access-Control-Allow-Origin", tt.requestOrigin)
				testutil.AssertHeader(t, w, "Access-Control-Allow-Credentials", "true")
			} else {
				testutil.AssertHeader(t, w, "Access-Control-Allow-Origin", "")
			}
		})
	}
}

func TestCORS_PreflightRequest(t *testing.T) {
	nextHandlerCalled := false
	handler := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/addArea", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertFalse(t, nextHandlerCalled, "preflight should not reach the handler")
	testutil.AssertHeader(t, w, "Access-Control-Allow-Origin", "http://localhost:3000")
	testutil.AssertHeaderContains(t, w, "Access-Control-Allow-Methods", http.MethodPost)
	testutil.AssertHeader(t, w, "Access-Control-Allow-Credentials", "true")
}

func TestCORS_PreflightWithDisallowedOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/addArea", nil)
	req.Header.Set("Origin", "http://malicious.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertHeader(t, w, "Access-Control-Allow-Origin", "")
}

func TestCORS_NoOriginHeader(t *testing.T) {
	nextHandlerCalled := false
	handler := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/employees", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertTrue(t, nextHandlerCalled, "same-origin request should pass through")
	testutil.AssertHeader(t, w, "Access-Control-Allow-Origin", "")
}
