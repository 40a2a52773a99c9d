package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAPISpecPath = "../../artifacts/openapi.yaml"

func loadOpenAPIDoc(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromFile(openAPISpecPath)
	require.NoError(t, err, "Failed to load OpenAPI spec")
	return doc
}

func TestOpenAPISpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(openAPISpecPath)
	require.NoError(t, err, "Failed to load OpenAPI spec")
	require.NoError(t, doc.Validate(loader.Context), "OpenAPI spec validation failed")

	assert.Equal(t, "ForestTime Admin Gateway API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotEmpty(t, doc.Servers, "At least one server should be defined")
}

func TestAllRoutesAreDocumentedInOpenAPI(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	implementedRoutes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/login"},
		{"POST", "/api/logout"},
		{"POST", "/api/getAllEmployees"},
		{"POST", "/api/addEmployee"},
		{"POST", "/api/deleteEmployee"},
		{"POST", "/api/getAllAreas"},
		{"POST", "/api/addArea"},
		{"POST", "/api/deleteArea"},
		{"POST", "/api/getAllWorksessions"},
		{"GET", "/health"},
		{"GET", "/health/ready"},
	}

	for _, route := range implementedRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			pathItem := doc.Paths.Find(route.path)
			require.NotNil(t, pathItem, "Path not found in OpenAPI spec: %s", route.path)

			operation := pathItem.GetOperation(route.method)
			require.NotNil(t, operation, "Operation not found in OpenAPI spec: %s %s", route.method, route.path)

			assert.NotEmpty(t, operation.OperationID, "OperationID should be set")
			assert.NotEmpty(t, operation.Tags, "Tags should be set")
			assert.NotEmpty(t, operation.Responses, "Responses should be defined")
		})
	}

	assert.Len(t, doc.Paths.Map(), len(implementedRoutes), "Number of paths should match")
}

func TestOpenAPISecuritySchemes(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	require.NotNil(t, doc.Components.SecuritySchemes, "Security schemes should be defined")

	cookieAuth := doc.Components.SecuritySchemes["cookieAuth"]
	require.NotNil(t, cookieAuth, "cookieAuth security scheme should exist")
	assert.Equal(t, "apiKey", cookieAuth.Value.Type)
	assert.Equal(t, "cookie", cookieAuth.Value.In)
	assert.Equal(t, "token", cookieAuth.Value.Name)
}

func TestOpenAPISchemas(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	requiredSchemas := []string{
		"LoginRequest",
		"SuccessResponse",
		"FailureResponse",
		"Employee",
		"WorkArea",
		"WorkSession",
		"DeleteEmployeeRequest",
		"DeleteAreaRequest",
	}

	for _, schemaName := range requiredSchemas {
		schema := doc.Components.Schemas[schemaName]
		assert.NotNil(t, schema, "Schema should exist: %s", schemaName)
	}
}

func TestProtectedRoutesHaveAuth(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	protectedRoutes := []string{
		"/api/getAllEmployees",
		"/api/addEmployee",
		"/api/deleteEmployee",
		"/api/getAllAreas",
		"/api/addArea",
		"/api/deleteArea",
		"/api/getAllWorksessions",
	}

	for _, path := range protectedRoutes {
		t.Run(path, func(t *testing.T) {
			pathItem := doc.Paths.Find(path)
			require.NotNil(t, pathItem)

			operation := pathItem.GetOperation("POST")
			require.NotNil(t, operation)
			require.NotNil(t, operation.Security, "Protected route should have security requirement: %s", path)

			hasCookieAuth := false
			for _, secReq := range *operation.Security {
				if _, ok := secReq["cookieAuth"]; ok {
					hasCookieAuth = true
					break
				}
			}
			assert.True(t, hasCookieAuth, "Protected route should use cookieAuth: %s", path)
			assert.NotNil(t, operation.Responses.Status(http.StatusUnauthorized), "Protected route should document 401")
			assert.NotNil(t, operation.Responses.Status(http.StatusServiceUnavailable), "Protected route should document 503")
		})
	}
}

func TestPublicRoutesNoAuth(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	publicRoutes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/login"},
		{"POST", "/api/logout"},
		{"GET", "/health"},
		{"GET", "/health/ready"},
	}

	for _, route := range publicRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			pathItem := doc.Paths.Find(route.path)
			require.NotNil(t, pathItem)

			operation := pathItem.GetOperation(route.method)
			require.NotNil(t, operation)

			if operation.Security != nil {
				assert.Empty(t, *operation.Security, "Public route should not have security requirement: %s %s", route.method, route.path)
			}
		})
	}
}

func TestOpenAPILoginResponseCodes(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	operation := doc.Paths.Find("/api/login").GetOperation("POST")
	require.NotNil(t, operation)

	for _, status := range []int{200, 400, 401, 429, 502, 503} {
		assert.NotNil(t, operation.Responses.Status(status), "login should document %d", status)
	}

	content := operation.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, content, "Should have application/json content")
	assert.NotEmpty(t, content.Examples, "Examples help with API documentation")
}

func TestShouldSkipPath(t *testing.T) {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/api/logout",
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/health", true},
		{"/health/ready", true},
		{"/healthz", false},
		{"/metrics", true},
		{"/api/logout", true},
		{"/api/login", false},
		{"/api/addArea", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldSkipPath(tt.path, skipPaths))
		})
	}
}

func TestDefaultOpenAPIValidatorConfig(t *testing.T) {
	config := DefaultOpenAPIValidatorConfig(true, "")

	assert.True(t, config.Enabled)
	assert.Equal(t, "artifacts/openapi.yaml", config.SpecPath)

	skipPathsStr := strings.Join(config.SkipPaths, ",")
	assert.Contains(t, skipPathsStr, "/health")
	assert.Contains(t, skipPathsStr, "/metrics")

	custom := DefaultOpenAPIValidatorConfig(false, "/etc/gateway/openapi.yaml")
	assert.False(t, custom.Enabled)
	assert.Equal(t, "/etc/gateway/openapi.yaml", custom.SpecPath)
}

func TestOpenAPIMiddlewareWithInvalidSpec(t *testing.T) {
	config := &OpenAPIValidatorConfig{
		Enabled:  true,
		SpecPath: "/nonexistent/path/to/spec.yaml",
	}

	// Falls back to a pass-through middleware
	handler := OpenAPIValidator(config)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/addArea", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOpenAPIMiddlewareDisabled(t *testing.T) {
	handler := OpenAPIValidator(&OpenAPIValidatorConfig{Enabled: false})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/addArea", strings.NewReader(`not json`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWriteValidationError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeValidationError(rr, "Request validation failed: radius below minimum")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"success":false,"error":"invalid_request","detail":"Request validation failed: radius below minimum"}`,
		rr.Body.String())
}

func TestNewAPIValidator_MissingDocument(t *testing.T) {
	_, err := NewAPIValidator("/nonexistent/openapi.yaml", nil)
	assert.Error(t, err)
}

func TestOpenAPIMiddleware_ValidatesRequestBodies(t *testing.T) {
	cfg := DefaultOpenAPIValidatorConfig(true, openAPISpecPath)
	handler := OpenAPIValidator(cfg)(okHandler())

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid work area",
			path:       "/api/addArea",
			body:       `{"name":"北山作業エリア","center":{"lat":35.6762,"lng":139.6503},"radius":100}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "work area without name",
			path:       "/api/addArea",
			body:       `{"center":{"lat":35.6762,"lng":139.6503},"radius":100}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "latitude out of range",
			path:       "/api/addArea",
			body:       `{"name":"north","center":{"lat":135,"lng":139.6503},"radius":100}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "radius below one metre",
			path:       "/api/addArea",
			body:       `{"name":"north","center":{"lat":35,"lng":139},"radius":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "login without password",
			path:       "/api/login",
			body:       `{"username":"admin"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "undocumented api route is left to the router",
			path:       "/api/dropDatabase",
			body:       `{}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "skipped logout",
			path:       "/api/logout",
			body:       `not json`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "pages are never validated",
			path:       "/admin/areas",
			body:       `not json`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus == http.StatusBadRequest {
				assert.Contains(t, rr.Body.String(), `"error":"invalid_request"`)
			}
		})
	}
}
