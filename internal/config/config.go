package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// maxUpstreamTimeout bounds UPSTREAM_TIMEOUT so a hung remote authority cannot stall requests
const maxUpstreamTimeout = 60 * time.Second

// Config holds application configuration
type Config struct {
	Port              string
	GASURL            string // remote authority base URL
	UpstreamTimeout   time.Duration
	AllowedOrigins    []string
	ProtectedPaths    []string
	StaticDir         string
	ActionsFile       string // empty means the embedded action table
	OpenAPIValidation bool
	OpenAPISpecPath   string
	LoginRateLimit    float64
	LoginRateBurst    int
	Environment       string // development, staging, production
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GASURL:            getEnv("GAS_URL", ""),
		UpstreamTimeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		AllowedOrigins:    ParseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		ProtectedPaths:    ParseList(getEnv("PROTECTED_PATHS", "/admin")),
		StaticDir:         getEnv("STATIC_DIR", "./web"),
		ActionsFile:       getEnv("ACTIONS_FILE", ""),
		OpenAPIValidation: getEnvAsBool("OPENAPI_VALIDATION", false),
		OpenAPISpecPath:   getEnv("OPENAPI_SPEC_PATH", "artifacts/openapi.yaml"),
		LoginRateLimit:    getEnvAsFloat("LOGIN_RATE_LIMIT", 5),
		LoginRateBurst:    int(getEnvAsFloat("LOGIN_RATE_BURST", 10)),
		Environment:       getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	if c.GASURL == "" {
		return fmt.Errorf("GAS_URL must be set")
	}

	u, err := url.Parse(c.GASURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("GAS_URL must be an absolute http(s) URL, got %q", c.GASURL)
	}

	// Session tokens travel in the request body, so production must not downgrade to http
	if c.IsProduction() && u.Scheme != "https" {
		return fmt.Errorf("GAS_URL must use https in production")
	}

	if c.UpstreamTimeout <= 0 || c.UpstreamTimeout > maxUpstreamTimeout {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be between 0 and %s (got %s)", maxUpstreamTimeout, c.UpstreamTimeout)
	}

	if len(c.ProtectedPaths) == 0 {
		return fmt.Errorf("PROTECTED_PATHS must name at least one path")
	}
	for _, p := range c.ProtectedPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("protected path %q must start with /", p)
		}
		// the login page is served at /, so the root cannot sit behind the gate
		if strings.TrimRight(p, "/") == "" {
			return fmt.Errorf("protected path %q would gate the login page; name a prefix such as /admin", p)
		}
	}

	if c.LoginRateLimit <= 0 || c.LoginRateBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_BURST must be positive")
	}

	for _, origin := range c.InsecureOrigins() {
		log.Printf("WARNING: ALLOWED_ORIGINS entry %q is not https; browsers will not send the Secure session cookie from it", origin)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

// InsecureOrigins lists plain-http CORS origins outside development, where the
// Secure token cookie cannot be used from them
func (c *Config) InsecureOrigins() []string {
	if c.IsDevelopment() {
		return nil
	}
	var insecure []string
	for _, origin := range c.AllowedOrigins {
		if strings.HasPrefix(origin, "http://") {
			insecure = append(insecure, origin)
		}
	}
	return insecure
}

// ParseList splits a comma-separated value, trimming entries and dropping empty ones
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
