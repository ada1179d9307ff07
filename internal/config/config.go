package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Icons       IconsConfig       `yaml:"icons"`
	Atlas       AtlasConfig       `yaml:"atlas"`
	Cache       CacheConfig       `yaml:"cache"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Admin       AdminConfig       `yaml:"admin"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	// Address is the host:port to listen on.
	Address string `yaml:"address"`

	// ReadTimeoutSeconds bounds reading a full request.
	ReadTimeoutSeconds int `yaml:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response.
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`

	// ShutdownSeconds is how long in-flight requests get to finish on shutdown.
	ShutdownSeconds int `yaml:"shutdown_seconds"`
}

// ReadTimeout returns the read timeout as a duration.
func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (c HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the drain period as a duration.
func (c HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}

// IconsConfig holds request parameter defaults and limits.
type IconsConfig struct {
	// DefaultSize is the grid size when the request has no size parameter.
	DefaultSize int `yaml:"default_size"`

	// DefaultMisc is the misc attempt count when the request has no misc parameter.
	DefaultMisc int `yaml:"default_misc"`

	// MaxInputLength is the longest accepted input in bytes.
	MaxInputLength int `yaml:"max_input_length"`

	// MinPixels and MaxPixels bound the px parameter.
	MinPixels int `yaml:"min_pixels"`
	MaxPixels int `yaml:"max_pixels"`
}

// AtlasConfig describes where textures come from.
type AtlasConfig struct {
	// Dir is the texture directory. Classic textures live in Dir/classic.
	// Empty means procedurally drawn placeholder atlases.
	Dir string `yaml:"dir"`

	// TileWidth and TileHeight are the atlas cell size in pixels.
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`
}

// CacheConfig holds render cache settings.
type CacheConfig struct {
	// Enabled turns the render cache on.
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// SQLitePath is the SQLite database file.
	SQLitePath string `yaml:"sqlite_path"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings for the cache.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `yaml:"conn_max_lifetime_seconds"`
}

// RateLimitConfig holds per-IP request rate limiting settings.
type RateLimitConfig struct {
	// MaxRequests is the number of requests allowed per window before lockout.
	// 0 disables rate limiting.
	MaxRequests int `yaml:"max_requests"`

	// WindowSeconds is the length of the counting window.
	WindowSeconds int `yaml:"window_seconds"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds is the maximum lockout duration (for exponential backoff).
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// ConnectionsConfig holds WebSocket connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// AdminConfig holds settings for the cache administration endpoints.
type AdminConfig struct {
	// TokenHash is the bcrypt hash of the admin bearer token.
	// Empty disables the admin endpoints.
	TokenHash string `yaml:"token_hash"`

	// MinTokenLength is the minimum token length accepted when hashing (default: 16)
	MinTokenLength int `yaml:"min_token_length"`

	// RequireDigit requires at least one digit in the token
	RequireDigit bool `yaml:"require_digit"`

	// RequireMixedCase requires both upper and lower case letters
	RequireMixedCase bool `yaml:"require_mixed_case"`
}

// Enabled reports whether an admin token is configured.
func (c *AdminConfig) Enabled() bool {
	return c.TokenHash != ""
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a ServerConfig with secure defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
			ShutdownSeconds:     10,
		},
		Icons: IconsConfig{
			DefaultSize:    6,
			DefaultMisc:    2,
			MaxInputLength: 63,
			MinPixels:      16,
			MaxPixels:      2048,
		},
		Atlas: AtlasConfig{
			Dir:        "", // Placeholder atlases
			TileWidth:  128,
			TileHeight: 128,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Driver:     "sqlite",
			SQLitePath: "data/renders.db",
			Postgres: PostgresConfig{
				Host:                   "localhost",
				Port:                   5432,
				SSLMode:                "disable",
				MaxOpenConns:           25,
				MaxIdleConns:           5,
				ConnMaxLifetimeSeconds: 300,
			},
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,   // Default: 3 live previews per IP
			MaxTotal: 100, // Default: 100 total connections
		},
		RateLimit: RateLimitConfig{
			MaxRequests:       120, // Default: 120 requests per window
			WindowSeconds:     60,
			LockoutSeconds:    30,  // Default: 30 second initial lockout
			MaxLockoutSeconds: 300, // Default: 5 minute max lockout
		},
		Admin: AdminConfig{
			MinTokenLength:   16,
			RequireDigit:     true,
			RequireMixedCase: true,
		},
	}
}

// LoadConfig loads server configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		// Wildcard allows all origins
		if allowed == "*" {
			return true
		}
		// Exact match
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	// Remove trailing slash if present
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

// ValidateToken checks if an admin token meets the configured requirements.
// Returns an error message describing what's wrong, or empty string if valid.
func (c *AdminConfig) ValidateToken(token string) string {
	minLen := c.MinTokenLength
	if minLen == 0 {
		minLen = 16 // Default if not set
	}
	if len(token) < minLen {
		return "Token must be at least " + itoa(minLen) + " characters."
	}

	var hasUpper, hasLower, hasDigit, hasSpace bool
	for _, r := range token {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSpace(r):
			hasSpace = true
		}
	}

	if hasSpace {
		return "Token must not contain whitespace."
	}
	if c.RequireMixedCase && (!hasUpper || !hasLower) {
		return "Token must contain both uppercase and lowercase letters."
	}
	if c.RequireDigit && !hasDigit {
		return "Token must contain at least one digit."
	}

	return ""
}

// itoa converts an int to a string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
