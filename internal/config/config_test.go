package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if len(cfg.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.WebSocket.AllowedOrigins)
	}

	if cfg.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.WebSocket.MaxMessageSize)
	}

	if cfg.Icons.DefaultSize != 6 || cfg.Icons.DefaultMisc != 2 {
		t.Errorf("expected size 6 and misc 2 defaults, got %+v", cfg.Icons)
	}

	if cfg.Admin.Enabled() {
		t.Error("expected admin endpoints disabled by default")
	}

	if cfg.Cache.Enabled {
		t.Error("expected render cache disabled by default")
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	// Should return defaults
	if len(cfg.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "server.yaml")

	content := `
http:
  address: "127.0.0.1:9000"
icons:
  default_size: 8
atlas:
  dir: "textures"
  tile_width: 64
cache:
  enabled: true
  driver: postgres
  postgres:
    host: db
    port: 5433
websocket:
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  max_message_size: 8192
rate_limit:
  max_requests: 10
admin:
  token_hash: "$2a$12$abc"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.WebSocket.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.WebSocket.AllowedOrigins))
	}

	if cfg.WebSocket.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("expected first origin 'https://example.com', got %s", cfg.WebSocket.AllowedOrigins[0])
	}

	if cfg.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.WebSocket.MaxMessageSize)
	}

	if cfg.HTTP.Address != "127.0.0.1:9000" {
		t.Errorf("expected address 127.0.0.1:9000, got %s", cfg.HTTP.Address)
	}
	if cfg.Icons.DefaultSize != 8 {
		t.Errorf("expected default size 8, got %d", cfg.Icons.DefaultSize)
	}
	if cfg.Atlas.Dir != "textures" || cfg.Atlas.TileWidth != 64 {
		t.Errorf("unexpected atlas config %+v", cfg.Atlas)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Driver != "postgres" || cfg.Cache.Postgres.Host != "db" {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("expected max requests 10, got %d", cfg.RateLimit.MaxRequests)
	}
	if !cfg.Admin.Enabled() {
		t.Error("expected admin endpoints enabled by token hash")
	}
}

func TestLoadConfig_KeepsDefaultsForMissingKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(configPath, []byte("icons:\n  default_misc: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Icons.DefaultMisc != 5 {
		t.Errorf("expected default misc 5, got %d", cfg.Icons.DefaultMisc)
	}
	// Keys absent from the file keep their defaults
	if cfg.Icons.DefaultSize != 6 || cfg.Icons.MaxInputLength != 63 {
		t.Errorf("defaults lost: %+v", cfg.Icons)
	}
	if cfg.Atlas.TileHeight != 128 {
		t.Errorf("expected tile height 128, got %d", cfg.Atlas.TileHeight)
	}
	if cfg.Cache.Postgres.Port != 5432 {
		t.Errorf("expected postgres port 5432, got %d", cfg.Cache.Postgres.Port)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(configPath, []byte("http: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg == nil || cfg.HTTP.Address != ":8080" {
		t.Error("expected default config alongside the parse error")
	}
}

func TestHTTPDurations(t *testing.T) {
	c := HTTPConfig{ReadTimeoutSeconds: 2, WriteTimeoutSeconds: 3, ShutdownSeconds: 4}
	if c.ReadTimeout() != 2*time.Second || c.WriteTimeout() != 3*time.Second || c.ShutdownTimeout() != 4*time.Second {
		t.Errorf("unexpected durations %v %v %v", c.ReadTimeout(), c.WriteTimeout(), c.ShutdownTimeout())
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	// Same origin (no Origin header)
	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}

	// Same origin (matching host)
	if !cfg.IsOriginAllowed("http://localhost:4000", "localhost:4000") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}

	// Different origin should be rejected
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{"*"},
	}

	// Wildcard allows everything
	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4000") {
		t.Error("expected wildcard to allow any origin")
	}

	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected wildcard to allow empty origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	// Exact matches
	if !cfg.IsOriginAllowed("https://example.com", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}

	if !cfg.IsOriginAllowed("http://localhost:3000", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}

	// Non-matching origin
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected non-matching origin to be rejected")
	}

	// Partial match should not work
	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:4000") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},                                // No origin header
		{"http://localhost:4000", "localhost:4000", true},           // HTTP match
		{"https://localhost:4000", "localhost:4000", true},          // HTTPS match
		{"http://localhost:4000/", "localhost:4000", true},          // Trailing slash
		{"http://example.com", "localhost:4000", false},             // Different host
		{"http://localhost:3000", "localhost:4000", false},          // Different port
		{"ws://localhost:4000", "localhost:4000", true},             // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}

func TestTokenValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  AdminConfig
		token   string
		wantErr bool
	}{
		{
			name:    "valid token with all requirements",
			config:  AdminConfig{MinTokenLength: 16, RequireDigit: true, RequireMixedCase: true},
			token:   "CaveJungle2Volcana",
			wantErr: false,
		},
		{
			name:    "too short",
			config:  AdminConfig{MinTokenLength: 16},
			token:   "Short1",
			wantErr: true,
		},
		{
			name:    "default minimum applies",
			config:  AdminConfig{},
			token:   "fifteen-chars-x",
			wantErr: true,
		},
		{
			name:    "missing digit",
			config:  AdminConfig{MinTokenLength: 8, RequireDigit: true},
			token:   "NoDigitsHere",
			wantErr: true,
		},
		{
			name:    "missing upper case",
			config:  AdminConfig{MinTokenLength: 8, RequireMixedCase: true},
			token:   "lowercase1234",
			wantErr: true,
		},
		{
			name:    "whitespace rejected",
			config:  AdminConfig{MinTokenLength: 8},
			token:   "has a space in it",
			wantErr: true,
		},
		{
			name:    "minimal requirements only",
			config:  AdminConfig{MinTokenLength: 4},
			token:   "test",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.ValidateToken(tt.token)
			gotErr := result != ""
			if gotErr != tt.wantErr {
				t.Errorf("ValidateToken(%q) error = %v, wantErr %v (msg: %s)",
					tt.token, gotErr, tt.wantErr, result)
			}
		})
	}
}

func TestTokenValidation_MessageNamesLength(t *testing.T) {
	cfg := AdminConfig{MinTokenLength: 20}
	msg := cfg.ValidateToken("short")
	if !strings.Contains(msg, "20") {
		t.Errorf("expected message to contain '20', got %s", msg)
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{10, "10"},
		{123, "123"},
		{8, "8"},
	}

	for _, tt := range tests {
		result := itoa(tt.input)
		if result != tt.expected {
			t.Errorf("itoa(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "data", "server.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	def := DefaultConfig()
	if cfg.Icons != def.Icons {
		t.Errorf("icons = %+v, want defaults %+v", cfg.Icons, def.Icons)
	}
	if cfg.RateLimit != def.RateLimit {
		t.Errorf("rate_limit = %+v, want defaults %+v", cfg.RateLimit, def.RateLimit)
	}
	if cfg.Connections != def.Connections {
		t.Errorf("connections = %+v, want defaults %+v", cfg.Connections, def.Connections)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Driver != "sqlite" {
		t.Errorf("cache = %+v, want the sqlite cache enabled", cfg.Cache)
	}
	if cfg.Admin.Enabled() {
		t.Error("shipped config should leave admin disabled")
	}
}
