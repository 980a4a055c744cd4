package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg == nil {
		t.Fatal("NewDefaultConfig returned nil")
	}

	if cfg.ListenAddr == "" {
		t.Error("ListenAddr should have a default")
	}
	if cfg.RateLimitRequests <= 0 {
		t.Errorf("RateLimitRequests should be positive, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindowSecs <= 0 {
		t.Errorf("RateLimitWindowSecs should be positive, got %d", cfg.RateLimitWindowSecs)
	}
	if cfg.ModelVersion == "" {
		t.Error("ModelVersion should have a default")
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truthscan.yaml")
	content := []byte("listen_addr: \":9999\"\nrate_limit_requests: 25\nmodel_version: test-model\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	_ = os.Setenv("TRUTHSCAN_CONFIG", path)
	defer func() { _ = os.Unsetenv("TRUTHSCAN_CONFIG") }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.RateLimitRequests != 25 {
		t.Errorf("RateLimitRequests = %d, want 25", cfg.RateLimitRequests)
	}
	if cfg.ModelVersion != "test-model" {
		t.Errorf("ModelVersion = %q, want test-model", cfg.ModelVersion)
	}
	// Untouched fields keep their defaults.
	if cfg.CORSOrigins != "*" {
		t.Errorf("CORSOrigins = %q, want default *", cfg.CORSOrigins)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	_ = os.Setenv("TRUTHSCAN_CONFIG", "/nonexistent/truthscan.yaml")
	defer func() { _ = os.Unsetenv("TRUTHSCAN_CONFIG") }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load should tolerate a missing config file, got %v", err)
	}
	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want default :8000", cfg.ListenAddr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	_ = os.Setenv("TRUTHSCAN_CONFIG", "/nonexistent/truthscan.yaml")
	_ = os.Setenv("TRUTHSCAN_LISTEN_ADDR", ":7777")
	_ = os.Setenv("TRUTHSCAN_RATE_LIMIT_REQUESTS", "99")
	defer func() {
		_ = os.Unsetenv("TRUTHSCAN_CONFIG")
		_ = os.Unsetenv("TRUTHSCAN_LISTEN_ADDR")
		_ = os.Unsetenv("TRUTHSCAN_RATE_LIMIT_REQUESTS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %q, want :7777", cfg.ListenAddr)
	}
	if cfg.RateLimitRequests != 99 {
		t.Errorf("RateLimitRequests = %d, want 99", cfg.RateLimitRequests)
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"*", []string{"*"}},
		{"https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{"", []string{"*"}},
	}

	for _, tt := range tests {
		cfg := &Config{CORSOrigins: tt.input}
		got := cfg.AllowedOrigins()
		if len(got) != len(tt.expected) {
			t.Errorf("AllowedOrigins(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("AllowedOrigins(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	_ = os.Setenv("TEST_INT_VAR", "42")
	defer func() { _ = os.Unsetenv("TEST_INT_VAR") }()

	if got := GetEnvInt("TEST_INT_VAR", 10); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	if got := GetEnvInt("NON_EXISTENT_VAR_XYZ", 100); got != 100 {
		t.Errorf("Expected default 100, got %d", got)
	}

	_ = os.Setenv("INVALID_INT_VAR", "not-a-number")
	defer func() { _ = os.Unsetenv("INVALID_INT_VAR") }()

	if got := GetEnvInt("INVALID_INT_VAR", 50); got != 50 {
		t.Errorf("Expected default 50 for invalid int, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	_ = os.Setenv("TEST_BOOL_VAR", "false")
	defer func() { _ = os.Unsetenv("TEST_BOOL_VAR") }()

	if got := GetEnvBool("TEST_BOOL_VAR", true); got {
		t.Error("Expected false from env")
	}
	if got := GetEnvBool("NON_EXISTENT_VAR_XYZ", true); !got {
		t.Error("Expected default true")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // Within range
		{-1, 0, 10, 0},  // Below min
		{15, 0, 10, 10}, // Above max
		{0, 0, 10, 0},   // At min
		{10, 0, 10, 10}, // At max
	}

	for _, tt := range tests {
		result := clampInt(tt.val, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d",
				tt.val, tt.min, tt.max, result, tt.expected)
		}
	}
}
