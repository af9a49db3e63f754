package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `profile: forum
media: I

session:
  file: /tmp/glyphcast.session
  max_total: 512

storage:
  backend: s3
  bucket: my-bucket
  prefix: payloads
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true

adapter:
  kind: webhook
  webhook:
    url: https://hooks.example.com/glyphcast
    headers:
      Authorization: Bearer token123
    timeout: 10s
    retries: 3
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "profile", cfg.Profile, "forum")
	assertEqual(t, "media", cfg.Media, "I")

	assertEqual(t, "session.file", cfg.Session.File, "/tmp/glyphcast.session")
	if cfg.Session.MaxTotal != 512 {
		t.Errorf("expected session.max_total=512, got %d", cfg.Session.MaxTotal)
	}

	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.bucket", cfg.Storage.Bucket, "my-bucket")
	assertEqual(t, "storage.prefix", cfg.Storage.Prefix, "payloads")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}

	assertEqual(t, "adapter.kind", cfg.Adapter.Kind, "webhook")
	assertEqual(t, "adapter.webhook.url", cfg.Adapter.Webhook.URL, "https://hooks.example.com/glyphcast")
	if cfg.Adapter.Webhook.Timeout.Duration != 10*time.Second {
		t.Errorf("expected webhook.timeout=10s, got %v", cfg.Adapter.Webhook.Timeout.Duration)
	}
	if cfg.Adapter.Webhook.Retries != 3 {
		t.Errorf("expected webhook.retries=3, got %d", cfg.Adapter.Webhook.Retries)
	}
	if cfg.Adapter.Webhook.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("expected Authorization header")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile != "" {
		t.Errorf("expected empty profile, got %q", cfg.Profile)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/glyphcast.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_BUCKET", "expanded-bucket")

	yaml := `storage:
  backend: s3
  bucket: ${TEST_BUCKET}
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.bucket", cfg.Storage.Bucket, "expanded-bucket")
}

func TestResolveMaxChars_Default(t *testing.T) {
	cfg := &Config{}
	got, err := cfg.ResolveMaxChars()
	if err != nil {
		t.Fatalf("ResolveMaxChars failed: %v", err)
	}
	if got != Profiles[DefaultProfile] {
		t.Errorf("expected default budget %d, got %d", Profiles[DefaultProfile], got)
	}
}

func TestResolveMaxChars_Profile(t *testing.T) {
	cfg := &Config{Profile: "paste"}
	got, err := cfg.ResolveMaxChars()
	if err != nil {
		t.Fatalf("ResolveMaxChars failed: %v", err)
	}
	if got != 64000 {
		t.Errorf("expected 64000, got %d", got)
	}
}

func TestResolveMaxChars_ExplicitWins(t *testing.T) {
	cfg := &Config{Profile: "bulk", MaxChars: 1234}
	got, err := cfg.ResolveMaxChars()
	if err != nil {
		t.Fatalf("ResolveMaxChars failed: %v", err)
	}
	if got != 1234 {
		t.Errorf("expected 1234, got %d", got)
	}
}

func TestResolveMaxChars_UnknownProfile(t *testing.T) {
	cfg := &Config{Profile: "carrier-pigeon"}
	if _, err := cfg.ResolveMaxChars(); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestResolveMaxChars_NegativeBudget(t *testing.T) {
	cfg := &Config{MaxChars: -5}
	if _, err := cfg.ResolveMaxChars(); err == nil {
		t.Fatal("expected error for negative max_chars")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty config", Config{}, false},
		{"file backend", Config{Storage: StorageConfig{Backend: "file", Path: "/tmp/out"}}, false},
		{"s3 without bucket", Config{Storage: StorageConfig{Backend: "s3"}}, true},
		{"unknown backend", Config{Storage: StorageConfig{Backend: "ftp"}}, true},
		{"redis without url", Config{Adapter: AdapterConfig{Kind: "redis"}}, true},
		{"redis with url", Config{Adapter: AdapterConfig{Kind: "redis", Redis: RedisConfig{URL: "redis://localhost:6379"}}}, false},
		{"webhook without url", Config{Adapter: AdapterConfig{Kind: "webhook"}}, true},
		{"unknown adapter", Config{Adapter: AdapterConfig{Kind: "carrier-pigeon"}}, true},
		{"negative max_total", Config{Session: SessionConfig{MaxTotal: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "glyphcast.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
