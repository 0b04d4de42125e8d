package account

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAccountFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "account.yaml")
	if err := os.WriteFile(yamlPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return yamlPath
}

func TestLoaderLoad(t *testing.T) {
	path := writeAccountFile(t, `---
instance: https://hachyderm.io
access_token: abc123
`)

	loader := NewLoader(path)
	creds, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if creds.Instance != "https://hachyderm.io" {
		t.Errorf("Instance = %q, want https://hachyderm.io", creds.Instance)
	}
	if creds.AccessToken != "abc123" {
		t.Errorf("AccessToken = %q, want abc123", creds.AccessToken)
	}
}

func TestLoaderLoadNormalizesInstance(t *testing.T) {
	tests := []struct {
		name     string
		instance string
		want     string
	}{
		{"bare host", "hachyderm.io", "https://hachyderm.io"},
		{"trailing slash", "https://hachyderm.io/", "https://hachyderm.io"},
		{"surrounding space", "  https://mastodon.social  ", "https://mastodon.social"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAccountFile(t, "instance: \""+tt.instance+"\"\naccess_token: tok\n")
			creds, err := NewLoader(path).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if creds.Instance != tt.want {
				t.Errorf("Instance = %q, want %q", creds.Instance, tt.want)
			}
		})
	}
}

func TestLoaderLoadRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing token", "instance: https://hachyderm.io\n"},
		{"missing instance", "access_token: tok\n"},
		{"bad scheme", "instance: ftp://hachyderm.io\naccess_token: tok\n"},
		{"not yaml", "{{{{\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAccountFile(t, tt.content)
			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("Load() should return error")
			}
		})
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/account.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}
