package account

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the account credentials file
type Loader struct {
	filePath string
}

// NewLoader creates a new account file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads, parses and validates the account.yaml file.
// The instance URL is normalized: scheme defaults to https and any
// trailing slash is dropped, so callers can append API paths directly.
func (l *Loader) Load() (*Credentials, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse account yaml: %w", err)
	}

	creds.Instance = strings.TrimSpace(creds.Instance)
	creds.AccessToken = strings.TrimSpace(creds.AccessToken)

	if creds.Instance == "" {
		return nil, fmt.Errorf("account file %s: instance is required", l.filePath)
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("account file %s: access_token is required", l.filePath)
	}

	normalized, err := normalizeInstance(creds.Instance)
	if err != nil {
		return nil, fmt.Errorf("account file %s: %w", l.filePath, err)
	}
	creds.Instance = normalized

	return &creds, nil
}

func normalizeInstance(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid instance URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid instance URL scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("instance URL has no host: %s", raw)
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
