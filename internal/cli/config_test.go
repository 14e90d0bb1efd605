package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SKYTARGET_CONFIG", path)
}

func clearResolveEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SKYTARGET_BASE_URL", "")
	t.Setenv("SKYTARGET_API_KEY", "")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("SKYTARGET_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultEnv != "prod" {
		t.Errorf("DefaultEnv = %q, want prod", cfg.DefaultEnv)
	}
	if cfg.Environments == nil {
		t.Error("Environments map is nil")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("SKYTARGET_CONFIG", filepath.Join(t.TempDir(), "sub", "config.yaml"))

	want := &Config{
		DefaultEnv: "staging",
		Environments: map[string]EnvConfig{
			"staging": {BaseURL: "https://staging.example.com", APIKey: "stk_abc"},
		},
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultEnv != want.DefaultEnv {
		t.Errorf("DefaultEnv = %q, want %q", got.DefaultEnv, want.DefaultEnv)
	}
	if got.Environments["staging"] != want.Environments["staging"] {
		t.Errorf("staging = %+v, want %+v", got.Environments["staging"], want.Environments["staging"])
	}
}

func TestResolvePrecedence(t *testing.T) {
	writeTestConfig(t, `
default_env: dev
environments:
  dev:
    base_url: http://file.example.com
    api_key: file-key
`)

	tests := []struct {
		name        string
		envVars     map[string]string
		baseURLFlag string
		apiKeyFlag  string
		wantURL     string
		wantKey     string
	}{
		{
			name:    "file only",
			wantURL: "http://file.example.com",
			wantKey: "file-key",
		},
		{
			name:    "env var overrides one field, file keeps the other",
			envVars: map[string]string{"SKYTARGET_BASE_URL": "http://env.example.com"},
			wantURL: "http://env.example.com",
			wantKey: "file-key",
		},
		{
			name:        "flag beats env var and file",
			envVars:     map[string]string{"SKYTARGET_BASE_URL": "http://env.example.com"},
			baseURLFlag: "http://flag.example.com",
			wantURL:     "http://flag.example.com",
			wantKey:     "file-key",
		},
		{
			name:       "api key flag alone",
			apiKeyFlag: "flag-key",
			wantURL:    "http://file.example.com",
			wantKey:    "flag-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearResolveEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			got, effectiveEnv, err := Resolve("", tt.baseURLFlag, tt.apiKeyFlag)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if effectiveEnv != "dev" {
				t.Errorf("effective env = %q, want dev", effectiveEnv)
			}
			if got.BaseURL != tt.wantURL {
				t.Errorf("BaseURL = %q, want %q", got.BaseURL, tt.wantURL)
			}
			if got.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", got.APIKey, tt.wantKey)
			}
		})
	}
}

func TestResolveUnknownEnvWithFullFlags(t *testing.T) {
	writeTestConfig(t, "default_env: dev\nenvironments: {}\n")
	clearResolveEnv(t)

	// an env absent from the file still resolves when flags supply everything
	got, effectiveEnv, err := Resolve("ci", "http://ci.example.com", "ci-key")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if effectiveEnv != "ci" {
		t.Errorf("effective env = %q, want ci", effectiveEnv)
	}
	if got.BaseURL != "http://ci.example.com" || got.APIKey != "ci-key" {
		t.Errorf("resolved = %+v", got)
	}
}

func TestResolveMissingSettings(t *testing.T) {
	writeTestConfig(t, `
default_env: dev
environments:
  dev:
    base_url: http://file.example.com
`)
	clearResolveEnv(t)

	// api_key is not set anywhere
	if _, _, err := Resolve("dev", "", ""); err == nil {
		t.Error("Resolve succeeded without an API key")
	}

	if _, _, err := Resolve("missing", "", ""); err == nil {
		t.Error("Resolve succeeded for an unconfigured environment")
	}
}
