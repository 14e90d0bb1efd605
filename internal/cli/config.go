package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the skyctl configuration file (~/.skytarget/config.yaml).
type Config struct {
	DefaultEnv   string               `yaml:"default_env"`
	Environments map[string]EnvConfig `yaml:"environments"`
}

// EnvConfig holds the connection settings for one environment.
type EnvConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Path returns the config file location. SKYTARGET_CONFIG overrides the
// default of ~/.skytarget/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("SKYTARGET_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".skytarget", "config.yaml"), nil
}

// Load reads the config file. A missing file is not an error; it yields an
// empty config so flags and environment variables can still resolve.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{DefaultEnv: "prod", Environments: map[string]EnvConfig{}}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Environments == nil {
		cfg.Environments = map[string]EnvConfig{}
	}
	return &cfg, nil
}

// Save writes the config file, creating its directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve produces the effective connection settings for envName, merging
// three sources per field with the highest taking precedence:
//
//	command flags > SKYTARGET_BASE_URL / SKYTARGET_API_KEY > config file
//
// An empty envName falls back to the file's default_env, then to "prod".
// Returns the resolved settings and the effective environment name.
func Resolve(envName, baseURLFlag, apiKeyFlag string) (EnvConfig, string, error) {
	cfg, err := Load()
	if err != nil {
		return EnvConfig{}, "", err
	}

	if envName == "" {
		envName = cfg.DefaultEnv
	}
	if envName == "" {
		envName = "prod"
	}

	resolved := cfg.Environments[envName]

	if v := os.Getenv("SKYTARGET_BASE_URL"); v != "" {
		resolved.BaseURL = v
	}
	if v := os.Getenv("SKYTARGET_API_KEY"); v != "" {
		resolved.APIKey = v
	}
	if baseURLFlag != "" {
		resolved.BaseURL = baseURLFlag
	}
	if apiKeyFlag != "" {
		resolved.APIKey = apiKeyFlag
	}

	if resolved.BaseURL == "" {
		return EnvConfig{}, "", fmt.Errorf("no base URL for environment '%s': set it with --base-url, SKYTARGET_BASE_URL, or 'skyctl config set %s.base_url <url>'", envName, envName)
	}
	if resolved.APIKey == "" {
		return EnvConfig{}, "", fmt.Errorf("no API key for environment '%s': set it with --api-key, SKYTARGET_API_KEY, or 'skyctl config set %s.api_key <key>'", envName, envName)
	}

	return resolved, envName, nil
}

// Init writes a starter config pointing at a local server. Real API keys and
// additional environments go in via 'skyctl config set'.
func Init() error {
	cfg := &Config{
		DefaultEnv: "dev",
		Environments: map[string]EnvConfig{
			"dev": {
				BaseURL: "http://localhost:8080",
				APIKey:  "admin-123",
			},
		},
	}
	return Save(cfg)
}
