package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config represents the tool-level configuration stored in the working
// directory. Per-domain settings live in their own key=value files; see
// domain.go.
type Config struct {
	// GetsslPath is the getssl binary to invoke. Empty means $PATH lookup.
	GetsslPath string `yaml:"getssl_path,omitempty"`

	// OpensslPath is the openssl binary used for DH parameter generation.
	OpensslPath string `yaml:"openssl_path,omitempty"`

	// ACMEUser, when set, runs getssl via sudo -u as that user so
	// certificate issuance happens without root privileges.
	ACMEUser string `yaml:"acme_user,omitempty"`

	// ChallengeDir is the shared ACME challenge directory that is
	// temporarily opened for writing while getssl runs.
	ChallengeDir string `yaml:"challenge_dir,omitempty"`

	// Concurrency bounds the number of domains processed in parallel
	// when installing all domains.
	Concurrency int `yaml:"concurrency"`
}

const (
	defaultWorkDir = ".certinstall"
	configFile     = "config.yaml"

	// DefaultConcurrency is used when the config file does not set one.
	DefaultConcurrency = 4
)

// New creates a new Config with default values
func New() *Config {
	return &Config{
		GetsslPath:  "getssl",
		OpensslPath: "openssl",
		Concurrency: DefaultConcurrency,
	}
}

// DefaultWorkDir returns the default working directory (~/.certinstall)
func DefaultWorkDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultWorkDir), nil
}

// Load reads the tool config from workdir. A missing file yields defaults.
func Load(workdir string) (*Config, error) {
	path := filepath.Join(workdir, configFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.GetsslPath == "" {
		cfg.GetsslPath = "getssl"
	}
	if cfg.OpensslPath == "" {
		cfg.OpensslPath = "openssl"
	}

	return cfg, nil
}

// Save writes the tool config to workdir
func (c *Config) Save(workdir string) error {
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(workdir, configFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ListDomains returns the domains configured under workdir, sorted.
// A domain is any subdirectory containing a domain config file.
func ListDomains(workdir string) ([]string, error) {
	entries, err := os.ReadDir(workdir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read working directory: %w", err)
	}

	var domains []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cfgPath := filepath.Join(workdir, e.Name(), domainConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			domains = append(domains, e.Name())
		}
	}
	sort.Strings(domains)
	return domains, nil
}
