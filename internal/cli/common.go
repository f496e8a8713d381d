package cli

import (
	"fmt"
	"strings"

	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/output"
)

// resolveWorkdir returns the working directory from the flag or the default.
func resolveWorkdir() (string, error) {
	if workdir != "" {
		return workdir, nil
	}
	dir, err := config.DefaultWorkDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return dir, nil
}

// loadConfig resolves the working directory and loads the tool config.
func loadConfig() (string, *config.Config, error) {
	dir, err := resolveWorkdir()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}
	return dir, cfg, nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// validateDomain checks if domain is valid
func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.Contains(domain, " ") {
		return fmt.Errorf("domain cannot contain spaces")
	}
	if strings.Contains(domain, "/") {
		return fmt.Errorf("domain cannot contain slashes")
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}
	return nil
}
