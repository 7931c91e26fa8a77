package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Backend.BaseURL != "" {
		u, err := url.Parse(cfg.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "backend.baseUrl",
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Backend.BaseURL),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			issues = append(issues, ValidationIssue{
				Path:    "backend.baseUrl",
				Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
			})
		}
	}

	if cfg.Backend.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "backend.timeoutSeconds",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Backend.TimeoutSeconds),
		})
	}

	validThemes := []string{"auto", "dark", "light"}
	if cfg.UI.Theme != "" && !slices.Contains(validThemes, cfg.UI.Theme) {
		issues = append(issues, ValidationIssue{
			Path:    "ui.theme",
			Message: fmt.Sprintf("must be one of %v, got %q", validThemes, cfg.UI.Theme),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
