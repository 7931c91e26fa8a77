package config

// Config is the root configuration for stocktalk.
type Config struct {
	Backend BackendConfig `yaml:"backend,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// BackendConfig points the client at the inventory-analysis service.
type BackendConfig struct {
	BaseURL        string `yaml:"baseUrl,omitempty"`        // service origin, e.g. http://localhost:8000
	UserID         string `yaml:"userId,omitempty"`         // fixed client identity sent with every query
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"` // per-request HTTP timeout
}

// UIConfig controls presentation defaults.
type UIConfig struct {
	// Theme is the fallback when no preference has been persisted yet:
	// "auto" (detect from terminal background), "dark", or "light".
	Theme string `yaml:"theme,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File  string `yaml:"file,omitempty"`  // log file path; empty logs to stderr
}
