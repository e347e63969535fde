package models

// Config holds the CLI configuration
type Config struct {
	Gerrit   GerritConfig `yaml:"gerrit" json:"gerrit"`
	Defaults Defaults     `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// GerritConfig describes the Gerrit server to talk to
type GerritConfig struct {
	URL      string `yaml:"url" json:"url"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	// Insecure disables TLS certificate verification
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`
	// TimeoutSeconds bounds each HTTP request; 0 means the client default
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// Defaults are fallback values for command flags
type Defaults struct {
	Project string `yaml:"project,omitempty" json:"project,omitempty"`
}
