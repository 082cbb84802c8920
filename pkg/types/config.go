package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds each request, connection through body.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreConfig holds settings for the topic store.
type StoreConfig struct {
	// PapersDir is the root directory holding one subdirectory per topic.
	PapersDir string `json:"papers_dir" yaml:"papers_dir" mapstructure:"papers_dir"`
}

// SearchConfig holds settings for the arXiv search adapter.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the result cap used when a caller gives none (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// RequestInterval is the minimum spacing between arXiv API calls (default 3s).
	// Zero disables pacing.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval" mapstructure:"request_interval"`
}

// GenerationConfig holds settings for the local inference endpoint.
type GenerationConfig struct {
	// URL is the Ollama generate endpoint.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Model is the model identifier sent with every request (e.g. "qwen3:8b").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Timeout bounds one generation call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// SystemPrompt is the system instruction used by the CLI when none is given.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt" mapstructure:"system_prompt"`
}

// CatalogConfig holds settings for the SQLite index over saved topics.
type CatalogConfig struct {
	// Path is the database file. Empty disables the catalog.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups the settings of every component.
type Config struct {
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
