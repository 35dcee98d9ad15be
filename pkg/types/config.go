// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GetTimeout returns the timeout with default.
func (c HTTPConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// FeedConfig holds settings for the feed stage.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxItems caps how many feed entries are attempted (default 20).
	// Zero or negative means the full feed.
	MaxItems int `json:"max_items" yaml:"max_items"`
}

// ExtractConfig holds settings for the article extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`

	// UserAgents is the ordered client-identity fallback list tried when
	// an article fetch is blocked. Empty means the built-in defaults.
	UserAgents []string `json:"user_agents,omitempty" yaml:"user_agents,omitempty"`
}

// ImageConfig holds settings for the image resolution stage.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`
}

// ConvertConfig holds settings for the conversion run as a whole.
type ConvertConfig struct {
	// Workers is the worker-pool width (default 10). Width 1 is
	// sequential execution through the same code path.
	Workers int `json:"workers" yaml:"workers"`

	// Sequential forces width 1 for deterministic, diagnostic runs.
	Sequential bool `json:"sequential" yaml:"sequential"`

	// OutputPath is where the finished book is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ReportPath, when set, receives a YAML run report listing every
	// item's outcome and reason.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// GetWorkers returns the effective pool width.
func (c ConvertConfig) GetWorkers() int {
	if c.Sequential {
		return 1
	}
	if c.Workers <= 0 {
		return 10
	}
	return c.Workers
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Images  ImageConfig   `json:"images" yaml:"images"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`
}
