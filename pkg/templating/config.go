package templating

import "github.com/CTAG07/Turbofish/pkg/turbofish"

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// PageTemplate is the template used for the home and turbofish pages.
	PageTemplate string `json:"page_template" toml:"page_template" yaml:"page_template"`

	// NotFoundTemplate is rendered for 404 responses when it exists.
	NotFoundTemplate string `json:"not_found_template" toml:"not_found_template" yaml:"not_found_template"`

	// HotReload reloads templates whenever the template directory changes.
	HotReload bool `json:"hot_reload" toml:"hot_reload" yaml:"hot_reload"`

	// MaxDepth caps the depth templates may request from randomTurbofish.
	MaxDepth int `json:"max_depth" toml:"max_depth" yaml:"max_depth"`

	// MaxSuggestions caps the number of expressions returned by suggestions.
	MaxSuggestions int `json:"max_suggestions" toml:"max_suggestions" yaml:"max_suggestions"`
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() *TemplateConfig {
	return &TemplateConfig{
		PageTemplate:     "turbofish.tmpl.html",
		NotFoundTemplate: "404.tmpl.html",
		HotReload:        false,
		MaxDepth:         turbofish.DefaultMaxDepth,
		MaxSuggestions:   10,
	}
}
