package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/CTAG07/Turbofish/pkg/templating"
	"github.com/CTAG07/Turbofish/pkg/turbofish"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the configuration for the HTTP servers.
type ServerConfig struct {
	ServerAddr string            `json:"server_addr" toml:"server_addr" yaml:"server_addr"`
	AdminAddr  string            `json:"admin_addr" toml:"admin_addr" yaml:"admin_addr"`
	LogLevel   string            `json:"log_level" toml:"log_level" yaml:"log_level"`
	DataDir    string            `json:"data_dir" toml:"data_dir" yaml:"data_dir"`
	SeedData   bool              `json:"seed_data" toml:"seed_data" yaml:"seed_data"`
	Headers    map[string]string `json:"headers" toml:"headers" yaml:"headers"`
}

// GeneratorConfig controls the shape of generated expressions.
type GeneratorConfig struct {
	MaxDepth   int      `json:"max_depth" toml:"max_depth" yaml:"max_depth"`
	MaxArgs    int      `json:"max_args" toml:"max_args" yaml:"max_args"`
	Vocabulary []string `json:"vocabulary" toml:"vocabulary" yaml:"vocabulary"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server    *ServerConfig              `json:"server_config" toml:"server_config" yaml:"server_config"`
	Templates *templating.TemplateConfig `json:"template_config" toml:"template_config" yaml:"template_config"`
	Generator *GeneratorConfig           `json:"generator_config" toml:"generator_config" yaml:"generator_config"`
}

// DefaultServerConfig creates a server configuration with default values.
// The admin server only listens on loopback since it has no authentication.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr: ":8000",
		AdminAddr:  "127.0.0.1:8001",
		LogLevel:   "info",
		DataDir:    "./data",
		SeedData:   true,
		Headers: map[string]string{
			"Content-Security-Policy": "default-src 'self'; style-src 'self' 'unsafe-inline';",
			"X-Content-Type-Options":  "nosniff",
		},
	}
}

// DefaultGeneratorConfig returns the built-in generator settings. An empty
// vocabulary means the generator's default vocabulary.
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		MaxDepth:   turbofish.DefaultMaxDepth,
		MaxArgs:    turbofish.DefaultMaxArgs,
		Vocabulary: []string{},
	}
}

// DefaultConfig returns a Config with every section at its defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Templates: templating.DefaultConfig(),
		Generator: DefaultGeneratorConfig(),
	}
}

// NewGenerator builds the turbofish generator described by the config.
func (c *GeneratorConfig) NewGenerator() *turbofish.Generator {
	return turbofish.NewGenerator(
		turbofish.WithVocabularyNames(c.Vocabulary...),
		turbofish.WithMaxArgs(c.MaxArgs),
	)
}

// reservedNames are public routes that a bare type name would shadow.
var reservedNames = []string{"random", "reverse"}

// validate rejects vocabulary names that would not survive a trip through
// the URL: names the parser rejects and names taken by other routes.
func (c *GeneratorConfig) validate() error {
	for _, name := range c.Vocabulary {
		if !turbofish.IsIdent(name) {
			return fmt.Errorf("vocabulary entry %q is not a valid type name", name)
		}
		if slices.Contains(reservedNames, name) {
			return fmt.Errorf("vocabulary entry %q collides with the /%s route", name, name)
		}
	}
	return nil
}

// clamp bounds MaxDepth and MaxArgs so that the longest expression the
// generator can produce still parses. It reports whether anything changed.
func (c *GeneratorConfig) clamp() bool {
	depth, args := c.MaxDepth, c.MaxArgs
	if c.MaxArgs < 1 {
		c.MaxArgs = turbofish.DefaultMaxArgs
	}
	c.MaxDepth = max(0, min(c.MaxDepth, turbofish.MaxParseDepth))
	c.MaxArgs = min(c.MaxArgs, turbofish.MaxInputLength)

	longest := 0
	for _, tok := range c.NewGenerator().Vocabulary() {
		longest = max(longest, len(tok.Name))
	}
	for c.MaxArgs > 1 && turbofish.WorstCaseLength(c.MaxDepth, c.MaxArgs, longest) > turbofish.MaxInputLength {
		c.MaxArgs--
	}
	for c.MaxDepth > 0 && turbofish.WorstCaseLength(c.MaxDepth, c.MaxArgs, longest) > turbofish.MaxInputLength {
		c.MaxDepth--
	}
	return depth != c.MaxDepth || args != c.MaxArgs
}

type configFormat int

const (
	formatJSON configFormat = iota
	formatTOML
	formatYAML
)

// formatFor picks the config encoding from the file extension. Anything that
// is not TOML or YAML is read as JSON.
func formatFor(path string) configFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func encodeConfig(config *Config, format configFormat) ([]byte, error) {
	switch format {
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatYAML:
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

func decodeConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case formatTOML:
		_, err := toml.Decode(string(data), config)
		return err
	case formatYAML:
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

// LoadConfig reads the configuration from the file at the given path, using
// JSON, TOML or YAML depending on its extension. If the file doesn't exist,
// it creates one with default values. Sections missing from the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	format := formatFor(path)

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			var data []byte
			data, err = encodeConfig(config, format)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The server can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = decodeConfig(file, config, format); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.fillDefaults()

	if err = config.Generator.validate(); err != nil {
		return nil, fmt.Errorf("invalid generator_config: %w", err)
	}
	if config.Generator.clamp() {
		fmt.Fprintf(os.Stderr, "warning: generator_config limits reduced to max_depth=%d max_args=%d\n",
			config.Generator.MaxDepth, config.Generator.MaxArgs)
	}
	return config, nil
}

// fillDefaults restores sections that a config file set to null.
func (c *Config) fillDefaults() {
	if c.Server == nil {
		c.Server = DefaultServerConfig()
	}
	if c.Templates == nil {
		c.Templates = templating.DefaultConfig()
	}
	if c.Generator == nil {
		c.Generator = DefaultGeneratorConfig()
	}
}

// parseLogLevel maps a config level name to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
