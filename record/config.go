package record

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/signadot/mutjson/format"
)

// Config is the file form of a directory backed session.
type Config struct {
	// Dir holds one file per record.
	Dir string `yaml:"dir"`
	// Format of the record files: json, yaml or toml.
	Format format.Format `yaml:"format"`
	// Nested selects deep tracking. When false only top level mutations
	// mark a record dirty.
	Nested bool `yaml:"nested"`
	Indent int  `yaml:"indent"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:    ".",
		Format: format.JSONFormat,
		Nested: true,
		Indent: 2,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("config: dir is empty")
	}
	if _, err := c.Format.MarshalText(); err != nil {
		return fmt.Errorf("config: %w: %d", format.ErrBadFormat, c.Format)
	}
	if c.Indent < 0 || c.Indent > 16 {
		return fmt.Errorf("config: indent %d out of range [0, 16]", c.Indent)
	}
	return nil
}

func (c *Config) Column() Column {
	if c.Nested {
		return Nested
	}
	return Shallow
}

// Options returns session options for c.
func (c *Config) Options() *Options {
	return &Options{
		Format: c.Format,
		Column: c.Column(),
		Indent: c.Indent,
	}
}

// Open creates the configured DirStore and a session on it.
func (c *Config) Open(opts *Options) (*Session, error) {
	store, err := NewDirStore(c.Dir, c.Format)
	if err != nil {
		return nil, err
	}
	o := c.Options()
	if opts != nil {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	}
	return New(store, o), nil
}
