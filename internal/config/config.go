package config

import (
	"bytes"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const currentVersion = "v1"

// Format is the encoding of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the configuration of a typstify project. It is read from
// typstify.yaml or typstify.toml in the project root.
type Config struct {
	Version   string          `yaml:"version" toml:"version" validate:"required,eq=v1"`
	Document  ConfigDocument  `yaml:"document" toml:"document"`
	Navigator ConfigNavigator `yaml:"navigator" toml:"navigator"`
	Undo      ConfigUndo      `yaml:"undo" toml:"undo"`
	Compiler  ConfigCompiler  `yaml:"compiler" toml:"compiler"`
	Preview   ConfigPreview   `yaml:"preview" toml:"preview"`
	Log       ConfigLog       `yaml:"log" toml:"log"`
}

type ConfigDocument struct {
	// Sidecar is the name of the file holding the persistent ID map.
	Sidecar        string   `yaml:"sidecar" toml:"sidecar" validate:"required,excludesall=/\\"`
	Main           string   `yaml:"main" toml:"main" validate:"required"`
	TextExtensions []string `yaml:"text_extensions" toml:"text_extensions" validate:"dive,required"`
	// Ignore holds gitignore-style patterns skipped when loading.
	Ignore []string `yaml:"ignore" toml:"ignore"`
}

type ConfigNavigator struct {
	Hidden []string `yaml:"hidden" toml:"hidden"`
}

type ConfigUndo struct {
	// Levels bounds the undo history. Zero means unbounded.
	Levels int `yaml:"levels" toml:"levels" validate:"gte=0"`
}

type ConfigCompiler struct {
	Binary  string   `yaml:"binary" toml:"binary" validate:"required"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

type ConfigPreview struct {
	Output   string   `yaml:"output" toml:"output"`
	Debounce Duration `yaml:"debounce" toml:"debounce"`
}

type ConfigLog struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
	Verbose bool   `yaml:"verbose" toml:"verbose"`
}

// Duration is a time.Duration written as "30s" in configuration files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Parse decodes data on top of the defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return nil, errors.Errorf("unknown config format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s config", format)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Version != currentVersion {
		return errors.Errorf("unknown version: %s", cfg.Version)
	}
	return errors.WithStack(validator.New().Struct(cfg))
}
