package config

import (
	"io/fs"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrRootConfigNotFound = errors.New("root configuration file not found")

// DefaultName is the base name of the project configuration file.
const DefaultName = "typstify"

// Loader finds the configuration file of a project.
type Loader struct {
	// configRootPath is typically the project directory.
	configRootPath fs.FS

	// configName is the file name without extension.
	configName string

	logger *zap.Logger
}

type LoaderOption func(*Loader)

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(configName string, configRootPath fs.FS, opts ...LoaderOption) *Loader {
	if configName == "" {
		panic("config name is not set")
	}

	l := &Loader{
		configRootPath: configRootPath,
		configName:     configName,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	return l
}

// RootConfig returns the raw configuration and its format. YAML wins over
// TOML when both exist.
func (l *Loader) RootConfig() ([]byte, Format, error) {
	candidates := []struct {
		ext    string
		format Format
	}{
		{".yaml", FormatYAML},
		{".yml", FormatYAML},
		{".toml", FormatTOML},
	}

	for _, c := range candidates {
		name := l.configName + c.ext
		data, err := fs.ReadFile(l.configRootPath, name)
		if err == nil {
			l.logger.Debug("found configuration file", zap.String("name", name))
			return data, c.format, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", errors.Wrapf(err, "failed to read %s", name)
		}
	}

	return nil, "", ErrRootConfigNotFound
}

// Load returns the parsed root configuration, or the defaults if the
// project has none.
func (l *Loader) Load() (*Config, error) {
	data, format, err := l.RootConfig()
	if errors.Is(err, ErrRootConfigNotFound) {
		l.logger.Debug("no configuration file, using defaults")
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}
