package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/escape/pkg/bench"
	"github.com/mchmarny/escape/pkg/escape"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"
	dirMode  = 0700
	fileMode = 0600

	FormatJSON = "json"
	FormatYAML = "yaml"

	DefaultPort     = 8080
	DefaultLogLevel = "info"
)

// Config represents app config object.
type Config struct {
	Format   string       `yaml:"format"`
	LogLevel string       `yaml:"log_level"`
	DBPath   string       `yaml:"db_path,omitempty"`
	Server   ServerConfig `yaml:"server"`
	Bench    BenchConfig  `yaml:"bench"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type BenchConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Rounds        int     `yaml:"rounds"`
	Magnification float64 `yaml:"magnification"`
	PanX          float64 `yaml:"pan_x"`
	PanY          float64 `yaml:"pan_y"`
}

// Options converts bench settings into benchmark options.
func (b BenchConfig) Options() bench.Options {
	return bench.Options{
		Viewport: escape.Viewport{
			Magnification: b.Magnification,
			PanX:          b.PanX,
			PanY:          b.PanY,
		},
		Width:  b.Width,
		Height: b.Height,
		Rounds: b.Rounds,
	}
}

// Default returns the config written on first run.
func Default() *Config {
	o := bench.DefaultOptions()
	return &Config{
		Format:   FormatJSON,
		LogLevel: DefaultLogLevel,
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Bench: BenchConfig{
			Width:         o.Width,
			Height:        o.Height,
			Rounds:        o.Rounds,
			Magnification: o.Viewport.Magnification,
			PanX:          o.Viewport.PanX,
			PanY:          o.Viewport.PanY,
		},
	}
}

// Validate checks output format, server port and bench settings.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if _, err := ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port: %d", c.Server.Port)
	}
	if err := c.Bench.Options().Validate(); err != nil {
		return errors.Wrap(err, "invalid bench config")
	}
	return nil
}

// ParseFormat normalizes an output format name; "yml" is read as yaml.
func ParseFormat(f string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("unsupported format: %s", f)
	}
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, FileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
// Values missing from the file keep their defaults.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
	}

	path := filepath.Join(dirPath, FileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}
	return c, nil
}

// GetOrCreateHomeDir returns the app directory under the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
