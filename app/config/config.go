// Package config loads editor and command-line settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the working directory and the
// user's config directory, without extension. Any format viper reads works.
const FileName = "scadflow"

type Settings struct {
	Render  RenderSettings  `mapstructure:"render" yaml:"render"`
	History HistorySettings `mapstructure:"history" yaml:"history"`
	Log     LogSettings     `mapstructure:"log" yaml:"log"`
}

type RenderSettings struct {
	// Indent is the number of spaces per nesting level in generated code.
	Indent int `mapstructure:"indent" yaml:"indent"`
}

type HistorySettings struct {
	// Limit is the number of undo steps kept. 0 keeps everything.
	Limit int `mapstructure:"limit" yaml:"limit"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

func DefaultSettings() *Settings {
	return &Settings{
		Render:  RenderSettings{Indent: 4},
		History: HistorySettings{Limit: 100},
		Log:     LogSettings{Level: "info", Format: "text"},
	}
}

// IndentString is the indentation unit for generated code.
func (s *Settings) IndentString() string {
	return strings.Repeat(" ", s.Render.Indent)
}

func (s *Settings) Validate() error {
	if s.Render.Indent < 0 || s.Render.Indent > 16 {
		return &SettingsError{Field: "render.indent", Message: "must be between 0 and 16"}
	}
	if s.History.Limit < 0 {
		return &SettingsError{Field: "history.limit", Message: "must not be negative"}
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return &SettingsError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", s.Log.Format)}
	}
	return nil
}

type SettingsError struct {
	Field   string
	Message string
}

func (e *SettingsError) Error() string {
	return "settings error in field '" + e.Field + "': " + e.Message
}

func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultSettings()
	v.SetDefault("render.indent", d.Render.Indent)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix("SCADFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings. An explicit path must exist; otherwise the settings
// file is searched for in the working directory and the user config
// directory, and defaults apply when there is none. SCADFLOW_* environment
// variables override the file, e.g. SCADFLOW_RENDER_INDENT=2.
func Load(path string) (*Settings, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + "/scadflow")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the settings as YAML.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
