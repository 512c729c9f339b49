package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bvisness/scadflow/app/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps Load away from settings files on the machine running the
// tests.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	s, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
	assert.Equal(t, "    ", s.IndentString())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  indent: 2\nlog:\n  format: json\n"), 0644))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Render.Indent)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, 100, s.History.Limit, "unset keys keep their defaults")
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scadflow.yaml"), []byte("history:\n  limit: 7\n"), 0644))

	s, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, s.History.Limit)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "scadflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  indent: 2\n"), 0644))
	t.Setenv("SCADFLOW_RENDER_INDENT", "8")
	t.Setenv("SCADFLOW_LOG_LEVEL", "debug")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Render.Indent)
	assert.Equal(t, "debug", s.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("render:\n  indent: 40\n"), 0644))
	_, err = config.Load(bad)
	var se *config.SettingsError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "render.indent", se.Field)

	t.Setenv("SCADFLOW_LOG_FORMAT", "xml")
	_, err = config.Load("")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "log.format", se.Field)
}

func TestSettings_Validate(t *testing.T) {
	s := config.DefaultSettings()
	require.NoError(t, s.Validate())

	s.History.Limit = -1
	assert.EqualError(t, s.Validate(), "settings error in field 'history.limit': must not be negative")
}

func TestSave_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "saved.yaml")
	s := config.DefaultSettings()
	s.Render.Indent = 3
	s.Log.Level = "warn"
	require.NoError(t, config.Save(path, s))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}
