package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bvisness/scadflow/app/cli"
	"github.com/bvisness/scadflow/app/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workspace struct {
	Dir    string
	config string
}

func newWorkspace(t *testing.T) *workspace {
	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.Render.Indent = 2
	cfg := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(cfg, settings))
	return &workspace{Dir: dir, config: cfg}
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.Dir, name)
}

// run executes one command line and returns what it wrote to stdout and
// stderr.
func (w *workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetArgs(append([]string{"--config", w.config}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (w *workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := w.run(t, args...)
	require.NoError(t, err, stderr)
	return out
}

func TestNew(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "new", w.path("part.sflow"), "--preamble", "$fn = 16;")
	assert.FileExists(t, w.path("part.sflow"))

	_, _, err := w.run(t, "new", w.path("part.sflow"))
	assert.ErrorContains(t, err, "already exists")

	w.mustRun(t, "new", w.path("part.sflow"), "--force")
	assert.Equal(t, "", w.mustRun(t, "render", w.path("part.sflow")), "overwritten without a preamble")
}

func TestRender(t *testing.T) {
	w := newWorkspace(t)
	require.NoError(t, os.MkdirAll(w.path("parts/nested"), 0755))
	w.mustRun(t, "new", w.path("parts/a.sflow"), "--preamble", "$fn = 16;")
	w.mustRun(t, "new", w.path("parts/nested/b.sflow"), "--preamble", "$fa = 2;")

	out := w.mustRun(t, "render", w.path("parts/a.sflow"))
	assert.Equal(t, "$fn = 16;\n\n", out)

	out = w.mustRun(t, "render", w.path("parts/**/*.sflow"), w.path("parts/a.sflow"))
	assert.Equal(t, 1, strings.Count(out, "$fn = 16;\n\n"), "each project is rendered once")
	assert.Equal(t, 1, strings.Count(out, "$fa = 2;\n\n"))
	assert.Len(t, out, len("$fn = 16;\n\n$fa = 2;\n\n"))

	w.mustRun(t, "render", w.path("parts/**/*.sflow"), "--out", w.path("build"))
	data, err := os.ReadFile(w.path("build/b" + cli.OutputExt))
	require.NoError(t, err)
	assert.Equal(t, "$fa = 2;\n\n", string(data))
	assert.FileExists(t, w.path("build/a.scad"))
}

func TestRender_Errors(t *testing.T) {
	w := newWorkspace(t)
	_, _, err := w.run(t, "render", w.path("*.sflow"))
	assert.ErrorContains(t, err, "no project matches")

	require.NoError(t, os.WriteFile(w.path("junk.sflow"), []byte("junk"), 0644))
	_, _, err = w.run(t, "render", w.path("junk.sflow"))
	assert.ErrorContains(t, err, "junk.sflow")

	w.mustRun(t, "new", w.path("part.sflow"))
	_, _, err = w.run(t, "render", w.path("part.sflow"), "--invokable", "gear")
	assert.ErrorContains(t, err, `no function or module named "gear"`)
}

func TestImport(t *testing.T) {
	w := newWorkspace(t)
	manifest := w.path("shapes.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{
  "modules":   [{"name": "rounded_box", "parameters": [{"name": "size", "type": "vector3"}]}],
  "variables": [{"name": "wall", "type": "number", "default": 2}]
}`), 0644))
	project := w.path("part.sflow")
	w.mustRun(t, "new", project)

	w.mustRun(t, "import", project, "lib/shapes.scad", "--manifest", manifest)
	w.mustRun(t, "import", project, "lib/util.scad", "--include")
	assert.Equal(t, "use <lib/shapes.scad>\ninclude <lib/util.scad>\n\n", w.mustRun(t, "render", project))

	dump := w.mustRun(t, "dump", project)
	assert.Contains(t, dump, "path: lib/shapes.scad")
	assert.Contains(t, dump, "- rounded_box")
	assert.NotContains(t, dump, "problems:")

	_, _, err := w.run(t, "import", project, "lib/x.scad", "--manifest", w.path("missing.json"))
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "new", w.path("part.sflow"), "--preamble", "$fn = 16;")
	out := w.mustRun(t, "dump", w.path("part.sflow"))
	assert.Contains(t, out, "preamble: $fn = 16;")
	assert.Contains(t, out, "kind: main")
	assert.Contains(t, out, "kind: start")

	_, _, err := w.run(t, "dump")
	assert.Error(t, err)
}

func TestNodes(t *testing.T) {
	w := newWorkspace(t)
	out := w.mustRun(t, "nodes", "vec")
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.NotEmpty(t, lines)
	assert.True(t, bytes.HasPrefix(lines[0], []byte("vector ")), "best match first, got %q", lines[0])

	assert.Empty(t, w.mustRun(t, "nodes", "qqqq"))
}

func TestLogging(t *testing.T) {
	w := newWorkspace(t)
	_, stderr, err := w.run(t, "-v", "new", w.path("part.sflow"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "created project")

	_, stderr, err = w.run(t, "-q", "new", w.path("other.sflow"))
	require.NoError(t, err)
	assert.Empty(t, stderr)

	_, _, err = w.run(t, "new", w.path("x.sflow"), "--config", w.path("nope.yaml"))
	assert.ErrorContains(t, err, "reading settings")
}
