package app_test

import (
	"testing"

	"github.com/bvisness/scadflow/app"
	"github.com/bvisness/scadflow/app/config"
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T) *app.Editor {
	t.Helper()
	e, err := app.NewEmptyEditor(app.DefaultEditorOptions(), nil)
	require.NoError(t, err)
	return e
}

func mainID(e *app.Editor) string {
	return e.Project.Main().Description.ID
}

func TestEditor_ApplyRecordsHistory(t *testing.T) {
	e := newEditor(t)
	assert.Equal(t, 1, e.History.Len())
	ok, _ := e.CanUndo()
	assert.False(t, ok)

	_, err := e.Apply("Add sum", &refactor.AddNode{Graph: mainID(e), Node: nodes.NewSumNode()})
	require.NoError(t, err)
	ok, label := e.CanUndo()
	assert.True(t, ok)
	assert.Equal(t, "Add sum", label)

	_, err = e.Apply("Bad", &refactor.AddNode{Graph: "nowhere", Node: nodes.NewSumNode()})
	assert.Error(t, err)
	assert.Equal(t, 2, e.History.Len(), "failed edits are not recorded")

	require.True(t, e.Undo())
	assert.Len(t, e.Project.Main().Graph.Nodes, 1)
	require.True(t, e.Redo())
	assert.Len(t, e.Project.Main().Graph.Nodes, 2)
	assert.False(t, e.Redo())
}

func TestEditor_Modified(t *testing.T) {
	e := newEditor(t)
	assert.False(t, e.Modified())

	_, err := e.Apply("Edit preamble", &refactor.EditPreamble{Text: "$fn = 16;"})
	require.NoError(t, err)
	assert.True(t, e.Modified())

	require.True(t, e.Undo())
	assert.False(t, e.Modified(), "undoing back to the saved state")

	require.True(t, e.Redo())
	assert.True(t, e.Modified())
	e.MarkSaved()
	assert.False(t, e.Modified())
}

func TestEditor_SaveAndOpen(t *testing.T) {
	e := newEditor(t)
	_, err := e.Apply("Edit preamble", &refactor.EditPreamble{Text: "$fn = 16;"})
	require.NoError(t, err)
	data, err := e.Save()
	require.NoError(t, err)

	opened, err := app.OpenEditor(data, "part.sflow", app.DefaultEditorOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, "part.sflow", opened.Project.Path)
	assert.Equal(t, "$fn = 16;", opened.Project.Preamble)
	assert.False(t, opened.Modified())

	_, err = app.OpenEditor([]byte("nope"), "bad.sflow", app.DefaultEditorOptions(), nil)
	assert.ErrorContains(t, err, "bad.sflow")
}

func TestEditor_CopyPaste(t *testing.T) {
	e := newEditor(t)
	changes, err := e.Apply("Add sum", &refactor.AddNode{Graph: mainID(e), Node: nodes.NewSumNode()})
	require.NoError(t, err)
	sum := changes[0].Node

	text, err := e.Copy(mainID(e), sum)
	require.NoError(t, err)
	_, err = e.Paste(mainID(e), text)
	require.NoError(t, err)
	assert.Len(t, e.Project.Main().Graph.NodesOfKind(nodes.KindSum), 2)
	_, label := e.CanUndo()
	assert.Equal(t, "Paste", label)

	_, err = e.Paste(mainID(e), "not nodes")
	assert.Error(t, err)
	_, err = e.Copy("nowhere", sum)
	assert.Error(t, err)
}

func TestEditor_Render(t *testing.T) {
	s := config.DefaultSettings()
	s.Render.Indent = 2
	e, err := app.NewEmptyEditor(app.OptionsFromSettings(s), nil)
	require.NoError(t, err)

	cube, ok := core.BuiltinNamed("cube")
	require.True(t, ok)
	union, ok := core.BuiltinNamed("union")
	require.True(t, ok)
	g := e.Project.Main().Graph
	start := g.NodesOfKind(nodes.KindStart)[0]
	u := nodes.NewInvocationNode(union)
	c := nodes.NewInvocationNode(cube)
	_, err = e.Apply("Build",
		&refactor.AddNode{Graph: mainID(e), Node: u},
		&refactor.AddNode{Graph: mainID(e), Node: c},
	)
	require.NoError(t, err)
	_, err = e.Apply("Connect",
		&refactor.Connect{Graph: mainID(e), Connection: core.Connection{From: start.ID, FromPort: 0, To: u.ID, ToPort: 0}},
		&refactor.Connect{Graph: mainID(e), Connection: core.Connection{From: u.ID, FromPort: 1, To: c.ID, ToPort: 0}},
	)
	require.NoError(t, err)

	text, err := e.Render(mainID(e))
	require.NoError(t, err)
	assert.Equal(t, "union() {\n  cube([1, 1, 1], false);\n}\n", text)

	whole, err := e.RenderProject()
	require.NoError(t, err)
	assert.Equal(t, text, whole)

	_, err = e.Render("nowhere")
	assert.Error(t, err)
}

func TestEditor_Previews(t *testing.T) {
	e := newEditor(t)
	start := e.Project.Main().Graph.NodesOfKind(nodes.KindStart)[0]
	assert.Empty(t, e.ApplicableRefactorings(mainID(e), start.ID))
	verdict := e.CanConnect(mainID(e), core.Connection{From: start.ID, FromPort: 0, To: start.ID, ToPort: 0})
	assert.False(t, verdict.Allowed())
	assert.Equal(t, 1, e.History.Len(), "previews do not touch the history")
}
