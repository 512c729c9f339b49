package refactor_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokables(t *testing.T) {
	f := newFixture(t)
	fn := &core.InvokableDescription{Name: "double", Kind: core.InvokableFunction, ReturnType: core.PortNumber}
	f.apply(t, &refactor.AddInvokable{Description: fn})
	require.NotEmpty(t, fn.ID)
	inv, ok := f.P.LocalInvokable(fn.ID)
	require.True(t, ok)
	assert.Len(t, inv.Graph.Nodes, 2)

	_, err := f.Engine.Apply(f.P, "clash", &refactor.AddInvokable{Description: &core.InvokableDescription{Name: "double", Kind: core.InvokableModule}})
	assert.ErrorContains(t, err, `"double" is already the name of a function`)
	_, err = f.Engine.Apply(f.P, "main", &refactor.AddInvokable{Description: &core.InvokableDescription{Name: "other", Kind: core.InvokableMain}})
	assert.Error(t, err)

	f.reload()
	inv, ok = f.P.LocalInvokable(fn.ID)
	require.True(t, ok)
	fn = inv.Description
	call := f.B.Add("call", nodes.NewInvocationNode(fn))
	f.apply(t, &refactor.RenameInvokable{ID: fn.ID, Name: "twice"})
	assert.Equal(t, "twice", core.MustAs[*nodes.FunctionInvocationAction](call.Node).Invokable.Name)
	_, err = f.Engine.Apply(f.P, "rename", &refactor.RenameInvokable{ID: fn.ID, Name: " "})
	assert.Error(t, err)
	_, err = f.Engine.Apply(f.P, "rename main", &refactor.RenameInvokable{ID: f.Main, Name: "entry"})
	assert.Error(t, err)

	f.apply(t, &refactor.DeleteInvokable{ID: fn.ID})
	_, ok = f.P.LocalInvokable(fn.ID)
	assert.False(t, ok)
	_, ok = f.graph().GetNode(call.ID())
	assert.False(t, ok, "invocations go with the definition")
	assert.Empty(t, f.P.Validate())

	_, err = f.Engine.Apply(f.P, "delete main", &refactor.DeleteInvokable{ID: f.Main})
	assert.Error(t, err)
}

func TestVariables(t *testing.T) {
	f := newFixture(t)
	four := core.NumberLiteral(4)
	v := &core.VariableDescription{Name: "height", Type: core.PortNumber, Default: &four}
	f.apply(t, &refactor.AddVariable{Description: v})
	require.NotEmpty(t, v.ID)

	bad := core.StringLiteral("tall")
	_, err := f.Engine.Apply(f.P, "bad", &refactor.AddVariable{Description: &core.VariableDescription{Name: "width", Type: core.PortNumber, Default: &bad}})
	assert.Error(t, err)
	_, err = f.Engine.Apply(f.P, "dup", &refactor.AddVariable{Description: &core.VariableDescription{Name: "height", Type: core.PortString}})
	assert.Error(t, err)

	f.reload()
	v, ok := f.P.LookupVariable(v.ID)
	require.True(t, ok)
	get := f.B.Add("get", nodes.NewVariableGetNode(v))
	set := f.B.Add("set", nodes.NewVariableSetNode(v))
	lit, _ := set.Node.Literal(core.Input, 1)
	assert.Equal(t, four, lit, "assignments start from the default")

	f.apply(t, &refactor.DeleteVariable{ID: v.ID})
	assert.Empty(t, f.P.Variables)
	_, ok = f.graph().GetNode(get.ID())
	assert.False(t, ok)
	_, ok = f.graph().GetNode(set.ID())
	assert.False(t, ok)
}

func TestToggleImportMode(t *testing.T) {
	f := newFixture(t)
	ext := f.external(t, core.IncludeInclude)
	f.apply(t, &refactor.AddImport{Graph: f.Main, Reference: ext})
	wall := f.B.Add("wall", nodes.NewVariableGetNode(ext.Variables[0]))
	box := f.B.Add("box", nodes.NewInvocationNode(ext.Modules[0]))

	f.apply(t, &refactor.ToggleImportMode{Reference: ext.ID})
	assert.Equal(t, core.IncludeUse, ext.Mode)
	_, ok := f.graph().GetNode(wall.ID())
	assert.False(t, ok, "use does not expose variables")
	_, ok = f.graph().GetNode(box.ID())
	assert.True(t, ok)
	assert.Empty(t, f.P.Validate())

	f.apply(t, &refactor.ToggleImportMode{Reference: ext.ID})
	assert.Equal(t, core.IncludeInclude, ext.Mode)
}

func TestEditPreamble(t *testing.T) {
	f := newFixture(t)
	changes := f.apply(t, &refactor.EditPreamble{Text: "$fn = 32;"})
	assert.Equal(t, []core.ChangeKind{core.SymbolsChanged}, kindsOf(changes))
	assert.Equal(t, "$fn = 32;", f.P.Preamble)
	assert.Empty(t, f.apply(t, &refactor.EditPreamble{Text: "$fn = 32;"}))
}

func TestAddImport_SplicesAfter(t *testing.T) {
	f := newFixture(t)
	box := f.B.Add("box", nodes.NewInvocationNode(builtin(t, "cube")))
	f.Start.Connect("next", box, "in")

	ext := f.external(t, core.IncludeUse)
	f.apply(t, &refactor.AddImport{Graph: f.Main, Reference: ext, After: f.Start.ID()})
	imp := &core.NodeBuilder{Builder: f.B, Node: f.graph().NodesOfKind(nodes.KindImport)[0]}

	g := f.graph()
	assert.Len(t, g.Connections, 2)
	assert.True(t, g.HasConnection(conn(f.Start, "next", imp, "in")))
	assert.True(t, g.HasConnection(conn(imp, "next", box, "in")))

	// A second import goes in front of the first.
	f.apply(t, &refactor.AddImport{Graph: f.Main, Reference: ext, After: f.Start.ID()})
	imports := f.graph().NodesOfKind(nodes.KindImport)
	require.Len(t, imports, 2)
	second := &core.NodeBuilder{Builder: f.B, Node: imports[1]}
	g = f.graph()
	assert.True(t, g.HasConnection(conn(f.Start, "next", second, "in")))
	assert.True(t, g.HasConnection(conn(second, "next", imp, "in")))
	assert.True(t, g.HasConnection(conn(imp, "next", box, "in")))
	assert.Len(t, g.Connections, 3)
}

func TestAddImport_SpliceErrors(t *testing.T) {
	f := newFixture(t)
	ext := f.external(t, core.IncludeUse)
	_, err := f.Engine.Apply(f.P, "test", &refactor.AddImport{Graph: f.Main, Reference: ext, After: 99})
	assert.ErrorContains(t, err, "no node 99")
	assert.Empty(t, f.P.ExternalReferences, "rolled back")
	f.reload()

	sum := f.B.Add("sum", nodes.NewSumNode())
	_, err = f.Engine.Apply(f.P, "test", &refactor.AddImport{Graph: f.Main, Reference: ext, After: sum.ID()})
	assert.ErrorContains(t, err, "has no flow output")
	assert.Empty(t, f.graph().NodesOfKind(nodes.KindImport))
}
