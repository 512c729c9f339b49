package core_test

import (
	"errors"
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
  "functions": [{"name": "lerp", "parameters": [{"name": "a"}, {"name": "b"}, {"name": "t", "type": "number", "default": 0.5}], "returns": "any"}],
  "modules":   [{"name": "rounded_box", "parameters": [{"name": "size", "type": "vector3", "default": [10, 10, 10]}], "children": false}],
  "variables": [{"name": "wall", "type": "number", "default": 2}]
}`

// sampleProject builds a project that touches every kind of symbol: a local
// function and module, a variable, a builtin and an external reference.
func sampleProject(t *testing.T) *core.Project {
	t.Helper()
	p := nodes.NewProject()
	p.Preamble = "$fn = 64;"

	fn := nodes.NewInvokable(&core.InvokableDescription{
		ID:         core.NewSymbolID(),
		Name:       "double",
		Kind:       core.InvokableFunction,
		Parameters: []core.ParameterDescription{{Name: "x", Type: core.PortNumber}},
		ReturnType: core.PortNumber,
	})
	mod := nodes.NewInvokable(&core.InvokableDescription{
		ID:               core.NewSymbolID(),
		Name:             "plate",
		Kind:             core.InvokableModule,
		SupportsChildren: true,
	})
	p.Invokables = append(p.Invokables, fn, mod)

	height := &core.VariableDescription{ID: core.NewSymbolID(), Name: "height", Type: core.PortNumber}
	p.Variables = append(p.Variables, height)

	ext, err := core.ParseExternalManifest("lib/shapes.scad", core.IncludeInclude, []byte(sampleManifest))
	require.NoError(t, err)
	p.ExternalReferences = append(p.ExternalReferences, ext)

	// double(x) = x * 2
	fb := core.NewGraphBuilder(fn.Graph)
	entry := &core.NodeBuilder{Builder: fb, Node: fn.Graph.NodesOfKind(nodes.KindFunctionEntry)[0]}
	ret := &core.NodeBuilder{Builder: fb, Node: fn.Graph.NodesOfKind(nodes.KindFunctionReturn)[0]}
	mul := fb.Add("mul", nodes.NewProductNode())
	core.MustAs[core.TypedReducer](mul.Node).SetSharedType(core.PortNumber)
	mul.Node.Rebuild()
	entry.Connect("param1", mul, "value1")
	mul.SetLiteral("value2", core.NumberLiteral(2))
	mul.Connect("result", ret, "result")

	cube, _ := core.BuiltinNamed("cube")
	mb := core.NewGraphBuilder(p.Main().Graph)
	start := &core.NodeBuilder{Builder: mb, Node: p.Main().Graph.NodesOfKind(nodes.KindStart)[0]}
	imp := mb.Add("import", nodes.NewImportNode(ext))
	set := mb.Add("set", nodes.NewVariableSetNode(height))
	box := mb.Add("box", nodes.NewInvocationNode(cube))
	call := mb.Add("call", nodes.NewInvocationNode(fn.Description))
	wall := mb.Add("wall", nodes.NewVariableGetNode(ext.Variables[0]))
	start.Connect("next", imp, "in").Connect("next", set, "in").Connect("next", box, "in")
	wall.Connect("value", call, "param1").Connect("result", set, "value")
	mb.Add("loop", nodes.NewForLoopNode()).Grow(1)
	return p
}

func TestProject_SaveLoadRoundTrip(t *testing.T) {
	p := sampleProject(t)
	require.Empty(t, p.Validate())

	data, err := core.SaveProject(p)
	require.NoError(t, err)

	loaded, err := core.LoadProject(data, "part.sflow", nodes.Registry())
	require.NoError(t, err)
	assert.Equal(t, "part.sflow", loaded.Path)
	assert.Equal(t, p.Preamble, loaded.Preamble)
	assert.Empty(t, loaded.Validate())

	again, err := core.SaveProject(loaded)
	require.NoError(t, err)
	assert.Equal(t, data, again, "saving a loaded project must reproduce the snapshot")

	for i, inv := range p.Invokables {
		li := loaded.Invokables[i]
		assert.Equal(t, inv.Description, li.Description)
		require.Len(t, li.Graph.Nodes, len(inv.Graph.Nodes))
		for j, n := range inv.Graph.Nodes {
			assert.Equal(t, n.ID, li.Graph.Nodes[j].ID)
			assert.Equal(t, n.InputPorts, li.Graph.Nodes[j].InputPorts)
			assert.Equal(t, n.OutputPorts, li.Graph.Nodes[j].OutputPorts)
			assert.Equal(t, n.Literals, li.Graph.Nodes[j].Literals)
		}
		assert.Equal(t, inv.Graph.NextNodeID, li.Graph.NextNodeID)
	}
}

func TestProject_LoadedNodesShareSymbols(t *testing.T) {
	p := sampleProject(t)
	loaded := p.Clone()

	fn := loaded.Invokables[1]
	calls := loaded.Main().Graph.NodesOfKind(nodes.KindFunctionInvocation)
	require.Len(t, calls, 1)
	action := core.MustAs[*nodes.FunctionInvocationAction](calls[0])
	assert.Same(t, fn.Description, action.Invokable, "nodes must point at the project's own descriptions")
}

func TestLoadProject_Errors(t *testing.T) {
	p := sampleProject(t)
	data, err := core.SaveProject(p)
	require.NoError(t, err)

	_, err = core.LoadProject(append(append([]byte{}, data...), 0x00), "", nodes.Registry())
	assert.ErrorContains(t, err, "trailing bytes")

	_, err = core.LoadProject(data[:len(data)/2], "", nodes.Registry())
	assert.Error(t, err)

	future := core.NewEncoder(core.ProjectFormatVersion + 1)
	_, err = core.LoadProject(future.Bytes(), "", nodes.Registry())
	assert.ErrorContains(t, err, "newer than supported")
}

func TestProject_Validate(t *testing.T) {
	p := sampleProject(t)

	// An external reference nobody imports is inconsistent.
	orphan, err := core.ParseExternalManifest("lib/unused.scad", core.IncludeUse, []byte(`{}`))
	require.NoError(t, err)
	p.ExternalReferences = append(p.ExternalReferences, orphan)

	errs := p.Validate()
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], core.ErrInconsistent))
	assert.Contains(t, errs[0].Error(), "lib/unused.scad")
}

func TestProject_LookupOrder(t *testing.T) {
	p := sampleProject(t)

	d, ok := p.LookupInvokable("builtin/sphere")
	require.True(t, ok)
	assert.Equal(t, "sphere", d.Name)

	ext := p.ExternalReferences[0]
	d, ok = p.LookupInvokable(ext.Functions[0].ID)
	require.True(t, ok)
	assert.Equal(t, "lerp", d.Name)

	owner, ok := p.ExternalOwner(ext.Variables[0].ID)
	require.True(t, ok)
	assert.Same(t, ext, owner)

	refs := p.NodesReferencing(ext.Variables[0].ID)
	assert.Len(t, refs, 1)
	assert.Len(t, p.ImportNodes(ext.ID), 1)
}
