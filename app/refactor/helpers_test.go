package refactor_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/stretchr/testify/require"
)

const shapesManifest = `{
  "functions": [{"name": "lerp", "parameters": [{"name": "a"}, {"name": "b"}, {"name": "t", "type": "number"}]}],
  "modules":   [{"name": "rounded_box", "parameters": [{"name": "size", "type": "vector3"}]}],
  "variables": [{"name": "wall", "type": "number", "default": 2}]
}`

// fixture is a fresh project with an engine running the default rules and a
// builder over the main graph.
type fixture struct {
	P      *core.Project
	Engine *refactor.Engine
	Main   string
	B      *core.GraphBuilder
	Start  *core.NodeBuilder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := nodes.NewProject()
	g := p.Main().Graph
	b := core.NewGraphBuilder(g)
	return &fixture{
		P:      p,
		Engine: refactor.NewEngine(refactor.DefaultRules(), nil),
		Main:   p.Main().Description.ID,
		B:      b,
		Start:  &core.NodeBuilder{Builder: b, Node: g.NodesOfKind(nodes.KindStart)[0]},
	}
}

func (f *fixture) graph() *core.Graph {
	return f.P.Main().Graph
}

// reload points the builder at the live main graph again. A failed Apply
// swaps in a restored copy of the project, so earlier pointers go stale.
func (f *fixture) reload() {
	g := f.graph()
	f.B = core.NewGraphBuilder(g)
	f.Start = &core.NodeBuilder{Builder: f.B, Node: g.NodesOfKind(nodes.KindStart)[0]}
}

func (f *fixture) apply(t *testing.T, rs ...refactor.Refactoring) []core.Change {
	t.Helper()
	changes, err := f.Engine.Apply(f.P, "test", rs...)
	require.NoError(t, err)
	return changes
}

func (f *fixture) connect(from *core.NodeBuilder, outKey string, to *core.NodeBuilder, inKey string) *refactor.Connect {
	return &refactor.Connect{Graph: f.Main, Connection: conn(from, outKey, to, inKey)}
}

func conn(from *core.NodeBuilder, outKey string, to *core.NodeBuilder, inKey string) core.Connection {
	out, ok := from.Node.Port(core.Output, outKey)
	if !ok {
		panic("no output " + outKey)
	}
	in, ok := to.Node.Port(core.Input, inKey)
	if !ok {
		panic("no input " + inKey)
	}
	return core.Connection{From: from.ID(), FromPort: out.Index, To: to.ID(), ToPort: in.Index}
}

func (f *fixture) external(t *testing.T, mode core.IncludeMode) *core.ExternalReference {
	t.Helper()
	ext, err := core.ParseExternalManifest("lib/shapes.scad", mode, []byte(shapesManifest))
	require.NoError(t, err)
	return ext
}

func builtin(t *testing.T, name string) *core.InvokableDescription {
	t.Helper()
	d, ok := core.BuiltinNamed(name)
	require.True(t, ok, name)
	return d
}

func kindsOf(changes []core.Change) []core.ChangeKind {
	res := make([]core.ChangeKind, len(changes))
	for i, ch := range changes {
		res[i] = ch.Kind
	}
	return res
}
