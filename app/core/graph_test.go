package core_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddAndRemove(t *testing.T) {
	b := core.NewGraphBuilder(nil)
	a := b.Add("a", nodes.NewConstantNode(core.NumberLiteral(1)))
	sum := b.Add("sum", nodes.NewSumNode())
	a.Connect("value", sum, "value1")

	g := b.Graph
	assert.Equal(t, core.NodeID(1), a.ID())
	assert.Equal(t, core.NodeID(2), sum.ID())
	assert.Len(t, g.ConnectionsOf(a.ID()), 1)

	c, ok := g.ConnectedOutput(sum.ID(), 0)
	require.True(t, ok)
	assert.Equal(t, core.Connection{From: a.ID(), FromPort: 0, To: sum.ID(), ToPort: 0}, c)

	assert.PanicsWithError(t, "assertion failed: node 1 still has connections", func() {
		g.RemoveNode(a.ID())
	})
	assert.True(t, g.RemoveConnection(c))
	assert.False(t, g.RemoveConnection(c))
	g.RemoveNode(a.ID())
	_, ok = g.GetNode(a.ID())
	assert.False(t, ok)

	// Ids are never reused.
	c2 := b.Add("", nodes.NewSumNode())
	assert.Equal(t, core.NodeID(3), c2.ID())
}

func TestGraph_InputTakesOneConnection(t *testing.T) {
	b := core.NewGraphBuilder(nil)
	a := b.Add("a", nodes.NewConstantNode(core.NumberLiteral(1)))
	c := b.Add("c", nodes.NewConstantNode(core.NumberLiteral(2)))
	sum := b.Add("sum", nodes.NewSumNode())
	a.Connect("value", sum, "value1")

	assert.Panics(t, func() { c.Connect("value", sum, "value1") })
}

func edge(from *core.NodeBuilder, outKey string, to *core.NodeBuilder, inKey string) core.Connection {
	out := util.Must1B(from.Node.Port(core.Output, outKey))
	in := util.Must1B(to.Node.Port(core.Input, inKey))
	return core.Connection{From: from.ID(), FromPort: out.Index, To: to.ID(), ToPort: in.Index}
}

func TestGraph_CreatesCycle(t *testing.T) {
	b := core.NewGraphBuilder(nil)
	a := b.Add("a", nodes.NewConstantNode(core.NumberLiteral(1)))
	sum := b.Add("sum", nodes.NewSumNode())
	prod := b.Add("prod", nodes.NewProductNode())
	a.Connect("value", sum, "value1").Connect("result", prod, "value1")

	g := b.Graph
	assert.True(t, g.CreatesCycle(edge(prod, "result", sum, "value2")))
	assert.False(t, g.CreatesCycle(edge(a, "value", prod, "value2")))

	// An item is a binding: comp -> item -> inner -> expression -> comp is
	// fine, but the item must not feed the list it is drawn from.
	comp := b.Add("comp", nodes.NewListComprehensionNode())
	inner := b.Add("inner", nodes.NewSumNode())
	comp.Connect("item1", inner, "value1")

	require.Len(t, g.ConnectionsAt(comp.ID(), core.Output, 1), 1)
	assert.False(t, g.CreatesCycle(edge(inner, "result", comp, "expression")))
	assert.False(t, g.CreatesCycle(edge(comp, "item1", comp, "expression")))
	assert.True(t, g.CreatesCycle(edge(comp, "item1", comp, "list1")))
	assert.True(t, g.CreatesCycle(edge(inner, "result", comp, "list1")))
	assert.True(t, g.CreatesCycle(edge(comp, "result", comp, "expression")))

	let := b.Add("let", nodes.NewLetNode())
	assert.False(t, g.CreatesCycle(edge(let, "var1", let, "expression")))
	assert.True(t, g.CreatesCycle(edge(let, "var1", let, "value1")))

	loop := b.Add("loop", nodes.NewForLoopNode())
	assert.True(t, g.CreatesCycle(edge(loop, "item1", loop, "list1")))
}

func TestNode_LiteralsFollowPorts(t *testing.T) {
	n := nodes.NewMinNode()
	require.Len(t, n.InputPorts, 2)
	assert.Len(t, n.Literals, 2)

	n.SetLiteral(core.Input, 1, core.NumberLiteral(5))
	n.IncreaseArity()
	require.Len(t, n.InputPorts, 3)
	lit, ok := n.Literal(core.Input, 1)
	require.True(t, ok)
	assert.Equal(t, core.NumberLiteral(5), lit, "surviving ports keep their literal")

	n.DecreaseArity()
	n.DecreaseArity()
	require.Len(t, n.InputPorts, 1)
	assert.Equal(t, core.PortVector, n.InputPorts[0].Type)
	assert.Empty(t, n.Literals, "a vector input has no inline editor")

	assert.Panics(t, func() { n.DecreaseArity() })
}

func TestNode_SetLiteralChecksKind(t *testing.T) {
	n := nodes.NewVector3Node()
	assert.Panics(t, func() { n.SetLiteral(core.Input, 0, core.StringLiteral("x")) })
	var ae util.AssertionError
	func() {
		defer func() { ae = recover().(util.AssertionError) }()
		n.SetLiteral(core.Input, 7, core.NumberLiteral(1))
	}()
	assert.NotEmpty(t, ae.Stack)
}

func TestNode_CloneIsIndependent(t *testing.T) {
	p := nodes.NewProject()
	n := nodes.NewVectorNode(2)
	n.ID = 5
	clone := n.Clone(p.Kinds, p)

	assert.Equal(t, n.ID, clone.ID)
	assert.Equal(t, n.InputPorts, clone.InputPorts)
	clone.IncreaseArity()
	assert.Len(t, n.InputPorts, 2)
	assert.Len(t, clone.InputPorts, 3)
}

func TestKindRegistry(t *testing.T) {
	r := nodes.Registry()
	info, ok := r.Lookup(nodes.KindListComprehension)
	require.True(t, ok)
	assert.Equal(t, "List Comprehension", info.Title)

	n := r.New(nodes.KindSum)
	assert.Equal(t, nodes.KindSum, n.Kind)
	assert.Len(t, n.InputPorts, 2)

	assert.Panics(t, func() { r.MustLookup("no-such-kind") })
	assert.Panics(t, func() {
		r.Register(core.KindInfo{Kind: nodes.KindSum})
	})
}
