package nodes

import (
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
type VectorAction struct {
	Count int
}

func NewVectorNode(count int) *core.Node {
	util.Assert(count >= 1, "a vector needs at least one element")
	return core.NewNode(KindVector, &VectorAction{Count: count})
}

var (
	_ core.ExpressionRenderer = &VectorAction{}
	_ core.VariableArity      = &VectorAction{}
)

func (a *VectorAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		numbered("item", "Item", a.Count, core.PortAny),
		[]core.PortSpec{core.Out("result", "Vector", core.PortVector)},
	)
}

func (a *VectorAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return "[" + strings.Join(renderInputs(ctx, n, "item"), ", ") + "]"
}

func (a *VectorAction) Arity() int         { return a.Count }
func (a *VectorAction) MinArity() int      { return 1 }
func (a *VectorAction) SetArity(arity int) { a.Count = arity }
func (a *VectorAction) ArityTitles() (string, string) {
	return "Add element", "Remove element"
}

func (a *VectorAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
}

func (a *VectorAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 1)
}

// GEN:NodeAction
// FixedVectorAction builds a Vector2 or Vector3 from numbers.
type FixedVectorAction struct {
	Size int
}

func NewVector2Node() *core.Node {
	return core.NewNode(KindVector2, &FixedVectorAction{Size: 2})
}

func NewVector3Node() *core.Node {
	return core.NewNode(KindVector3, &FixedVectorAction{Size: 3})
}

var _ core.ExpressionRenderer = &FixedVectorAction{}

var axisNames = []string{"x", "y", "z"}

func (a *FixedVectorAction) BuildPorts(n *core.Node) {
	util.Assert(a.Size == 2 || a.Size == 3, "bad vector size %d", a.Size)
	inputs := make([]core.PortSpec, a.Size)
	for i := range inputs {
		inputs[i] = core.In(axisNames[i], strings.ToUpper(axisNames[i]), core.PortNumber)
	}
	out := util.Tern(a.Size == 2, core.PortVector2, core.PortVector3)
	n.SetPorts(inputs, []core.PortSpec{core.Out("result", "Vector", out)})
}

func (a *FixedVectorAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	parts := make([]string, a.Size)
	for i := range parts {
		parts[i] = ctx.Input(n, i)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// The size comes from the kind, so there is nothing to persist.
func (a *FixedVectorAction) SaveInto(r core.Record)                       {}
func (a *FixedVectorAction) RestoreFrom(r core.Record, res core.Resolver) {}

// GEN:NodeAction
// IndexVectorAction reads one element of a vector. It only makes sense
// inside an expression.
type IndexVectorAction struct{}

func NewIndexVectorNode() *core.Node {
	return core.NewNode(KindIndexVector, &IndexVectorAction{})
}

var _ core.ExpressionRenderer = &IndexVectorAction{}

func (a *IndexVectorAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		[]core.PortSpec{
			core.In("vector", "Vector", core.PortVector),
			core.In("index", "Index", core.PortNumber),
		},
		[]core.PortSpec{core.Out("item", "Item", core.PortAny)},
	)
}

func (a *IndexVectorAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return ctx.InputKey(n, "vector") + "[" + ctx.InputKey(n, "index") + "]"
}

func (a *IndexVectorAction) SaveInto(r core.Record)                       {}
func (a *IndexVectorAction) RestoreFrom(r core.Record, res core.Resolver) {}
