package nodes

import (
	"strings"

	"github.com/bvisness/scadflow/app/core"
)

type reducerOp int

const (
	reducerSum reducerOp = iota
	reducerProduct
)

func (op reducerOp) operator() string {
	if op == reducerProduct {
		return " * "
	}
	return " + "
}

// GEN:NodeAction
// ReducerAction combines its inputs with an arithmetic operator. All inputs
// and the output share one type, which starts as Any and follows whatever
// gets connected.
type ReducerAction struct {
	Op    reducerOp
	Type  core.PortType
	Count int
}

func newReducer(op reducerOp) *ReducerAction {
	return &ReducerAction{Op: op, Type: core.PortAny, Count: 2}
}

func NewSumNode() *core.Node {
	return core.NewNode(KindSum, newReducer(reducerSum))
}

func NewProductNode() *core.Node {
	return core.NewNode(KindProduct, newReducer(reducerProduct))
}

var (
	_ core.ExpressionRenderer = &ReducerAction{}
	_ core.VariableArity      = &ReducerAction{}
	_ core.TypedReducer       = &ReducerAction{}
)

func (a *ReducerAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		numbered("value", "Value", a.Count, a.Type),
		[]core.PortSpec{core.Out("result", "Result", a.Type)},
	)
}

func (a *ReducerAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return "(" + strings.Join(renderInputs(ctx, n, "value"), a.Op.operator()) + ")"
}

func (a *ReducerAction) Arity() int         { return a.Count }
func (a *ReducerAction) MinArity() int      { return 2 }
func (a *ReducerAction) SetArity(arity int) { a.Count = arity }
func (a *ReducerAction) ArityTitles() (string, string) {
	return "Add input", "Remove input"
}

func (a *ReducerAction) SharedType() core.PortType     { return a.Type }
func (a *ReducerAction) SetSharedType(t core.PortType) { a.Type = t }

func (a *ReducerAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
	r.SetPortType("type", a.Type)
}

func (a *ReducerAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 2)
	a.Type = r.PortType("type", core.PortAny)
}

type extremumFn int

const (
	extremumMin extremumFn = iota
	extremumMax
)

func (f extremumFn) name() string {
	if f == extremumMax {
		return "max"
	}
	return "min"
}

// GEN:NodeAction
// ExtremumAction is min or max. With a single input it takes a whole vector
// and picks among its elements.
type ExtremumAction struct {
	Fn    extremumFn
	Count int
}

func newExtremum(fn extremumFn) *ExtremumAction {
	return &ExtremumAction{Fn: fn, Count: 2}
}

func NewMinNode() *core.Node {
	return core.NewNode(KindMin, newExtremum(extremumMin))
}

func NewMaxNode() *core.Node {
	return core.NewNode(KindMax, newExtremum(extremumMax))
}

var (
	_ core.ExpressionRenderer = &ExtremumAction{}
	_ core.VariableArity      = &ExtremumAction{}
)

func (a *ExtremumAction) BuildPorts(n *core.Node) {
	inputs := numbered("value", "Value", a.Count, core.PortNumber)
	if a.Count == 1 {
		inputs[0] = core.In("value1", "Values", core.PortVector)
	}
	n.SetPorts(inputs, []core.PortSpec{core.Out("result", "Result", core.PortNumber)})
}

func (a *ExtremumAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return a.Fn.name() + "(" + strings.Join(renderInputs(ctx, n, "value"), ", ") + ")"
}

func (a *ExtremumAction) Arity() int         { return a.Count }
func (a *ExtremumAction) MinArity() int      { return 1 }
func (a *ExtremumAction) SetArity(arity int) { a.Count = arity }
func (a *ExtremumAction) ArityTitles() (string, string) {
	return "Add input", "Remove input"
}

func (a *ExtremumAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
}

func (a *ExtremumAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 2)
}
