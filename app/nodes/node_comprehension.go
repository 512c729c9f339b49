package nodes

import (
	"fmt"
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
// ListComprehensionAction builds a list by iterating one list per nesting
// level. Each level binds a loop variable exposed as an item output; the
// expression input is evaluated for every combination.
type ListComprehensionAction struct {
	Levels int
}

func NewListComprehensionNode() *core.Node {
	return core.NewNode(KindListComprehension, &ListComprehensionAction{Levels: 1})
}

var (
	_ core.ExpressionRenderer = &ListComprehensionAction{}
	_ core.VariableArity      = &ListComprehensionAction{}
	_ core.Scope              = &ListComprehensionAction{}
)

func (a *ListComprehensionAction) BuildPorts(n *core.Node) {
	inputs := append(
		numbered("list", "List", a.Levels, core.PortVector),
		core.In("expression", "Expression", core.PortAny).Doc("Evaluated once per combination of items."),
	)
	outputs := append(
		[]core.PortSpec{core.Out("result", "Result", core.PortVector)},
		numbered("item", "Item", a.Levels, core.PortAny)...,
	)
	n.SetPorts(inputs, outputs)
}

func (a *ListComprehensionAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	if output > 0 {
		return ctx.VariableName(n, output)
	}
	var b strings.Builder
	b.WriteString("[")
	for level := 1; level <= a.Levels; level++ {
		fmt.Fprintf(&b, "for (%s = %s) ", ctx.VariableName(n, level), ctx.InputKey(n, fmt.Sprintf("list%d", level)))
	}
	b.WriteString(ctx.InputKey(n, "expression"))
	b.WriteString("]")
	return b.String()
}

// ScopeOutput is true for the item outputs.
func (a *ListComprehensionAction) ScopeOutput(output int) bool {
	return output >= 1
}

// ScopedInput is true for the expression, which follows the lists.
func (a *ListComprehensionAction) ScopedInput(input int) bool {
	return input == a.Levels
}

func (a *ListComprehensionAction) Arity() int         { return a.Levels }
func (a *ListComprehensionAction) MinArity() int      { return 1 }
func (a *ListComprehensionAction) SetArity(arity int) { a.Levels = arity }
func (a *ListComprehensionAction) ArityTitles() (string, string) {
	return "Add nesting level", "Remove nesting level"
}

func (a *ListComprehensionAction) SaveInto(r core.Record) {
	r.SetInt("levels", a.Levels)
}

func (a *ListComprehensionAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Levels = r.Int("levels", 1)
}

// GEN:NodeAction
// ForLoopAction repeats its body once per combination of list elements.
type ForLoopAction struct {
	Levels int
}

func NewForLoopNode() *core.Node {
	return core.NewNode(KindForLoop, &ForLoopAction{Levels: 1})
}

var (
	_ core.FlowRenderer       = &ForLoopAction{}
	_ core.ExpressionRenderer = &ForLoopAction{}
	_ core.VariableArity      = &ForLoopAction{}
	_ core.Scope              = &ForLoopAction{}
)

// Outputs are after, body, then one item per level.
const forLoopFirstItem = 2

func (a *ForLoopAction) BuildPorts(n *core.Node) {
	inputs := append([]core.PortSpec{core.FlowIn()}, numbered("list", "List", a.Levels, core.PortVector)...)
	outputs := append(
		[]core.PortSpec{core.FlowOut("after", "After"), core.FlowOut("body", "Body")},
		numbered("item", "Item", a.Levels, core.PortAny)...,
	)
	n.SetPorts(inputs, outputs)
}

func (a *ForLoopAction) Render(ctx *core.RenderContext, n *core.Node) string {
	bindings := make([]string, a.Levels)
	for level := 1; level <= a.Levels; level++ {
		bindings[level-1] = ctx.VariableName(n, level) + " = " + ctx.InputKey(n, fmt.Sprintf("list%d", level))
	}
	return "for (" + strings.Join(bindings, ", ") + ") {\n" +
		ctx.BlockKey(n, "body") +
		"}\n" +
		ctx.NextKey(n, "after")
}

func (a *ForLoopAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	util.Assert(output >= forLoopFirstItem, "output %d of %s is not a value", output, n)
	return ctx.VariableName(n, output-forLoopFirstItem+1)
}

func (a *ForLoopAction) ScopeOutput(output int) bool {
	return output >= forLoopFirstItem
}

// ScopedInput is always false: the items are only visible in the body,
// which hangs off a flow output.
func (a *ForLoopAction) ScopedInput(input int) bool {
	return false
}

func (a *ForLoopAction) Arity() int         { return a.Levels }
func (a *ForLoopAction) MinArity() int      { return 1 }
func (a *ForLoopAction) SetArity(arity int) { a.Levels = arity }
func (a *ForLoopAction) ArityTitles() (string, string) {
	return "Add nesting level", "Remove nesting level"
}

func (a *ForLoopAction) SaveInto(r core.Record) {
	r.SetInt("levels", a.Levels)
}

func (a *ForLoopAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Levels = r.Int("levels", 1)
}

// GEN:NodeAction
// LetAction binds values to names for the duration of an expression.
type LetAction struct {
	Count int
}

func NewLetNode() *core.Node {
	return core.NewNode(KindLet, &LetAction{Count: 1})
}

var (
	_ core.ExpressionRenderer = &LetAction{}
	_ core.VariableArity      = &LetAction{}
	_ core.Scope              = &LetAction{}
)

func (a *LetAction) BuildPorts(n *core.Node) {
	inputs := append(
		numbered("value", "Value", a.Count, core.PortAny),
		core.In("expression", "Expression", core.PortAny),
	)
	outputs := append(
		[]core.PortSpec{core.Out("result", "Result", core.PortAny)},
		numbered("var", "Variable", a.Count, core.PortAny)...,
	)
	n.SetPorts(inputs, outputs)
}

func (a *LetAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	if output > 0 {
		return ctx.VariableName(n, output)
	}
	bindings := make([]string, a.Count)
	for i := 1; i <= a.Count; i++ {
		bindings[i-1] = ctx.VariableName(n, i) + " = " + ctx.InputKey(n, fmt.Sprintf("value%d", i))
	}
	return "let (" + strings.Join(bindings, ", ") + ") " + ctx.InputKey(n, "expression")
}

func (a *LetAction) ScopeOutput(output int) bool {
	return output >= 1
}

func (a *LetAction) ScopedInput(input int) bool {
	return input == a.Count
}

func (a *LetAction) Arity() int         { return a.Count }
func (a *LetAction) MinArity() int      { return 1 }
func (a *LetAction) SetArity(arity int) { a.Count = arity }
func (a *LetAction) ArityTitles() (string, string) {
	return "Add variable", "Remove variable"
}

func (a *LetAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
}

func (a *LetAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 1)
}
