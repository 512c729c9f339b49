package nodes

import (
	"strings"

	"github.com/bvisness/scadflow/app/core"
)

// GEN:NodeAction
type EchoAction struct {
	Count int
}

func NewEchoNode() *core.Node {
	return core.NewNode(KindEcho, &EchoAction{Count: 1})
}

var (
	_ core.FlowRenderer  = &EchoAction{}
	_ core.VariableArity = &EchoAction{}
)

func (a *EchoAction) BuildPorts(n *core.Node) {
	inputs := append([]core.PortSpec{core.FlowIn()}, numbered("value", "Value", a.Count, core.PortAny)...)
	n.SetPorts(inputs, []core.PortSpec{core.FlowOut("next", "Next")})
}

func (a *EchoAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return "echo(" + strings.Join(renderInputs(ctx, n, "value"), ", ") + ");\n" + ctx.NextKey(n, "next")
}

func (a *EchoAction) Arity() int         { return a.Count }
func (a *EchoAction) MinArity() int      { return 1 }
func (a *EchoAction) SetArity(arity int) { a.Count = arity }
func (a *EchoAction) ArityTitles() (string, string) {
	return "Add value", "Remove value"
}

func (a *EchoAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
}

func (a *EchoAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 1)
}

// GEN:NodeAction
type StringBuilderAction struct {
	Count int
}

func NewStringBuilderNode() *core.Node {
	return core.NewNode(KindStringBuilder, &StringBuilderAction{Count: 1})
}

var (
	_ core.ExpressionRenderer = &StringBuilderAction{}
	_ core.VariableArity      = &StringBuilderAction{}
)

func (a *StringBuilderAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		numbered("value", "Value", a.Count, core.PortAny),
		[]core.PortSpec{core.Out("result", "Text", core.PortString)},
	)
}

func (a *StringBuilderAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return "str(" + strings.Join(renderInputs(ctx, n, "value"), ", ") + ")"
}

func (a *StringBuilderAction) Arity() int         { return a.Count }
func (a *StringBuilderAction) MinArity() int      { return 1 }
func (a *StringBuilderAction) SetArity(arity int) { a.Count = arity }
func (a *StringBuilderAction) ArityTitles() (string, string) {
	return "Add value", "Remove value"
}

func (a *StringBuilderAction) SaveInto(r core.Record) {
	r.SetInt("count", a.Count)
}

func (a *StringBuilderAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Count = r.Int("count", 1)
}
