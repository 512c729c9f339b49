package nodes

import (
	"strconv"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
type StartAction struct{}

func NewStartNode() *core.Node {
	return core.NewNode(KindStart, &StartAction{})
}

var _ core.FlowRenderer = &StartAction{}

func (a *StartAction) BuildPorts(n *core.Node) {
	n.SetPorts(nil, []core.PortSpec{core.FlowOut("next", "Next")})
}

func (a *StartAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return ctx.NextKey(n, "next")
}

func (a *StartAction) SaveInto(r core.Record)                       {}
func (a *StartAction) RestoreFrom(r core.Record, res core.Resolver) {}

// parameterOutputs lays out one output per parameter of an invokable.
func parameterOutputs(d *core.InvokableDescription) []core.PortSpec {
	specs := make([]core.PortSpec, len(d.Parameters))
	for i, p := range d.Parameters {
		specs[i] = core.Out(paramKey(i), p.Name, p.Type).Doc(p.Description)
	}
	return specs
}

// parameterInputs lays out one input per parameter of an invokable.
func parameterInputs(d *core.InvokableDescription) []core.PortSpec {
	specs := make([]core.PortSpec, len(d.Parameters))
	for i, p := range d.Parameters {
		specs[i] = core.In(paramKey(i), p.Name, p.Type).Doc(p.Description)
	}
	return specs
}

func paramKey(i int) string {
	return "param" + strconv.Itoa(i+1)
}

// GEN:NodeAction
type FunctionEntryAction struct {
	Invokable *core.InvokableDescription
}

func NewFunctionEntryNode(d *core.InvokableDescription) *core.Node {
	return core.NewNode(KindFunctionEntry, &FunctionEntryAction{Invokable: d})
}

var _ core.ExpressionRenderer = &FunctionEntryAction{}

func (a *FunctionEntryAction) BuildPorts(n *core.Node) {
	util.Assert(a.Invokable != nil, "%s has no invokable", n)
	n.SetPorts(nil, parameterOutputs(a.Invokable))
}

func (a *FunctionEntryAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return a.Invokable.Parameters[output].Name
}

func (a *FunctionEntryAction) SaveInto(r core.Record) {
	r.SetString("invokable", a.Invokable.ID)
}

func (a *FunctionEntryAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Invokable = res.Invokable(r.MustString("invokable"))
}

// GEN:NodeAction
type FunctionReturnAction struct {
	Invokable *core.InvokableDescription
}

func NewFunctionReturnNode(d *core.InvokableDescription) *core.Node {
	return core.NewNode(KindFunctionReturn, &FunctionReturnAction{Invokable: d})
}

func (a *FunctionReturnAction) BuildPorts(n *core.Node) {
	util.Assert(a.Invokable != nil, "%s has no invokable", n)
	n.SetPorts([]core.PortSpec{core.In("result", "Result", a.Invokable.ReturnType)}, nil)
}

// RenderBody renders the expression the function evaluates to.
func (a *FunctionReturnAction) RenderBody(ctx *core.RenderContext, n *core.Node) string {
	return ctx.InputKey(n, "result")
}

func (a *FunctionReturnAction) SaveInto(r core.Record) {
	r.SetString("invokable", a.Invokable.ID)
}

func (a *FunctionReturnAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Invokable = res.Invokable(r.MustString("invokable"))
}

// GEN:NodeAction
type ModuleEntryAction struct {
	Invokable *core.InvokableDescription
}

func NewModuleEntryNode(d *core.InvokableDescription) *core.Node {
	return core.NewNode(KindModuleEntry, &ModuleEntryAction{Invokable: d})
}

var (
	_ core.FlowRenderer       = &ModuleEntryAction{}
	_ core.ExpressionRenderer = &ModuleEntryAction{}
)

func (a *ModuleEntryAction) BuildPorts(n *core.Node) {
	util.Assert(a.Invokable != nil, "%s has no invokable", n)
	outputs := append([]core.PortSpec{core.FlowOut("body", "Body")}, parameterOutputs(a.Invokable)...)
	n.SetPorts(nil, outputs)
}

// Render renders the module body.
func (a *ModuleEntryAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return ctx.NextKey(n, "body")
}

func (a *ModuleEntryAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	util.Assert(output >= 1, "the body output of %s is not a value", n)
	return a.Invokable.Parameters[output-1].Name
}

func (a *ModuleEntryAction) SaveInto(r core.Record) {
	r.SetString("invokable", a.Invokable.ID)
}

func (a *ModuleEntryAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Invokable = res.Invokable(r.MustString("invokable"))
}
