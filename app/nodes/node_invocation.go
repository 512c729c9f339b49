package nodes

import (
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// applyDefaults copies parameter defaults into the literal editors of the
// matching inputs.
func applyDefaults(n *core.Node, d *core.InvokableDescription) {
	for i, p := range d.Parameters {
		if p.Default == nil {
			continue
		}
		port, ok := n.Port(core.Input, paramKey(i))
		if !ok {
			continue
		}
		if cur, ok := n.Literal(core.Input, port.Index); ok && cur.Kind == p.Default.Kind {
			n.SetLiteral(core.Input, port.Index, *p.Default)
		}
	}
}

// renderArguments renders the parameter inputs of an invocation. Trailing
// arguments with no value are left out so the callee's defaults apply.
func renderArguments(ctx *core.RenderContext, n *core.Node, d *core.InvokableDescription) string {
	args := make([]string, len(d.Parameters))
	for i := range d.Parameters {
		args[i] = ctx.InputKey(n, paramKey(i))
	}
	for len(args) > 0 && args[len(args)-1] == core.Undefined {
		args = args[:len(args)-1]
	}
	return strings.Join(args, ", ")
}

// GEN:NodeAction
type FunctionInvocationAction struct {
	Invokable *core.InvokableDescription
}

func NewFunctionInvocationNode(d *core.InvokableDescription) *core.Node {
	util.Assert(d.Kind == core.InvokableFunction, "%s is not a function", d)
	n := core.NewNode(KindFunctionInvocation, &FunctionInvocationAction{Invokable: d})
	applyDefaults(n, d)
	return n
}

var (
	_ core.ExpressionRenderer = &FunctionInvocationAction{}
	_ core.SymbolReferrer     = &FunctionInvocationAction{}
)

func (a *FunctionInvocationAction) BuildPorts(n *core.Node) {
	util.Assert(a.Invokable != nil, "%s has no invokable", n)
	n.SetPorts(
		parameterInputs(a.Invokable),
		[]core.PortSpec{core.Out("result", "Result", a.Invokable.ReturnType)},
	)
}

func (a *FunctionInvocationAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return a.Invokable.Name + "(" + renderArguments(ctx, n, a.Invokable) + ")"
}

func (a *FunctionInvocationAction) References() []string {
	return []string{a.Invokable.ID}
}

func (a *FunctionInvocationAction) SaveInto(r core.Record) {
	r.SetString("invokable", a.Invokable.ID)
}

func (a *FunctionInvocationAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Invokable = res.Invokable(r.MustString("invokable"))
}

// GEN:NodeAction
type ModuleInvocationAction struct {
	Invokable *core.InvokableDescription
}

func NewModuleInvocationNode(d *core.InvokableDescription) *core.Node {
	util.Assert(d.Kind == core.InvokableModule, "%s is not a module", d)
	n := core.NewNode(KindModuleInvocation, &ModuleInvocationAction{Invokable: d})
	applyDefaults(n, d)
	return n
}

var (
	_ core.FlowRenderer   = &ModuleInvocationAction{}
	_ core.SymbolReferrer = &ModuleInvocationAction{}
)

func (a *ModuleInvocationAction) BuildPorts(n *core.Node) {
	util.Assert(a.Invokable != nil, "%s has no invokable", n)
	inputs := append([]core.PortSpec{core.FlowIn()}, parameterInputs(a.Invokable)...)
	outputs := []core.PortSpec{core.FlowOut("after", "After")}
	if a.Invokable.SupportsChildren {
		outputs = append(outputs, core.FlowOut("children", "Children").Doc("Statements the module operates on."))
	}
	n.SetPorts(inputs, outputs)
}

func (a *ModuleInvocationAction) Render(ctx *core.RenderContext, n *core.Node) string {
	var b strings.Builder
	b.WriteString(a.Invokable.Name + "(" + renderArguments(ctx, n, a.Invokable) + ")")
	if children := ctx.BlockKey(n, "children"); children != "" {
		b.WriteString(" {\n")
		b.WriteString(children)
		b.WriteString("}\n")
	} else {
		b.WriteString(";\n")
	}
	b.WriteString(ctx.NextKey(n, "after"))
	return b.String()
}

func (a *ModuleInvocationAction) References() []string {
	return []string{a.Invokable.ID}
}

func (a *ModuleInvocationAction) SaveInto(r core.Record) {
	r.SetString("invokable", a.Invokable.ID)
}

func (a *ModuleInvocationAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Invokable = res.Invokable(r.MustString("invokable"))
}

// GEN:NodeAction
type ChildrenAction struct{}

func NewChildrenNode() *core.Node {
	return core.NewNode(KindChildren, &ChildrenAction{})
}

var _ core.FlowRenderer = &ChildrenAction{}

func (a *ChildrenAction) BuildPorts(n *core.Node) {
	n.SetPorts([]core.PortSpec{core.FlowIn()}, []core.PortSpec{core.FlowOut("next", "Next")})
}

func (a *ChildrenAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return "children();\n" + ctx.NextKey(n, "next")
}

func (a *ChildrenAction) SaveInto(r core.Record)                       {}
func (a *ChildrenAction) RestoreFrom(r core.Record, res core.Resolver) {}
