package nodes

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
type VariableGetAction struct {
	Variable *core.VariableDescription
}

func NewVariableGetNode(v *core.VariableDescription) *core.Node {
	return core.NewNode(KindVariableGet, &VariableGetAction{Variable: v})
}

var (
	_ core.ExpressionRenderer = &VariableGetAction{}
	_ core.SymbolReferrer     = &VariableGetAction{}
)

func (a *VariableGetAction) BuildPorts(n *core.Node) {
	util.Assert(a.Variable != nil, "%s has no variable", n)
	n.SetPorts(nil, []core.PortSpec{core.Out("value", a.Variable.Name, a.Variable.Type)})
}

func (a *VariableGetAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	return a.Variable.Name
}

func (a *VariableGetAction) References() []string {
	return []string{a.Variable.ID}
}

func (a *VariableGetAction) SaveInto(r core.Record) {
	r.SetString("variable", a.Variable.ID)
}

func (a *VariableGetAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Variable = res.Variable(r.MustString("variable"))
}

// GEN:NodeAction
type VariableSetAction struct {
	Variable *core.VariableDescription
}

func NewVariableSetNode(v *core.VariableDescription) *core.Node {
	n := core.NewNode(KindVariableSet, &VariableSetAction{Variable: v})
	if v.Default != nil {
		if cur, ok := n.Literal(core.Input, 1); ok && cur.Kind == v.Default.Kind {
			n.SetLiteral(core.Input, 1, *v.Default)
		}
	}
	return n
}

var (
	_ core.FlowRenderer   = &VariableSetAction{}
	_ core.SymbolReferrer = &VariableSetAction{}
)

func (a *VariableSetAction) BuildPorts(n *core.Node) {
	util.Assert(a.Variable != nil, "%s has no variable", n)
	n.SetPorts(
		[]core.PortSpec{core.FlowIn(), core.In("value", "Value", a.Variable.Type)},
		[]core.PortSpec{core.FlowOut("next", "Next")},
	)
}

func (a *VariableSetAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return a.Variable.Name + " = " + ctx.InputKey(n, "value") + ";\n" + ctx.NextKey(n, "next")
}

func (a *VariableSetAction) References() []string {
	return []string{a.Variable.ID}
}

func (a *VariableSetAction) SaveInto(r core.Record) {
	r.SetString("variable", a.Variable.ID)
}

func (a *VariableSetAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Variable = res.Variable(r.MustString("variable"))
}
