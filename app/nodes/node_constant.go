package nodes

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
// ConstantAction exposes a single literal value on its output.
type ConstantAction struct {
	Type core.PortType
}

// NewConstantNode creates a constant holding lit.
func NewConstantNode(lit core.Literal) *core.Node {
	t, ok := constantTypes[lit.Kind]
	util.Assert(ok, "no constant type for %s literals", lit.Kind)
	n := core.NewNode(KindConstant, &ConstantAction{Type: t})
	n.SetLiteral(core.Output, 0, lit)
	return n
}

var constantTypes = map[core.LiteralKind]core.PortType{
	core.LiteralNumber:  core.PortNumber,
	core.LiteralString:  core.PortString,
	core.LiteralBoolean: core.PortBoolean,
	core.LiteralVector2: core.PortVector2,
	core.LiteralVector3: core.PortVector3,
}

var (
	_ core.ExpressionRenderer    = &ConstantAction{}
	_ core.OutputLiteralProvider = &ConstantAction{}
)

func (a *ConstantAction) BuildPorts(n *core.Node) {
	util.Assert(core.MatchingLiteralKind(a.Type) != core.LiteralNone, "constants cannot be %s", a.Type)
	n.SetPorts(nil, []core.PortSpec{core.Out("value", "Value", a.Type)})
}

func (a *ConstantAction) OutputLiteralPorts() []string {
	return []string{"value"}
}

func (a *ConstantAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	lit, ok := n.Literal(core.Output, output)
	util.Assert(ok, "%s has no value", n)
	return lit.Render()
}

func (a *ConstantAction) SaveInto(r core.Record) {
	r.SetPortType("type", a.Type)
}

func (a *ConstantAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Type = r.PortType("type", core.PortNumber)
}
