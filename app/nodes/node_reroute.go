package nodes

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// GEN:NodeAction
// RerouteAction passes through whatever is connected to it. It starts out
// with the Reroute placeholder type on both ends and adopts the type of the
// first thing connected to it.
type RerouteAction struct {
	Type core.PortType
}

func NewRerouteNode() *core.Node {
	return core.NewNode(KindReroute, &RerouteAction{Type: core.PortReroute})
}

var (
	_ core.FlowRenderer       = &RerouteAction{}
	_ core.ExpressionRenderer = &RerouteAction{}
	_ core.TypeAdopter        = &RerouteAction{}
)

func (a *RerouteAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		[]core.PortSpec{core.In("in", "", a.Type)},
		[]core.PortSpec{core.Out("out", "", a.Type)},
	)
}

func (a *RerouteAction) Render(ctx *core.RenderContext, n *core.Node) string {
	util.Assert(a.Type == core.PortFlow, "%s carries %s, not statements", n, a.Type)
	return ctx.NextKey(n, "out")
}

func (a *RerouteAction) RenderExpression(ctx *core.RenderContext, n *core.Node, output int) string {
	util.Assert(a.Type.IsExpression(), "%s carries %s, not a value", n, a.Type)
	return ctx.InputKey(n, "in")
}

func (a *RerouteAction) AdoptedType() core.PortType {
	return a.Type
}

// Adopt sets the type of both ends. Adopting PortReroute resets the node.
func (a *RerouteAction) Adopt(t core.PortType) {
	a.Type = t
}

func (a *RerouteAction) SaveInto(r core.Record) {
	r.SetPortType("type", a.Type)
}

func (a *RerouteAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Type = r.PortType("type", core.PortReroute)
}
