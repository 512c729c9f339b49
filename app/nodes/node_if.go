package nodes

import (
	"strings"

	"github.com/bvisness/scadflow/app/core"
)

// GEN:NodeAction
type IfAction struct{}

func NewIfNode() *core.Node {
	return core.NewNode(KindIf, &IfAction{})
}

var _ core.FlowRenderer = &IfAction{}

func (a *IfAction) BuildPorts(n *core.Node) {
	n.SetPorts(
		[]core.PortSpec{core.FlowIn(), core.In("condition", "Condition", core.PortBoolean)},
		[]core.PortSpec{
			core.FlowOut("after", "After"),
			core.FlowOut("then", "Then"),
			core.FlowOut("else", "Else"),
		},
	)
}

func (a *IfAction) Render(ctx *core.RenderContext, n *core.Node) string {
	var b strings.Builder
	b.WriteString("if (" + ctx.InputKey(n, "condition") + ") {\n")
	b.WriteString(ctx.BlockKey(n, "then"))
	b.WriteString("}")
	if els := ctx.BlockKey(n, "else"); els != "" {
		b.WriteString(" else {\n")
		b.WriteString(els)
		b.WriteString("}")
	}
	b.WriteString("\n")
	b.WriteString(ctx.NextKey(n, "after"))
	return b.String()
}

func (a *IfAction) SaveInto(r core.Record)                       {}
func (a *IfAction) RestoreFrom(r core.Record, res core.Resolver) {}
