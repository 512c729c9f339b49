package nodes

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// ImportAction keeps an external reference registered while the node exists.
// The use or include line itself is emitted at the top of the generated file,
// so in a flow chain the node only passes control on.
//
// GEN:NodeAction
type ImportAction struct {
	Reference *core.ExternalReference
}

func NewImportNode(ext *core.ExternalReference) *core.Node {
	return core.NewNode(KindImport, &ImportAction{Reference: ext})
}

var (
	_ core.FlowRenderer     = &ImportAction{}
	_ core.ExternalImporter = &ImportAction{}
)

func (a *ImportAction) BuildPorts(n *core.Node) {
	util.Assert(a.Reference != nil, "%s has no external reference", n)
	n.SetPorts([]core.PortSpec{core.FlowIn()}, []core.PortSpec{core.FlowOut("next", "Next")})
}

func (a *ImportAction) Render(ctx *core.RenderContext, n *core.Node) string {
	return ctx.NextKey(n, "next")
}

func (a *ImportAction) ExternalReferenceID() string {
	return a.Reference.ID
}

func (a *ImportAction) SaveInto(r core.Record) {
	r.SetString("reference", a.Reference.ID)
}

func (a *ImportAction) RestoreFrom(r core.Record, res core.Resolver) {
	a.Reference = res.ExternalReference(r.MustString("reference"))
}
