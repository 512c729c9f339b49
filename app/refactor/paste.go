package refactor

import (
	"fmt"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// Paste adds copies of the clipboard's nodes to a graph with fresh ids and
// reconnects them through the rules. Entry, return and start nodes are
// skipped along with their connections.
type Paste struct {
	Graph     string
	Clipboard *core.Clipboard
}

func (r *Paste) Title() string { return "Paste" }

func (r *Paste) Perform(ctx *Context) {
	g, ok := ctx.Graph(r.Graph)
	if !ok {
		ctx.Fail(fmt.Errorf("no graph %q", r.Graph))
		return
	}

	ids := map[core.NodeID]core.NodeID{}
	for _, sn := range r.Clipboard.Nodes {
		info, ok := ctx.Project.Kinds.Lookup(sn.Kind)
		if !ok {
			ctx.Fail(fmt.Errorf("clipboard holds unknown node kind %q", sn.Kind))
			return
		}
		if info.Hidden {
			continue
		}
		n, err := restorePasted(ctx.Project, sn)
		if err != nil {
			ctx.Fail(err)
			return
		}
		ctx.AddNode(r.Graph, g, n)
		ids[sn.ID] = n.ID
	}

	for _, c := range r.Clipboard.Connections {
		from, okFrom := ids[c.From]
		to, okTo := ids[c.To]
		if !okFrom || !okTo {
			continue
		}
		ctx.Enqueue(&Connect{Graph: r.Graph, Connection: core.Connection{
			From: from, FromPort: c.FromPort, To: to, ToPort: c.ToPort,
		}})
	}
}

// restorePasted restores a copied node against the current project. Nodes
// copied from another project may name symbols this one does not have.
func restorePasted(p *core.Project, sn core.SavedNode) (n *core.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(util.AssertionError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("cannot paste %s node: %s", sn.Kind, ae.Msg)
		}
	}()
	return sn.Restore(p.Kinds, p), nil
}
