package refactor

import (
	"fmt"

	"github.com/bvisness/scadflow/app/core"
)

// AddNode places a new node in a graph.
type AddNode struct {
	Graph string
	Node  *core.Node
}

func (r *AddNode) Title() string { return "Add " + string(r.Node.Kind) }

func (r *AddNode) Perform(ctx *Context) {
	g, ok := ctx.Graph(r.Graph)
	if !ok {
		ctx.Fail(fmt.Errorf("no graph %q", r.Graph))
		return
	}
	ctx.AddNode(r.Graph, g, r.Node)
}

// DeleteNode removes a node after disconnecting everything attached to it.
//
// Deleting the last import node of an external reference also deletes every
// node in the project that uses a symbol of that reference, then drops the
// reference from the project.
type DeleteNode struct {
	Graph string
	Node  core.NodeID
}

func (r *DeleteNode) Title() string { return "Delete node" }

func (r *DeleteNode) Perform(ctx *Context) {
	g, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}

	if imp, ok := core.As[core.ExternalImporter](n); ok {
		extID := imp.ExternalReferenceID()
		if len(ctx.Project.ImportNodes(extID)) == 1 {
			if ext, ok := ctx.Project.LookupExternalReference(extID); ok {
				var symbols []string
				for _, d := range ext.Functions {
					symbols = append(symbols, d.ID)
				}
				for _, d := range ext.Modules {
					symbols = append(symbols, d.ID)
				}
				for _, v := range ext.Variables {
					symbols = append(symbols, v.ID)
				}
				for _, ref := range ctx.Project.NodesReferencing(symbols...) {
					ctx.Enqueue(&DeleteNode{Graph: ref.Graph, Node: ref.Node})
				}
				ctx.Enqueue(&unregisterExternal{ID: extID})
			}
		}
	}

	if err := ctx.deleteNode(r.Graph, g, n); err != nil {
		ctx.Fail(err)
	}
}

// deleteNode disconnects every connection of n through the rules, then
// removes it.
func (ctx *Context) deleteNode(graphID string, g *core.Graph, n *core.Node) error {
	for _, c := range g.ConnectionsOf(n.ID) {
		if err := ctx.Disconnect(graphID, c); err != nil {
			return err
		}
	}
	ctx.RemoveNode(graphID, g, n.ID)
	return nil
}

// DissolveNode deletes a statement node and joins the chain it sat in, so
// the statements before and after it run in sequence. If the rules refuse
// the bridging connection, the chain is left open.
type DissolveNode struct {
	Graph string
	Node  core.NodeID
}

func (r *DissolveNode) Title() string { return "Dissolve node" }

func (r *DissolveNode) Perform(ctx *Context) {
	g, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}
	in, out, ok := flowThrough(n)
	if !ok {
		if err := ctx.deleteNode(r.Graph, g, n); err != nil {
			ctx.Fail(err)
		}
		return
	}

	before, hasBefore := g.ConnectedOutput(n.ID, in.Index)
	after := g.ConnectionsAt(n.ID, core.Output, out.Index)

	if err := ctx.deleteNode(r.Graph, g, n); err != nil {
		ctx.Fail(err)
		return
	}
	if !hasBefore || len(after) == 0 {
		return
	}
	bridge := core.Connection{From: before.From, FromPort: before.FromPort, To: after[0].To, ToPort: after[0].ToPort}
	if err := ctx.Connect(r.Graph, bridge); err != nil {
		ctx.Logger.Debug("leaving chain open", "bridge", bridge, "error", err)
	}
}

// flowThrough returns the flow input of a statement node and the flow output
// that continues its chain: the first flow output, which every statement
// kind lays out as "next" or "after".
func flowThrough(n *core.Node) (in, out core.Port, ok bool) {
	in, hasIn := firstPort(n.InputPorts, core.PortFlow)
	out, hasOut := firstPort(n.OutputPorts, core.PortFlow)
	return in, out, hasIn && hasOut
}

// Connect adds a connection through the rules. A veto fails the operation.
type Connect struct {
	Graph      string
	Connection core.Connection
}

func (r *Connect) Title() string { return "Connect" }

func (r *Connect) Perform(ctx *Context) {
	if err := ctx.Connect(r.Graph, r.Connection); err != nil {
		ctx.Fail(err)
	}
}

// Disconnect removes a connection through the rules.
type Disconnect struct {
	Graph      string
	Connection core.Connection
}

func (r *Disconnect) Title() string { return "Disconnect" }

func (r *Disconnect) Perform(ctx *Context) {
	if err := ctx.Disconnect(r.Graph, r.Connection); err != nil {
		ctx.Fail(err)
	}
}

// SetLiteral changes the inline value of a port.
type SetLiteral struct {
	Graph     string
	Node      core.NodeID
	Direction core.Direction
	Port      int
	Literal   core.Literal
}

func (r *SetLiteral) Title() string { return "Set value" }

func (r *SetLiteral) Perform(ctx *Context) {
	_, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}
	cur, ok := n.Literal(r.Direction, r.Port)
	if !ok {
		ctx.Fail(fmt.Errorf("%s %s %d has no inline value", n, r.Direction, r.Port))
		return
	}
	if cur.Kind != r.Literal.Kind {
		ctx.Fail(fmt.Errorf("%s %s %d takes a %s value, not %s", n, r.Direction, r.Port, cur.Kind, r.Literal.Kind))
		return
	}
	n.SetLiteral(r.Direction, r.Port, r.Literal)
	ctx.record(core.Change{Kind: core.LiteralChanged, Graph: r.Graph, Node: n.ID, Detail: r.Literal.Render()})
}
