package refactor

import (
	"github.com/bvisness/scadflow/app/core"
)

// RetypeReroute gives a reroute node a concrete type on both ends.
type RetypeReroute struct {
	Graph string
	Node  core.NodeID
	Type  core.PortType
}

func (r *RetypeReroute) Title() string { return "Retype reroute" }

func (r *RetypeReroute) Perform(ctx *Context) {
	_, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}
	adopter, ok := core.As[core.TypeAdopter](n)
	if !ok || adopter.AdoptedType() == r.Type {
		return
	}
	adopter.Adopt(r.Type)
	n.Rebuild()
	ctx.Rebuilt(r.Graph, n)
}

// ResetReroute puts a reroute node back to the placeholder type, unless it
// has been connected again in the meantime.
type ResetReroute struct {
	Graph string
	Node  core.NodeID
}

func (r *ResetReroute) Title() string { return "Reset reroute" }

func (r *ResetReroute) Perform(ctx *Context) {
	g, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok || len(g.ConnectionsOf(n.ID)) > 0 {
		return
	}
	ctx.Enqueue(&RetypeReroute{Graph: r.Graph, Node: r.Node, Type: core.PortReroute})
}

// RetypeReducer changes the shared type of a reducer's inputs and output.
type RetypeReducer struct {
	Graph string
	Node  core.NodeID
	Type  core.PortType
}

func (r *RetypeReducer) Title() string { return "Retype " + r.Type.String() }

func (r *RetypeReducer) Perform(ctx *Context) {
	_, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}
	reducer, ok := core.As[core.TypedReducer](n)
	if !ok || reducer.SharedType() == r.Type {
		return
	}
	reducer.SetSharedType(r.Type)
	n.Rebuild()
	ctx.Rebuilt(r.Graph, n)
}

// ResetReducer returns a reducer with no inputs connected to type Any.
type ResetReducer struct {
	Graph string
	Node  core.NodeID
}

func (r *ResetReducer) Title() string { return "Reset reducer" }

func (r *ResetReducer) Perform(ctx *Context) {
	g, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok || countInputConnections(g, n.ID) > 0 {
		return
	}
	ctx.Enqueue(&RetypeReducer{Graph: r.Graph, Node: r.Node, Type: core.PortAny})
}

// PruneIncompatible disconnects every connection of a node whose types no
// longer fit, typically after the node was retyped.
type PruneIncompatible struct {
	Graph string
	Node  core.NodeID
}

func (r *PruneIncompatible) Title() string { return "Remove incompatible connections" }

func (r *PruneIncompatible) Perform(ctx *Context) {
	g, n, ok := ctx.Node(r.Graph, r.Node)
	if !ok {
		return
	}
	for _, c := range g.ConnectionsOf(n.ID) {
		if core.CanBeAssignedTo(g.SourcePort(c).Type, g.TargetPort(c).Type) {
			continue
		}
		if err := ctx.Disconnect(r.Graph, c); err != nil {
			ctx.Fail(err)
			return
		}
	}
}
