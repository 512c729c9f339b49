package refactor

import (
	"fmt"

	"github.com/bvisness/scadflow/app/core"
)

// IncreaseArity adds one step of ports to a variable-arity node. Existing
// connections follow their ports to wherever the rebuild puts them.
type IncreaseArity struct {
	Graph string
	Node  core.NodeID
}

func (r *IncreaseArity) Title() string { return "Increase arity" }

func (r *IncreaseArity) Perform(ctx *Context) {
	resize(ctx, r.Graph, r.Node, +1)
}

// DecreaseArity removes the last step of ports. Connections on the removed
// ports are disconnected through the rules; they do not come back if the
// arity is increased again.
type DecreaseArity struct {
	Graph string
	Node  core.NodeID
}

func (r *DecreaseArity) Title() string { return "Decrease arity" }

func (r *DecreaseArity) Perform(ctx *Context) {
	resize(ctx, r.Graph, r.Node, -1)
}

type portRef struct {
	dir core.Direction
	key string
}

// keyedConnection is a connection remembered by the keys of its ports on
// the node being resized, so it can be put back after indices change.
type keyedConnection struct {
	conn    core.Connection
	fromKey string // set when the resized node is the source
	toKey   string // set when the resized node is the target
}

func resize(ctx *Context, graphID string, id core.NodeID, delta int) {
	g, n, ok := ctx.Node(graphID, id)
	if !ok {
		return
	}
	va, ok := core.As[core.VariableArity](n)
	if !ok {
		ctx.Fail(fmt.Errorf("%s does not have a variable number of ports", n))
		return
	}
	if delta < 0 && va.Arity() <= va.MinArity() {
		ctx.Fail(fmt.Errorf("%s is already at its minimum of %d", n, va.MinArity()))
		return
	}

	// Work out which ports survive by resizing a copy.
	resized := n.Clone(ctx.Project.Kinds, ctx.Project)
	if delta > 0 {
		resized.IncreaseArity()
	} else {
		resized.DecreaseArity()
	}
	survives := map[portRef]bool{}
	for _, p := range resized.InputPorts {
		survives[portRef{core.Input, p.Key}] = true
	}
	for _, p := range resized.OutputPorts {
		survives[portRef{core.Output, p.Key}] = true
	}

	// Drop connections on ports that are going away.
	for _, c := range g.ConnectionsOf(n.ID) {
		gone := (c.To == n.ID && !survives[portRef{core.Input, n.MustPortAt(core.Input, c.ToPort).Key}]) ||
			(c.From == n.ID && !survives[portRef{core.Output, n.MustPortAt(core.Output, c.FromPort).Key}])
		if !gone {
			continue
		}
		if err := ctx.Disconnect(graphID, c); err != nil {
			ctx.Fail(err)
			return
		}
	}

	// Lift the remaining connections off, resize, and put them back at the
	// new indices of their ports.
	var kept []keyedConnection
	for _, c := range g.ConnectionsOf(n.ID) {
		kc := keyedConnection{conn: c}
		if c.From == n.ID {
			kc.fromKey = n.MustPortAt(core.Output, c.FromPort).Key
		}
		if c.To == n.ID {
			kc.toKey = n.MustPortAt(core.Input, c.ToPort).Key
		}
		kept = append(kept, kc)
		g.RemoveConnection(c)
	}

	if delta > 0 {
		n.IncreaseArity()
	} else {
		n.DecreaseArity()
	}
	ctx.Rebuilt(graphID, n)

	for _, kc := range kept {
		moved := kc.conn
		if kc.fromKey != "" {
			moved.FromPort = mustPortIndex(n, core.Output, kc.fromKey)
		}
		if kc.toKey != "" {
			moved.ToPort = mustPortIndex(n, core.Input, kc.toKey)
		}
		g.AddConnection(moved)
		if moved != kc.conn {
			ctx.record(core.Change{Kind: core.ConnectionRemoved, Graph: graphID, Connection: kc.conn})
			ctx.record(core.Change{Kind: core.ConnectionAdded, Graph: graphID, Connection: moved})
		}
	}

	// A surviving port may have changed type (min and max take a whole
	// vector when down to one input).
	if len(kept) > 0 {
		ctx.Enqueue(&PruneIncompatible{Graph: graphID, Node: n.ID})
	}
}

func mustPortIndex(n *core.Node, dir core.Direction, key string) int {
	p, ok := n.Port(dir, key)
	if !ok {
		panic(fmt.Sprintf("%s lost its %s port %q while resizing", n, dir, key))
	}
	return p.Index
}
