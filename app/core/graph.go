package core

import (
	"fmt"
	"slices"

	"github.com/bvisness/scadflow/util"
)

// Connection links an output port to an input port of the same graph.
type Connection struct {
	From     NodeID
	FromPort int
	To       NodeID
	ToPort   int
}

func (c Connection) String() string {
	return fmt.Sprintf("%d:%d -> %d:%d", c.From, c.FromPort, c.To, c.ToPort)
}

// Touches reports whether either end of the connection is on node id.
func (c Connection) Touches(id NodeID) bool {
	return c.From == id || c.To == id
}

func (c *Connection) Serialize(s *Serializer) bool {
	SInt(s, &c.From)
	SInt(s, &c.FromPort)
	SInt(s, &c.To)
	SInt(s, &c.ToPort)
	return s.Ok()
}

// Graph is the body of one invokable. Nodes never hold connections; the
// graph owns both and the refactoring engine is the only thing that should
// mutate it.
type Graph struct {
	Nodes       []*Node
	Connections []Connection
	NextNodeID  NodeID
}

func NewGraph() *Graph {
	return &Graph{
		Nodes:       []*Node{},
		Connections: []Connection{},
	}
}

// AddNode gives n a fresh id and adds it to the graph.
func (g *Graph) AddNode(n *Node) {
	g.NextNodeID++
	n.ID = g.NextNodeID
	g.Nodes = append(g.Nodes, n)
}

// PutNode adds a node that already has an id, as when loading a save.
func (g *Graph) PutNode(n *Node) {
	_, exists := g.GetNode(n.ID)
	util.Assert(!exists, "node id %d used twice", n.ID)
	g.Nodes = append(g.Nodes, n)
	g.NextNodeID = util.Max(g.NextNodeID, n.ID)
}

// RemoveNode removes a node that no longer has any connections.
func (g *Graph) RemoveNode(id NodeID) {
	util.Assert(len(g.ConnectionsOf(id)) == 0, "node %d still has connections", id)
	g.Nodes = slices.DeleteFunc(g.Nodes, func(n *Node) bool { return n.ID == id })
}

func (g *Graph) GetNode(id NodeID) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (g *Graph) MustGetNode(id NodeID) *Node {
	n, ok := g.GetNode(id)
	util.Assert(ok, "no node with id %d", id)
	return n
}

// NodesOfKind returns the nodes of a kind in insertion order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	return util.Filter(g.Nodes, func(n *Node) bool { return n.Kind == kind })
}

// AddConnection adds c without any checks beyond the structural ones: both
// ends must exist and the target input must be free.
func (g *Graph) AddConnection(c Connection) {
	from := g.MustGetNode(c.From)
	to := g.MustGetNode(c.To)
	from.MustPortAt(Output, c.FromPort)
	to.MustPortAt(Input, c.ToPort)
	_, occupied := g.ConnectedOutput(c.To, c.ToPort)
	util.Assert(!occupied, "input %d of node %d is already connected", c.ToPort, c.To)
	g.Connections = append(g.Connections, c)
}

// RemoveConnection removes c and reports whether it was present.
func (g *Graph) RemoveConnection(c Connection) bool {
	before := len(g.Connections)
	g.Connections = slices.DeleteFunc(g.Connections, func(other Connection) bool { return other == c })
	return len(g.Connections) != before
}

func (g *Graph) HasConnection(c Connection) bool {
	return slices.Contains(g.Connections, c)
}

// ConnectionsOf returns every connection touching a node.
func (g *Graph) ConnectionsOf(id NodeID) []Connection {
	return util.Filter(g.Connections, func(c Connection) bool { return c.Touches(id) })
}

// ConnectionsAt returns the connections attached to one port.
func (g *Graph) ConnectionsAt(id NodeID, dir Direction, port int) []Connection {
	return util.Filter(g.Connections, func(c Connection) bool {
		if dir == Input {
			return c.To == id && c.ToPort == port
		}
		return c.From == id && c.FromPort == port
	})
}

// ConnectedOutput returns the connection feeding an input port, if any.
func (g *Graph) ConnectedOutput(id NodeID, inputPort int) (Connection, bool) {
	for _, c := range g.Connections {
		if c.To == id && c.ToPort == inputPort {
			return c, true
		}
	}
	return Connection{}, false
}

// CreatesCycle reports whether adding c would make a value depend on itself.
// A value entering a scope node at a scoped input never comes out of the
// node's scope outputs, so a binding may flow back into the expression that
// uses it.
func (g *Graph) CreatesCycle(c Connection) bool {
	type visit struct {
		node  NodeID
		input int
	}
	seen := map[visit]bool{}
	queue := []visit{{c.To, c.ToPort}}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if seen[v] {
			continue
		}
		seen[v] = true
		n, ok := g.GetNode(v.node)
		if !ok {
			continue
		}
		if n.ID == c.From && passesThrough(n, v.input, c.FromPort) {
			return true
		}
		for _, e := range g.Connections {
			if e.From == n.ID && passesThrough(n, v.input, e.FromPort) {
				queue = append(queue, visit{e.To, e.ToPort})
			}
		}
	}
	return false
}

// passesThrough reports whether the value arriving at input can influence
// output.
func passesThrough(n *Node, input, output int) bool {
	scope, ok := As[Scope](n)
	return !ok || !scope.ScopedInput(input) || !scope.ScopeOutput(output)
}

// SourcePort returns the output port a connection starts at.
func (g *Graph) SourcePort(c Connection) Port {
	return g.MustGetNode(c.From).MustPortAt(Output, c.FromPort)
}

// TargetPort returns the input port a connection ends at.
func (g *Graph) TargetPort(c Connection) Port {
	return g.MustGetNode(c.To).MustPortAt(Input, c.ToPort)
}

// ---------------------------------------------------------------------------
// Changes

type ChangeKind int

const (
	NodeAdded ChangeKind = iota
	NodeRemoved
	NodeRebuilt
	ConnectionAdded
	ConnectionRemoved
	LiteralChanged
	SymbolsChanged
)

func (k ChangeKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeRemoved:
		return "node-removed"
	case NodeRebuilt:
		return "node-rebuilt"
	case ConnectionAdded:
		return "connection-added"
	case ConnectionRemoved:
		return "connection-removed"
	case LiteralChanged:
		return "literal-changed"
	case SymbolsChanged:
		return "symbols-changed"
	default:
		return "unknown"
	}
}

// Change is one observable mutation made while applying an operation. A UI
// replays the list to update whatever it draws.
type Change struct {
	Kind       ChangeKind
	Graph      string // invokable id, empty for project-level changes
	Node       NodeID
	Connection Connection
	Detail     string
}

func (c Change) String() string {
	switch c.Kind {
	case ConnectionAdded, ConnectionRemoved:
		return fmt.Sprintf("%s %s in %s", c.Kind, c.Connection, c.Graph)
	case SymbolsChanged:
		return fmt.Sprintf("%s: %s", c.Kind, c.Detail)
	default:
		return fmt.Sprintf("%s node %d in %s", c.Kind, c.Node, c.Graph)
	}
}
