package core

import (
	"fmt"
)

// GraphBuilder assembles a graph fluently, mostly for tests. It bypasses the
// connection rules, so it can build graphs the editor would refuse.
type GraphBuilder struct {
	Graph *Graph
	Nodes map[string]*NodeBuilder
}

func NewGraphBuilder(g *Graph) *GraphBuilder {
	if g == nil {
		g = NewGraph()
	}
	return &GraphBuilder{
		Graph: g,
		Nodes: make(map[string]*NodeBuilder),
	}
}

// Add adds node to the graph under an alias that Get can find later.
func (gb *GraphBuilder) Add(alias string, node *Node) *NodeBuilder {
	gb.Graph.AddNode(node)
	nb := &NodeBuilder{
		Builder: gb,
		Node:    node,
	}
	if alias != "" {
		gb.Nodes[alias] = nb
	}
	return nb
}

func (gb *GraphBuilder) Get(alias string) *NodeBuilder {
	nb, ok := gb.Nodes[alias]
	if !ok {
		panic(fmt.Sprintf("no node aliased %q", alias))
	}
	return nb
}

type NodeBuilder struct {
	Builder *GraphBuilder
	Node    *Node
}

func (nb *NodeBuilder) ID() NodeID {
	return nb.Node.ID
}

// Connect connects an output of this node to an input of dst, by port key.
// It returns dst so chains read left to right: a.Connect("next", b, "in").Connect(...).
func (nb *NodeBuilder) Connect(outKey string, dst *NodeBuilder, inKey string) *NodeBuilder {
	out, ok := nb.Node.Port(Output, outKey)
	if !ok {
		panic(fmt.Sprintf("%s has no output port %q", nb.Node, outKey))
	}
	in, ok := dst.Node.Port(Input, inKey)
	if !ok {
		panic(fmt.Sprintf("%s has no input port %q", dst.Node, inKey))
	}
	nb.Builder.Graph.AddConnection(Connection{
		From:     nb.Node.ID,
		FromPort: out.Index,
		To:       dst.Node.ID,
		ToPort:   in.Index,
	})
	return dst
}

// SetLiteral sets the literal of an input port by key.
func (nb *NodeBuilder) SetLiteral(inKey string, lit Literal) *NodeBuilder {
	in, ok := nb.Node.Port(Input, inKey)
	if !ok {
		panic(fmt.Sprintf("%s has no input port %q", nb.Node, inKey))
	}
	nb.Node.SetLiteral(Input, in.Index, lit)
	return nb
}

// Grow increases the node's arity n times.
func (nb *NodeBuilder) Grow(n int) *NodeBuilder {
	for range n {
		nb.Node.IncreaseArity()
	}
	return nb
}
