package core

import (
	"fmt"
	"strings"
)

// Undefined is rendered for a value input that has neither a connection nor
// a literal.
const Undefined = "undef"

// RenderContext carries what node kinds need while rendering one graph.
// Statements are rendered one per line, each ending in a newline; nested
// blocks are indented by Indent.
type RenderContext struct {
	Project *Project
	Graph   *Graph
	Indent  string
}

func NewRenderContext(p *Project, g *Graph, indent string) *RenderContext {
	return &RenderContext{Project: p, Graph: g, Indent: indent}
}

// Input renders the value feeding an input port: the connected output, or
// the port's literal, or Undefined.
func (ctx *RenderContext) Input(n *Node, port int) string {
	if c, ok := ctx.Graph.ConnectedOutput(n.ID, port); ok {
		return ctx.Expression(c.From, c.FromPort)
	}
	if lit, ok := n.Literal(Input, port); ok {
		return lit.Render()
	}
	return Undefined
}

// InputKey is Input addressed by port key.
func (ctx *RenderContext) InputKey(n *Node, key string) string {
	p, ok := n.Port(Input, key)
	if !ok {
		return Undefined
	}
	return ctx.Input(n, p.Index)
}

// IsConnected reports whether an input port has an incoming connection.
func (ctx *RenderContext) IsConnected(n *Node, port int) bool {
	_, ok := ctx.Graph.ConnectedOutput(n.ID, port)
	return ok
}

// Expression renders one output of a node as a value.
func (ctx *RenderContext) Expression(id NodeID, output int) string {
	n := ctx.Graph.MustGetNode(id)
	return MustAs[ExpressionRenderer](n).RenderExpression(ctx, n, output)
}

// Statement renders a node, and everything after it, as statements.
func (ctx *RenderContext) Statement(n *Node) string {
	return MustAs[FlowRenderer](n).Render(ctx, n)
}

// Next renders the statement chain hanging off a flow output, or nothing if
// the output is not connected.
func (ctx *RenderContext) Next(n *Node, output int) string {
	conns := ctx.Graph.ConnectionsAt(n.ID, Output, output)
	if len(conns) == 0 {
		return ""
	}
	return ctx.Statement(ctx.Graph.MustGetNode(conns[0].To))
}

// NextKey is Next addressed by port key.
func (ctx *RenderContext) NextKey(n *Node, key string) string {
	p, ok := n.Port(Output, key)
	if !ok {
		return ""
	}
	return ctx.Next(n, p.Index)
}

// Block renders the chain hanging off a flow output one level deeper.
func (ctx *RenderContext) Block(n *Node, output int) string {
	return IndentLines(ctx.Next(n, output), ctx.Indent)
}

// BlockKey is Block addressed by port key.
func (ctx *RenderContext) BlockKey(n *Node, key string) string {
	return IndentLines(ctx.NextKey(n, key), ctx.Indent)
}

// VariableName returns the name of a variable a node introduces. It depends
// only on the node's kind and id and the slot, so renders are stable and two
// nodes never collide.
func (ctx *RenderContext) VariableName(n *Node, slot int) string {
	return fmt.Sprintf("__%s_%d_%d", strings.ReplaceAll(string(n.Kind), "-", "_"), n.ID, slot)
}

// IndentLines prefixes every non-empty line of text with indent.
func IndentLines(text, indent string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	return b.String()
}
