package nodes

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// NewProject returns a project whose main program holds a start node.
func NewProject() *core.Project {
	p := core.NewProject(Registry())
	p.Main().Graph.AddNode(NewStartNode())
	return p
}

// NewInvokable creates the graph of a new local function or module, seeded
// with its entry node (and, for functions, its return node).
func NewInvokable(d *core.InvokableDescription) *core.Invokable {
	util.Assert(d.Kind != core.InvokableMain, "a project has exactly one main program")
	g := core.NewGraph()
	switch d.Kind {
	case core.InvokableFunction:
		g.AddNode(NewFunctionEntryNode(d))
		g.AddNode(NewFunctionReturnNode(d))
	case core.InvokableModule:
		g.AddNode(NewModuleEntryNode(d))
	}
	return &core.Invokable{Description: d, Graph: g}
}

// NewInvocationNode creates a function or module invocation, depending on
// what d describes.
func NewInvocationNode(d *core.InvokableDescription) *core.Node {
	if d.Kind == core.InvokableModule {
		return NewModuleInvocationNode(d)
	}
	return NewFunctionInvocationNode(d)
}
