package refactor

import (
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
)

// Entry is one item of a node's context menu.
type Entry struct {
	Title       string
	Refactoring Refactoring
}

// factory offers a refactoring for a node when Applicable holds.
type factory struct {
	Applicable func(p *core.Project, g *core.Graph, n *core.Node) bool
	New        func(graphID string, n *core.Node) Entry
}

// anyKind keys the factories offered for every kind.
const anyKind core.NodeKind = "*"

var catalog = map[core.NodeKind][]factory{
	nodes.KindImport: {{
		Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool { return true },
		New: func(graphID string, n *core.Node) Entry {
			imp := core.MustAs[*nodes.ImportAction](n)
			title := "Switch to include"
			if imp.Reference.Mode == core.IncludeInclude {
				title = "Switch to use"
			}
			return Entry{Title: title, Refactoring: &ToggleImportMode{Reference: imp.Reference.ID}}
		},
	}},
	nodes.KindReroute: {{
		Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool {
			return core.MustAs[core.TypeAdopter](n).AdoptedType() != core.PortReroute && len(g.ConnectionsOf(n.ID)) == 0
		},
		New: func(graphID string, n *core.Node) Entry {
			return Entry{Title: "Reset type", Refactoring: &ResetReroute{Graph: graphID, Node: n.ID}}
		},
	}},
	anyKind: {
		{
			Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool {
				_, ok := core.As[core.VariableArity](n)
				return ok
			},
			New: func(graphID string, n *core.Node) Entry {
				increase, _ := core.MustAs[core.VariableArity](n).ArityTitles()
				return Entry{Title: increase, Refactoring: &IncreaseArity{Graph: graphID, Node: n.ID}}
			},
		},
		{
			Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool {
				va, ok := core.As[core.VariableArity](n)
				return ok && va.Arity() > va.MinArity()
			},
			New: func(graphID string, n *core.Node) Entry {
				_, decrease := core.MustAs[core.VariableArity](n).ArityTitles()
				return Entry{Title: decrease, Refactoring: &DecreaseArity{Graph: graphID, Node: n.ID}}
			},
		},
		{
			Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool {
				_, _, ok := flowThrough(n)
				return ok && deletable(p, n)
			},
			New: func(graphID string, n *core.Node) Entry {
				return Entry{Title: "Dissolve", Refactoring: &DissolveNode{Graph: graphID, Node: n.ID}}
			},
		},
		{
			Applicable: func(p *core.Project, g *core.Graph, n *core.Node) bool {
				return deletable(p, n)
			},
			New: func(graphID string, n *core.Node) Entry {
				return Entry{Title: "Delete", Refactoring: &DeleteNode{Graph: graphID, Node: n.ID}}
			},
		},
	},
}

// deletable is false for the nodes that come with an invokable: its entry,
// its return and the start of the main program.
func deletable(p *core.Project, n *core.Node) bool {
	info, ok := p.Kinds.Lookup(n.Kind)
	return ok && !info.Hidden
}

// Applicable lists the refactorings offered for a node, kind-specific ones
// first.
func Applicable(p *core.Project, graphID string, id core.NodeID) []Entry {
	g, ok := p.Graph(graphID)
	if !ok {
		return nil
	}
	n, ok := g.GetNode(id)
	if !ok {
		return nil
	}
	var res []Entry
	for _, kind := range []core.NodeKind{n.Kind, anyKind} {
		for _, f := range catalog[kind] {
			if f.Applicable(p, g, n) {
				res = append(res, f.New(graphID, n))
			}
		}
	}
	return res
}
