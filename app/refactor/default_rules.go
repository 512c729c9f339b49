package refactor

import (
	"fmt"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
)

// DefaultRules builds the rule registry the editor runs with.
func DefaultRules() *RuleRegistry {
	r := NewRuleRegistry()

	r.AddConnectRule(Rule{
		Name: "same-node",
		Applies: func(q *Query) bool {
			return q.Connection.From == q.Connection.To
		},
		Decide: func(q *Query) (Decision, string) {
			if _, _, ok := q.Ports(); ok && !q.Graph.CreatesCycle(q.Connection) {
				return Undecided, ""
			}
			return Veto, "a node cannot feed itself"
		},
	})
	r.AddConnectRule(Rule{
		Name: "port-range",
		Applies: func(q *Query) bool {
			_, _, ok := q.Ports()
			return !ok
		},
		Decide: func(q *Query) (Decision, string) {
			return Veto, fmt.Sprintf("%s names a missing node or port", q.Connection)
		},
	})
	r.AddConnectRule(Rule{
		Name: "no-cycles",
		Applies: func(q *Query) bool {
			_, _, ok := q.Ports()
			return ok && q.Connection.From != q.Connection.To
		},
		Decide: func(q *Query) (Decision, string) {
			if q.Graph.CreatesCycle(q.Connection) {
				return Veto, fmt.Sprintf("%s already depends on %s", q.From, q.To)
			}
			return Undecided, ""
		},
	})
	r.AddConnectRule(Rule{
		Name: "replace-occupied-input",
		Applies: func(q *Query) bool {
			if _, _, ok := q.Ports(); !ok {
				return false
			}
			existing, occupied := q.Graph.ConnectedOutput(q.Connection.To, q.Connection.ToPort)
			return occupied && existing != q.Connection
		},
		Cascade: func(q *Query) []Cascade {
			existing, _ := q.Graph.ConnectedOutput(q.Connection.To, q.Connection.ToPort)
			return []Cascade{Immediate(&Disconnect{Graph: q.GraphID, Connection: existing})}
		},
	})
	r.AddConnectRule(Rule{
		Name: "replace-occupied-flow-output",
		Applies: func(q *Query) bool {
			from, _, ok := q.Ports()
			return ok && from.Type == core.PortFlow && len(occupiedFlowOutput(q)) > 0
		},
		Cascade: func(q *Query) []Cascade {
			var res []Cascade
			for _, c := range occupiedFlowOutput(q) {
				res = append(res, Immediate(&Disconnect{Graph: q.GraphID, Connection: c}))
			}
			return res
		},
	})
	r.AddConnectRule(Rule{
		Name:  "reroute-adopt",
		Kinds: []core.NodeKind{nodes.KindReroute},
		Applies: func(q *Query) bool {
			from, to, ok := q.Ports()
			return ok && (from.Type == core.PortReroute || to.Type == core.PortReroute)
		},
		Decide: func(q *Query) (Decision, string) {
			from, to, _ := q.Ports()
			if from.Type == core.PortReroute && to.Type == core.PortReroute {
				return Veto, "neither end has a type to adopt"
			}
			return Allow, "reroute adopts the type of the other end"
		},
		Cascade: func(q *Query) []Cascade {
			from, to, _ := q.Ports()
			var res []Cascade
			if from.Type == core.PortReroute && to.Type != core.PortReroute {
				res = append(res, Immediate(&RetypeReroute{Graph: q.GraphID, Node: q.From.ID, Type: to.Type}))
			}
			if to.Type == core.PortReroute && from.Type != core.PortReroute {
				res = append(res, Immediate(&RetypeReroute{Graph: q.GraphID, Node: q.To.ID, Type: from.Type}))
			}
			return res
		},
	})
	r.AddConnectRule(Rule{
		Name:  "reducer-types",
		Kinds: []core.NodeKind{nodes.KindSum, nodes.KindProduct},
		Applies: func(q *Query) bool {
			from, _, ok := q.Ports()
			if !ok || from.Type == core.PortReroute {
				return false
			}
			_, isReducer := core.As[core.TypedReducer](q.To)
			return isReducer
		},
		Decide: func(q *Query) (Decision, string) {
			from, _, _ := q.Ports()
			if !combinable(from.Type) {
				return Veto, fmt.Sprintf("%s cannot combine %s values", q.To.Kind, from.Type)
			}
			current := core.MustAs[core.TypedReducer](q.To).SharedType()
			common, ok := reducerCommonType(q, from.Type)
			if !ok {
				return Veto, fmt.Sprintf("%s is typed %s and cannot take %s", q.To, current, from.Type)
			}
			if common != current {
				return Allow, fmt.Sprintf("%s becomes %s", q.To, common)
			}
			return Undecided, ""
		},
		Cascade: func(q *Query) []Cascade {
			from, _, _ := q.Ports()
			if !combinable(from.Type) {
				return nil
			}
			current := core.MustAs[core.TypedReducer](q.To).SharedType()
			common, ok := reducerCommonType(q, from.Type)
			if !ok || common == current {
				return nil
			}
			return []Cascade{
				Immediate(&RetypeReducer{Graph: q.GraphID, Node: q.To.ID, Type: common}),
				Late(&PruneIncompatible{Graph: q.GraphID, Node: q.To.ID}),
			}
		},
	})
	r.AddConnectRule(Rule{
		Name: "assignable",
		Applies: func(q *Query) bool {
			_, _, ok := q.Ports()
			return ok
		},
		Decide: func(q *Query) (Decision, string) {
			from, to, _ := q.Ports()
			if !core.CanBeAssignedTo(from.Type, to.Type) {
				return Veto, fmt.Sprintf("%s cannot be assigned to %s", from.Type, to.Type)
			}
			return Undecided, ""
		},
	})

	r.AddDisconnectRule(Rule{
		Name:  "reroute-reset",
		Kinds: []core.NodeKind{nodes.KindReroute},
		Cascade: func(q *Query) []Cascade {
			var res []Cascade
			for _, n := range []*core.Node{q.From, q.To} {
				if n == nil || n.Kind != nodes.KindReroute {
					continue
				}
				adopter := core.MustAs[core.TypeAdopter](n)
				if adopter.AdoptedType() != core.PortReroute && len(q.Graph.ConnectionsOf(n.ID)) == 1 {
					res = append(res, Immediate(&ResetReroute{Graph: q.GraphID, Node: n.ID}))
				}
			}
			return res
		},
	})
	r.AddDisconnectRule(Rule{
		Name:  "reducer-reset",
		Kinds: []core.NodeKind{nodes.KindSum, nodes.KindProduct},
		Applies: func(q *Query) bool {
			if q.To == nil {
				return false
			}
			_, isReducer := core.As[core.TypedReducer](q.To)
			return isReducer && countInputConnections(q.Graph, q.To.ID) == 1
		},
		Cascade: func(q *Query) []Cascade {
			return []Cascade{Late(&ResetReducer{Graph: q.GraphID, Node: q.To.ID})}
		},
	})

	return r
}

func occupiedFlowOutput(q *Query) []core.Connection {
	var res []core.Connection
	for _, c := range q.Graph.ConnectionsAt(q.Connection.From, core.Output, q.Connection.FromPort) {
		if c != q.Connection {
			res = append(res, c)
		}
	}
	return res
}

// reducerCommonType folds the source types of every other input connection
// of the reducer together with the proposed source type. The input being
// connected is left out since the new connection replaces whatever is there.
// combinable reports whether a reducer can take values of type t.
func combinable(t core.PortType) bool {
	switch t {
	case core.PortString, core.PortBoolean, core.PortFlow:
		return false
	}
	return true
}

func reducerCommonType(q *Query, incoming core.PortType) (core.PortType, bool) {
	common := incoming
	for _, c := range q.Graph.Connections {
		if c.To != q.To.ID || c.ToPort == q.Connection.ToPort {
			continue
		}
		var ok bool
		common, ok = core.CommonType(common, q.Graph.SourcePort(c).Type)
		if !ok {
			return core.PortAny, false
		}
	}
	return common, true
}

func countInputConnections(g *core.Graph, id core.NodeID) int {
	count := 0
	for _, c := range g.Connections {
		if c.To == id {
			count++
		}
	}
	return count
}
