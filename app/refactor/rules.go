package refactor

import (
	"fmt"
	"slices"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

type Decision int

const (
	Undecided Decision = iota
	Allow
	Veto
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Veto:
		return "veto"
	default:
		return "undecided"
	}
}

// Stage orders cascades within one operation. Late cascades run only once
// every immediate cascade has settled, so type propagation sees the final
// shape of the graph before consistency fixes run.
type Stage int

const (
	StageImmediate Stage = iota
	StageLate
)

func (s Stage) String() string {
	if s == StageLate {
		return "late"
	}
	return "immediate"
}

// Cascade is a follow-up refactoring requested by a rule.
type Cascade struct {
	Stage       Stage
	Refactoring Refactoring
	// Rule names the rule that asked for the cascade. evaluate fills it in.
	Rule string
}

func Immediate(r Refactoring) Cascade { return Cascade{Stage: StageImmediate, Refactoring: r} }
func Late(r Refactoring) Cascade      { return Cascade{Stage: StageLate, Refactoring: r} }

// Query describes a proposed connect or disconnect. From and To are nil when
// the connection names nodes that do not exist.
type Query struct {
	Project    *core.Project
	GraphID    string
	Graph      *core.Graph
	Connection core.Connection
	From, To   *core.Node
}

func newQuery(p *core.Project, graphID string, g *core.Graph, c core.Connection) *Query {
	q := &Query{Project: p, GraphID: graphID, Graph: g, Connection: c}
	q.From, _ = g.GetNode(c.From)
	q.To, _ = g.GetNode(c.To)
	return q
}

// Ports returns both endpoint ports, or false when either does not exist.
func (q *Query) Ports() (from, to core.Port, ok bool) {
	if q.From == nil || q.To == nil {
		return core.Port{}, core.Port{}, false
	}
	from, okFrom := q.From.PortAt(core.Output, q.Connection.FromPort)
	to, okTo := q.To.PortAt(core.Input, q.Connection.ToPort)
	return from, to, okFrom && okTo
}

// Verdict is the outcome of evaluating the rules for one query.
type Verdict struct {
	Decision Decision
	Rule     string
	Reason   string
}

func (v Verdict) Allowed() bool {
	return v.Decision != Veto
}

func (v Verdict) String() string {
	if v.Rule == "" {
		return v.Decision.String()
	}
	return fmt.Sprintf("%s by %s: %s", v.Decision, v.Rule, v.Reason)
}

// Rule is one entry of a RuleRegistry. Applies is the predicate; Decide and
// Cascade are only consulted when it holds. Either may be nil. Applies must
// cope with queries naming missing nodes or ports, since every rule sees
// every query.
type Rule struct {
	Name string
	// Kinds restricts the rule to queries where either endpoint has one of
	// these kinds. Empty means every query.
	Kinds   []core.NodeKind
	Applies func(q *Query) bool
	Decide  func(q *Query) (Decision, string)
	Cascade func(q *Query) []Cascade
}

func (r *Rule) matches(q *Query) bool {
	if len(r.Kinds) > 0 {
		keyed := (q.From != nil && slices.Contains(r.Kinds, q.From.Kind)) ||
			(q.To != nil && slices.Contains(r.Kinds, q.To.Kind))
		if !keyed {
			return false
		}
	}
	return r.Applies == nil || r.Applies(q)
}

// RuleRegistry holds the connect and disconnect rules in evaluation order.
// It is built once and shared by reference.
type RuleRegistry struct {
	connect    []Rule
	disconnect []Rule
}

func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{}
}

func (r *RuleRegistry) AddConnectRule(rule Rule) {
	r.connect = append(r.connect, rule)
}

func (r *RuleRegistry) AddDisconnectRule(rule Rule) {
	r.disconnect = append(r.disconnect, rule)
}

// ConnectRules returns the names of the connect rules in order.
func (r *RuleRegistry) ConnectRules() []string {
	return ruleNames(r.connect)
}

func (r *RuleRegistry) DisconnectRules() []string {
	return ruleNames(r.disconnect)
}

func ruleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

func (r *RuleRegistry) EvaluateConnect(q *Query) (Verdict, []Cascade) {
	return evaluate(r.connect, q)
}

func (r *RuleRegistry) EvaluateDisconnect(q *Query) (Verdict, []Cascade) {
	return evaluate(r.disconnect, q)
}

// evaluate runs rules in order. The first Allow or Veto decides; every
// matching rule still contributes its cascades, whatever the decision. The
// caller chooses what to do with the cascades of a vetoed change; see
// vetoCascades.
func evaluate(rules []Rule, q *Query) (Verdict, []Cascade) {
	verdict := Verdict{Decision: Undecided}
	var cascades []Cascade
	for i := range rules {
		rule := &rules[i]
		if !rule.matches(q) {
			continue
		}
		if verdict.Decision == Undecided && rule.Decide != nil {
			if d, reason := rule.Decide(q); d != Undecided {
				verdict = Verdict{Decision: d, Rule: rule.Name, Reason: reason}
			}
		}
		if rule.Cascade != nil {
			for _, c := range rule.Cascade(q) {
				c.Rule = rule.Name
				cascades = append(cascades, c)
			}
		}
	}
	return verdict, cascades
}

// vetoCascades keeps the cascades of the rule that vetoed. The cascades of
// rules that only reacted to the proposed change are dropped with it.
func vetoCascades(verdict Verdict, cascades []Cascade) []Cascade {
	return util.Filter(cascades, func(c Cascade) bool { return c.Rule == verdict.Rule })
}
