package refactor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/util"
)

// Context is what a refactoring sees while it runs: the project, the rules,
// and the work queue of the operation it belongs to.
type Context struct {
	Project *core.Project
	Rules   *RuleRegistry
	Logger  *slog.Logger

	immediate []Refactoring
	late      []Refactoring
	changes   []core.Change
	steps     int
	err       error
}

func newContext(p *core.Project, rules *RuleRegistry, logger *slog.Logger) *Context {
	return &Context{Project: p, Rules: rules, Logger: logger}
}

// Enqueue schedules r to run after the current step.
func (ctx *Context) Enqueue(r Refactoring) {
	ctx.immediate = append(ctx.immediate, r)
}

// EnqueueLate schedules r to run once no immediate work is left.
func (ctx *Context) EnqueueLate(r Refactoring) {
	ctx.late = append(ctx.late, r)
}

func (ctx *Context) enqueueCascades(cascades []Cascade) {
	for _, c := range cascades {
		if c.Stage == StageLate {
			ctx.EnqueueLate(c.Refactoring)
		} else {
			ctx.Enqueue(c.Refactoring)
		}
	}
}

// Fail aborts the operation. The engine rolls the project back.
func (ctx *Context) Fail(err error) {
	if ctx.err == nil {
		ctx.err = err
	}
}

func (ctx *Context) Failed() bool {
	return ctx.err != nil
}

// drain runs queued work until none is left. Immediate work always goes
// first; each late step may queue more immediate work, which settles before
// the next late step.
func (ctx *Context) drain() {
	for ctx.err == nil {
		var next Refactoring
		switch {
		case len(ctx.immediate) > 0:
			next, ctx.immediate = ctx.immediate[0], ctx.immediate[1:]
		case len(ctx.late) > 0:
			next, ctx.late = ctx.late[0], ctx.late[1:]
		default:
			return
		}

		ctx.steps++
		if ctx.steps > maxSteps {
			ctx.Fail(errors.New("too many cascading steps"))
			return
		}
		ctx.Logger.Debug("refactoring", "step", ctx.steps, "title", next.Title())
		next.Perform(ctx)
	}
}

// Changes returns what the operation has changed so far.
func (ctx *Context) Changes() []core.Change {
	return ctx.changes
}

func (ctx *Context) record(ch core.Change) {
	ctx.changes = append(ctx.changes, ch)
}

// Graph returns the graph of a local invokable.
func (ctx *Context) Graph(id string) (*core.Graph, bool) {
	return ctx.Project.Graph(id)
}

// Node finds a node, reporting false when either the graph or the node is
// gone. Steps queued earlier in an operation may refer to nodes that a later
// step deleted, and should then do nothing.
func (ctx *Context) Node(graphID string, id core.NodeID) (*core.Graph, *core.Node, bool) {
	g, ok := ctx.Graph(graphID)
	if !ok {
		return nil, nil, false
	}
	n, ok := g.GetNode(id)
	if !ok {
		return nil, nil, false
	}
	return g, n, true
}

// ---------------------------------------------------------------------------
// Primitive mutations. These bypass the rules and only record what changed.

func (ctx *Context) AddNode(graphID string, g *core.Graph, n *core.Node) {
	g.AddNode(n)
	ctx.record(core.Change{Kind: core.NodeAdded, Graph: graphID, Node: n.ID, Detail: string(n.Kind)})
}

func (ctx *Context) RemoveNode(graphID string, g *core.Graph, id core.NodeID) {
	g.RemoveNode(id)
	ctx.record(core.Change{Kind: core.NodeRemoved, Graph: graphID, Node: id})
}

func (ctx *Context) AddConnection(graphID string, g *core.Graph, c core.Connection) {
	g.AddConnection(c)
	ctx.record(core.Change{Kind: core.ConnectionAdded, Graph: graphID, Connection: c})
}

func (ctx *Context) RemoveConnection(graphID string, g *core.Graph, c core.Connection) {
	if g.RemoveConnection(c) {
		ctx.record(core.Change{Kind: core.ConnectionRemoved, Graph: graphID, Connection: c})
	}
}

// Rebuilt records that a node's ports were recomputed.
func (ctx *Context) Rebuilt(graphID string, n *core.Node) {
	ctx.record(core.Change{Kind: core.NodeRebuilt, Graph: graphID, Node: n.ID})
}

// SymbolsChanged records a change to the project's registries.
func (ctx *Context) SymbolsChanged(format string, args ...any) {
	ctx.record(core.Change{Kind: core.SymbolsChanged, Detail: fmt.Sprintf(format, args...)})
}

// ---------------------------------------------------------------------------
// Rule-checked connection edits

// Connect evaluates the connect rules for c. A veto is returned as a
// VetoError and the connection is not made; only the vetoing rule's own
// cascades are queued, which matters when the caller tolerates the veto.
// Otherwise the cascades the rules asked for are queued, followed by the
// connection itself, so a replaced connection is gone before the new one
// lands.
func (ctx *Context) Connect(graphID string, c core.Connection) error {
	g, ok := ctx.Graph(graphID)
	if !ok {
		return fmt.Errorf("no graph %q", graphID)
	}
	verdict, cascades := ctx.Rules.EvaluateConnect(newQuery(ctx.Project, graphID, g, c))
	if verdict.Decision == Veto {
		ctx.enqueueCascades(vetoCascades(verdict, cascades))
		return VetoError{Rule: verdict.Rule, Reason: verdict.Reason}
	}
	ctx.enqueueCascades(ofStage(cascades, StageImmediate))
	ctx.Enqueue(&commitConnection{Graph: graphID, Connection: c})
	ctx.enqueueCascades(ofStage(cascades, StageLate))
	return nil
}

// Disconnect evaluates the disconnect rules for c and removes it unless a
// rule vetoes. Removing a connection that is not there does nothing.
func (ctx *Context) Disconnect(graphID string, c core.Connection) error {
	g, ok := ctx.Graph(graphID)
	if !ok || !g.HasConnection(c) {
		return nil
	}
	verdict, cascades := ctx.Rules.EvaluateDisconnect(newQuery(ctx.Project, graphID, g, c))
	if verdict.Decision == Veto {
		ctx.enqueueCascades(vetoCascades(verdict, cascades))
		return VetoError{Rule: verdict.Rule, Reason: verdict.Reason}
	}
	ctx.RemoveConnection(graphID, g, c)
	ctx.enqueueCascades(cascades)
	return nil
}

func ofStage(cascades []Cascade, stage Stage) []Cascade {
	return util.Filter(cascades, func(c Cascade) bool { return c.Stage == stage })
}

// commitConnection adds a connection that the rules have already allowed.
// The graph may have moved on since, so it checks the structural invariants
// again.
type commitConnection struct {
	Graph      string
	Connection core.Connection
}

func (r *commitConnection) Title() string { return "Connect" }

func (r *commitConnection) Perform(ctx *Context) {
	g, ok := ctx.Graph(r.Graph)
	if !ok {
		return
	}
	c := r.Connection
	q := newQuery(ctx.Project, r.Graph, g, c)
	from, to, ok := q.Ports()
	if !ok {
		ctx.Fail(VetoError{Rule: "commit", Reason: fmt.Sprintf("%s no longer has both ends", c)})
		return
	}
	if g.HasConnection(c) {
		return
	}
	if _, occupied := g.ConnectedOutput(c.To, c.ToPort); occupied {
		ctx.Fail(VetoError{Rule: "commit", Reason: fmt.Sprintf("%s of %s is still connected", to, q.To)})
		return
	}
	if from.Type == core.PortFlow && len(g.ConnectionsAt(c.From, core.Output, c.FromPort)) > 0 {
		ctx.Fail(VetoError{Rule: "commit", Reason: fmt.Sprintf("%s of %s is still connected", from, q.From)})
		return
	}
	if !core.CanBeAssignedTo(from.Type, to.Type) {
		ctx.Fail(VetoError{Rule: "commit", Reason: fmt.Sprintf("%s cannot be assigned to %s", from.Type, to.Type)})
		return
	}
	ctx.AddConnection(r.Graph, g, c)
}
