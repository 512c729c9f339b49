// Package refactor is the only sanctioned way to change a project. Edits are
// Refactoring values applied by an Engine; connection edits consult the
// rules of a RuleRegistry, which may veto them or request cascades.
package refactor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bvisness/scadflow/app/core"
)

// Refactoring is one step of an edit. Perform mutates the project through
// ctx and requests follow-up steps with ctx.Enqueue or ctx.EnqueueLate; it
// never applies other refactorings itself. A step that finds nothing to do
// is a no-op, not a failure.
type Refactoring interface {
	Title() string
	Perform(ctx *Context)
}

// ErrVetoed is matched by every VetoError.
var ErrVetoed = errors.New("vetoed")

// VetoError reports a connect or disconnect refused by a rule.
type VetoError struct {
	Rule   string
	Reason string
}

func (e VetoError) Error() string {
	return fmt.Sprintf("vetoed by %s: %s", e.Rule, e.Reason)
}

func (e VetoError) Is(target error) bool {
	return target == ErrVetoed
}

// maxSteps bounds the work queue of one operation. Rules that keep asking
// for each other are a bug; this turns the hang into an error.
const maxSteps = 100_000

type Engine struct {
	Rules  *RuleRegistry
	Logger *slog.Logger
}

func NewEngine(rules *RuleRegistry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{Rules: rules, Logger: logger}
}

// Apply performs refactorings, and every cascade they cause, as one atomic
// operation. On failure the project is restored to its exact state before
// the call and the error is returned. On success the changes made are
// returned in order.
func (e *Engine) Apply(p *core.Project, name string, refactorings ...Refactoring) ([]core.Change, error) {
	before, err := core.SaveProject(p)
	if err != nil {
		return nil, fmt.Errorf("%s: snapshot before applying: %w", name, err)
	}

	ctx := newContext(p, e.Rules, e.Logger.With("operation", name))
	for _, r := range refactorings {
		ctx.Enqueue(r)
	}
	ctx.drain()

	if ctx.err != nil {
		restored, loadErr := core.LoadProject(before, p.Path, p.Kinds)
		if loadErr != nil {
			panic(fmt.Sprintf("restoring project after failed %q: %v", name, loadErr))
		}
		*p = *restored
		e.Logger.Warn("operation rolled back", "operation", name, "error", ctx.err)
		return nil, fmt.Errorf("%s: %w", name, ctx.err)
	}

	e.Logger.Debug("operation applied", "operation", name, "steps", ctx.steps, "changes", len(ctx.changes))
	return ctx.changes, nil
}

// CanConnect evaluates the connect rules for c without changing anything.
func (e *Engine) CanConnect(p *core.Project, graphID string, c core.Connection) Verdict {
	g, ok := p.Graph(graphID)
	if !ok {
		return Verdict{Decision: Veto, Rule: "graph", Reason: fmt.Sprintf("no graph %q", graphID)}
	}
	verdict, _ := e.Rules.EvaluateConnect(newQuery(p, graphID, g, c))
	return verdict
}

// CanDisconnect evaluates the disconnect rules for c without changing
// anything.
func (e *Engine) CanDisconnect(p *core.Project, graphID string, c core.Connection) Verdict {
	g, ok := p.Graph(graphID)
	if !ok || !g.HasConnection(c) {
		return Verdict{Decision: Veto, Rule: "graph", Reason: fmt.Sprintf("no connection %s", c)}
	}
	verdict, _ := e.Rules.EvaluateDisconnect(newQuery(p, graphID, g, c))
	return verdict
}
