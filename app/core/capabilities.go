package core

import "github.com/bvisness/scadflow/util"

// FlowRenderer is implemented by kinds that produce statements. Render emits
// the node's statement(s) followed by its flow successor.
type FlowRenderer interface {
	Render(ctx *RenderContext, n *Node) string
}

// ExpressionRenderer is implemented by kinds that produce values. Kinds with
// several expression outputs use output to pick one.
type ExpressionRenderer interface {
	RenderExpression(ctx *RenderContext, n *Node, output int) string
}

// VariableArity is implemented by kinds whose port count the user can grow
// and shrink. SetArity only changes the counter; Node.IncreaseArity and
// Node.DecreaseArity rebuild the ports.
type VariableArity interface {
	Arity() int
	MinArity() int
	SetArity(arity int)
	// ArityTitles names the increase and decrease actions for menus, e.g.
	// "Add nesting level".
	ArityTitles() (increase, decrease string)
}

// SymbolReferrer is implemented by kinds that depend on a project symbol
// (an invokable or a variable).
type SymbolReferrer interface {
	References() []string
}

// ExternalImporter is implemented by the import kind, which owns the
// registration of an external reference.
type ExternalImporter interface {
	ExternalReferenceID() string
}

// TypeAdopter is implemented by pass-through kinds that start untyped and
// take on the type of whatever is connected to them first.
type TypeAdopter interface {
	AdoptedType() PortType
	Adopt(t PortType)
}

// TypedReducer is implemented by kinds that share a single value type across
// all of their inputs and their output.
type TypedReducer interface {
	SharedType() PortType
	SetSharedType(t PortType)
}

// Scope is implemented by kinds whose outputs name variables they bind, such
// as loop items. A connection leaving a scope output refers to the variable
// by name, so it may feed back into the node that binds it, but only through
// a scoped input where the binding is visible.
type Scope interface {
	ScopeOutput(output int) bool
	ScopedInput(input int) bool
}

// OutputLiteralProvider is implemented by kinds whose outputs carry an
// editable value, such as constants.
type OutputLiteralProvider interface {
	OutputLiteralPorts() []string
}

// As queries a node for a capability.
func As[T any](n *Node) (T, bool) {
	t, ok := n.Data.(T)
	return t, ok
}

// MustAs is As for callers that have already established the capability.
func MustAs[T any](n *Node) T {
	t, ok := As[T](n)
	util.Assert(ok, "%s does not have capability %T", n, (*T)(nil))
	return t
}
