// Package codegen renders projects to source text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/trace"
	"github.com/bvisness/scadflow/util"
)

// DefaultIndent is used when Options.Indent is empty.
const DefaultIndent = "    "

type Options struct {
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return DefaultIndent
	}
	return o.Indent
}

// RenderError reports a graph that could not be rendered. This only happens
// when a graph breaks an invariant the editor is meant to uphold.
type RenderError struct {
	Invokable string
	Msg       string
	Stack     trace.CallStack
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %s", e.Invokable, e.Msg)
}

// guard turns an assertion failure inside rendering into a RenderError.
func guard(name string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	re := &RenderError{Invokable: name}
	switch v := r.(type) {
	case util.AssertionError:
		re.Msg = v.Msg
		re.Stack = v.Stack
	case error:
		re.Msg = v.Error()
	default:
		re.Msg = fmt.Sprint(v)
	}
	*err = re
}

// RenderInvokable renders one local definition: a function, a module, or
// the statements of the main program.
func RenderInvokable(p *core.Project, inv *core.Invokable, opts Options) (text string, err error) {
	defer guard(inv.Description.Name, &err)
	return renderInvokable(p, inv, opts), nil
}

// RenderProject renders the whole project: the preamble, one use or include
// line per external reference, every function and module in project order,
// then the main program.
func RenderProject(p *core.Project, opts Options) (text string, err error) {
	var b strings.Builder
	if p.Preamble != "" {
		b.WriteString(strings.TrimRight(p.Preamble, "\n"))
		b.WriteString("\n\n")
	}
	if imports := RenderImports(p); imports != "" {
		b.WriteString(imports)
		b.WriteString("\n")
	}
	for _, inv := range p.Invokables {
		if inv.Description.Kind == core.InvokableMain {
			continue
		}
		text, err := RenderInvokable(p, inv, opts)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	mainText, err := RenderInvokable(p, p.Main(), opts)
	if err != nil {
		return "", err
	}
	b.WriteString(mainText)
	return b.String(), nil
}

// RenderImports renders the use and include lines of every external
// reference, in registration order.
func RenderImports(p *core.Project) string {
	var b strings.Builder
	for _, ext := range p.ExternalReferences {
		fmt.Fprintf(&b, "%s <%s>\n", ext.Mode, ext.Path)
	}
	return b.String()
}

func renderInvokable(p *core.Project, inv *core.Invokable, opts Options) string {
	ctx := core.NewRenderContext(p, inv.Graph, opts.indent())
	d := inv.Description

	switch d.Kind {
	case core.InvokableFunction:
		returns := inv.Graph.NodesOfKind(nodes.KindFunctionReturn)
		util.Assert(len(returns) == 1, "function %s has %d return nodes", d.Name, len(returns))
		ret := returns[0]
		body := core.MustAs[*nodes.FunctionReturnAction](ret).RenderBody(ctx, ret)
		return fmt.Sprintf("function %s(%s) = %s;\n", d.Name, renderParameters(d), body)

	case core.InvokableModule:
		entries := inv.Graph.NodesOfKind(nodes.KindModuleEntry)
		util.Assert(len(entries) == 1, "module %s has %d entry nodes", d.Name, len(entries))
		body := core.IndentLines(ctx.Statement(entries[0]), ctx.Indent)
		return fmt.Sprintf("module %s(%s) {\n%s}\n", d.Name, renderParameters(d), body)

	default:
		var b strings.Builder
		for _, start := range inv.Graph.NodesOfKind(nodes.KindStart) {
			b.WriteString(ctx.Statement(start))
		}
		return b.String()
	}
}

func renderParameters(d *core.InvokableDescription) string {
	params := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = p.Name
		if p.Default != nil {
			params[i] += " = " + p.Default.Render()
		}
	}
	return strings.Join(params, ", ")
}
