package refactor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
)

func checkName(ctx *Context, name, exceptID string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name must not be empty")
	}
	for _, inv := range ctx.Project.Invokables {
		if inv.Description.Name == name && inv.Description.ID != exceptID {
			return fmt.Errorf("%q is already the name of a %s", name, inv.Description.Kind)
		}
	}
	for _, v := range ctx.Project.Variables {
		if v.Name == name && v.ID != exceptID {
			return fmt.Errorf("%q is already the name of a variable", name)
		}
	}
	return nil
}

// AddInvokable creates a local function or module with its own graph.
type AddInvokable struct {
	Description *core.InvokableDescription
}

func (r *AddInvokable) Title() string { return "Add " + r.Description.Kind.String() }

func (r *AddInvokable) Perform(ctx *Context) {
	d := r.Description
	if d.Kind == core.InvokableMain {
		ctx.Fail(errors.New("a project has exactly one main program"))
		return
	}
	if err := checkName(ctx, d.Name, d.ID); err != nil {
		ctx.Fail(err)
		return
	}
	if d.ID == "" {
		d.ID = core.NewSymbolID()
	}
	if _, exists := ctx.Project.LocalInvokable(d.ID); exists {
		return
	}
	ctx.Project.Invokables = append(ctx.Project.Invokables, nodes.NewInvokable(d))
	ctx.SymbolsChanged("added %s", d)
}

// DeleteInvokable removes a local function or module, together with every
// node anywhere in the project that invokes it.
type DeleteInvokable struct {
	ID string
}

func (r *DeleteInvokable) Title() string { return "Delete definition" }

func (r *DeleteInvokable) Perform(ctx *Context) {
	inv, ok := ctx.Project.LocalInvokable(r.ID)
	if !ok {
		return
	}
	if inv.Description.Kind == core.InvokableMain {
		ctx.Fail(errors.New("the main program cannot be deleted"))
		return
	}
	for _, ref := range ctx.Project.NodesReferencing(r.ID) {
		if ref.Graph != r.ID {
			ctx.Enqueue(&DeleteNode{Graph: ref.Graph, Node: ref.Node})
		}
	}
	ctx.Enqueue(&dropInvokable{ID: r.ID})
}

type dropInvokable struct {
	ID string
}

func (r *dropInvokable) Title() string { return "Delete definition" }

func (r *dropInvokable) Perform(ctx *Context) {
	before := len(ctx.Project.Invokables)
	ctx.Project.Invokables = slices.DeleteFunc(ctx.Project.Invokables, func(inv *core.Invokable) bool {
		return inv.Description.ID == r.ID
	})
	if len(ctx.Project.Invokables) != before {
		ctx.SymbolsChanged("deleted invokable %s", r.ID)
	}
}

// RenameInvokable changes the name of a local function or module. Nodes
// hold the description itself, so they render the new name at once.
type RenameInvokable struct {
	ID   string
	Name string
}

func (r *RenameInvokable) Title() string { return "Rename" }

func (r *RenameInvokable) Perform(ctx *Context) {
	inv, ok := ctx.Project.LocalInvokable(r.ID)
	if !ok {
		return
	}
	if inv.Description.Kind == core.InvokableMain {
		ctx.Fail(errors.New("the main program cannot be renamed"))
		return
	}
	if err := checkName(ctx, r.Name, r.ID); err != nil {
		ctx.Fail(err)
		return
	}
	old := inv.Description.Name
	inv.Description.Name = r.Name
	ctx.SymbolsChanged("renamed %s to %s", old, r.Name)
}

// AddVariable declares a project-level variable.
type AddVariable struct {
	Description *core.VariableDescription
}

func (r *AddVariable) Title() string { return "Add variable" }

func (r *AddVariable) Perform(ctx *Context) {
	v := r.Description
	if err := checkName(ctx, v.Name, v.ID); err != nil {
		ctx.Fail(err)
		return
	}
	if v.Default != nil && core.MatchingLiteralKind(v.Type) != v.Default.Kind {
		ctx.Fail(fmt.Errorf("default of %s does not fit type %s", v.Name, v.Type))
		return
	}
	if v.ID == "" {
		v.ID = core.NewSymbolID()
	}
	if _, exists := ctx.Project.LookupVariable(v.ID); exists {
		return
	}
	ctx.Project.Variables = append(ctx.Project.Variables, v)
	ctx.SymbolsChanged("added variable %s", v.Name)
}

// DeleteVariable removes a project-level variable and every node that reads
// or assigns it.
type DeleteVariable struct {
	ID string
}

func (r *DeleteVariable) Title() string { return "Delete variable" }

func (r *DeleteVariable) Perform(ctx *Context) {
	if !slices.ContainsFunc(ctx.Project.Variables, func(v *core.VariableDescription) bool { return v.ID == r.ID }) {
		return
	}
	for _, ref := range ctx.Project.NodesReferencing(r.ID) {
		ctx.Enqueue(&DeleteNode{Graph: ref.Graph, Node: ref.Node})
	}
	ctx.Enqueue(&dropVariable{ID: r.ID})
}

type dropVariable struct {
	ID string
}

func (r *dropVariable) Title() string { return "Delete variable" }

func (r *dropVariable) Perform(ctx *Context) {
	ctx.Project.Variables = slices.DeleteFunc(ctx.Project.Variables, func(v *core.VariableDescription) bool {
		return v.ID == r.ID
	})
	ctx.SymbolsChanged("deleted variable %s", r.ID)
}

// AddImport registers an external reference, if it is new, and places an
// import node for it. Passing the same reference again adds another import
// node sharing the registration. With After set, the import node is spliced
// into the flow chain right behind that node.
type AddImport struct {
	Graph     string
	Reference *core.ExternalReference
	After     core.NodeID
}

func (r *AddImport) Title() string { return "Import " + r.Reference.Path }

func (r *AddImport) Perform(ctx *Context) {
	g, ok := ctx.Graph(r.Graph)
	if !ok {
		ctx.Fail(fmt.Errorf("no graph %q", r.Graph))
		return
	}
	ext := r.Reference
	if ext.ID == "" {
		ext.ID = core.NewSymbolID()
	}
	if existing, ok := ctx.Project.LookupExternalReference(ext.ID); ok {
		ext = existing
	} else {
		ctx.Project.ExternalReferences = append(ctx.Project.ExternalReferences, ext)
		ctx.SymbolsChanged("registered %s", ext.Path)
	}
	imp := nodes.NewImportNode(ext)
	ctx.AddNode(r.Graph, g, imp)
	if r.After != 0 {
		ctx.spliceAfter(r.Graph, g, r.After, imp)
	}
}

// spliceAfter queues the connections that put n between prev and whatever
// followed prev's first flow output.
func (ctx *Context) spliceAfter(graphID string, g *core.Graph, prev core.NodeID, n *core.Node) {
	pn, ok := g.GetNode(prev)
	if !ok {
		ctx.Fail(fmt.Errorf("no node %d to place %s after", prev, n))
		return
	}
	out, ok := firstPort(pn.OutputPorts, core.PortFlow)
	if !ok {
		ctx.Fail(fmt.Errorf("%s has no flow output", pn))
		return
	}
	in, _ := firstPort(n.InputPorts, core.PortFlow)
	next, _ := firstPort(n.OutputPorts, core.PortFlow)

	followers := g.ConnectionsAt(pn.ID, core.Output, out.Index)
	ctx.Enqueue(&Connect{Graph: graphID, Connection: core.Connection{
		From: pn.ID, FromPort: out.Index, To: n.ID, ToPort: in.Index,
	}})
	if len(followers) > 0 {
		ctx.Enqueue(&Connect{Graph: graphID, Connection: core.Connection{
			From: n.ID, FromPort: next.Index, To: followers[0].To, ToPort: followers[0].ToPort,
		}})
	}
}

func firstPort(ports []core.Port, t core.PortType) (core.Port, bool) {
	for _, p := range ports {
		if p.Type == t {
			return p, true
		}
	}
	return core.Port{}, false
}

type unregisterExternal struct {
	ID string
}

func (r *unregisterExternal) Title() string { return "Remove import" }

func (r *unregisterExternal) Perform(ctx *Context) {
	before := len(ctx.Project.ExternalReferences)
	ctx.Project.ExternalReferences = slices.DeleteFunc(ctx.Project.ExternalReferences, func(ext *core.ExternalReference) bool {
		return ext.ID == r.ID
	})
	if len(ctx.Project.ExternalReferences) != before {
		ctx.SymbolsChanged("unregistered %s", r.ID)
	}
}

// ToggleImportMode switches an external reference between use and include.
// Going back to use hides the file's variables, so nodes using them are
// deleted.
type ToggleImportMode struct {
	Reference string
}

func (r *ToggleImportMode) Title() string { return "Toggle use/include" }

func (r *ToggleImportMode) Perform(ctx *Context) {
	ext, ok := ctx.Project.LookupExternalReference(r.Reference)
	if !ok {
		return
	}
	if ext.Mode == core.IncludeInclude {
		ext.Mode = core.IncludeUse
		var vars []string
		for _, v := range ext.Variables {
			vars = append(vars, v.ID)
		}
		for _, ref := range ctx.Project.NodesReferencing(vars...) {
			ctx.Enqueue(&DeleteNode{Graph: ref.Graph, Node: ref.Node})
		}
	} else {
		ext.Mode = core.IncludeInclude
	}
	ctx.SymbolsChanged("%s is now %s", ext.Path, ext.Mode)
}

// EditPreamble replaces the text emitted before every definition.
type EditPreamble struct {
	Text string
}

func (r *EditPreamble) Title() string { return "Edit preamble" }

func (r *EditPreamble) Perform(ctx *Context) {
	if ctx.Project.Preamble == r.Text {
		return
	}
	ctx.Project.Preamble = r.Text
	ctx.SymbolsChanged("edited preamble")
}
