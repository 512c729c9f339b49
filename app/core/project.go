package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bvisness/scadflow/util"
)

// Invokable is a local function, module or main program together with the
// graph that defines it.
type Invokable struct {
	Description *InvokableDescription
	Graph       *Graph
}

// NodeRef locates a node anywhere in a project.
type NodeRef struct {
	Graph string
	Node  NodeID
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s#%d", r.Graph, r.Node)
}

type Project struct {
	// Path is where the project was loaded from. It is not part of the
	// snapshot.
	Path     string
	Preamble string

	Invokables         []*Invokable
	Variables          []*VariableDescription
	ExternalReferences []*ExternalReference

	Kinds *KindRegistry
}

var _ Resolver = &Project{}

// NewProject returns a project holding only an empty main program.
func NewProject(kinds *KindRegistry) *Project {
	p := &Project{Kinds: kinds}
	p.Invokables = append(p.Invokables, &Invokable{
		Description: &InvokableDescription{
			ID:   NewSymbolID(),
			Name: "main",
			Kind: InvokableMain,
		},
		Graph: NewGraph(),
	})
	return p
}

// Main returns the main program.
func (p *Project) Main() *Invokable {
	for _, inv := range p.Invokables {
		if inv.Description.Kind == InvokableMain {
			return inv
		}
	}
	panic("project has no main program")
}

// LocalInvokable finds a function, module or main program of this project.
func (p *Project) LocalInvokable(id string) (*Invokable, bool) {
	for _, inv := range p.Invokables {
		if inv.Description.ID == id {
			return inv, true
		}
	}
	return nil, false
}

func (p *Project) Graph(id string) (*Graph, bool) {
	inv, ok := p.LocalInvokable(id)
	if !ok {
		return nil, false
	}
	return inv.Graph, true
}

func (p *Project) MustGraph(id string) *Graph {
	g, ok := p.Graph(id)
	util.Assert(ok, "no graph for invokable %q", id)
	return g
}

// LookupInvokable resolves an invokable id against the local project, the
// builtins and every external reference.
func (p *Project) LookupInvokable(id string) (*InvokableDescription, bool) {
	if inv, ok := p.LocalInvokable(id); ok {
		return inv.Description, true
	}
	if b, ok := Builtin(id); ok {
		return b, true
	}
	for _, ext := range p.ExternalReferences {
		for _, d := range slices.Concat(ext.Functions, ext.Modules) {
			if d.ID == id {
				return d, true
			}
		}
	}
	return nil, false
}

func (p *Project) LookupVariable(id string) (*VariableDescription, bool) {
	for _, v := range p.Variables {
		if v.ID == id {
			return v, true
		}
	}
	for _, ext := range p.ExternalReferences {
		for _, v := range ext.Variables {
			if v.ID == id {
				return v, true
			}
		}
	}
	return nil, false
}

func (p *Project) LookupExternalReference(id string) (*ExternalReference, bool) {
	for _, ext := range p.ExternalReferences {
		if ext.ID == id {
			return ext, true
		}
	}
	return nil, false
}

// Invokable implements Resolver. An unknown id means the save is corrupt.
func (p *Project) Invokable(id string) *InvokableDescription {
	d, ok := p.LookupInvokable(id)
	util.Assert(ok, "corrupt save: unknown invokable %q", id)
	return d
}

func (p *Project) Variable(id string) *VariableDescription {
	v, ok := p.LookupVariable(id)
	util.Assert(ok, "corrupt save: unknown variable %q", id)
	return v
}

func (p *Project) ExternalReference(id string) *ExternalReference {
	ext, ok := p.LookupExternalReference(id)
	util.Assert(ok, "corrupt save: unknown external reference %q", id)
	return ext
}

// ExternalOwner returns the external reference that declares a symbol.
func (p *Project) ExternalOwner(symbolID string) (*ExternalReference, bool) {
	for _, ext := range p.ExternalReferences {
		if ext.OwnsSymbol(symbolID) {
			return ext, true
		}
	}
	return nil, false
}

// AllNodes calls f for every node of every graph, in order.
func (p *Project) AllNodes(f func(inv *Invokable, n *Node)) {
	for _, inv := range p.Invokables {
		for _, n := range inv.Graph.Nodes {
			f(inv, n)
		}
	}
}

// NodesReferencing returns every node that depends on at least one of the
// given symbol ids.
func (p *Project) NodesReferencing(ids ...string) []NodeRef {
	var res []NodeRef
	p.AllNodes(func(inv *Invokable, n *Node) {
		sr, ok := As[SymbolReferrer](n)
		if !ok {
			return
		}
		for _, ref := range sr.References() {
			if slices.Contains(ids, ref) {
				res = append(res, NodeRef{Graph: inv.Description.ID, Node: n.ID})
				return
			}
		}
	})
	return res
}

// ImportNodes returns every import node registering the given external
// reference.
func (p *Project) ImportNodes(extID string) []NodeRef {
	var res []NodeRef
	p.AllNodes(func(inv *Invokable, n *Node) {
		if imp, ok := As[ExternalImporter](n); ok && imp.ExternalReferenceID() == extID {
			res = append(res, NodeRef{Graph: inv.Description.ID, Node: n.ID})
		}
	})
	return res
}

// ErrInconsistent is matched by every error Validate reports.
var ErrInconsistent = errors.New("inconsistent project")

type ValidationError struct {
	Where  NodeRef
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Where, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrInconsistent
}

// Validate checks that every symbol a node refers to is visible through
// exactly one registry (the project itself, the builtins, or one external
// reference), and that every external reference has an import node.
func (p *Project) Validate() []error {
	var errs []error
	p.AllNodes(func(inv *Invokable, n *Node) {
		where := NodeRef{Graph: inv.Description.ID, Node: n.ID}
		if sr, ok := As[SymbolReferrer](n); ok {
			for _, id := range sr.References() {
				if owners := p.symbolOwners(id); owners != 1 {
					errs = append(errs, ValidationError{
						Where:  where,
						Reason: fmt.Sprintf("symbol %q is visible through %d registries", id, owners),
					})
				}
			}
		}
		if imp, ok := As[ExternalImporter](n); ok {
			if _, ok := p.LookupExternalReference(imp.ExternalReferenceID()); !ok {
				errs = append(errs, ValidationError{
					Where:  where,
					Reason: fmt.Sprintf("import of unregistered reference %q", imp.ExternalReferenceID()),
				})
			}
		}
	})
	for _, ext := range p.ExternalReferences {
		if len(p.ImportNodes(ext.ID)) == 0 {
			errs = append(errs, ValidationError{
				Reason: fmt.Sprintf("external reference %q has no import node", ext.Path),
			})
		}
	}
	return errs
}

func (p *Project) symbolOwners(id string) int {
	count := 0
	if _, ok := p.LocalInvokable(id); ok {
		count++
	}
	if slices.ContainsFunc(p.Variables, func(v *VariableDescription) bool { return v.ID == id }) {
		count++
	}
	if _, ok := Builtin(id); ok {
		count++
	}
	for _, ext := range p.ExternalReferences {
		if slices.Contains(ext.SymbolIDs(), id) {
			count++
		}
	}
	return count
}

// Clone returns a deep copy through the snapshot format.
func (p *Project) Clone() *Project {
	data, err := SaveProject(p)
	util.Assert(err == nil, "snapshotting a live project cannot fail: %v", err)
	clone, err := LoadProject(data, p.Path, p.Kinds)
	util.Assert(err == nil, "reloading a fresh snapshot cannot fail: %v", err)
	return clone
}
