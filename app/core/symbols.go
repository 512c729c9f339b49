package core

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSymbolID returns a fresh persisted id for an invokable, variable or
// external reference.
func NewSymbolID() string {
	return uuid.New().String()
}

type InvokableKind int

const (
	InvokableFunction InvokableKind = iota
	InvokableModule
	InvokableMain
)

func (k InvokableKind) String() string {
	switch k {
	case InvokableFunction:
		return "function"
	case InvokableModule:
		return "module"
	case InvokableMain:
		return "main"
	default:
		return "unknown"
	}
}

type ParameterDescription struct {
	Name        string
	Description string
	Type        PortType
	Default     *Literal
}

func (p *ParameterDescription) Serialize(s *Serializer) bool {
	SStr(s, &p.Name)
	SStr(s, &p.Description)
	SInt(s, &p.Type)
	SMaybeThing(s, &p.Default)
	return s.Ok()
}

// InvokableDescription describes a function, a module or the main program.
// Local invokables own a graph in the project; builtins and symbols exported
// by external references have no graph.
type InvokableDescription struct {
	ID               string
	Name             string
	Kind             InvokableKind
	Description      string
	Parameters       []ParameterDescription
	ReturnType       PortType // functions only
	SupportsChildren bool     // modules only
}

func (d *InvokableDescription) Serialize(s *Serializer) bool {
	SStr(s, &d.ID)
	SStr(s, &d.Name)
	SInt(s, &d.Kind)
	SStr(s, &d.Description)
	SSlice(s, &d.Parameters)
	SInt(s, &d.ReturnType)
	SBool(s, &d.SupportsChildren)
	return s.Ok()
}

func (d *InvokableDescription) String() string {
	return fmt.Sprintf("%s %s", d.Kind, d.Name)
}

func (d *InvokableDescription) Clone() *InvokableDescription {
	res := *d
	res.Parameters = make([]ParameterDescription, len(d.Parameters))
	for i, p := range d.Parameters {
		if p.Default != nil {
			def := p.Default.Clone()
			p.Default = &def
		}
		res.Parameters[i] = p
	}
	return &res
}

type VariableDescription struct {
	ID          string
	Name        string
	Description string
	Type        PortType
	Default     *Literal
}

func (v *VariableDescription) Serialize(s *Serializer) bool {
	SStr(s, &v.ID)
	SStr(s, &v.Name)
	SStr(s, &v.Description)
	SInt(s, &v.Type)
	SMaybeThing(s, &v.Default)
	return s.Ok()
}

type IncludeMode int

const (
	IncludeUse IncludeMode = iota
	IncludeInclude
)

func (m IncludeMode) String() string {
	if m == IncludeInclude {
		return "include"
	}
	return "use"
}

// ExternalReference is another source file pulled into the project, together
// with the symbols it exposes. "use" only brings in functions and modules;
// "include" also brings in top-level variables.
type ExternalReference struct {
	ID        string
	Path      string
	Mode      IncludeMode
	Functions []*InvokableDescription
	Modules   []*InvokableDescription
	Variables []*VariableDescription
}

func (e *ExternalReference) Serialize(s *Serializer) bool {
	SStr(s, &e.ID)
	SStr(s, &e.Path)
	SInt(s, &e.Mode)
	SPtrSlice(s, &e.Functions)
	SPtrSlice(s, &e.Modules)
	SPtrSlice(s, &e.Variables)
	return s.Ok()
}

// SymbolIDs returns the ids of every symbol visible through this reference.
func (e *ExternalReference) SymbolIDs() []string {
	var ids []string
	for _, f := range e.Functions {
		ids = append(ids, f.ID)
	}
	for _, m := range e.Modules {
		ids = append(ids, m.ID)
	}
	if e.Mode == IncludeInclude {
		for _, v := range e.Variables {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// OwnsSymbol reports whether id is one of the symbols the file declares,
// regardless of whether the current mode exposes it.
func (e *ExternalReference) OwnsSymbol(id string) bool {
	for _, f := range e.Functions {
		if f.ID == id {
			return true
		}
	}
	for _, m := range e.Modules {
		if m.ID == id {
			return true
		}
	}
	for _, v := range e.Variables {
		if v.ID == id {
			return true
		}
	}
	return false
}

// Resolver turns persisted ids back into live symbol handles. Unknown ids
// mean the save is corrupt, so implementations fail fatally rather than
// returning an error.
type Resolver interface {
	Invokable(id string) *InvokableDescription
	Variable(id string) *VariableDescription
	ExternalReference(id string) *ExternalReference
}
