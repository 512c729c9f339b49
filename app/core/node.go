package core

import (
	"fmt"
	"slices"

	"github.com/bvisness/scadflow/util"
)

type NodeID int

// NodeKind is the tag of a node variant, e.g. "sum" or "list-comprehension".
type NodeKind string

type Node struct {
	ID   NodeID
	Kind NodeKind

	InputPorts  []Port
	OutputPorts []Port

	// Literals holds inline values keyed by direction and port key, see
	// LiteralKey.
	Literals map[string]Literal

	Data NodeData
}

// NodeData is the kind-specific state of a node. BuildPorts must be
// idempotent and must not look at the graph: the node never knows which
// connections it has.
type NodeData interface {
	BuildPorts(n *Node)
	SaveInto(r Record)
	RestoreFrom(r Record, res Resolver)
}

func (n *Node) String() string {
	return fmt.Sprintf("Node#%d(%s)", n.ID, n.Kind)
}

// NewNode wraps data into a node of the given kind and lays out its ports.
func NewNode(kind NodeKind, data NodeData) *Node {
	n := &Node{
		Kind:     kind,
		Literals: map[string]Literal{},
		Data:     data,
	}
	n.Rebuild()
	return n
}

// Rebuild recomputes the port lists from the node's current state.
func (n *Node) Rebuild() {
	n.Data.BuildPorts(n)
}

// SetPorts is called by BuildPorts implementations. It numbers the ports and
// brings literal storage in line: ports that gained an inline editor get a
// default value, literals of ports that no longer exist (or whose type no
// longer matches) are dropped.
func (n *Node) SetPorts(inputs, outputs []PortSpec) {
	n.InputPorts = numberPorts(inputs, Input)
	n.OutputPorts = numberPorts(outputs, Output)
	if n.Literals == nil {
		n.Literals = map[string]Literal{}
	}

	wanted := map[string]LiteralKind{}
	for _, p := range n.InputPorts {
		if k := MatchingLiteralKind(p.Type); k != LiteralNone {
			wanted[LiteralKey(Input, p.Key)] = k
		}
	}
	if lp, ok := n.Data.(OutputLiteralProvider); ok {
		for _, key := range lp.OutputLiteralPorts() {
			p, ok := n.Port(Output, key)
			util.Assert(ok, "%s declares a literal on missing output %q", n, key)
			if k := MatchingLiteralKind(p.Type); k != LiteralNone {
				wanted[LiteralKey(Output, key)] = k
			}
		}
	}

	for key, lit := range n.Literals {
		if k, ok := wanted[key]; !ok || k != lit.Kind {
			delete(n.Literals, key)
		}
	}
	for key, k := range wanted {
		if _, ok := n.Literals[key]; !ok {
			n.Literals[key] = defaultLiteralOfKind(k)
		}
	}
}

func numberPorts(specs []PortSpec, dir Direction) []Port {
	ports := make([]Port, len(specs))
	seen := map[string]bool{}
	for i, s := range specs {
		util.Assert(!seen[s.Key], "duplicate %s port key %q", dir, s.Key)
		seen[s.Key] = true
		ports[i] = Port{
			Key:         s.Key,
			Name:        s.Name,
			Description: s.Description,
			Type:        s.Type,
			Direction:   dir,
			Index:       i,
		}
	}
	return ports
}

func defaultLiteralOfKind(k LiteralKind) Literal {
	switch k {
	case LiteralNumber:
		return NumberLiteral(0)
	case LiteralString:
		return StringLiteral("")
	case LiteralBoolean:
		return BooleanLiteral(false)
	case LiteralVector2:
		return Vector2Literal(0, 0)
	case LiteralVector3:
		return Vector3Literal(0, 0, 0)
	}
	return Literal{}
}

func LiteralKey(dir Direction, key string) string {
	if dir == Output {
		return "out:" + key
	}
	return "in:" + key
}

func (n *Node) Ports(dir Direction) []Port {
	if dir == Output {
		return n.OutputPorts
	}
	return n.InputPorts
}

// Port finds a port by key.
func (n *Node) Port(dir Direction, key string) (Port, bool) {
	for _, p := range n.Ports(dir) {
		if p.Key == key {
			return p, true
		}
	}
	return Port{}, false
}

// PortAt returns the port at index, or false when the index is out of range.
func (n *Node) PortAt(dir Direction, index int) (Port, bool) {
	ports := n.Ports(dir)
	if index < 0 || index >= len(ports) {
		return Port{}, false
	}
	return ports[index], true
}

// MustPortAt is PortAt for callers that have already validated the index.
func (n *Node) MustPortAt(dir Direction, index int) Port {
	p, ok := n.PortAt(dir, index)
	util.Assert(ok, "%s has no %s port %d", n, dir, index)
	return p
}

// Literal returns the inline value of a port, if it has one.
func (n *Node) Literal(dir Direction, index int) (Literal, bool) {
	p, ok := n.PortAt(dir, index)
	if !ok {
		return Literal{}, false
	}
	lit, ok := n.Literals[LiteralKey(dir, p.Key)]
	return lit, ok
}

// SetLiteral replaces the inline value of a port. The port must accept a
// literal of that kind.
func (n *Node) SetLiteral(dir Direction, index int, lit Literal) {
	p := n.MustPortAt(dir, index)
	key := LiteralKey(dir, p.Key)
	old, ok := n.Literals[key]
	util.Assert(ok, "%s port %s has no literal", n, p)
	util.Assert(old.Kind == lit.Kind, "%s port %s takes %s literals, not %s", n, p, old.Kind, lit.Kind)
	n.Literals[key] = lit.Clone()
}

// ---------------------------------------------------------------------------
// Arity

// IncreaseArity adds one step of ports to a variable-arity node. Connections
// are the caller's business.
func (n *Node) IncreaseArity() {
	va := MustAs[VariableArity](n)
	va.SetArity(va.Arity() + 1)
	n.Rebuild()
}

// DecreaseArity removes the last step of ports. Going below the minimum is a
// programming error: menus only offer the action when it applies.
func (n *Node) DecreaseArity() {
	va := MustAs[VariableArity](n)
	util.Assert(va.Arity() > va.MinArity(), "%s cannot go below arity %d", n, va.MinArity())
	va.SetArity(va.Arity() - 1)
	n.Rebuild()
}

// ---------------------------------------------------------------------------
// Persistence

// SavedNode is the persisted form of a node.
type SavedNode struct {
	ID       NodeID
	Kind     NodeKind
	State    Record
	Literals map[string]Literal
}

func (sn *SavedNode) Serialize(s *Serializer) bool {
	SInt(s, &sn.ID)
	SStr(s, &sn.Kind)
	m := map[string]string(sn.State)
	SMapStrStr(s, &m)
	sn.State = Record(m)

	keys := make([]string, 0, len(sn.Literals))
	for k := range sn.Literals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	count := len(keys)
	if !SCount(s, &count) {
		return false
	}
	if !s.Encode {
		sn.Literals = make(map[string]Literal, count)
		keys = make([]string, count)
	}
	for i := range count {
		var lit Literal
		if s.Encode {
			lit = sn.Literals[keys[i]]
		}
		SStr(s, &keys[i])
		SThing(s, &lit)
		if !s.Encode {
			sn.Literals[keys[i]] = lit
		}
	}
	return s.Ok()
}

// Save captures the node's persisted form.
func (n *Node) Save() SavedNode {
	r := Record{}
	n.Data.SaveInto(r)
	lits := make(map[string]Literal, len(n.Literals))
	for k, v := range n.Literals {
		lits[k] = v.Clone()
	}
	return SavedNode{ID: n.ID, Kind: n.Kind, State: r, Literals: lits}
}

// Restore rebuilds a live node from its persisted form. Literals whose port
// no longer exists are ignored.
func (sn SavedNode) Restore(kinds *KindRegistry, res Resolver) *Node {
	meta := kinds.MustLookup(sn.Kind)
	data := meta.Alloc()
	data.RestoreFrom(sn.State, res)
	n := NewNode(sn.Kind, data)
	n.ID = sn.ID
	for k, lit := range sn.Literals {
		if cur, ok := n.Literals[k]; ok && cur.Kind == lit.Kind {
			n.Literals[k] = lit.Clone()
		}
	}
	return n
}

// Clone returns a deep copy of the node through its persisted form.
func (n *Node) Clone(kinds *KindRegistry, res Resolver) *Node {
	return n.Save().Restore(kinds, res)
}
