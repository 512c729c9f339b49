package core

import (
	"fmt"
)

// ProjectFormatVersion is written at the start of every snapshot.
const ProjectFormatVersion = 1

type savedInvokable struct {
	Description InvokableDescription
	Nodes       []SavedNode
	Connections []Connection
	NextNodeID  NodeID
}

func (si *savedInvokable) Serialize(s *Serializer) bool {
	SThing(s, &si.Description)
	SSlice(s, &si.Nodes)
	SSlice(s, &si.Connections)
	SInt(s, &si.NextNodeID)
	return s.Ok()
}

// SaveProject produces the opaque snapshot of a project. Equal projects
// produce equal bytes.
func SaveProject(p *Project) ([]byte, error) {
	s := NewEncoder(ProjectFormatVersion)

	SStr(s, &p.Preamble)
	SPtrSlice(s, &p.Variables)
	SPtrSlice(s, &p.ExternalReferences)

	invokableCount := len(p.Invokables)
	SInt(s, &invokableCount)
	for _, inv := range p.Invokables {
		si := savedInvokable{
			Description: *inv.Description,
			Nodes:       make([]SavedNode, len(inv.Graph.Nodes)),
			Connections: inv.Graph.Connections,
			NextNodeID:  inv.Graph.NextNodeID,
		}
		for i, n := range inv.Graph.Nodes {
			si.Nodes[i] = n.Save()
		}
		SThing(s, &si)
	}

	if !s.Ok() {
		return nil, fmt.Errorf("serialization failed: %v", s.Errs)
	}
	return s.Bytes(), nil
}

// LoadProject rebuilds a project from a snapshot. Symbols are read before
// any graph so that nodes can resolve the ids they refer to. A snapshot that
// decodes but refers to unknown symbols or kinds is corrupt and panics.
func LoadProject(data []byte, path string, kinds *KindRegistry) (*Project, error) {
	s := NewDecoder(data)
	if s.Ok() && s.Version > ProjectFormatVersion {
		return nil, fmt.Errorf("project format version %d is newer than supported version %d", s.Version, ProjectFormatVersion)
	}

	p := &Project{Path: path, Kinds: kinds}
	SStr(s, &p.Preamble)
	SPtrSlice(s, &p.Variables)
	SPtrSlice(s, &p.ExternalReferences)

	var invokableCount int
	if !SInt(s, &invokableCount) {
		return nil, fmt.Errorf("failed to read invokable count: %v", s.Errs)
	}
	if invokableCount < 0 || invokableCount > s.Buf.Len() {
		return nil, fmt.Errorf("bad invokable count %d", invokableCount)
	}
	saved := make([]savedInvokable, invokableCount)
	for i := range saved {
		if !SThing(s, &saved[i]) {
			return nil, fmt.Errorf("failed to read invokable %d: %v", i, s.Errs)
		}
		desc := saved[i].Description
		p.Invokables = append(p.Invokables, &Invokable{Description: &desc, Graph: NewGraph()})
	}
	if !s.Ok() {
		return nil, fmt.Errorf("deserialization failed: %v", s.Errs)
	}
	if s.Buf.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after project", s.Buf.Len())
	}

	for i, si := range saved {
		g := p.Invokables[i].Graph
		for _, sn := range si.Nodes {
			g.PutNode(sn.Restore(kinds, p))
		}
		for _, c := range si.Connections {
			g.AddConnection(c)
		}
		g.NextNodeID = si.NextNodeID
	}
	return p, nil
}
