package core

import (
	"encoding/base64"
	"fmt"
	"slices"
)

const clipboardVersion = 1

// Clipboard holds copied nodes and the connections among them. Connections
// to nodes outside the copy are not kept.
type Clipboard struct {
	Nodes       []SavedNode
	Connections []Connection
}

var _ Serializable = &Clipboard{}

func (c *Clipboard) Serialize(s *Serializer) bool {
	SSlice(s, &c.Nodes)
	SSlice(s, &c.Connections)
	return s.Ok()
}

// CopyNodes captures the given nodes of g. Unknown ids are skipped.
func CopyNodes(g *Graph, ids []NodeID) *Clipboard {
	c := &Clipboard{}
	for _, n := range g.Nodes {
		if slices.Contains(ids, n.ID) {
			c.Nodes = append(c.Nodes, n.Save())
		}
	}
	for _, conn := range g.Connections {
		if slices.Contains(ids, conn.From) && slices.Contains(ids, conn.To) {
			c.Connections = append(c.Connections, conn)
		}
	}
	return c
}

// Encode returns the clipboard as text suitable for the system clipboard.
func (c *Clipboard) Encode() (string, error) {
	s := NewEncoder(clipboardVersion)
	if !SThing(s, c) {
		return "", fmt.Errorf("encoding clipboard: %v", s.Errs)
	}
	return base64.StdEncoding.EncodeToString(s.Bytes()), nil
}

// DecodeClipboard parses text produced by Encode. Any other text is an error.
func DecodeClipboard(text string) (*Clipboard, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("clipboard does not hold nodes: %w", err)
	}
	s := NewDecoder(data)
	if s.Version > clipboardVersion {
		return nil, fmt.Errorf("clipboard version %d is newer than supported version %d", s.Version, clipboardVersion)
	}
	var c Clipboard
	if !SThing(s, &c) {
		return nil, fmt.Errorf("decoding clipboard: %v", s.Errs)
	}
	return &c, nil
}
