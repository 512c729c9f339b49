package core

import (
	"fmt"
	"sync"
)

// KindInfo describes a registered node kind.
type KindInfo struct {
	Kind        NodeKind
	Title       string
	Description string
	Alloc       func() NodeData

	// Hidden kinds (entry and return nodes) are never offered in the node
	// palette; they come and go with their invokable.
	Hidden bool
}

// KindRegistry is the closed set of node kinds a project may contain. It is
// built once at startup and passed to whatever needs to create or load
// nodes.
type KindRegistry struct {
	mu    sync.RWMutex
	kinds map[NodeKind]*KindInfo
	order []NodeKind
}

func NewKindRegistry() *KindRegistry {
	return &KindRegistry{kinds: make(map[NodeKind]*KindInfo)}
}

func (r *KindRegistry) Register(info KindInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[info.Kind]; exists {
		panic(fmt.Sprintf("node kind %q registered twice", info.Kind))
	}
	r.kinds[info.Kind] = &info
	r.order = append(r.order, info.Kind)
}

func (r *KindRegistry) Lookup(kind NodeKind) (*KindInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.kinds[kind]
	return info, ok
}

// MustLookup retrieves a kind that is known to exist. An unknown kind in a
// save file means the save is corrupt.
func (r *KindRegistry) MustLookup(kind NodeKind) *KindInfo {
	if info, ok := r.Lookup(kind); ok {
		return info
	}
	panic("unknown node kind: " + string(kind))
}

// All returns every kind in registration order.
func (r *KindRegistry) All() []*KindInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*KindInfo, len(r.order))
	for i, k := range r.order {
		res[i] = r.kinds[k]
	}
	return res
}

// New creates a fresh node of the given kind with default state.
func (r *KindRegistry) New(kind NodeKind) *Node {
	return NewNode(kind, r.MustLookup(kind).Alloc())
}
