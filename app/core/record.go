package core

import (
	"fmt"
	"strconv"

	"github.com/bvisness/scadflow/util"
)

// Record is the persisted form of a node's kind-specific state: arity
// counters, selected modes and ids of referenced symbols. Values are strings
// so the on-disk layout does not depend on the Go types of each kind.
type Record map[string]string

func (r Record) SetInt(key string, v int) {
	r[key] = strconv.Itoa(v)
}

func (r Record) SetString(key, v string) {
	r[key] = v
}

func (r Record) SetBool(key string, v bool) {
	r[key] = strconv.FormatBool(v)
}

// Int returns the integer stored under key, or def when the key is missing.
// A present but malformed value means the save is corrupt.
func (r Record) Int(key string, def int) int {
	s, ok := r[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	util.Assert(err == nil, "corrupt record: %s=%q is not an integer", key, s)
	return v
}

func (r Record) String(key, def string) string {
	if s, ok := r[key]; ok {
		return s
	}
	return def
}

func (r Record) Bool(key string, def bool) bool {
	s, ok := r[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(s)
	util.Assert(err == nil, "corrupt record: %s=%q is not a boolean", key, s)
	return v
}

// MustString returns the value under key and fails when it is missing, for
// state a node cannot exist without (such as the symbol it invokes).
func (r Record) MustString(key string) string {
	s, ok := r[key]
	util.Assert(ok, "corrupt record: missing %q", key)
	return s
}

func (r Record) SetPortType(key string, t PortType) {
	r.SetInt(key, int(t))
}

func (r Record) PortType(key string, def PortType) PortType {
	v := r.Int(key, int(def))
	util.Assert(v >= int(PortAny) && v <= int(PortReroute), "corrupt record: %s=%d is not a port type", key, v)
	return PortType(v)
}

func (r Record) GoString() string {
	return fmt.Sprintf("core.Record(%v)", map[string]string(r))
}
