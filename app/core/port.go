package core

import "fmt"

type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Port is a typed connection point. Index is only stable until the owning
// node rebuilds its port list; Key names the logical port and survives a
// rebuild for as long as the port itself does.
type Port struct {
	Key         string
	Name        string
	Description string
	Type        PortType
	Direction   Direction
	Index       int
}

func (p Port) String() string {
	return fmt.Sprintf("%s %d %q (%s)", p.Direction, p.Index, p.Key, p.Type)
}

// PortSpec describes a port before it is numbered.
type PortSpec struct {
	Key         string
	Name        string
	Description string
	Type        PortType
}

// In and Out are shorthands used by node kinds when laying out ports.
func In(key, name string, t PortType) PortSpec  { return PortSpec{Key: key, Name: name, Type: t} }
func Out(key, name string, t PortType) PortSpec { return PortSpec{Key: key, Name: name, Type: t} }

// FlowIn and FlowOut are the conventional statement-sequencing ports.
func FlowIn() PortSpec                  { return PortSpec{Key: "in", Name: "", Type: PortFlow} }
func FlowOut(key, name string) PortSpec { return PortSpec{Key: key, Name: name, Type: PortFlow} }

func (s PortSpec) Doc(description string) PortSpec {
	s.Description = description
	return s
}
