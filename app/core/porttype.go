package core

// PortType is the category of value carried by a port.
type PortType int

const (
	PortAny PortType = iota
	PortNumber
	PortString
	PortBoolean
	PortVector
	PortVector2
	PortVector3
	PortFlow
	PortReroute // placeholder until a connection gives the port a concrete type
)

func (t PortType) String() string {
	switch t {
	case PortAny:
		return "Any"
	case PortNumber:
		return "Number"
	case PortString:
		return "String"
	case PortBoolean:
		return "Boolean"
	case PortVector:
		return "Vector"
	case PortVector2:
		return "Vector2"
	case PortVector3:
		return "Vector3"
	case PortFlow:
		return "Flow"
	case PortReroute:
		return "Reroute"
	default:
		return "???"
	}
}

// AllPortTypes lists the closed set of port types in declaration order.
func AllPortTypes() []PortType {
	return []PortType{PortAny, PortNumber, PortString, PortBoolean, PortVector, PortVector2, PortVector3, PortFlow, PortReroute}
}

func (t PortType) IsVector() bool {
	return t == PortVector || t == PortVector2 || t == PortVector3
}

// IsExpression is true for every type that carries a value. Flow ports
// sequence statements and Reroute ports have not been resolved yet.
func (t PortType) IsExpression() bool {
	return t != PortFlow && t != PortReroute
}

// CanBeAssignedTo reports whether a value of type source may flow into a port
// of type target. Flow only pairs with Flow. An unresolved Reroute only pairs
// with another Reroute, so CanBeAssignedTo(PortReroute, PortAny) is false; the
// reroute-adopt connection rule decides those pairs before assignability is
// checked.
func CanBeAssignedTo(source, target PortType) bool {
	if source == target {
		return true
	}
	if source == PortFlow || target == PortFlow || source == PortReroute || target == PortReroute {
		return false
	}
	if source == PortAny || target == PortAny {
		return true
	}
	if target == PortVector && (source == PortVector2 || source == PortVector3) {
		return true
	}
	return false
}

// CommonType returns the narrowest type both a and b assign to, for nodes
// that share one type across all of their inputs. Any is neutral. ok is false
// when the two types belong to different families.
func CommonType(a, b PortType) (res PortType, ok bool) {
	switch {
	case a == b:
		return a, true
	case a == PortAny:
		return b, true
	case b == PortAny:
		return a, true
	case a.IsVector() && b.IsVector():
		return PortVector, true
	}
	return PortAny, false
}

// LiteralKind is the kind of inline editor a port needs for its default value.
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralNumber
	LiteralString
	LiteralBoolean
	LiteralVector2
	LiteralVector3
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNone:
		return "none"
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBoolean:
		return "boolean"
	case LiteralVector2:
		return "vector2"
	case LiteralVector3:
		return "vector3"
	default:
		return "unknown"
	}
}

// MatchingLiteralKind maps a port type to the literal editor it uses.
func MatchingLiteralKind(t PortType) LiteralKind {
	switch t {
	case PortNumber:
		return LiteralNumber
	case PortString:
		return LiteralString
	case PortBoolean:
		return LiteralBoolean
	case PortVector2:
		return LiteralVector2
	case PortVector3:
		return LiteralVector3
	default:
		return LiteralNone
	}
}
