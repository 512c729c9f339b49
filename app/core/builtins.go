package core

import "sync"

// Builtin symbols of the output language. They belong to no project and no
// external reference, and their ids are fixed so saves stay portable.

func builtinFunction(name string, ret PortType, params ...ParameterDescription) *InvokableDescription {
	return &InvokableDescription{
		ID:         "builtin/" + name,
		Name:       name,
		Kind:       InvokableFunction,
		Parameters: params,
		ReturnType: ret,
	}
}

func builtinModule(name string, children bool, params ...ParameterDescription) *InvokableDescription {
	return &InvokableDescription{
		ID:               "builtin/" + name,
		Name:             name,
		Kind:             InvokableModule,
		Parameters:       params,
		SupportsChildren: children,
	}
}

func param(name string, t PortType, def *Literal) ParameterDescription {
	return ParameterDescription{Name: name, Type: t, Default: def}
}

func lit(l Literal) *Literal { return &l }

var (
	builtinsOnce sync.Once
	builtinList  []*InvokableDescription
	builtinIndex map[string]*InvokableDescription
)

func loadBuiltins() {
	builtinList = []*InvokableDescription{
		builtinModule("cube", false,
			param("size", PortVector3, lit(Vector3Literal(1, 1, 1))),
			param("center", PortBoolean, lit(BooleanLiteral(false)))),
		builtinModule("sphere", false,
			param("r", PortNumber, lit(NumberLiteral(1)))),
		builtinModule("cylinder", false,
			param("h", PortNumber, lit(NumberLiteral(1))),
			param("r1", PortNumber, lit(NumberLiteral(1))),
			param("r2", PortNumber, lit(NumberLiteral(1))),
			param("center", PortBoolean, lit(BooleanLiteral(false)))),
		builtinModule("square", false,
			param("size", PortVector2, lit(Vector2Literal(1, 1))),
			param("center", PortBoolean, lit(BooleanLiteral(false)))),
		builtinModule("circle", false,
			param("r", PortNumber, lit(NumberLiteral(1)))),
		builtinModule("translate", true, param("v", PortVector3, lit(Vector3Literal(0, 0, 0)))),
		builtinModule("rotate", true, param("a", PortVector3, lit(Vector3Literal(0, 0, 0)))),
		builtinModule("scale", true, param("v", PortVector3, lit(Vector3Literal(1, 1, 1)))),
		builtinModule("color", true, param("c", PortString, lit(StringLiteral("red")))),
		builtinModule("union", true),
		builtinModule("difference", true),
		builtinModule("intersection", true),
		builtinModule("hull", true),
		builtinModule("linear_extrude", true, param("height", PortNumber, lit(NumberLiteral(1)))),
		builtinFunction("sin", PortNumber, param("angle", PortNumber, nil)),
		builtinFunction("cos", PortNumber, param("angle", PortNumber, nil)),
		builtinFunction("sqrt", PortNumber, param("x", PortNumber, nil)),
		builtinFunction("abs", PortNumber, param("x", PortNumber, nil)),
		builtinFunction("len", PortNumber, param("v", PortAny, nil)),
		builtinFunction("concat", PortVector, param("a", PortVector, nil), param("b", PortVector, nil)),
		builtinFunction("norm", PortNumber, param("v", PortVector, nil)),
		builtinFunction("cross", PortVector3, param("a", PortVector3, nil), param("b", PortVector3, nil)),
	}
	builtinIndex = make(map[string]*InvokableDescription, len(builtinList))
	for _, b := range builtinList {
		builtinIndex[b.ID] = b
	}
}

// Builtins returns the builtin library. Callers must not modify it.
func Builtins() []*InvokableDescription {
	builtinsOnce.Do(loadBuiltins)
	return builtinList
}

// Builtin looks up a builtin by id.
func Builtin(id string) (*InvokableDescription, bool) {
	builtinsOnce.Do(loadBuiltins)
	b, ok := builtinIndex[id]
	return b, ok
}

// BuiltinNamed looks up a builtin by its source name.
func BuiltinNamed(name string) (*InvokableDescription, bool) {
	return Builtin("builtin/" + name)
}
