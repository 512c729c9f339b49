// Package nodes implements the node kinds of a scadflow graph.
package nodes

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bvisness/scadflow/app/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	KindStart              core.NodeKind = "start"
	KindFunctionEntry      core.NodeKind = "function-entry"
	KindFunctionReturn     core.NodeKind = "function-return"
	KindModuleEntry        core.NodeKind = "module-entry"
	KindFunctionInvocation core.NodeKind = "function-invocation"
	KindModuleInvocation   core.NodeKind = "module-invocation"
	KindChildren           core.NodeKind = "children"
	KindVariableGet        core.NodeKind = "variable-get"
	KindVariableSet        core.NodeKind = "variable-set"
	KindImport             core.NodeKind = "import"
	KindReroute            core.NodeKind = "reroute"
	KindSum                core.NodeKind = "sum"
	KindProduct            core.NodeKind = "product"
	KindMin                core.NodeKind = "min"
	KindMax                core.NodeKind = "max"
	KindVector             core.NodeKind = "vector"
	KindVector2            core.NodeKind = "vector2"
	KindVector3            core.NodeKind = "vector3"
	KindIndexVector        core.NodeKind = "index-vector"
	KindListComprehension  core.NodeKind = "list-comprehension"
	KindForLoop            core.NodeKind = "for-loop"
	KindLet                core.NodeKind = "let"
	KindEcho               core.NodeKind = "echo"
	KindStringBuilder      core.NodeKind = "string-builder"
	KindIf                 core.NodeKind = "if"
	KindConstant           core.NodeKind = "constant"
)

var (
	registryOnce sync.Once
	registry     *core.KindRegistry
)

// Registry returns the registry of every node kind. It is built on first use.
func Registry() *core.KindRegistry {
	registryOnce.Do(func() {
		registry = core.NewKindRegistry()
		register := func(kind core.NodeKind, description string, hidden bool, alloc func() core.NodeData) {
			registry.Register(core.KindInfo{
				Kind:        kind,
				Title:       Title(kind),
				Description: description,
				Alloc:       alloc,
				Hidden:      hidden,
			})
		}

		register(KindStart, "Where the main program begins.", true, func() core.NodeData { return &StartAction{} })
		register(KindFunctionEntry, "The parameters of the enclosing function.", true, func() core.NodeData { return &FunctionEntryAction{} })
		register(KindFunctionReturn, "The value the enclosing function returns.", true, func() core.NodeData { return &FunctionReturnAction{} })
		register(KindModuleEntry, "The body and parameters of the enclosing module.", true, func() core.NodeData { return &ModuleEntryAction{} })
		register(KindFunctionInvocation, "Calls a function.", false, func() core.NodeData { return &FunctionInvocationAction{} })
		register(KindModuleInvocation, "Instantiates a module.", false, func() core.NodeData { return &ModuleInvocationAction{} })
		register(KindChildren, "Instantiates the children passed to the enclosing module.", false, func() core.NodeData { return &ChildrenAction{} })
		register(KindVariableGet, "Reads a variable.", false, func() core.NodeData { return &VariableGetAction{} })
		register(KindVariableSet, "Assigns a variable.", false, func() core.NodeData { return &VariableSetAction{} })
		register(KindImport, "Pulls in another source file with use or include.", false, func() core.NodeData { return &ImportAction{} })
		register(KindReroute, "Passes a value or statement chain through unchanged.", false, func() core.NodeData { return &RerouteAction{Type: core.PortReroute} })
		register(KindSum, "Adds numbers or vectors.", false, func() core.NodeData { return newReducer(reducerSum) })
		register(KindProduct, "Multiplies numbers or vectors.", false, func() core.NodeData { return newReducer(reducerProduct) })
		register(KindMin, "The smallest of its inputs.", false, func() core.NodeData { return newExtremum(extremumMin) })
		register(KindMax, "The largest of its inputs.", false, func() core.NodeData { return newExtremum(extremumMax) })
		register(KindVector, "Builds a vector from any number of values.", false, func() core.NodeData { return &VectorAction{Count: 1} })
		register(KindVector2, "Builds a 2D vector.", false, func() core.NodeData { return &FixedVectorAction{Size: 2} })
		register(KindVector3, "Builds a 3D vector.", false, func() core.NodeData { return &FixedVectorAction{Size: 3} })
		register(KindIndexVector, "Reads one element of a vector.", false, func() core.NodeData { return &IndexVectorAction{} })
		register(KindListComprehension, "Builds a list by iterating one or more lists.", false, func() core.NodeData { return &ListComprehensionAction{Levels: 1} })
		register(KindForLoop, "Repeats statements for every element of one or more lists.", false, func() core.NodeData { return &ForLoopAction{Levels: 1} })
		register(KindLet, "Binds values to names for use in an expression.", false, func() core.NodeData { return &LetAction{Count: 1} })
		register(KindEcho, "Prints values to the console.", false, func() core.NodeData { return &EchoAction{Count: 1} })
		register(KindStringBuilder, "Concatenates values into a string.", false, func() core.NodeData { return &StringBuilderAction{Count: 1} })
		register(KindIf, "Runs one of two statement chains.", false, func() core.NodeData { return &IfAction{} })
		register(KindConstant, "A fixed value.", false, func() core.NodeData { return &ConstantAction{Type: core.PortNumber} })
	})
	return registry
}

// Title turns a kind tag into a menu title: "list-comprehension" becomes
// "List Comprehension".
func Title(kind core.NodeKind) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(kind), "-", " "))
}

// numbered lays out count ports keyed prefix1..prefixN.
func numbered(prefix, name string, count int, t core.PortType) []core.PortSpec {
	specs := make([]core.PortSpec, count)
	for i := range count {
		specs[i] = core.PortSpec{
			Key:  prefix + strconv.Itoa(i+1),
			Name: name + " " + strconv.Itoa(i+1),
			Type: t,
		}
	}
	return specs
}

// renderInputs renders every input whose key starts with prefix, in order.
func renderInputs(ctx *core.RenderContext, n *core.Node, prefix string) []string {
	var res []string
	for _, p := range n.InputPorts {
		if strings.HasPrefix(p.Key, prefix) {
			res = append(res, ctx.Input(n, p.Index))
		}
	}
	return res
}
