// Package inspect produces a readable outline of a project, meant for
// diffing saves and for debugging.
package inspect

import (
	"fmt"
	"slices"

	"github.com/bvisness/scadflow/app/core"
	"gopkg.in/yaml.v3"
)

type Outline struct {
	Preamble   string             `yaml:"preamble,omitempty"`
	Invokables []InvokableOutline `yaml:"invokables"`
	Variables  []VariableOutline  `yaml:"variables,omitempty"`
	External   []ReferenceOutline `yaml:"external,omitempty"`
	Problems   []string           `yaml:"problems,omitempty"`
}

type InvokableOutline struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Parameters  []string      `yaml:"parameters,omitempty"`
	Returns     string        `yaml:"returns,omitempty"`
	Children    bool          `yaml:"children,omitempty"`
	Nodes       []NodeOutline `yaml:"nodes"`
	Connections []string      `yaml:"connections,omitempty"`
}

type NodeOutline struct {
	ID       core.NodeID       `yaml:"id"`
	Kind     string            `yaml:"kind"`
	Inputs   []string          `yaml:"inputs,omitempty"`
	Outputs  []string          `yaml:"outputs,omitempty"`
	Literals map[string]string `yaml:"literals,omitempty"`
}

type VariableOutline struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default,omitempty"`
}

type ReferenceOutline struct {
	ID        string   `yaml:"id"`
	Path      string   `yaml:"path"`
	Mode      string   `yaml:"mode"`
	Functions []string `yaml:"functions,omitempty"`
	Modules   []string `yaml:"modules,omitempty"`
	Variables []string `yaml:"variables,omitempty"`
}

// Describe builds the outline of p. Problems found by Validate are listed
// rather than returned, so a broken project can still be inspected.
func Describe(p *core.Project) Outline {
	var o Outline
	o.Preamble = p.Preamble
	for _, inv := range p.Invokables {
		o.Invokables = append(o.Invokables, describeInvokable(inv))
	}
	for _, v := range p.Variables {
		vo := VariableOutline{ID: v.ID, Name: v.Name, Type: v.Type.String()}
		if v.Default != nil {
			vo.Default = v.Default.Render()
		}
		o.Variables = append(o.Variables, vo)
	}
	for _, ext := range p.ExternalReferences {
		ro := ReferenceOutline{ID: ext.ID, Path: ext.Path, Mode: ext.Mode.String()}
		for _, f := range ext.Functions {
			ro.Functions = append(ro.Functions, f.Name)
		}
		for _, m := range ext.Modules {
			ro.Modules = append(ro.Modules, m.Name)
		}
		for _, v := range ext.Variables {
			ro.Variables = append(ro.Variables, v.Name)
		}
		o.External = append(o.External, ro)
	}
	for _, err := range p.Validate() {
		o.Problems = append(o.Problems, err.Error())
	}
	return o
}

func describeInvokable(inv *core.Invokable) InvokableOutline {
	d := inv.Description
	io := InvokableOutline{
		ID:       d.ID,
		Name:     d.Name,
		Kind:     d.Kind.String(),
		Children: d.SupportsChildren,
	}
	for _, param := range d.Parameters {
		io.Parameters = append(io.Parameters, fmt.Sprintf("%s: %s", param.Name, param.Type))
	}
	if d.Kind == core.InvokableFunction {
		io.Returns = d.ReturnType.String()
	}

	g := inv.Graph
	for _, n := range g.Nodes {
		io.Nodes = append(io.Nodes, describeNode(n))
	}
	for _, c := range g.Connections {
		io.Connections = append(io.Connections, describeConnection(g, c))
	}
	slices.Sort(io.Connections)
	return io
}

func describeNode(n *core.Node) NodeOutline {
	no := NodeOutline{ID: n.ID, Kind: string(n.Kind)}
	for _, p := range n.InputPorts {
		no.Inputs = append(no.Inputs, fmt.Sprintf("%s: %s", p.Key, p.Type))
	}
	for _, p := range n.OutputPorts {
		no.Outputs = append(no.Outputs, fmt.Sprintf("%s: %s", p.Key, p.Type))
	}
	if len(n.Literals) > 0 {
		no.Literals = make(map[string]string, len(n.Literals))
		for k, lit := range n.Literals {
			no.Literals[k] = lit.Render()
		}
	}
	return no
}

func describeConnection(g *core.Graph, c core.Connection) string {
	from, to := g.SourcePort(c), g.TargetPort(c)
	return fmt.Sprintf("%d.%s -> %d.%s", c.From, from.Key, c.To, to.Key)
}

// YAML renders the outline of p.
func YAML(p *core.Project) ([]byte, error) {
	return yaml.Marshal(Describe(p))
}
