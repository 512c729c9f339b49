package refactor_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"github.com/stretchr/testify/assert"
)

func titles(entries []refactor.Entry) []string {
	res := make([]string, len(entries))
	for i, e := range entries {
		res[i] = e.Title
	}
	return res
}

func TestApplicable(t *testing.T) {
	f := newFixture(t)
	sum := f.B.Add("sum", nodes.NewSumNode())
	echo := f.B.Add("echo", nodes.NewEchoNode()).Grow(1)
	num := f.B.Add("num", nodes.NewConstantNode(core.NumberLiteral(1)))
	r := f.B.Add("r", nodes.NewRerouteNode())
	ext := f.external(t, core.IncludeUse)
	f.apply(t, &refactor.AddImport{Graph: f.Main, Reference: ext})
	imp := f.graph().NodesOfKind(nodes.KindImport)[0]

	tests := []struct {
		name string
		node core.NodeID
		want []string
	}{
		{"start", f.Start.ID(), nil},
		{"sum at minimum", sum.ID(), []string{"Add input", "Delete"}},
		{"echo", echo.ID(), []string{"Add value", "Remove value", "Dissolve", "Delete"}},
		{"constant", num.ID(), []string{"Delete"}},
		{"untyped reroute", r.ID(), []string{"Delete"}},
		{"import", imp.ID, []string{"Switch to include", "Dissolve", "Delete"}},
		{"missing", 999, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := refactor.Applicable(f.P, f.Main, tc.node)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, titles(got))
		})
	}
}

func TestApplicable_EntriesApply(t *testing.T) {
	f := newFixture(t)
	num := f.B.Add("num", nodes.NewConstantNode(core.NumberLiteral(1)))
	r := f.B.Add("r", nodes.NewRerouteNode())
	c := conn(num, "value", r, "in")
	f.apply(t, &refactor.Connect{Graph: f.Main, Connection: c})

	// Lift the connection off without the rules so the type sticks.
	f.graph().RemoveConnection(c)
	entries := refactor.Applicable(f.P, f.Main, r.ID())
	assert.Equal(t, []string{"Reset type", "Delete"}, titles(entries))

	f.apply(t, entries[0].Refactoring)
	assert.Equal(t, core.PortReroute, core.MustAs[core.TypeAdopter](r.Node).AdoptedType())
}
