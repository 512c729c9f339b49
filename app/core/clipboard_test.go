package core_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipboard_CopyKeepsInnerConnections(t *testing.T) {
	b := core.NewGraphBuilder(nil)
	a := b.Add("a", nodes.NewConstantNode(core.NumberLiteral(3)))
	sum := b.Add("sum", nodes.NewSumNode())
	outside := b.Add("outside", nodes.NewProductNode())
	a.Connect("value", sum, "value1").Connect("result", outside, "value1")

	clip := core.CopyNodes(b.Graph, []core.NodeID{a.ID(), sum.ID()})
	require.Len(t, clip.Nodes, 2)
	require.Len(t, clip.Connections, 1)
	assert.Equal(t, a.ID(), clip.Connections[0].From)

	text, err := clip.Encode()
	require.NoError(t, err)
	decoded, err := core.DecodeClipboard(text)
	require.NoError(t, err)
	assert.Equal(t, clip.Connections, decoded.Connections)
	require.Len(t, decoded.Nodes, 2)
	assert.Equal(t, clip.Nodes[0].Literals, decoded.Nodes[0].Literals)
}

func TestDecodeClipboard_RejectsText(t *testing.T) {
	_, err := core.DecodeClipboard("just some text")
	assert.Error(t, err)
}
