package nodes_test

import (
	"testing"

	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(infos []*core.KindInfo) []core.NodeKind {
	res := make([]core.NodeKind, len(infos))
	for i, info := range infos {
		res[i] = info.Kind
	}
	return res
}

func TestSearch_EmptyQueryListsPalette(t *testing.T) {
	all := nodes.Search("  ")
	for _, info := range all {
		assert.False(t, info.Hidden, info.Kind)
	}
	assert.Len(t, all, len(nodes.Registry().All())-4)
	assert.NotContains(t, kinds(all), nodes.KindStart)
}

func TestSearch_RanksCloseMatchesFirst(t *testing.T) {
	res := kinds(nodes.Search("vec"))
	require.NotEmpty(t, res)
	assert.Equal(t, nodes.KindVector, res[0])
	assert.Contains(t, res, nodes.KindVector2)
	assert.Contains(t, res, nodes.KindVector3)
	assert.Contains(t, res, nodes.KindIndexVector)
}

func TestSearch_IgnoresCase(t *testing.T) {
	assert.Contains(t, kinds(nodes.Search("LIST COMP")), nodes.KindListComprehension)
}

func TestSearch_NoMatch(t *testing.T) {
	assert.Empty(t, nodes.Search("qqqq"))
}
