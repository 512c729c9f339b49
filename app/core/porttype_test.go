package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanBeAssignedTo(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		for _, pt := range AllPortTypes() {
			assert.True(t, CanBeAssignedTo(pt, pt), "%s -> %s", pt, pt)
		}
	})

	t.Run("flow is isolated", func(t *testing.T) {
		for _, pt := range AllPortTypes() {
			if pt == PortFlow {
				continue
			}
			assert.False(t, CanBeAssignedTo(PortFlow, pt), "Flow -> %s", pt)
			assert.False(t, CanBeAssignedTo(pt, PortFlow), "%s -> Flow", pt)
		}
	})

	t.Run("any absorbs values", func(t *testing.T) {
		for _, pt := range AllPortTypes() {
			if !pt.IsExpression() {
				continue
			}
			assert.True(t, CanBeAssignedTo(pt, PortAny), "%s -> Any", pt)
			assert.True(t, CanBeAssignedTo(PortAny, pt), "Any -> %s", pt)
		}
	})

	tests := []struct {
		source, target PortType
		want           bool
	}{
		{PortVector2, PortVector, true},
		{PortVector3, PortVector, true},
		{PortVector, PortVector3, false},
		{PortVector2, PortVector3, false},
		{PortNumber, PortString, false},
		{PortString, PortNumber, false},
		{PortBoolean, PortNumber, false},
		{PortReroute, PortNumber, false},
		{PortAny, PortReroute, false},
		{PortReroute, PortAny, false},
		{PortReroute, PortReroute, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanBeAssignedTo(tt.source, tt.target), "%s -> %s", tt.source, tt.target)
	}
}

func TestMatchingLiteralKind(t *testing.T) {
	assert.Equal(t, LiteralNumber, MatchingLiteralKind(PortNumber))
	assert.Equal(t, LiteralString, MatchingLiteralKind(PortString))
	assert.Equal(t, LiteralBoolean, MatchingLiteralKind(PortBoolean))
	assert.Equal(t, LiteralVector2, MatchingLiteralKind(PortVector2))
	assert.Equal(t, LiteralVector3, MatchingLiteralKind(PortVector3))
	for _, pt := range []PortType{PortAny, PortVector, PortFlow, PortReroute} {
		assert.Equal(t, LiteralNone, MatchingLiteralKind(pt), pt.String())
	}
}

func TestCommonType(t *testing.T) {
	tests := []struct {
		a, b PortType
		want PortType
		ok   bool
	}{
		{PortNumber, PortNumber, PortNumber, true},
		{PortAny, PortVector3, PortVector3, true},
		{PortVector2, PortAny, PortVector2, true},
		{PortVector2, PortVector3, PortVector, true},
		{PortVector, PortVector3, PortVector, true},
		{PortNumber, PortVector, PortAny, false},
	}
	for _, tt := range tests {
		got, ok := CommonType(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "%s, %s", tt.a, tt.b)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%s, %s", tt.a, tt.b)
		}
	}
}
