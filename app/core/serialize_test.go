package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializer_Basics(t *testing.T) {
	s := NewEncoder(1)
	valInt := 42
	valBool := true
	str := "hello"

	SInt(s, &valInt)
	SBool(s, &valBool)
	SStr(s, &str)
	require.True(t, s.Ok())

	d := NewDecoder(s.Bytes())
	assert.Equal(t, 1, d.Version)

	var outInt int
	var outBool bool
	var outStr string
	SInt(d, &outInt)
	SBool(d, &outBool)
	SStr(d, &outStr)

	require.True(t, d.Ok())
	assert.Equal(t, valInt, outInt)
	assert.Equal(t, valBool, outBool)
	assert.Equal(t, str, outStr)
}

func TestSerializer_EdgeCases(t *testing.T) {
	t.Run("empty buffer", func(t *testing.T) {
		d := NewDecoder([]byte{})
		var i int
		SInt(d, &i)
		assert.False(t, d.Ok())
	})

	t.Run("truncated string", func(t *testing.T) {
		s := NewEncoder(1)
		str := "a fairly long string"
		SStr(s, &str)
		data := s.Bytes()

		d := NewDecoder(data[:len(data)-3])
		var out string
		assert.False(t, SStr(d, &out))
		require.Len(t, d.Errs, 1)
		assert.NotEmpty(t, d.Errs[0].(SerializeError).Stack)
	})

	t.Run("helpers stop after the first error", func(t *testing.T) {
		d := NewDecoder([]byte{0x02})
		var a, b int
		SInt(d, &a)
		SInt(d, &b)
		assert.Len(t, d.Errs, 1)
	})
}

type dummyStruct struct {
	Val int
}

func (d *dummyStruct) Serialize(s *Serializer) bool {
	return SInt(s, &d.Val)
}

func TestSerializer_ComplexTypes(t *testing.T) {
	s := NewEncoder(1)

	f := 3.14
	SFloat(s, &f)

	sl := []dummyStruct{{Val: 1}, {Val: 2}, {Val: 3}}
	SSlice(s, &sl)

	var nilSl []dummyStruct
	SSlice(s, &nilSl)

	ptrs := []*dummyStruct{{Val: 7}, {Val: 8}}
	SPtrSlice(s, &ptrs)

	present := &dummyStruct{Val: 123}
	SMaybeThing(s, &present)
	var absent *dummyStruct
	SMaybeThing(s, &absent)

	m := map[string]string{"b": "2", "a": "1"}
	SMapStrStr(s, &m)

	floats := []float64{1, 2.5}
	SFloats(s, &floats)

	require.True(t, s.Ok(), "encode failed: %v", s.Errs)

	d := NewDecoder(s.Bytes())

	var outF float64
	SFloat(d, &outF)
	assert.Equal(t, f, outF)

	var outSl []dummyStruct
	SSlice(d, &outSl)
	assert.Equal(t, sl, outSl)

	var outNilSl []dummyStruct
	SSlice(d, &outNilSl)
	assert.Nil(t, outNilSl)

	var outPtrs []*dummyStruct
	SPtrSlice(d, &outPtrs)
	assert.Equal(t, ptrs, outPtrs)

	var outPresent, outAbsent *dummyStruct
	SMaybeThing(d, &outPresent)
	SMaybeThing(d, &outAbsent)
	require.NotNil(t, outPresent)
	assert.Equal(t, 123, outPresent.Val)
	assert.Nil(t, outAbsent)

	var outM map[string]string
	SMapStrStr(d, &outM)
	assert.Equal(t, m, outM)

	var outFloats []float64
	SFloats(d, &outFloats)
	assert.Equal(t, floats, outFloats)

	assert.True(t, d.Ok())
	assert.Zero(t, d.Buf.Len())
}

func TestSMapStrStr_Deterministic(t *testing.T) {
	encode := func(m map[string]string) []byte {
		s := NewEncoder(1)
		SMapStrStr(s, &m)
		return s.Bytes()
	}
	a := map[string]string{}
	b := map[string]string{}
	for _, k := range []string{"x", "y", "z", "w"} {
		a[k] = k + "!"
	}
	for _, k := range []string{"w", "z", "y", "x"} {
		b[k] = k + "!"
	}
	assert.Equal(t, encode(a), encode(b))
}

func TestSerializer_CorruptCounts(t *testing.T) {
	corrupt := func(count int) []byte {
		s := NewEncoder(1)
		SInt(s, &count)
		return s.Bytes()
	}

	for _, count := range []int{-1, 1 << 40} {
		d := NewDecoder(corrupt(count))
		var m map[string]string
		assert.False(t, SMapStrStr(d, &m), "count %d", count)
		require.Len(t, d.Errs, 1)
		assert.Contains(t, d.Errs[0].Error(), "bad element count")

		d = NewDecoder(corrupt(count))
		var floats []float64
		assert.False(t, SFloats(d, &floats), "count %d", count)
		assert.Nil(t, floats)

		d = NewDecoder(corrupt(count))
		var lits []Literal
		assert.False(t, SSlice(d, &lits), "count %d", count)
	}
}

func TestSavedNode_CorruptLiteralCount(t *testing.T) {
	s := NewEncoder(1)
	id := NodeID(3)
	kind := "sum"
	noState := 0
	badCount := -7
	SInt(s, &id)
	SStr(s, &kind)
	SInt(s, &noState)
	SInt(s, &badCount)

	var sn SavedNode
	d := NewDecoder(s.Bytes())
	assert.NotPanics(t, func() {
		assert.False(t, sn.Serialize(d))
	})
	assert.False(t, d.Ok())
}
