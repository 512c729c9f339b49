package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/bvisness/scadflow/trace"
	"github.com/bvisness/scadflow/util"
)

// Serializer reads or writes the versioned binary project format. The same
// Serialize method on a type drives both directions; errors accumulate and
// every S* helper becomes a no-op after the first one.
type Serializer struct {
	Buf     *bytes.Buffer
	Encode  bool
	Version int
	Errs    []error
}

type Serializable interface {
	Serialize(s *Serializer) bool
}

func NewEncoder(version int) *Serializer {
	s := Serializer{
		Buf:     &bytes.Buffer{},
		Encode:  true,
		Version: version,
	}
	SInt(&s, &s.Version)
	return &s
}

func NewDecoder(buf []byte) *Serializer {
	s := Serializer{
		Buf:    bytes.NewBuffer(buf),
		Encode: false,
	}
	SInt(&s, &s.Version)
	return &s
}

func (s *Serializer) Bytes() []byte {
	util.Assert(s.Encode, "cannot call Serializer.Bytes() unless in Encode mode")
	return s.Buf.Bytes()
}

func (s *Serializer) Ok() bool {
	return len(s.Errs) == 0
}

func (s *Serializer) Error(err error) bool {
	s.Errs = append(s.Errs, SerializeError{
		Err:   err,
		Stack: trace.Trace()[1:],
	})
	return false
}

func SBool(s *Serializer, b *bool) bool {
	if !s.Ok() {
		return false
	}

	if s.Encode {
		err := s.Buf.WriteByte(util.Tern[byte](*b, 0x01, 0x00))
		util.Assert(err == nil, "bytes.Buffer.WriteByte cannot fail")
	} else {
		x, err := s.Buf.ReadByte()
		if err != nil {
			return s.Error(err)
		}
		*b = x > 0
	}
	return true
}

func SInt[T ~int | ~int32 | ~int64](s *Serializer, n *T) bool {
	if !s.Ok() {
		return false
	}

	if s.Encode {
		var b [binary.MaxVarintLen64]byte
		nBytes := binary.PutVarint(b[:], int64(*n))
		if _, err := s.Buf.Write(b[:nBytes]); err != nil {
			return s.Error(err)
		}
	} else {
		x, err := binary.ReadVarint(s.Buf)
		if err != nil {
			return s.Error(err)
		}
		*n = T(x)
	}
	return true
}

func SFloat[T ~float32 | ~float64](s *Serializer, n *T) bool {
	if !s.Ok() {
		return false
	}

	if s.Encode {
		if err := binary.Write(s.Buf, binary.LittleEndian, *n); err != nil {
			return s.Error(err)
		}
	} else {
		if err := binary.Read(s.Buf, binary.LittleEndian, n); err != nil {
			return s.Error(err)
		}
	}
	return true
}

func SFloats(s *Serializer, v *[]float64) bool {
	if !s.Ok() {
		return false
	}

	n := len(*v)
	if ok := SCount(s, &n); !ok {
		return false
	}
	if !s.Encode {
		*v = nil
		if n > 0 {
			*v = make([]float64, n)
		}
	}
	for i := range n {
		SFloat(s, &(*v)[i])
	}
	return s.Ok()
}

// SCount handles the element count that prefixes a collection. A decoded
// count is rejected when the remaining input could not hold that many
// elements.
func SCount(s *Serializer, n *int) bool {
	if ok := SInt(s, n); !ok {
		return false
	}
	if !s.Encode && (*n < 0 || *n > s.Buf.Len()) {
		return s.Error(fmt.Errorf("bad element count %d: %w", *n, io.ErrUnexpectedEOF))
	}
	return true
}

func SStr[T ~string](s *Serializer, str *T) bool {
	if !s.Ok() {
		return false
	}

	strlen := len(*str)
	if ok := SInt(s, &strlen); !ok {
		return false
	}

	if s.Encode {
		if _, err := s.Buf.WriteString(string(*str)); err != nil {
			return s.Error(err)
		}
	} else {
		if strlen < 0 || strlen > s.Buf.Len() {
			return s.Error(io.ErrUnexpectedEOF)
		}
		*str = T(s.Buf.Next(strlen))
	}
	return true
}

func SThing[T any, PT PSerializable[T]](s *Serializer, v PT) bool {
	if !s.Ok() {
		return false
	}
	return v.Serialize(s)
}

// SMaybeThing handles an optional value, written as a presence flag followed
// by the value.
func SMaybeThing[T any, PT PSerializable[T]](s *Serializer, v **T) bool {
	if !s.Ok() {
		return false
	}

	exists := *v != nil
	if ok := SBool(s, &exists); !ok {
		return false
	}
	if exists {
		if !s.Encode {
			*v = new(T)
		}
		return SThing(s, PT(*v))
	}
	if !s.Encode {
		*v = nil
	}
	return true
}

func SSlice[T any, PT PSerializable[T]](s *Serializer, slice *[]T) bool {
	if !s.Ok() {
		return false
	}

	n := len(*slice)
	if ok := SCount(s, &n); !ok {
		return false
	}

	if !s.Encode {
		if n == 0 {
			*slice = nil
		} else {
			*slice = make([]T, n)
		}
	}
	for i := range n {
		if ok := SThing(s, PT(&(*slice)[i])); !ok {
			return false
		}
	}
	return true
}

// SPtrSlice is SSlice for slices of pointers, which is how the project keeps
// entities that other structures refer to by address.
func SPtrSlice[T any, PT PSerializable[T]](s *Serializer, slice *[]*T) bool {
	if !s.Ok() {
		return false
	}

	n := len(*slice)
	if ok := SCount(s, &n); !ok {
		return false
	}

	if !s.Encode {
		*slice = nil
		if n > 0 {
			*slice = make([]*T, n)
		}
	}
	for i := range n {
		if !s.Encode {
			(*slice)[i] = new(T)
		}
		if ok := SThing(s, PT((*slice)[i])); !ok {
			return false
		}
	}
	return true
}

// SMapStrStr writes keys in sorted order so equal maps encode to equal bytes.
func SMapStrStr(s *Serializer, m *map[string]string) bool {
	if !s.Ok() {
		return false
	}

	count := len(*m)
	if ok := SCount(s, &count); !ok {
		return false
	}

	if s.Encode {
		keys := make([]string, 0, len(*m))
		for k := range *m {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			v := (*m)[k]
			SStr(s, &k)
			SStr(s, &v)
		}
	} else {
		*m = make(map[string]string, count)
		for range count {
			var k, v string
			SStr(s, &k)
			SStr(s, &v)
			(*m)[k] = v
		}
	}
	return s.Ok()
}

// ------------------------------------
// Errors

type SerializeError struct {
	Err   error
	Stack trace.CallStack
}

func (e SerializeError) Error() string {
	return e.Err.Error()
}

func (e SerializeError) Unwrap() error {
	return e.Err
}

// --------------------------------------
// Type utilities

type PSerializable[T any] interface {
	*T
	Serializable
}
