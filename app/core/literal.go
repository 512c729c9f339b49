package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Literal is an inline default value for a port that has no connection.
type Literal struct {
	Kind   LiteralKind
	Number float64
	Text   string
	Bool   bool
	Vector []float64
}

func NumberLiteral(v float64) Literal { return Literal{Kind: LiteralNumber, Number: v} }
func StringLiteral(s string) Literal  { return Literal{Kind: LiteralString, Text: s} }
func BooleanLiteral(b bool) Literal   { return Literal{Kind: LiteralBoolean, Bool: b} }
func Vector2Literal(x, y float64) Literal {
	return Literal{Kind: LiteralVector2, Vector: []float64{x, y}}
}
func Vector3Literal(x, y, z float64) Literal {
	return Literal{Kind: LiteralVector3, Vector: []float64{x, y, z}}
}

// DefaultLiteral returns the zero value a fresh port of type t starts with,
// or false when the type has no inline editor.
func DefaultLiteral(t PortType) (Literal, bool) {
	switch MatchingLiteralKind(t) {
	case LiteralNumber:
		return NumberLiteral(0), true
	case LiteralString:
		return StringLiteral(""), true
	case LiteralBoolean:
		return BooleanLiteral(false), true
	case LiteralVector2:
		return Vector2Literal(0, 0), true
	case LiteralVector3:
		return Vector3Literal(0, 0, 0), true
	}
	return Literal{}, false
}

func (l Literal) Clone() Literal {
	if l.Vector != nil {
		l.Vector = append([]float64(nil), l.Vector...)
	}
	return l
}

// Render writes the literal in output-language syntax.
func (l Literal) Render() string {
	switch l.Kind {
	case LiteralNumber:
		return formatNumber(l.Number)
	case LiteralString:
		return quoteString(l.Text)
	case LiteralBoolean:
		return strconv.FormatBool(l.Bool)
	case LiteralVector2, LiteralVector3:
		parts := make([]string, len(l.Vector))
		for i, v := range l.Vector {
			parts[i] = formatNumber(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return Undefined
}

func (l *Literal) Serialize(s *Serializer) bool {
	SInt(s, &l.Kind)
	SFloat(s, &l.Number)
	SStr(s, &l.Text)
	SBool(s, &l.Bool)
	SFloats(s, &l.Vector)
	return s.Ok()
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// literalEnv holds the constants a user may type into numeric literal editors.
var literalEnv = map[string]any{
	"PI":  math.Pi,
	"TAU": 2 * math.Pi,
	"E":   math.E,
}

// ParseLiteral turns editor text into a literal of the given kind. Numeric
// and vector literals are constant expressions, so "2*PI" and "[1, 2+3]" are
// accepted.
func ParseLiteral(kind LiteralKind, text string) (Literal, error) {
	switch kind {
	case LiteralString:
		return StringLiteral(text), nil
	case LiteralBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Literal{}, fmt.Errorf("%q is not a boolean", text)
		}
		return BooleanLiteral(b), nil
	case LiteralNumber:
		v, err := evalConstant(text)
		if err != nil {
			return Literal{}, err
		}
		n, ok := toFloat(v)
		if !ok {
			return Literal{}, fmt.Errorf("%q is not a number", text)
		}
		if !finite(n) {
			return Literal{}, fmt.Errorf("%q is not a finite number", text)
		}
		return NumberLiteral(n), nil
	case LiteralVector2, LiteralVector3:
		want := 2
		if kind == LiteralVector3 {
			want = 3
		}
		v, err := evalConstant(text)
		if err != nil {
			return Literal{}, err
		}
		items, ok := v.([]any)
		if !ok || len(items) != want {
			return Literal{}, fmt.Errorf("%q is not a vector of %d numbers", text, want)
		}
		res := Literal{Kind: kind, Vector: make([]float64, want)}
		for i, item := range items {
			n, ok := toFloat(item)
			if !ok {
				return Literal{}, fmt.Errorf("element %d of %q is not a number", i, text)
			}
			if !finite(n) {
				return Literal{}, fmt.Errorf("element %d of %q is not a finite number", i, text)
			}
			res.Vector[i] = n
		}
		return res, nil
	}
	return Literal{}, fmt.Errorf("literal kind %s has no editor", kind)
}

func evalConstant(text string) (any, error) {
	program, err := expr.Compile(text, expr.Env(literalEnv))
	if err != nil {
		return nil, fmt.Errorf("bad literal %q: %w", text, err)
	}
	v, err := expr.Run(program, literalEnv)
	if err != nil {
		return nil, fmt.Errorf("bad literal %q: %w", text, err)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
