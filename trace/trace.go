// Package trace captures call stacks for diagnostics attached to errors and
// assertion failures.
package trace

import (
	"fmt"
	"strings"

	"github.com/go-stack/stack"
)

// CallStack is a captured stack, innermost frame first.
type CallStack []Frame

type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// Trace returns the stack of the caller, with runtime frames removed. The
// first frame is the function that called Trace.
func Trace() CallStack {
	raw := stack.Trace().TrimBelow(stack.Caller(1)).TrimRuntime()
	res := make(CallStack, 0, len(raw))
	for _, c := range raw {
		res = append(res, Frame{
			Function: fmt.Sprintf("%n", c),
			File:     fmt.Sprintf("%+s", c),
			Line:     c.Frame().Line,
		})
	}
	return res
}

func (s CallStack) String() string {
	var b strings.Builder
	for i, f := range s {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  at ")
		b.WriteString(f.String())
	}
	return b.String()
}
