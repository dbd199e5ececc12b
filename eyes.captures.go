package eyes

import (
	"github.com/itsatony/go-eyes/internal"
)

// Span is a half-open byte range [Start, End) into the matched input.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Captures holds the substrings bound to each placeholder of a successful match.
// Captures reference the caller's input and are never copied; a Captures value
// is immutable and valid as long as the input string is.
type Captures struct {
	input string
	spans []internal.Span
}

// newCaptures wraps matcher spans
func newCaptures(input string, spans []internal.Span) *Captures {
	return &Captures{
		input: input,
		spans: spans,
	}
}

// Len returns the number of captures, equal to the template's placeholder count.
func (c *Captures) Len() int {
	return len(c.spans)
}

// At returns capture i. It panics if i is out of range, like a slice index.
func (c *Captures) At(i int) string {
	s := c.spans[i]
	return c.input[s.Start:s.End]
}

// Get returns capture i and whether it exists.
func (c *Captures) Get(i int) (string, bool) {
	if i < 0 || i >= len(c.spans) {
		return "", false
	}
	return c.At(i), true
}

// Span returns the byte range of capture i in the input.
func (c *Captures) Span(i int) Span {
	s := c.spans[i]
	return Span{Start: s.Start, End: s.End}
}

// Spans returns the byte ranges of all captures in order.
func (c *Captures) Spans() []Span {
	spans := make([]Span, len(c.spans))
	for i, s := range c.spans {
		spans[i] = Span{Start: s.Start, End: s.End}
	}
	return spans
}

// Strings returns all captures in order. The strings share the input's storage.
func (c *Captures) Strings() []string {
	out := make([]string, len(c.spans))
	for i := range c.spans {
		out[i] = c.At(i)
	}
	return out
}

// Input returns the string the captures refer to.
func (c *Captures) Input() string {
	return c.input
}
