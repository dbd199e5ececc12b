package internal

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Segment is one literal piece of a template.
type Segment struct {
	Text   string      // Literal text as written in the template
	Kind   SegmentKind // Literal or whitespace run
	Holes  int         // Placeholders immediately before this literal
	Offset int         // Byte offset of the literal inside the template source
}

// Template is a template source split into literal segments.
type Template struct {
	Source       string
	Placeholder  string
	Segments     []Segment
	Trailing     int // Placeholders after the last literal
	Placeholders int
}

// Literals returns the literal texts in template order
func (t *Template) Literals() []string {
	literals := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		literals[i] = seg.Text
	}
	return literals
}

// Splitter turns template sources into Templates
type Splitter struct {
	placeholder string
	logger      *zap.Logger
}

// NewSplitter creates a splitter for the default "{}" placeholder
func NewSplitter(logger *zap.Logger) *Splitter {
	return NewSplitterWithPlaceholder(StrPlaceholder, logger)
}

// NewSplitterWithPlaceholder creates a splitter for a custom placeholder marker.
// An empty marker falls back to "{}".
func NewSplitterWithPlaceholder(placeholder string, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if placeholder == "" {
		placeholder = StrPlaceholder
	}
	logger.Debug(LogMsgSplitterCreated)
	return &Splitter{
		placeholder: placeholder,
		logger:      logger,
	}
}

// Split splits source on the placeholder marker and drops empty literals.
// Adjacent placeholders accumulate into the Holes count of the next literal.
func (s *Splitter) Split(source string) *Template {
	tmpl := &Template{
		Source:      source,
		Placeholder: s.placeholder,
	}

	holes := 0
	offset := 0
	for {
		idx := strings.Index(source[offset:], s.placeholder)
		end := len(source)
		if idx >= 0 {
			end = offset + idx
		}

		if end > offset {
			text := source[offset:end]
			tmpl.Segments = append(tmpl.Segments, Segment{
				Text:   text,
				Kind:   kindOf(text),
				Holes:  holes,
				Offset: offset,
			})
			holes = 0
		}

		if idx < 0 {
			break
		}
		holes++
		tmpl.Placeholders++
		offset = end + len(s.placeholder)
	}
	tmpl.Trailing = holes

	s.logger.Debug(LogMsgTemplateSplit,
		zap.Int(LogFieldSource, len(source)),
		zap.Int(LogFieldSegments, len(tmpl.Segments)),
		zap.Int(LogFieldPlaceholders, tmpl.Placeholders))
	return tmpl
}

// kindOf classifies a non-empty literal
func kindOf(text string) SegmentKind {
	for _, r := range text {
		if !unicode.IsSpace(r) {
			return SegmentKindLiteral
		}
	}
	return SegmentKindWhitespace
}

// find returns the first occurrence of the segment in input at or after from.
// A whitespace segment matches the whole whitespace run it lands on.
func (seg Segment) find(input string, from int) (start, end int, ok bool) {
	if from > len(input) {
		return 0, 0, false
	}
	if seg.Kind == SegmentKindWhitespace {
		idx := strings.IndexFunc(input[from:], unicode.IsSpace)
		if idx < 0 {
			return 0, 0, false
		}
		start = from + idx
		return start, skipSpace(input, start), true
	}

	idx := strings.Index(input[from:], seg.Text)
	if idx < 0 {
		return 0, 0, false
	}
	start = from + idx
	return start, start + len(seg.Text), true
}

// next returns the occurrence following the one at [start, end).
// Literal occurrences may overlap; whitespace runs never do.
func (seg Segment) next(input string, start, end int) (int, int, bool) {
	if seg.Kind == SegmentKindWhitespace {
		return seg.find(input, end)
	}
	return seg.find(input, start+1)
}

// skipSpace returns the offset of the first non-whitespace rune at or after i
func skipSpace(input string, i int) int {
	idx := strings.IndexFunc(input[i:], func(r rune) bool { return !unicode.IsSpace(r) })
	if idx < 0 {
		return len(input)
	}
	return i + idx
}
