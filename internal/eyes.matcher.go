package internal

import (
	"go.uber.org/zap"
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

// Matcher locates template literals in an input and reports the placeholder spans.
// A Matcher holds no per-call state and is safe for concurrent use.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a new matcher
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgMatcherCreated)
	return &Matcher{logger: logger}
}

// Match decomposes input according to tmpl. On success it returns exactly
// tmpl.Placeholders spans in template order.
//
// Each literal is bound to its first occurrence after the cursor, then pushed
// right to the last occurrence that still ends before the next literal's first
// occurrence (or the end of input for the last literal). The choice is greedy
// and never revisited, so a decomposition that needs an earlier split point is
// not found. Worst case cost is quadratic in len(input).
//
// Adjacent placeholders bind the gap to the first of the run; the rest get
// empty spans at the same offset.
func (m *Matcher) Match(input string, tmpl *Template) ([]Span, bool) {
	m.logger.Debug(LogMsgMatchStart,
		zap.Int(LogFieldInput, len(input)),
		zap.Int(LogFieldSegments, len(tmpl.Segments)))

	spans := make([]Span, 0, tmpl.Placeholders)
	pos := 0

	for i, seg := range tmpl.Segments {
		start, end, ok := seg.find(input, pos)
		if !ok {
			m.logger.Debug(LogMsgLiteralMissing,
				zap.Int(LogFieldIndex, i),
				zap.String(LogFieldSegment, seg.Text))
			return nil, false
		}

		if seg.Holes == 0 {
			// Nothing before this literal can absorb text.
			if start != pos {
				m.logger.Debug(LogMsgLiteralUnaligned, zap.Int(LogFieldOffset, start))
				return nil, false
			}
		} else {
			bound := len(input)
			if i+1 < len(tmpl.Segments) {
				nextStart, _, found := tmpl.Segments[i+1].find(input, end)
				if !found {
					m.logger.Debug(LogMsgLiteralMissing,
						zap.Int(LogFieldIndex, i+1),
						zap.String(LogFieldSegment, tmpl.Segments[i+1].Text))
					return nil, false
				}
				bound = nextStart
			}

			for {
				ns, ne, more := seg.next(input, start, end)
				if !more || ne > bound {
					break
				}
				start, end = ns, ne
				m.logger.Debug(LogMsgLiteralExpanded,
					zap.Int(LogFieldIndex, i),
					zap.Int(LogFieldOffset, start))
			}

			spans = appendHoles(spans, pos, start, seg.Holes)
		}

		pos = end
	}

	if tmpl.Trailing > 0 {
		spans = appendHoles(spans, pos, len(input), tmpl.Trailing)
	} else if pos != len(input) {
		m.logger.Debug(LogMsgTrailingInput, zap.Int(LogFieldOffset, pos))
		return nil, false
	}

	m.logger.Debug(LogMsgMatchEnd, zap.Int(LogFieldCaptures, len(spans)))
	return spans, true
}

// appendHoles binds [start, end) to the first of n adjacent placeholders
func appendHoles(spans []Span, start, end, n int) []Span {
	spans = append(spans, Span{Start: start, End: end})
	for j := 1; j < n; j++ {
		spans = append(spans, Span{Start: end, End: end})
	}
	return spans
}
