package eyes

import (
	"context"
	"time"

	"github.com/itsatony/go-eyes/internal"
	"go.uber.org/zap"
)

// Pattern is a compiled template bound to the engine that compiled it.
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	source string
	tmpl   *internal.Template
	engine *Engine
}

// newPattern creates a pattern (internal use).
func newPattern(source string, tmpl *internal.Template, engine *Engine) *Pattern {
	return &Pattern{
		source: source,
		tmpl:   tmpl,
		engine: engine,
	}
}

// Source returns the template source string.
func (p *Pattern) Source() string {
	return p.source
}

// String implements fmt.Stringer
func (p *Pattern) String() string {
	return p.source
}

// Placeholders returns the number of placeholders in the template.
func (p *Pattern) Placeholders() int {
	return p.tmpl.Placeholders
}

// Literals returns the non-empty literal segments in template order.
func (p *Pattern) Literals() []string {
	return p.tmpl.Literals()
}

// Match decomposes input and returns one capture per placeholder.
// It returns a NoMatch error if the input cannot be decomposed.
func (p *Pattern) Match(input string) (*Captures, error) {
	return p.match(context.Background(), input)
}

// MustMatch is like Match but panics if the input does not match.
func (p *Pattern) MustMatch(input string) *Captures {
	caps, err := p.Match(input)
	if err != nil {
		panic(err)
	}
	return caps
}

// Matches reports whether input matches the template.
func (p *Pattern) Matches(input string) bool {
	_, err := p.Match(input)
	return err == nil
}

// match runs the matcher and records metrics against ctx.
func (p *Pattern) match(ctx context.Context, input string) (*Captures, error) {
	start := time.Now()
	spans, ok := p.engine.matcher.Match(input, p.tmpl)
	p.engine.metrics.RecordMatch(ctx, p.source, ok, time.Since(start))

	if !ok {
		p.engine.logger.Debug(LogMsgNoMatch, zap.String(LogFieldTemplate, p.source))
		return nil, NewNoMatchError(p.source)
	}
	return newCaptures(input, spans), nil
}
