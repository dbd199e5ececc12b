package eyes

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// LineResult is the outcome of matching one line.
type LineResult struct {
	Line     int       // 1-based line number
	Text     string    // Line without its terminator
	Captures *Captures // Nil when Err is set
	Err      error     // NoMatch error, context error, or nil
}

// Matched reports whether the line matched the pattern.
func (r LineResult) Matched() bool {
	return r.Err == nil && r.Captures != nil
}

// ScanLines matches every line of r against the pattern and calls fn with each
// result, in order. Lines that do not match are passed to fn with a NoMatch
// error; returning a non-nil error from fn stops the scan and returns it.
// Both "\n" and "\r\n" terminators are accepted.
func (p *Pattern) ScanLines(ctx context.Context, r io.Reader, fn func(LineResult) error) error {
	logger := p.engine.logger
	logger.Debug(LogMsgScanLinesStart, zap.String(LogFieldTemplate, p.source))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), DefaultMaxLineSize)

	lineNo, matched := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		result := p.matchLine(ctx, lineNo, strings.TrimSuffix(scanner.Text(), "\r"))
		if result.Matched() {
			matched++
		}
		if err := fn(result); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return NewReadLinesError(lineNo+1, err)
	}

	logger.Debug(LogMsgScanLinesEnd,
		zap.Int(LogFieldLines, lineNo),
		zap.Int(LogFieldMatched, matched))
	return nil
}

// MatchAll matches lines concurrently on up to workers goroutines and returns
// one result per line in input order. workers <= 0 uses DefaultWorkers.
// Lines not started before ctx is cancelled carry the context error.
func (p *Pattern) MatchAll(ctx context.Context, lines []string, workers int) []LineResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p.engine.logger.Debug(LogMsgScanLinesStart,
		zap.String(LogFieldTemplate, p.source),
		zap.Int(LogFieldLines, len(lines)),
		zap.Int(LogFieldWorkers, workers))

	results := make([]LineResult, len(lines))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			results[i] = LineResult{Line: i + 1, Text: line, Err: err}
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = LineResult{Line: i + 1, Text: line, Err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, line string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.matchLine(ctx, i+1, line)
		}(i, line)
	}

	wg.Wait()
	return results
}

// matchLine matches one line and records line metrics.
func (p *Pattern) matchLine(ctx context.Context, lineNo int, text string) LineResult {
	caps, err := p.match(ctx, text)
	p.engine.metrics.RecordLine(ctx, p.source, err == nil)
	return LineResult{
		Line:     lineNo,
		Text:     text,
		Captures: caps,
		Err:      err,
	}
}
