package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/itsatony/go-eyes"
)

// scanConfig holds parsed scan command configuration
type scanConfig struct {
	template string
	file     string
	workers  int
	follow   bool
	format   string
}

// lineOutput is one JSON line of scan output
type lineOutput struct {
	Line     int      `json:"line"`
	Text     string   `json:"text"`
	Matched  bool     `json:"matched"`
	Captures []string `json:"captures,omitempty"`
}

// lineWriter prints scan results and counts matches.
type lineWriter struct {
	out     io.Writer
	enc     *json.Encoder
	lines   int
	matched int
}

func newLineWriter(format string, out io.Writer) *lineWriter {
	w := &lineWriter{out: out}
	if format == OutputFormatJSON {
		w.enc = json.NewEncoder(out)
	}
	return w
}

func (w *lineWriter) write(r eyes.LineResult) error {
	w.lines++
	if r.Matched() {
		w.matched++
	}

	if w.enc != nil {
		out := lineOutput{Line: r.Line, Text: r.Text, Matched: r.Matched()}
		if r.Matched() {
			out.Captures = r.Captures.Strings()
		}
		return w.enc.Encode(out)
	}

	var err error
	if r.Matched() {
		_, err = fmt.Fprintf(w.out, LineTextFormat+FmtNewline, r.Line, strings.Join(r.Captures.Strings(), CaptureSeparator))
	} else {
		_, err = fmt.Fprintf(w.out, LineNoMatchFormat+FmtNewline, r.Line)
	}
	return err
}

func runScan(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseScanFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pattern := eyes.Compile(cfg.template)
	w := newLineWriter(cfg.format, stdout)

	switch {
	case cfg.follow:
		ch, err := pattern.Follow(ctx, cfg.file)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeInputError
		}
		for r := range ch {
			if err := w.write(r); err != nil {
				stop()
				fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
				return ExitCodeError
			}
		}
		return ExitCodeSuccess

	case cfg.workers > 0:
		data, err := readInput(cfg.file, stdin)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeInputError
		}
		for _, r := range pattern.MatchAll(ctx, splitLines(string(data)), cfg.workers) {
			if err := w.write(r); err != nil {
				fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
				return ExitCodeError
			}
		}

	default:
		var r io.Reader = stdin
		if cfg.file != InputSourceStdin {
			f, err := os.Open(cfg.file)
			if err != nil {
				fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
				return ExitCodeInputError
			}
			defer f.Close()
			r = f
		}
		if err := pattern.ScanLines(ctx, r, w.write); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgScanFailed, err)
			return ExitCodeError
		}
	}

	if cfg.format == OutputFormatText {
		fmt.Fprintf(stdout, ScanSummaryFormat+FmtNewline, w.matched, w.lines)
	}
	if w.matched == 0 && w.lines > 0 {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseScanFlags(args []string) (*scanConfig, error) {
	fs := flag.NewFlagSet(CmdNameScan, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &scanConfig{}
	fs.StringVar(&cfg.template, FlagTemplate, "", "")
	fs.StringVar(&cfg.template, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.file, FlagFile, "", "")
	fs.StringVar(&cfg.file, FlagFileShort, "", "")
	fs.IntVar(&cfg.workers, FlagWorkers, FlagDefaultWorkers, "")
	fs.BoolVar(&cfg.follow, FlagFollow, false, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.template == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.file == "" {
		return nil, errors.New(ErrMsgMissingFile)
	}
	if cfg.follow && cfg.file == InputSourceStdin {
		return nil, errors.New(ErrMsgFollowStdin)
	}
	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

// splitLines splits text on "\n", drops a trailing "\r" from each line and
// ignores the empty remainder after a final terminator.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
