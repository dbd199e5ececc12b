package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-eyes"
)

// matchConfig holds parsed match command configuration
type matchConfig struct {
	template string
	input    string
	file     string
	format   string
}

// matchOutput represents JSON output for match
type matchOutput struct {
	Matched  bool         `json:"matched"`
	Template string       `json:"template"`
	Captures []string     `json:"captures,omitempty"`
	Spans    []spanOutput `json:"spans,omitempty"`
}

type spanOutput struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func runMatch(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseMatchFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	input, err := resolveInput(cfg.input, cfg.file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	caps, err := eyes.Match(input, cfg.template)
	if err != nil && !eyes.IsNoMatch(err) {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		return outputMatchJSON(cfg.template, caps, stdout)
	}
	if caps == nil {
		fmt.Fprintln(stderr, ErrMsgNoMatch)
		return ExitCodeValidationError
	}
	for i, s := range caps.Strings() {
		fmt.Fprintf(stdout, CaptureTextFormat+FmtNewline, i, s)
	}
	return ExitCodeSuccess
}

func parseMatchFlags(args []string) (*matchConfig, error) {
	fs := flag.NewFlagSet(CmdNameMatch, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &matchConfig{}
	bindInputFlags(fs, &cfg.template, &cfg.input, &cfg.file, &cfg.format)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := checkInputFlags(cfg.template, cfg.input, cfg.file, cfg.format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindInputFlags registers the template, input, file and format flags shared
// by match and parse.
func bindInputFlags(fs *flag.FlagSet, template, input, file, format *string) {
	fs.StringVar(template, FlagTemplate, "", "")
	fs.StringVar(template, FlagTemplateShort, "", "")
	fs.StringVar(input, FlagInput, "", "")
	fs.StringVar(input, FlagInputShort, "", "")
	fs.StringVar(file, FlagFile, "", "")
	fs.StringVar(file, FlagFileShort, "", "")
	fs.StringVar(format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(format, FlagFormatShort, FlagDefaultFormat, "")
}

func checkInputFlags(template, input, file, format string) error {
	if template == "" {
		return errors.New(ErrMsgMissingTemplate)
	}
	if input != "" && file != "" {
		return errors.New(ErrMsgInputConflict)
	}
	if !validFormat(format) {
		return errors.New(ErrMsgInvalidFormat)
	}
	return nil
}

func outputMatchJSON(template string, caps *eyes.Captures, stdout io.Writer) int {
	output := matchOutput{Template: template}
	if caps != nil {
		output.Matched = true
		output.Captures = caps.Strings()
		for _, sp := range caps.Spans() {
			output.Spans = append(output.Spans, spanOutput{Start: sp.Start, End: sp.End})
		}
	}

	jsonBytes, _ := json.MarshalIndent(output, "", JSONIndent)
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Matched {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
