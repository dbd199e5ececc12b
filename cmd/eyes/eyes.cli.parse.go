package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-eyes"
)

// parseConfig holds parsed parse command configuration
type parseConfig struct {
	template string
	types    []string
	input    string
	file     string
	format   string
}

// parseOutput represents JSON output for parse
type parseOutput struct {
	Template string   `json:"template"`
	Types    []string `json:"types"`
	Values   []any    `json:"values"`
}

func runParse(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseParseFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	input, err := resolveInput(cfg.input, cfg.file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	values, err := eyes.ParseAs(input, cfg.template, cfg.types...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		printSuggestions(stderr, err)
		if eyes.IsNoMatch(err) || eyes.IsConversionError(err) {
			return ExitCodeValidationError
		}
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		output := parseOutput{Template: cfg.template, Types: cfg.types, Values: values}
		jsonBytes, err := json.MarshalIndent(output, "", JSONIndent)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for i, v := range values {
		fmt.Fprintf(stdout, ValueTextFormat+FmtNewline, i, v, v)
	}
	return ExitCodeSuccess
}

func parseParseFlags(args []string) (*parseConfig, error) {
	fs := flag.NewFlagSet(CmdNameParse, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &parseConfig{}
	var types string
	bindInputFlags(fs, &cfg.template, &cfg.input, &cfg.file, &cfg.format)
	fs.StringVar(&types, FlagTypes, "", "")
	fs.StringVar(&types, FlagTypesShort, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := checkInputFlags(cfg.template, cfg.input, cfg.file, cfg.format); err != nil {
		return nil, err
	}
	if types == "" {
		return nil, errors.New(ErrMsgMissingTypes)
	}
	cfg.types = splitList(types)
	return cfg, nil
}
