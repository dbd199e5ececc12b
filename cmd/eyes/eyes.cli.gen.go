package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-eyes"
)

// genConfig holds parsed gen command configuration
type genConfig struct {
	template string
	types    []string
	name     string
	fields   []string
	pkg      string
	output   string
}

func runGen(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseGenFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	var buf bytes.Buffer
	err = eyes.Default().Generate(eyes.GenerateConfig{
		Package:  cfg.pkg,
		Name:     cfg.name,
		Template: cfg.template,
		Types:    cfg.types,
		Fields:   cfg.fields,
	}, &buf)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgGenerateFailed, err)
		return ExitCodeValidationError
	}

	if err := writeOutput(cfg.output, buf.Bytes(), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseGenFlags(args []string) (*genConfig, error) {
	fs := flag.NewFlagSet(CmdNameGen, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &genConfig{}
	var types, fields string
	fs.StringVar(&cfg.template, FlagTemplate, "", "")
	fs.StringVar(&cfg.template, FlagTemplateShort, "", "")
	fs.StringVar(&types, FlagTypes, "", "")
	fs.StringVar(&types, FlagTypesShort, "", "")
	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.StringVar(&fields, FlagFields, "", "")
	fs.StringVar(&cfg.pkg, FlagPackage, FlagDefaultPackage, "")
	fs.StringVar(&cfg.pkg, FlagPackageShort, FlagDefaultPackage, "")
	fs.StringVar(&cfg.output, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.output, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.template == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if types == "" {
		return nil, errors.New(ErrMsgMissingTypes)
	}
	if cfg.name == "" {
		return nil, errors.New(ErrMsgMissingName)
	}
	cfg.types = splitList(types)
	cfg.fields = splitList(fields)
	return cfg, nil
}
