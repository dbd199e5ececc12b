package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-eyes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// catalogConfig holds parsed catalog command configuration
type catalogConfig struct {
	path    string
	format  string
	driver  string
	dsn     string
	verbose bool
}

// catalogOutput represents JSON output for catalog validate
type catalogOutput struct {
	Valid    bool     `json:"valid"`
	Patterns int      `json:"patterns"`
	Issues   []string `json:"issues,omitempty"`
}

func runCatalog(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpCatalogUsage)
		return ExitCodeUsageError
	}

	sub := args[0]
	switch sub {
	case SubCmdSchema:
		return runCatalogSchema(stdout, stderr)
	case SubCmdValidate, SubCmdImport:
	default:
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgUnknownSubcommand, sub)
		return ExitCodeUsageError
	}

	cfg, err := parseCatalogFlags(sub, args[1:])
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	logger := newCLILogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	catalog, err := eyes.LoadCatalog(cfg.path)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCatalogLoadFailed, err)
		return ExitCodeInputError
	}
	logger.Info(eyes.LogMsgCatalogLoaded,
		zap.String(eyes.LogFieldPath, cfg.path),
		zap.Int(eyes.LogFieldCount, len(catalog.Patterns)))

	engine, err := eyes.New(eyes.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoggerFailed, err)
		return ExitCodeError
	}

	if sub == SubCmdValidate {
		return outputCatalogValidation(catalog, catalog.Validate(engine), cfg.format, stdout)
	}
	return runCatalogImport(catalog, engine, cfg, logger, stdout, stderr)
}

func parseCatalogFlags(sub string, args []string) (*catalogConfig, error) {
	fs := flag.NewFlagSet(CmdNameCatalog+" "+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &catalogConfig{}
	fs.StringVar(&cfg.path, FlagCatalog, "", "")
	fs.StringVar(&cfg.path, FlagCatalogShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.driver, FlagDriver, FlagDefaultDriver, "")
	fs.StringVar(&cfg.dsn, FlagDSN, "", "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.path == "" {
		return nil, errors.New(ErrMsgMissingCatalog)
	}
	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

// newCLILogger returns a console logger writing to w, or a no-op logger.
func newCLILogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func runCatalogSchema(stdout, stderr io.Writer) int {
	data, err := eyes.CatalogSchema()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSchemaFailed, err)
		return ExitCodeError
	}
	if err := writeOutput(FlagDefaultOutput, append(data, SchemaTrailingBreak...), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func outputCatalogValidation(c *eyes.Catalog, err error, format string, stdout io.Writer) int {
	issues := flattenErrors(err)

	if format == OutputFormatJSON {
		output := catalogOutput{Valid: len(issues) == 0, Patterns: len(c.Patterns), Issues: issues}
		jsonBytes, _ := json.MarshalIndent(output, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
	} else if len(issues) == 0 {
		fmt.Fprintf(stdout, CatalogTextValid+FmtNewline, len(c.Patterns))
	} else {
		fmt.Fprintln(stdout, CatalogTextInvalid)
		for _, issue := range issues {
			fmt.Fprintf(stdout, CatalogTextIssue+FmtNewline, issue)
		}
	}

	if len(issues) > 0 {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

// flattenErrors returns the messages of a joined error, one per cause.
func flattenErrors(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

func runCatalogImport(c *eyes.Catalog, engine *eyes.Engine, cfg *catalogConfig, logger *zap.Logger, stdout, stderr io.Writer) int {
	if err := c.Validate(engine); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCatalogInvalid, err)
		return ExitCodeValidationError
	}

	storage, err := eyes.OpenStorage(cfg.driver, cfg.dsn)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageOpenFailed, err)
		return ExitCodeError
	}
	logger.Info(eyes.LogMsgStorageOpened, zap.String(eyes.LogFieldDriver, cfg.driver))

	ctx := context.Background()
	if pg, ok := storage.(*eyes.PostgresStorage); ok {
		if version, err := pg.CurrentSchemaVersion(ctx); err == nil {
			logger.Info(eyes.LogMsgStorageMigrated, zap.Int(eyes.LogFieldVersion, version))
		}
	}

	count, err := c.Import(ctx, storage)
	if err != nil {
		_ = storage.Close()
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgImportFailed, err)
		return ExitCodeError
	}
	logger.Info(eyes.LogMsgStorageImported,
		zap.String(eyes.LogFieldDriver, cfg.driver),
		zap.Int(eyes.LogFieldCount, count))

	// Round-trip through the engine so unusable stored patterns are reported.
	if _, err := engine.LoadStorage(ctx, storage); err != nil {
		_ = storage.Close()
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgImportFailed, err)
		return ExitCodeError
	}

	if err := storage.Close(); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageCloseFailed, err)
		return ExitCodeError
	}
	logger.Info(eyes.LogMsgStorageClosed, zap.String(eyes.LogFieldDriver, cfg.driver))

	fmt.Fprintf(stdout, CatalogTextImported+FmtNewline, count, cfg.driver)
	return ExitCodeSuccess
}
