package main

// Command names
const (
	CmdNameMatch   = "match"
	CmdNameParse   = "parse"
	CmdNameScan    = "scan"
	CmdNameGen     = "gen"
	CmdNameCatalog = "catalog"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Catalog subcommand names
const (
	SubCmdValidate = "validate"
	SubCmdSchema   = "schema"
	SubCmdImport   = "import"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagInput    = "input"
	FlagFile     = "file"
	FlagFormat   = "format"
	FlagTypes    = "types"
	FlagWorkers  = "workers"
	FlagFollow   = "follow"
	FlagName     = "name"
	FlagFields   = "fields"
	FlagPackage  = "package"
	FlagOutput   = "output"
	FlagCatalog  = "catalog"
	FlagDriver   = "driver"
	FlagDSN      = "dsn"
	FlagVerbose  = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagInputShort    = "i"
	FlagFileShort     = "f"
	FlagFormatShort   = "F"
	FlagTypesShort    = "T"
	FlagNameShort     = "n"
	FlagPackageShort  = "p"
	FlagOutputShort   = "o"
	FlagCatalogShort  = "c"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultFormat  = "text"
	FlagDefaultPackage = "main"
	FlagDefaultDriver  = "memory"
	FlagDefaultWorkers = 0
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	ListSeparator    = ","
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgUnknownSubcommand  = "unknown catalog subcommand"
	ErrMsgMissingTemplate    = "template required"
	ErrMsgMissingTypes       = "types required"
	ErrMsgMissingName        = "name required"
	ErrMsgMissingFile        = "input file required"
	ErrMsgMissingCatalog     = "catalog file required"
	ErrMsgInputConflict      = "use either --input or --file, not both"
	ErrMsgFollowStdin        = "cannot follow stdin"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgInvalidFlags       = "invalid flags"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgNoMatch            = "input does not match template"
	ErrMsgParseFailed        = "failed to parse input"
	ErrMsgScanFailed         = "line scan failed"
	ErrMsgGenerateFailed     = "code generation failed"
	ErrMsgCatalogLoadFailed  = "failed to load catalog"
	ErrMsgCatalogInvalid     = "catalog is invalid"
	ErrMsgSchemaFailed       = "failed to generate catalog schema"
	ErrMsgStorageOpenFailed  = "failed to open storage"
	ErrMsgImportFailed       = "failed to import catalog"
	ErrMsgStorageCloseFailed = "failed to close storage"
	ErrMsgLoggerFailed       = "failed to create logger"
)

// Help text templates
const (
	HelpMainUsage = `go-eyes - Match strings against "{}" templates

Usage:
    eyes <command> [options]

Commands:
    match       Print the captures of one input
    parse       Convert the captures of one input to typed values
    scan        Match every line of a file
    gen         Generate a typed Go parser for a template
    catalog     Validate, describe, or import a pattern catalog
    version     Show version information
    help        Show help for a command

Use "eyes help <command>" for more information about a command.`

	HelpMatchUsage = `Print the captures of one input

Usage:
    eyes match [options]

Options:
    -t, --template <tmpl>   Template with {} placeholders
    -i, --input <text>      Input string
    -f, --file <file>       Read input from file (use "-" for stdin, the default)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    eyes match -t "#{} @ {},{}: {}x{}" -i "#1 @ 338,764: 20x24"
    echo "1 2,3" | eyes match -t "{} {},{}" -F json`

	HelpParseUsage = `Convert the captures of one input to typed values

Usage:
    eyes parse [options]

Options:
    -t, --template <tmpl>   Template with {} placeholders
    -T, --types <list>      Comma-separated type names, one per placeholder
    -i, --input <text>      Input string
    -f, --file <file>       Read input from file (use "-" for stdin, the default)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    eyes parse -t "{} {},{}" -T u8,u8,u8 -i "1 2,3"`

	HelpScanUsage = `Match every line of a file

Usage:
    eyes scan [options]

Options:
    -t, --template <tmpl>   Template with {} placeholders
    -f, --file <file>       Input file (use "-" for stdin)
    --workers <n>           Match lines in parallel on n workers (default: stream in order)
    --follow                Keep reading lines appended to the file
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    eyes scan -t "turn {} {},{} through {},{}" -f input.txt
    eyes scan -t "{} {} {}" -f /var/log/app.log --follow`

	HelpGenUsage = `Generate a typed Go parser for a template

Usage:
    eyes gen [options]

Options:
    -t, --template <tmpl>   Template with {} placeholders
    -T, --types <list>      Comma-separated type names, one per placeholder
    -n, --name <name>       Struct name
    --fields <list>         Comma-separated field names
    -p, --package <pkg>     Package name (default: main)
    -o, --output <file>     Output file (default: stdout)

Examples:
    eyes gen -t "#{} @ {},{}: {}x{}" -T usize,isize,isize,usize,usize -n Claim`

	HelpCatalogUsage = `Validate, describe, or import a pattern catalog

Usage:
    eyes catalog <validate|schema|import> [options]

Options:
    -c, --catalog <file>    Catalog file (.yaml, .yml, .toml)
    -F, --format <format>   Output format for validate: text, json (default: text)
    --driver <name>         Storage driver for import: memory, sqlite, postgres,
                            filesystem (default: memory)
    --dsn <string>          Storage connection string for import
    -v, --verbose           Log storage operations to stderr

Examples:
    eyes catalog validate -c patterns.yaml
    eyes catalog schema
    eyes catalog import -c patterns.yaml --driver sqlite --dsn patterns.db`

	HelpVersionUsage = `Show version information

Usage:
    eyes version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    eyes help [command]

Commands:
    match       Show help for match command
    parse       Show help for parse command
    scan        Show help for scan command
    gen         Show help for gen command
    catalog     Show help for catalog command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-eyes version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Match and scan output format templates
const (
	CaptureTextFormat   = "%d: %q"
	ValueTextFormat     = "%d: %v (%T)"
	LineTextFormat      = "%d: %s"
	LineNoMatchFormat   = "%d: no match"
	ScanSummaryFormat   = "%d of %d line(s) matched"
	CaptureSeparator    = "\t"
	JSONIndent          = "  "
	SchemaTrailingBreak = "\n"
)

// Catalog output format templates
const (
	CatalogTextValid    = "Catalog is valid: %d pattern(s)"
	CatalogTextInvalid  = "Catalog is invalid:"
	CatalogTextIssue    = "  %s"
	CatalogTextImported = "Imported %d pattern(s) into %s storage"
)

// CLI metadata
const (
	CLIName        = "eyes"
	CLIDescription = "Match strings against {} templates"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	FmtSuggestion      = "Did you mean: %s?\n"
)
