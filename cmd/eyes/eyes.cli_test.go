package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-eyes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testClaimTemplate = "#{} @ {},{}: {}x{}"
	testClaimInput    = "#1 @ 338,764: 20x24"
	testPointTemplate = "{} {},{}"
	testLines         = "1 2,3\nnot a point\r\n4 5,6\n"
	testCatalog       = `version: 1
patterns:
  - name: claim
    template: "#{} @ {},{}: {}x{}"
    types: [usize, isize, isize, usize, usize]
    examples:
      - input: "#1 @ 338,764: 20x24"
        captures: ["1", "338", "764", "20", "24"]
  - name: point
    template: "{} {},{}"
    types: [u8, u8, u8]
`
	testBadCatalog = `patterns:
  - name: claim
    template: "{}x{}"
    types: [u8]
  - name: ""
    template: "{}"
`
)

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "points.txt"), []byte(testLines), FilePermissions))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "patterns.yaml"), []byte(testCatalog), FilePermissions))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "bad.yaml"), []byte(testBadCatalog), FilePermissions))

	return tmpDir
}

// runCLI runs the CLI and returns the exit code with both outputs.
func runCLI(stdin string, args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI("")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameMatch)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI("", "unknown")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

func TestRun_HelpForEachCommand(t *testing.T) {
	tests := map[string]string{
		CmdNameMatch:   HelpMatchUsage,
		CmdNameParse:   HelpParseUsage,
		CmdNameScan:    HelpScanUsage,
		CmdNameGen:     HelpGenUsage,
		CmdNameCatalog: HelpCatalogUsage,
		CmdNameVersion: HelpVersionUsage,
		CmdNameHelp:    HelpHelpUsage,
	}
	for cmd, usage := range tests {
		t.Run(cmd, func(t *testing.T) {
			code, stdout, _ := runCLI("", CmdNameHelp, cmd)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Contains(t, stdout, usage)
		})
	}
}

// ==================== match tests ====================

func TestMatch_Text(t *testing.T) {
	code, stdout, stderr := runCLI("", CmdNameMatch, "-t", testClaimTemplate, "-i", testClaimInput)

	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, `0: "1"`)
	assert.Contains(t, stdout, `1: "338"`)
	assert.Contains(t, stdout, `4: "24"`)
}

func TestMatch_JSON(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameMatch, "--template", testClaimTemplate, "--input", testClaimInput, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var out matchOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Matched)
	assert.Equal(t, []string{"1", "338", "764", "20", "24"}, out.Captures)
	require.Len(t, out.Spans, 5)
	assert.Equal(t, spanOutput{Start: 5, End: 8}, out.Spans[1])
}

func TestMatch_Stdin(t *testing.T) {
	code, stdout, _ := runCLI("1 2,3\n", CmdNameMatch, "-t", testPointTemplate)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, `2: "3"`)
	assert.NotContains(t, stdout, `\n`)
}

func TestMatch_NoMatch(t *testing.T) {
	code, _, stderr := runCLI("", CmdNameMatch, "-t", testClaimTemplate, "-i", "#1 338,764: 20x24")
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stderr, ErrMsgNoMatch)

	code, stdout, _ := runCLI("", CmdNameMatch, "-t", testClaimTemplate, "-i", "nope", "-F", OutputFormatJSON)
	assert.Equal(t, ExitCodeValidationError, code)
	var out matchOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Matched)
}

func TestMatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing template", []string{"-i", "x"}, ExitCodeUsageError},
		{"input and file", []string{"-t", "{}", "-i", "x", "-f", "y"}, ExitCodeUsageError},
		{"invalid format", []string{"-t", "{}", "-i", "x", "-F", "xml"}, ExitCodeUsageError},
		{"unknown flag", []string{"-t", "{}", "--bogus"}, ExitCodeUsageError},
		{"missing file", []string{"-t", "{}", "-f", filepath.Join(t.TempDir(), "missing.txt")}, ExitCodeInputError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI("", append([]string{CmdNameMatch}, tt.args...)...)
			assert.Equal(t, tt.code, code)
		})
	}
}

// ==================== parse tests ====================

func TestParse_Text(t *testing.T) {
	code, stdout, stderr := runCLI("", CmdNameParse, "-t", testPointTemplate, "-T", "u8, u8, u8", "-i", "1 2,3")

	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "0: 1 (uint8)")
	assert.Contains(t, stdout, "2: 3 (uint8)")
}

func TestParse_JSON(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameParse, "-t", testClaimTemplate, "--types", "usize,isize,isize,usize,usize",
		"-i", "#7 @ -1,2: 3x4", "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var out struct {
		Values []float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, []float64{7, -1, 2, 3, 4}, out.Values)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"conversion", []string{"-t", "{}", "-T", "u8", "-i", "300"}, ExitCodeValidationError},
		{"no match", []string{"-t", "{}x{}", "-T", "u8,u8", "-i", "12"}, ExitCodeValidationError},
		{"unknown type", []string{"-t", "{}", "-T", "complex128", "-i", "1"}, ExitCodeError},
		{"arity", []string{"-t", "{}x{}", "-T", "u8", "-i", "1x2"}, ExitCodeError},
		{"missing types", []string{"-t", "{}", "-i", "1"}, ExitCodeUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI("", append([]string{CmdNameParse}, tt.args...)...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestParse_UnknownTypeSuggestion(t *testing.T) {
	code, _, stderr := runCLI("", CmdNameParse, "-t", "{}", "-T", "usise", "-i", "1")

	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, "Did you mean: usize")
}

// ==================== scan tests ====================

func TestScan_Text(t *testing.T) {
	dir := setupTestData(t)
	path := filepath.Join(dir, "points.txt")

	for _, workers := range []string{"0", "2"} {
		t.Run("workers="+workers, func(t *testing.T) {
			code, stdout, stderr := runCLI("", CmdNameScan, "-t", testPointTemplate, "-f", path, "--workers", workers)

			assert.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Contains(t, stdout, "1: 1\t2\t3")
			assert.Contains(t, stdout, "2: no match")
			assert.Contains(t, stdout, "3: 4\t5\t6")
			assert.Contains(t, stdout, "2 of 3 line(s) matched")
		})
	}
}

func TestScan_JSONLines(t *testing.T) {
	code, stdout, _ := runCLI(testLines, CmdNameScan, "-t", testPointTemplate, "-f", InputSourceStdin, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var lines []lineOutput
	sc := bufio.NewScanner(strings.NewReader(stdout))
	for sc.Scan() {
		var l lineOutput
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "2", "3"}, lines[0].Captures)
	assert.False(t, lines[1].Matched)
	assert.Equal(t, "not a point", lines[1].Text)
	assert.Equal(t, 3, lines[2].Line)
}

func TestScan_NothingMatched(t *testing.T) {
	code, stdout, _ := runCLI("a\nb\n", CmdNameScan, "-t", "{}={}", "-f", InputSourceStdin)

	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stdout, "0 of 2 line(s) matched")
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing file flag", []string{"-t", "{}"}, ExitCodeUsageError},
		{"follow stdin", []string{"-t", "{}", "-f", InputSourceStdin, "--follow"}, ExitCodeUsageError},
		{"missing template", []string{"-f", InputSourceStdin}, ExitCodeUsageError},
		{"missing file", []string{"-t", "{}", "-f", filepath.Join(t.TempDir(), "missing.txt")}, ExitCodeInputError},
		{"follow missing file", []string{"-t", "{}", "--follow", "-f", filepath.Join(t.TempDir(), "missing.txt")}, ExitCodeInputError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI("", append([]string{CmdNameScan}, tt.args...)...)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
}

// ==================== gen tests ====================

func TestGen_Stdout(t *testing.T) {
	code, stdout, stderr := runCLI("", CmdNameGen, "-t", testClaimTemplate, "-T", "usize,isize,isize,usize,usize",
		"-n", "Claim", "--fields", "id,x,y,width,height", "-p", "claims")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "package claims")
	assert.Contains(t, stdout, "type Claim struct")
	assert.Contains(t, stdout, "func ParseClaim(input string) (Claim, error)")
}

func TestGen_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point.go")
	code, stdout, _ := runCLI("", CmdNameGen, "-t", testPointTemplate, "-T", "u8,u8,u8", "-n", "Point", "-o", path)
	require.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
	assert.Contains(t, string(data), "Field1")
}

func TestGen_Errors(t *testing.T) {
	code, _, _ := runCLI("", CmdNameGen, "-t", "{}", "-T", "complex128", "-n", "T")
	assert.Equal(t, ExitCodeValidationError, code)

	code, _, _ = runCLI("", CmdNameGen, "-t", "{}", "-T", "u8")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== catalog tests ====================

func TestCatalog_Usage(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameCatalog)
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, HelpCatalogUsage)

	code, _, stderr := runCLI("", CmdNameCatalog, "export")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgUnknownSubcommand)

	code, _, _ = runCLI("", CmdNameCatalog, SubCmdValidate)
	assert.Equal(t, ExitCodeUsageError, code)
}

func TestCatalog_Schema(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameCatalog, SubCmdSchema)
	require.Equal(t, ExitCodeSuccess, code)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, eyes.CatalogSchemaID, schema["$id"])
}

func TestCatalog_Validate(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, _ := runCLI("", CmdNameCatalog, SubCmdValidate, "-c", filepath.Join(dir, "patterns.yaml"))
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "Catalog is valid: 2 pattern(s)")

	code, stdout, _ = runCLI("", CmdNameCatalog, SubCmdValidate, "-c", filepath.Join(dir, "bad.yaml"))
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stdout, CatalogTextInvalid)
	assert.Contains(t, stdout, eyes.ErrMsgCatalogTypeArity)
	assert.Contains(t, stdout, eyes.ErrMsgCatalogEmptyName)

	code, stdout, _ = runCLI("", CmdNameCatalog, SubCmdValidate, "--catalog", filepath.Join(dir, "bad.yaml"), "-F", OutputFormatJSON)
	assert.Equal(t, ExitCodeValidationError, code)
	var out catalogOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Valid)
	assert.Equal(t, 2, out.Patterns)
	assert.Len(t, out.Issues, 2)

	code, _, _ = runCLI("", CmdNameCatalog, SubCmdValidate, "-c", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ExitCodeInputError, code)
}

func TestCatalog_ImportMemory(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI("", CmdNameCatalog, SubCmdImport, "-c", filepath.Join(dir, "patterns.yaml"), "-v")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "Imported 2 pattern(s) into memory storage")
	assert.Contains(t, stderr, eyes.LogMsgCatalogLoaded)
	assert.Contains(t, stderr, eyes.LogMsgStorageImported)
	assert.Contains(t, stderr, eyes.LogMsgStorageClosed)
}

func TestCatalog_ImportSQLite(t *testing.T) {
	dir := setupTestData(t)
	dbPath := filepath.Join(dir, "patterns.db")

	code, _, stderr := runCLI("", CmdNameCatalog, SubCmdImport, "-c", filepath.Join(dir, "patterns.yaml"),
		"--driver", eyes.StorageDriverNameSQLite, "--dsn", dbPath)
	require.Equal(t, ExitCodeSuccess, code, stderr)

	storage, err := eyes.OpenStorage(eyes.StorageDriverNameSQLite, dbPath)
	require.NoError(t, err)
	defer storage.Close()

	stored, err := storage.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "claim", stored[0].Name)
	assert.Equal(t, []string{"u8", "u8", "u8"}, stored[1].Types)
}

func TestCatalog_ImportErrors(t *testing.T) {
	dir := setupTestData(t)

	code, _, stderr := runCLI("", CmdNameCatalog, SubCmdImport, "-c", filepath.Join(dir, "patterns.yaml"), "--driver", "etcd")
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, ErrMsgStorageOpenFailed)

	code, _, stderr = runCLI("", CmdNameCatalog, SubCmdImport, "-c", filepath.Join(dir, "bad.yaml"))
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stderr, ErrMsgCatalogInvalid)
}

// ==================== version tests ====================

func TestVersion_Text(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameVersion)

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "go-eyes version")
	assert.Contains(t, stdout, "Go: ")
}

func TestVersion_JSON(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)

	var out versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.NotEmpty(t, out.Version)
	assert.NotEmpty(t, out.GoVersion)
}

func TestVersion_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI("", CmdNameVersion, "--format", "xml")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

func TestLoadVersionInfo(t *testing.T) {
	empty := t.TempDir()
	dir := t.TempDir()
	content := "project:\n  version: 1.2.3\ngit:\n  commit: abc123\n  tag: v1.2.3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionsFileName), []byte(content), FilePermissions))

	v := loadVersionInfo([]string{empty, dir})
	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, "abc123", v.Commit)
	assert.Equal(t, VersionUnknown, v.Branch)
	assert.Equal(t, "v1.2.3", v.Tag)

	v = loadVersionInfo([]string{empty})
	assert.Equal(t, VersionUnknown, v.Version)
}
