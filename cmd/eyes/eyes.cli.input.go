package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-eyes"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// resolveInput returns the literal input if given, otherwise the contents of
// file with one trailing line terminator removed.
func resolveInput(literal, file string, stdin io.Reader) (string, error) {
	if literal != "" {
		return literal, nil
	}
	if file == "" {
		file = InputSourceStdin
	}
	data, err := readInput(file, stdin)
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// splitList splits a comma-separated flag value, dropping surrounding spaces.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ListSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func validFormat(format string) bool {
	return format == OutputFormatText || format == OutputFormatJSON
}

// printSuggestions writes the "did you mean" hint carried by err, if any.
func printSuggestions(w io.Writer, err error) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return
	}
	if hint, ok := customErr.GetMetadata(eyes.MetaKeySuggestions); ok {
		fmt.Fprintf(w, FmtSuggestion, hint)
	}
}
