package eyes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-eyes/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Match errors
	ErrMsgNoMatch = "input does not match template"

	// Conversion errors
	ErrMsgConversion       = "capture conversion failed"
	ErrMsgArityMismatch    = "target count does not match placeholder count"
	ErrMsgUnsupportedType  = "unsupported conversion type"
	ErrMsgInvalidTarget    = "conversion target must be a non-nil pointer"
	ErrMsgInvalidStruct    = "unmarshal target must be a non-nil pointer to a struct"
	ErrMsgTypeRegistration = "type registration failed"

	// Registry errors
	ErrMsgEmptyPatternName = "pattern name cannot be empty"
	ErrMsgPatternExists    = "pattern already registered"
	ErrMsgPatternNotFound  = "pattern not found"

	// Line scanning errors
	ErrMsgReadLines  = "failed to read lines"
	ErrMsgFollowFile = "failed to follow file"
)

// Error code constants for categorization
const (
	ErrCodeMatch      = "EYES_MATCH"
	ErrCodeConvert    = "EYES_CONVERT"
	ErrCodeValidation = "EYES_VALIDATION"
	ErrCodeRegistry   = "EYES_REGISTRY"
	ErrCodeIO         = "EYES_IO"
	ErrCodeCatalog    = "EYES_CATALOG"
	ErrCodeNotFound   = "EYES_NOT_FOUND"
)

// Sentinel errors for errors.Is checks
var (
	// ErrNoMatch is returned when an input cannot be decomposed by a template.
	ErrNoMatch = errors.New(ErrMsgNoMatch)

	// ErrConversion is matched by every *ConversionError.
	ErrConversion = errors.New(ErrMsgConversion)

	// ErrPatternNotFound is wrapped by named-pattern and storage lookups that miss.
	ErrPatternNotFound = errors.New(ErrMsgPatternNotFound)
)

// NewNoMatchError creates the single failure signal for a template that does not match.
// No position or partial-match diagnostics are attached beyond the template text.
func NewNoMatchError(template string) error {
	return cuserr.WrapStdError(ErrNoMatch, ErrCodeMatch, ErrMsgNoMatch).
		WithMetadata(MetaKeyTemplate, template)
}

// ConversionError describes a capture that could not be converted to its target type.
type ConversionError struct {
	Index int    // Capture index, 0-based
	Value string // Captured text
	Type  string // Target type name
	Cause error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%s: capture %d %q as %s", ErrMsgConversion, e.Index, e.Value, e.Type)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrConversion
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// NewConversionError creates a conversion error for capture index.
func NewConversionError(index int, value, typeName string, cause error) error {
	convErr := &ConversionError{
		Index: index,
		Value: value,
		Type:  typeName,
		Cause: cause,
	}
	return cuserr.WrapStdError(convErr, ErrCodeConvert, ErrMsgConversion).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index)).
		WithMetadata(MetaKeyValue, value).
		WithMetadata(MetaKeyType, typeName)
}

// NewArityError creates an error for a target count that differs from the placeholder count.
func NewArityError(template string, expected, actual int) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgArityMismatch).
		WithMetadata(MetaKeyTemplate, template).
		WithMetadata(MetaKeyExpected, strconv.Itoa(expected)).
		WithMetadata(MetaKeyActual, strconv.Itoa(actual))
}

// NewUnsupportedTypeError creates an error for an unknown type name or target type.
// Known type names close to typeName are attached as suggestions.
func NewUnsupportedTypeError(typeName string, known ...string) error {
	err := cuserr.NewValidationError(ErrCodeValidation, ErrMsgUnsupportedType).
		WithMetadata(MetaKeyType, typeName)
	return withSuggestions(err, typeName, known)
}

// NewInvalidTargetError creates an error for a destination that cannot be written.
func NewInvalidTargetError(index int, target any) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgInvalidTarget).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index)).
		WithMetadata(MetaKeyType, fmt.Sprintf("%T", target))
}

// NewInvalidStructError creates an error for a bad Unmarshal target.
func NewInvalidStructError(target any) error {
	return cuserr.NewValidationError(ErrCodeValidation, ErrMsgInvalidStruct).
		WithMetadata(MetaKeyType, fmt.Sprintf("%T", target))
}

// NewTypeRegistrationError wraps a type registry failure.
func NewTypeRegistrationError(typeName string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgTypeRegistration).
		WithMetadata(MetaKeyType, typeName)
}

// NewEmptyPatternNameError creates an error for an empty pattern name.
func NewEmptyPatternNameError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyPatternName)
}

// NewPatternExistsError creates a named pattern collision error.
func NewPatternExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgPatternExists).
		WithMetadata(MetaKeyPatternName, name)
}

// NewPatternNotFoundError creates an error for an unknown named pattern.
// Registered names close to name are attached as suggestions.
func NewPatternNotFoundError(name string, known ...string) error {
	err := cuserr.WrapStdError(ErrPatternNotFound, ErrCodeNotFound, ErrMsgPatternNotFound).
		WithMetadata(MetaKeyPatternName, name)
	return withSuggestions(err, name, known)
}

// withSuggestions adds the closest known names, if any, under MetaKeySuggestions.
func withSuggestions(err *cuserr.CustomError, target string, known []string) *cuserr.CustomError {
	if similar := internal.Suggest(target, known, MaxSuggestions); len(similar) > 0 {
		return err.WithMetadata(MetaKeySuggestions, strings.Join(similar, SuggestionSeparator))
	}
	return err
}

// NewReadLinesError wraps a reader failure during line scanning.
func NewReadLinesError(line int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeIO, ErrMsgReadLines).
		WithMetadata(MetaKeyLine, strconv.Itoa(line))
}

// NewFollowError wraps a failure to open or watch a followed file.
func NewFollowError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeIO, ErrMsgFollowFile).
		WithMetadata(MetaKeyPath, path)
}

// IsNoMatch reports whether err signals a template that did not match.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsConversionError reports whether err is a capture conversion failure.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrConversion)
}
