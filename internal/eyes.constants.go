package internal

// Placeholder constants
const (
	StrPlaceholder = "{}"
	LenPlaceholder = 2 // {}
)

// SegmentKind identifies how a literal segment is located in the input
type SegmentKind int

// Segment kind constants
const (
	SegmentKindLiteral SegmentKind = iota
	SegmentKindWhitespace
)

// Segment kind string names for debugging
const (
	SegmentKindNameLiteral    = "LITERAL"
	SegmentKindNameWhitespace = "WHITESPACE"
)

// String returns the string representation of the segment kind
func (k SegmentKind) String() string {
	switch k {
	case SegmentKindWhitespace:
		return SegmentKindNameWhitespace
	default:
		return SegmentKindNameLiteral
	}
}

// Log message constants
const (
	LogMsgSplitterCreated  = "template splitter created"
	LogMsgTemplateSplit    = "template split complete"
	LogMsgMatcherCreated   = "matcher created"
	LogMsgMatchStart       = "starting match"
	LogMsgMatchEnd         = "match complete"
	LogMsgLiteralMissing   = "literal not found in remainder"
	LogMsgLiteralUnaligned = "leading literal not at start of input"
	LogMsgLiteralExpanded  = "literal match expanded"
	LogMsgTrailingInput    = "unbound trailing input"
	LogMsgTypeRegistered   = "type registered"
	LogMsgTypeCollision    = "type registration collision - first-come-wins"
	LogMsgCodegenStart     = "starting code generation"
	LogMsgCodegenEnd       = "code generation complete"
)

// Log field names
const (
	LogFieldSource       = "source_length"
	LogFieldInput        = "input_length"
	LogFieldSegments     = "segment_count"
	LogFieldPlaceholders = "placeholder_count"
	LogFieldSegment      = "segment"
	LogFieldIndex        = "index"
	LogFieldOffset       = "offset"
	LogFieldCaptures     = "capture_count"
	LogFieldMatched      = "matched"
	LogFieldTypeName     = "type_name"
	LogFieldName         = "name"
	LogFieldPackage      = "package"
)

// Type registry error messages
const (
	ErrMsgEmptyTypeName     = "type name cannot be empty"
	ErrMsgNilConverter      = "converter function cannot be nil"
	ErrMsgTypeExists        = "type already registered"
	ErrMsgUnknownTypeName   = "unknown type name"
	ErrMsgUnsupportedTarget = "unsupported conversion target"
	ErrMsgNilTarget         = "conversion target must be a non-nil pointer"
	ErrMsgNilConversion     = "converter returned no value"
)

// Codegen error messages
const (
	ErrMsgCodegenEmptyName     = "generated type name cannot be empty"
	ErrMsgCodegenEmptyPackage  = "generated package name cannot be empty"
	ErrMsgCodegenArity         = "type count does not match placeholder count"
	ErrMsgCodegenFieldArity    = "field count does not match placeholder count"
	ErrMsgCodegenInvalidField  = "invalid field name"
	ErrMsgCodegenDuplicateName = "duplicate field name"
)

// Type names without a predeclared Go spelling
const (
	TypeNameDuration  = "duration"
	TypeAliasDuration = "Duration"
)

// Integer parsing constants
const (
	IntBase10    = 10
	IntBitSize8  = 8
	IntBitSize16 = 16
	IntBitSize32 = 32
	IntBitSize64 = 64
	IntBitSizeOS = 0 // strconv: platform int size
)

// Float parsing constants
const (
	FloatBitSize32 = 32
	FloatBitSize64 = 64
)
