package eyes

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/itsatony/go-cuserr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Catalog error messages
const (
	ErrMsgCatalogRead            = "failed to read catalog file"
	ErrMsgCatalogDecode          = "failed to decode catalog"
	ErrMsgCatalogFormat          = "unsupported catalog format"
	ErrMsgCatalogEmptyName       = "catalog entry name cannot be empty"
	ErrMsgCatalogDuplicateName   = "duplicate catalog entry name"
	ErrMsgCatalogTypeArity       = "catalog entry type count does not match placeholder count"
	ErrMsgCatalogFieldArity      = "catalog entry field count does not match placeholder count"
	ErrMsgCatalogUnknownType     = "catalog entry references unknown type"
	ErrMsgCatalogExampleNoMatch  = "catalog example does not match its template"
	ErrMsgCatalogExampleMatched  = "catalog example expected no match"
	ErrMsgCatalogExampleCaptures = "catalog example captures differ"
	ErrMsgCatalogExampleConvert  = "catalog example captures do not convert to declared types"
)

// Catalog is a file of named patterns with declared types and examples.
//
// YAML form:
//
//	version: 1
//	patterns:
//	  - name: claim
//	    template: "#{} @ {},{}: {}x{}"
//	    types: [usize, isize, isize, usize, usize]
//	    fields: [id, x, y, width, height]
//	    examples:
//	      - input: "#1 @ 338,764: 20x24"
//	        captures: ["1", "338", "764", "20", "24"]
type Catalog struct {
	Version  int            `yaml:"version,omitempty" toml:"version" json:"version,omitempty" jsonschema:"description=Catalog format version"`
	Patterns []CatalogEntry `yaml:"patterns" toml:"patterns" json:"patterns" jsonschema:"required"`
}

// CatalogEntry declares one named pattern.
type CatalogEntry struct {
	Name        string           `yaml:"name" toml:"name" json:"name" jsonschema:"required,minLength=1"`
	Template    string           `yaml:"template" toml:"template" json:"template" jsonschema:"required,description=Template with {} placeholders"`
	Types       []string         `yaml:"types,omitempty" toml:"types" json:"types,omitempty" jsonschema:"description=Type name per placeholder"`
	Fields      []string         `yaml:"fields,omitempty" toml:"fields" json:"fields,omitempty" jsonschema:"description=Field name per placeholder for code generation"`
	Description string           `yaml:"description,omitempty" toml:"description" json:"description,omitempty"`
	Tags        []string         `yaml:"tags,omitempty" toml:"tags" json:"tags,omitempty"`
	Examples    []CatalogExample `yaml:"examples,omitempty" toml:"examples" json:"examples,omitempty"`
}

// CatalogExample is an input with its expected outcome.
// With NoMatch unset the input must match; Captures, when present, must equal
// the captured strings.
type CatalogExample struct {
	Input    string   `yaml:"input" toml:"input" json:"input" jsonschema:"required"`
	Captures []string `yaml:"captures,omitempty" toml:"captures" json:"captures,omitempty"`
	NoMatch  bool     `yaml:"no_match,omitempty" toml:"no_match" json:"no_match,omitempty"`
}

// CatalogFormatFromPath picks the catalog format from a file extension.
func CatalogFormatFromPath(path string) (CatalogFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case FileExtensionYAML, FileExtensionYML:
		return CatalogFormatYAML, nil
	case FileExtensionTOML:
		return CatalogFormatTOML, nil
	default:
		return "", cuserr.NewValidationError(ErrCodeCatalog, ErrMsgCatalogFormat).
			WithMetadata(MetaKeyPath, path)
	}
}

// LoadCatalog reads a YAML or TOML catalog, chosen by file extension.
func LoadCatalog(path string) (*Catalog, error) {
	format, err := CatalogFormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeCatalog, ErrMsgCatalogRead).
			WithMetadata(MetaKeyPath, path)
	}
	return ParseCatalog(data, format)
}

// ParseCatalog decodes catalog data in the given format.
func ParseCatalog(data []byte, format CatalogFormat) (*Catalog, error) {
	var c Catalog
	var err error

	switch format {
	case CatalogFormatYAML:
		err = yaml.Unmarshal(data, &c)
	case CatalogFormatTOML:
		err = toml.Unmarshal(data, &c)
	default:
		return nil, cuserr.NewValidationError(ErrCodeCatalog, ErrMsgCatalogFormat).
			WithMetadata(MetaKeyType, string(format))
	}
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeCatalog, ErrMsgCatalogDecode)
	}
	return &c, nil
}

// Entry returns the entry with the given name.
func (c *Catalog) Entry(name string) (*CatalogEntry, bool) {
	for i := range c.Patterns {
		if c.Patterns[i].Name == name {
			return &c.Patterns[i], true
		}
	}
	return nil, false
}

// Names returns the entry names in file order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Patterns))
	for i, entry := range c.Patterns {
		names[i] = entry.Name
	}
	return names
}

// Validate checks every entry against e: names are non-empty and unique,
// declared types exist and match the placeholder count, and every example
// behaves as declared. All problems are returned joined.
func (c *Catalog) Validate(e *Engine) error {
	var errs []error
	seen := make(map[string]bool, len(c.Patterns))

	for i := range c.Patterns {
		entry := &c.Patterns[i]
		if entry.Name == "" {
			errs = append(errs, catalogError(ErrMsgCatalogEmptyName, strconv.Itoa(i)))
			continue
		}
		if seen[entry.Name] {
			errs = append(errs, catalogError(ErrMsgCatalogDuplicateName, entry.Name))
			continue
		}
		seen[entry.Name] = true
		errs = append(errs, entry.validate(e)...)
	}

	return errors.Join(errs...)
}

// validate checks one entry.
func (entry *CatalogEntry) validate(e *Engine) []error {
	var errs []error
	p := e.Compile(entry.Template)

	if len(entry.Types) > 0 {
		if len(entry.Types) != p.Placeholders() {
			errs = append(errs, catalogError(ErrMsgCatalogTypeArity, entry.Name))
		}
		for _, name := range entry.Types {
			if !e.HasType(name) {
				errs = append(errs, catalogError(ErrMsgCatalogUnknownType, entry.Name).
					WithMetadata(MetaKeyType, name))
			}
		}
	}
	if len(entry.Fields) > 0 && len(entry.Fields) != p.Placeholders() {
		errs = append(errs, catalogError(ErrMsgCatalogFieldArity, entry.Name))
	}
	if len(errs) > 0 {
		return errs
	}

	for _, ex := range entry.Examples {
		caps, err := p.Match(ex.Input)
		switch {
		case ex.NoMatch && err == nil:
			errs = append(errs, catalogError(ErrMsgCatalogExampleMatched, entry.Name).
				WithMetadata(MetaKeyInput, ex.Input))
		case ex.NoMatch:
		case err != nil:
			errs = append(errs, catalogError(ErrMsgCatalogExampleNoMatch, entry.Name).
				WithMetadata(MetaKeyInput, ex.Input))
		case ex.Captures != nil && !slices.Equal(ex.Captures, caps.Strings()):
			errs = append(errs, catalogError(ErrMsgCatalogExampleCaptures, entry.Name).
				WithMetadata(MetaKeyInput, ex.Input).
				WithMetadata(MetaKeyExpected, strings.Join(ex.Captures, ",")).
				WithMetadata(MetaKeyActual, strings.Join(caps.Strings(), ",")))
		case len(entry.Types) > 0:
			if _, err := p.ParseAs(ex.Input, entry.Types...); err != nil {
				errs = append(errs, cuserr.WrapStdError(err, ErrCodeCatalog, ErrMsgCatalogExampleConvert).
					WithMetadata(MetaKeyCatalogEntry, entry.Name).
					WithMetadata(MetaKeyInput, ex.Input))
			}
		}
	}
	return errs
}

// RegisterCatalog validates c and registers each entry as a named pattern.
// Nothing is registered if validation fails.
func (e *Engine) RegisterCatalog(c *Catalog) error {
	if err := c.Validate(e); err != nil {
		return err
	}
	for _, entry := range c.Patterns {
		if err := e.RegisterPattern(entry.Name, entry.Template); err != nil {
			return err
		}
	}
	e.logger.Info(LogMsgCatalogRegistered, zap.Int(LogFieldCount, len(c.Patterns)))
	return nil
}

func catalogError(msg, entry string) *cuserr.CustomError {
	return cuserr.NewValidationError(ErrCodeCatalog, msg).
		WithMetadata(MetaKeyCatalogEntry, entry)
}
