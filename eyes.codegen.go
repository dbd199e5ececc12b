package eyes

import (
	"io"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-eyes/internal"
)

// Codegen error messages
const (
	ErrMsgCodegenFailed      = "code generation failed"
	ErrMsgCodegenUnnamedType = "type has no Go name for code generation"
)

// GenerateConfig describes a typed parser to generate.
type GenerateConfig struct {
	Package  string   // Package clause of the generated file
	Name     string   // Struct name, e.g. "Claim"
	Template string   // Template source, using the "{}" placeholder
	Types    []string // Type name per placeholder
	Fields   []string // Optional field names; defaults to Field1..FieldN
}

// Generate writes Go source for a struct with one field per placeholder and
// Parse<Name>/MustParse<Name> functions that fill it through Pattern.Scan.
// Generated code compiles its template on the default engine.
func (e *Engine) Generate(cfg GenerateConfig, w io.Writer) error {
	defs, err := e.lookupTypes(cfg.Types)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if def.GoName == "" {
			return cuserr.NewValidationError(ErrCodeValidation, ErrMsgCodegenUnnamedType).
				WithMetadata(MetaKeyType, def.Name)
		}
	}

	gen := internal.NewGenerator(internal.NewSplitter(e.logger), e.logger)
	err = gen.Render(internal.GenConfig{
		Package:  cfg.Package,
		Name:     cfg.Name,
		Template: cfg.Template,
		Types:    defs,
		Fields:   cfg.Fields,
	}, w)
	if err != nil {
		return cuserr.WrapStdError(err, ErrCodeValidation, ErrMsgCodegenFailed).
			WithMetadata(MetaKeyTemplate, cfg.Template)
	}
	return nil
}
