package internal

import (
	"fmt"
	"go/token"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
)

// Codegen constants
const (
	ModulePath          = "github.com/itsatony/go-eyes"
	ModulePackageName   = "eyes"
	GeneratedHeader     = "Code generated by eyes gen. DO NOT EDIT."
	GeneratedParsePref  = "Parse"
	GeneratedMustPref   = "MustParse"
	GeneratedPatternSuf = "Pattern"
	GeneratedFieldPref  = "Field"
	GeneratedInputName  = "input"
	GeneratedValueName  = "v"
)

// GenConfig configures generation of a typed parser for one template
type GenConfig struct {
	Package  string     // Package clause of the generated file
	Name     string     // Exported struct name, e.g. "Claim"
	Template string     // Template source
	Types    []*TypeDef // One per placeholder
	Fields   []string   // Optional field names, defaults to Field1..FieldN
}

// Generator emits Go source that binds a template to a struct
type Generator struct {
	splitter *Splitter
	logger   *zap.Logger
}

// NewGenerator creates a code generator
func NewGenerator(splitter *Splitter, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if splitter == nil {
		splitter = NewSplitter(logger)
	}
	return &Generator{
		splitter: splitter,
		logger:   logger,
	}
}

// Generate builds the file for cfg
func (g *Generator) Generate(cfg GenConfig) (*jen.File, error) {
	if cfg.Package == "" {
		return nil, NewTypeError(ErrMsgCodegenEmptyPackage, "")
	}
	name := exportName(cfg.Name)
	if name == "" || !token.IsIdentifier(name) {
		return nil, NewTypeError(ErrMsgCodegenEmptyName, cfg.Name)
	}

	g.logger.Debug(LogMsgCodegenStart,
		zap.String(LogFieldName, name),
		zap.String(LogFieldPackage, cfg.Package))

	tmpl := g.splitter.Split(cfg.Template)
	if len(cfg.Types) != tmpl.Placeholders {
		return nil, NewTypeError(ErrMsgCodegenArity,
			fmt.Sprintf("%d != %d", len(cfg.Types), tmpl.Placeholders))
	}

	fields, err := fieldNames(cfg.Fields, tmpl.Placeholders)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(cfg.Package)
	f.HeaderComment(GeneratedHeader)
	f.ImportName(ModulePath, ModulePackageName)

	structFields := make([]jen.Code, len(fields))
	targets := []jen.Code{jen.Id(GeneratedInputName)}
	for i, field := range fields {
		structFields[i] = jen.Id(field).Add(typeCode(cfg.Types[i]))
		targets = append(targets, jen.Op("&").Id(GeneratedValueName).Dot(field))
	}

	patternVar := lowerFirst(name) + GeneratedPatternSuf
	parseName := GeneratedParsePref + name
	mustName := GeneratedMustPref + name

	f.Commentf("%s holds the captures of %s.", name, strconv.Quote(cfg.Template))
	f.Type().Id(name).Struct(structFields...)

	f.Var().Id(patternVar).Op("=").Qual(ModulePath, "Compile").Call(jen.Lit(cfg.Template))

	f.Commentf("%s matches input against the %s template and converts each capture.", parseName, name)
	f.Func().Id(parseName).
		Params(jen.Id(GeneratedInputName).String()).
		Params(jen.Id(name), jen.Error()).
		Block(
			jen.Var().Id(GeneratedValueName).Id(name),
			jen.Err().Op(":=").Id(patternVar).Dot("Scan").Call(targets...),
			jen.Return(jen.Id(GeneratedValueName), jen.Err()),
		)

	f.Commentf("%s is like %s but panics if input does not match.", mustName, parseName)
	f.Func().Id(mustName).
		Params(jen.Id(GeneratedInputName).String()).
		Params(jen.Id(name)).
		Block(
			jen.List(jen.Id(GeneratedValueName), jen.Err()).Op(":=").Id(parseName).Call(jen.Id(GeneratedInputName)),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Panic(jen.Err()),
			),
			jen.Return(jen.Id(GeneratedValueName)),
		)

	g.logger.Debug(LogMsgCodegenEnd, zap.Int(LogFieldPlaceholders, tmpl.Placeholders))
	return f, nil
}

// Render generates cfg and writes the formatted source to w
func (g *Generator) Render(cfg GenConfig, w io.Writer) error {
	f, err := g.Generate(cfg)
	if err != nil {
		return err
	}
	return f.Render(w)
}

// typeCode returns the jennifer expression for a target type
func typeCode(def *TypeDef) jen.Code {
	if def.ImportPath != "" {
		return jen.Qual(def.ImportPath, def.GoName)
	}
	return jen.Id(def.GoName)
}

// fieldNames validates explicit names or produces Field1..FieldN
func fieldNames(names []string, n int) ([]string, error) {
	if len(names) == 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = GeneratedFieldPref + strconv.Itoa(i+1)
		}
		return out, nil
	}
	if len(names) != n {
		return nil, NewTypeError(ErrMsgCodegenFieldArity,
			fmt.Sprintf("%d != %d", len(names), n))
	}

	out := make([]string, n)
	seen := make(map[string]bool, n)
	for i, raw := range names {
		name := exportName(strings.TrimSpace(raw))
		if !token.IsIdentifier(name) {
			return nil, NewTypeError(ErrMsgCodegenInvalidField, raw)
		}
		if seen[name] {
			return nil, NewTypeError(ErrMsgCodegenDuplicateName, name)
		}
		seen[name] = true
		out[i] = name
	}
	return out, nil
}

// exportName upper-cases the first rune; "id" becomes "ID"
func exportName(s string) string {
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, "id") {
		return "ID"
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst lower-cases the first rune
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
