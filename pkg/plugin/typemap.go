package plugin

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/schema"
)

// ErrInvalidTypeMap is returned when a type-map file fails schema validation.
var ErrInvalidTypeMap = errors.New("invalid type map")

//go:embed typemap.schema.json
var typeMapSchema []byte

// TypeOverride replaces the built-in mapping of one type name.
type TypeOverride struct {
	Type     string `yaml:"type"`
	Format   string `yaml:"format"`
	Ref      string `yaml:"ref"`
	Nullable bool   `yaml:"nullable"`
}

type typeMapFile struct {
	Types map[string]TypeOverride `yaml:"types"`
}

// LoadTypeMap reads a YAML type-map file of the form
//
//	types:
//	  java.time.Duration: {type: string, format: duration}
//	  Money: {ref: Amount}
//
// and validates it against the embedded JSON schema.
func LoadTypeMap(path string) (map[string]TypeOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type map: %w", err)
	}

	return ParseTypeMap(data)
}

// ParseTypeMap parses and validates type-map YAML.
func ParseTypeMap(data []byte) (map[string]TypeOverride, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parse type map: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(typeMapSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate type map: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidTypeMap, strings.Join(msgs, "; "))
	}

	var file typeMapFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("decode type map: %w", err)
	}

	return file.Types, nil
}

// TypeMapper maps signatures to schemas.
type TypeMapper struct {
	overrides map[string]TypeOverride
}

// NewTypeMapper returns a mapper applying overrides before the built-in table.
func NewTypeMapper(overrides map[string]TypeOverride) *TypeMapper {
	return &TypeMapper{overrides: overrides}
}

const langGo = "Go"

type builtin struct {
	typ    string
	format string
}

var scalarTypes = map[string]builtin{
	"void": {}, "Void": {},

	"byte": {schema.TypeInteger, "int32"}, "Byte": {schema.TypeInteger, "int32"},
	"short": {schema.TypeInteger, "int32"}, "Short": {schema.TypeInteger, "int32"},
	"int": {schema.TypeInteger, "int32"}, "Integer": {schema.TypeInteger, "int32"},
	"long": {schema.TypeInteger, "int64"}, "Long": {schema.TypeInteger, "int64"},
	"BigInteger": {schema.TypeInteger, ""},
	"int8": {schema.TypeInteger, "int32"}, "int16": {schema.TypeInteger, "int32"},
	"int32": {schema.TypeInteger, "int32"}, "int64": {schema.TypeInteger, "int64"},
	"uint": {schema.TypeInteger, "int64"}, "uint8": {schema.TypeInteger, "int32"},
	"uint16": {schema.TypeInteger, "int32"}, "uint32": {schema.TypeInteger, "int64"},
	"uint64": {schema.TypeInteger, "int64"},

	"float": {schema.TypeNumber, "float"}, "Float": {schema.TypeNumber, "float"},
	"double": {schema.TypeNumber, "double"}, "Double": {schema.TypeNumber, "double"},
	"float32": {schema.TypeNumber, "float"}, "float64": {schema.TypeNumber, "double"},
	"BigDecimal": {schema.TypeNumber, ""},

	"boolean": {schema.TypeBoolean, ""}, "Boolean": {schema.TypeBoolean, ""},
	"bool": {schema.TypeBoolean, ""},

	"char": {schema.TypeString, ""}, "Character": {schema.TypeString, ""},
	"String": {schema.TypeString, ""}, "CharSequence": {schema.TypeString, ""},
	"string": {schema.TypeString, ""}, "rune": {schema.TypeString, ""},
	"UUID": {schema.TypeString, "uuid"},
	"LocalDate": {schema.TypeString, "date"}, "LocalTime": {schema.TypeString, "time"},
	"LocalDateTime": {schema.TypeString, "date-time"}, "Instant": {schema.TypeString, "date-time"},
	"ZonedDateTime": {schema.TypeString, "date-time"}, "OffsetDateTime": {schema.TypeString, "date-time"},
	"Date": {schema.TypeString, "date-time"}, "time.Time": {schema.TypeString, "date-time"},
	"time.Duration": {schema.TypeInteger, "int64"},

	"Object": {schema.TypeObject, ""}, "any": {schema.TypeObject, ""},
	"object": {schema.TypeObject, ""}, "interface{}": {schema.TypeObject, ""},
}

var collectionTypes = map[string]bool{
	"List": true, "ArrayList": true, "LinkedList": true, "Set": true, "HashSet": true,
	"LinkedHashSet": true, "TreeSet": true, "SortedSet": true, "Collection": true,
	"Iterable": true, "Stream": true, "Flux": true,
}

var mapTypes = map[string]bool{
	"Map": true, "HashMap": true, "LinkedHashMap": true, "TreeMap": true, "SortedMap": true, "map": true,
}

var optionalTypes = map[string]bool{
	"Optional": true, "Mono": true, "CompletableFuture": true,
}

// Map returns the schema for sig. Nullability of sig itself is left to the
// nullability plugin; Optional wrappers mark their content nullable.
func (m *TypeMapper) Map(sig *model.Signature) schema.Schema {
	if sig == nil {
		return schema.Schema{}
	}

	if sig.Array {
		elem := *sig
		elem.Array = false
		elem.Pointer = false
		items := m.Map(&elem)

		// []byte and byte[] are opaque binary payloads.
		if items.Type == schema.TypeInteger && (sig.Name == "byte" || sig.Name == "uint8") {
			return schema.Schema{Type: schema.TypeString, Format: "byte"}
		}

		return schema.Schema{Type: schema.TypeArray, Items: &items}
	}

	if ov, ok := m.override(sig.Name); ok {
		return ov
	}

	name := sig.Name
	simple := sig.SimpleName()

	switch {
	case collectionTypes[simple]:
		items := m.Map(arg(sig, 0))

		return schema.Schema{Type: schema.TypeArray, Items: &items}
	case mapTypes[simple]:
		values := m.Map(arg(sig, 1))

		return schema.Schema{Type: schema.TypeObject, AdditionalProperties: &values}
	case optionalTypes[simple]:
		inner := m.Map(arg(sig, 0))
		inner.Nullable = simple == "Optional" || inner.Nullable

		return inner
	}

	if sig.Language == langGo && (name == "int" || name == "uint") {
		return schema.Schema{Type: schema.TypeInteger, Format: "int64"}
	}

	if b, ok := scalarTypes[name]; ok {
		return schema.Schema{Type: b.typ, Format: b.format}
	}

	if b, ok := scalarTypes[simple]; ok && strings.HasPrefix(name, "java.") {
		return schema.Schema{Type: b.typ, Format: b.format}
	}

	return schema.Ref(name)
}

// TypeName returns the short target type name of sig: the schema type, or
// the referenced component name.
func (m *TypeMapper) TypeName(sig *model.Signature) string {
	s := m.Map(sig)
	if s.Ref != "" {
		return s.RefName()
	}

	return s.Type
}

func (m *TypeMapper) override(name string) (schema.Schema, bool) {
	if len(m.overrides) == 0 {
		return schema.Schema{}, false
	}

	ov, ok := m.overrides[name]
	if !ok {
		ov, ok = m.overrides[simpleName(name)]
	}

	if !ok {
		return schema.Schema{}, false
	}

	if ov.Ref != "" {
		s := schema.Ref(ov.Ref)
		s.Nullable = ov.Nullable

		return s, true
	}

	return schema.Schema{Type: ov.Type, Format: ov.Format, Nullable: ov.Nullable}, true
}

func arg(sig *model.Signature, idx int) *model.Signature {
	if idx < len(sig.Args) {
		return sig.Args[idx]
	}

	return &model.Signature{Name: "Object"}
}

func simpleName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}

	return name
}

// TypeMapPlugin fills TypeNode schemas and FieldNode type names.
type TypeMapPlugin struct {
	mapper *TypeMapper
}

// NewTypeMapPlugin returns the type mapping plugin.
func NewTypeMapPlugin(mapper *TypeMapper) *TypeMapPlugin {
	return &TypeMapPlugin{mapper: mapper}
}

// Name returns "typemap".
func (*TypeMapPlugin) Name() string { return NameTypeMap }

// Enter maps TypeNode and FieldNode sources; other kinds pass through.
func (p *TypeMapPlugin) Enter(_ context.Context, n node.Any, _ Lookup) (node.Any, error) {
	switch v := n.(type) {
	case node.TypeNode:
		return v.WithTarget(p.mapper.Map(v.Source())), nil
	case node.FieldNode:
		return v.WithTarget(p.mapper.TypeName(v.Source().Type)), nil
	default:
		return n, nil
	}
}
