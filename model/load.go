package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/platform"
)

// Format is the serialization of a binding document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidSpecError("unsupported file extension %q", filepath.Ext(path)),
			"use .yaml, .yml, .toml or .json")
	}
}

// document is the on-disk shape of a binding spec.
type document struct {
	Requires  string        `yaml:"requires" toml:"requires" json:"requires"`
	Functions []functionDoc `yaml:"functions" toml:"functions" json:"functions" validate:"dive"`
	Classes   []classDoc    `yaml:"classes" toml:"classes" json:"classes" validate:"dive"`
}

type classDoc struct {
	Name    string     `yaml:"name" toml:"name" json:"name" validate:"required"`
	Bases   []string   `yaml:"bases" toml:"bases" json:"bases" validate:"dive,required"`
	Depends []string   `yaml:"depends" toml:"depends" json:"depends" validate:"dive,required"`
	Fields  []fieldDoc `yaml:"fields" toml:"fields" json:"fields" validate:"dive"`
}

// fieldDoc must set exactly one of its members.
type fieldDoc struct {
	Inline   *string        `yaml:"inline" toml:"inline" json:"inline"`
	Member   *memberDoc     `yaml:"member" toml:"member" json:"member"`
	Pad      map[string]any `yaml:"pad" toml:"pad" json:"pad"`
	Function *functionDoc   `yaml:"function" toml:"function" json:"function"`
}

type memberDoc struct {
	Type      string   `yaml:"type" toml:"type" json:"type" validate:"required"`
	Name      string   `yaml:"name" toml:"name" json:"name" validate:"required"`
	Count     int      `yaml:"count" toml:"count" json:"count" validate:"gte=0"`
	Platforms []string `yaml:"platforms" toml:"platforms" json:"platforms"`
}

type functionDoc struct {
	Name      string         `yaml:"name" toml:"name" json:"name" validate:"required"`
	Return    string         `yaml:"return" toml:"return" json:"return"`
	Params    []paramDoc     `yaml:"params" toml:"params" json:"params" validate:"dive"`
	Kind      string         `yaml:"kind" toml:"kind" json:"kind" validate:"omitempty,oneof=normal ctor dtor constructor destructor"`
	Virtual   bool           `yaml:"virtual" toml:"virtual" json:"virtual"`
	Static    bool           `yaml:"static" toml:"static" json:"static"`
	Const     bool           `yaml:"const" toml:"const" json:"const"`
	Docs      string         `yaml:"docs" toml:"docs" json:"docs"`
	Platforms []string       `yaml:"platforms" toml:"platforms" json:"platforms"`
	Binds     map[string]any `yaml:"binds" toml:"binds" json:"binds"`
}

type paramDoc struct {
	Type string `yaml:"type" toml:"type" json:"type" validate:"required"`
	Name string `yaml:"name" toml:"name" json:"name"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report document keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Load reads a single binding document.
func Load(path string) (*Root, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	root, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return root, nil
}

// LoadAll reads every document and merges them in the given order.
func LoadAll(paths []string) (*Root, error) {
	root := &Root{}
	for _, path := range paths {
		r, err := Load(path)
		if err != nil {
			return nil, err
		}
		root.Merge(r)
	}
	return root, nil
}

// Decode parses a binding document in the given format.
func Decode(data []byte, format Format) (*Root, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.WithStack(errors.ErrInvalidSpec), err.Error())
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.WithStack(errors.ErrInvalidSpec), err.Error())
		}
	case FormatJSON:
		// Numbers stay json.Number so 64-bit addresses are not rounded
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.WithStack(errors.ErrInvalidSpec), err.Error())
		}
	default:
		return nil, errors.NewInvalidSpecError("unknown format %q", format)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, validationError(err)
	}
	return doc.toRoot()
}

func validationError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.Wrap(errors.ErrInvalidSpec, err.Error())
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
	}
	return errors.NewInvalidSpecError("%s", strings.Join(messages, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func (d *document) toRoot() (*Root, error) {
	root := &Root{Requires: strings.TrimSpace(d.Requires)}

	for i := range d.Functions {
		fn, err := d.Functions[i].toFunction()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", d.Functions[i].Name)
		}
		root.Functions = append(root.Functions, fn)
	}

	for i := range d.Classes {
		cls, err := d.Classes[i].toClass()
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", d.Classes[i].Name)
		}
		root.Classes = append(root.Classes, cls)
	}
	return root, nil
}

func (c *classDoc) toClass() (Class, error) {
	cls := Class{
		Name:         c.Name,
		Superclasses: c.Bases,
		Depends:      c.Depends,
		Fields:       make([]Field, 0, len(c.Fields)),
	}
	for i := range c.Fields {
		field, err := c.Fields[i].toField()
		if err != nil {
			return Class{}, errors.Wrapf(err, "field %d", i)
		}
		cls.Fields = append(cls.Fields, field)
	}
	return cls, nil
}

func (f *fieldDoc) toField() (Field, error) {
	set := 0
	if f.Inline != nil {
		set++
	}
	if f.Member != nil {
		set++
	}
	if f.Pad != nil {
		set++
	}
	if f.Function != nil {
		set++
	}
	if set != 1 {
		return nil, errors.WithHint(
			errors.NewInvalidSpecError("field sets %d of inline/member/pad/function", set),
			"each field entry needs exactly one kind")
	}

	switch {
	case f.Inline != nil:
		return &InlineField{Inner: *f.Inline}, nil

	case f.Member != nil:
		platforms, err := platform.ParseSet(f.Member.Platforms)
		if err != nil {
			return nil, err
		}
		return &MemberField{
			Type:      Type{Name: f.Member.Type},
			Name:      f.Member.Name,
			Count:     f.Member.Count,
			Platforms: platforms,
		}, nil

	case f.Pad != nil:
		amount, err := parseTable(f.Pad)
		if err != nil {
			return nil, errors.Wrap(err, "pad")
		}
		return &PadField{Amount: amount}, nil

	default:
		fn, err := f.Function.toFunction()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", f.Function.Name)
		}
		return &FunctionBindField{Prototype: fn.Prototype, Binds: fn.Binds, Platforms: fn.Platforms}, nil
	}
}

func (f *functionDoc) toFunction() (Function, error) {
	platforms, err := platform.ParseSet(f.Platforms)
	if err != nil {
		return Function{}, err
	}
	binds, err := parseTable(f.Binds)
	if err != nil {
		return Function{}, errors.Wrap(err, "binds")
	}

	proto := FunctionProto{
		Name:      f.Name,
		Ret:       Type{Name: f.Return},
		IsVirtual: f.Virtual,
		IsStatic:  f.Static,
		IsConst:   f.Const,
		Kind:      parseKind(f.Kind),
		Docs:      RawDocs(f.Docs),
	}
	if proto.Kind == Normal && proto.Ret.Name == "" {
		proto.Ret.Name = "void"
	}
	for _, p := range f.Params {
		proto.Params = append(proto.Params, Param{Type: Type{Name: p.Type}, Name: p.Name})
	}
	return Function{Prototype: proto, Binds: binds, Platforms: platforms}, nil
}

func parseKind(s string) FunctionKind {
	switch s {
	case "ctor", "constructor":
		return Constructor
	case "dtor", "destructor":
		return Destructor
	default:
		return Normal
	}
}

// parseTable builds an address table. Unlisted platforms stay Unresolved.
// Composite keys apply first so that a concrete key can override them.
func parseTable(raw map[string]any) (AddressTable, error) {
	type entry struct {
		p platform.Platform
		v int64
	}
	entries := make([]entry, 0, len(raw))
	for key, value := range raw {
		p, err := platform.Parse(key)
		if err != nil {
			return Unbound, err
		}
		v, err := parseAddress(value)
		if err != nil {
			return Unbound, errors.Wrapf(err, "platform %s", key)
		}
		entries = append(entries, entry{p: p, v: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := len(entries[i].p.Platforms()), len(entries[j].p.Platforms())
		if ni != nj {
			return ni > nj
		}
		return entries[i].p < entries[j].p
	})

	table := Unbound
	for _, e := range entries {
		table = table.With(e.p, e.v)
	}
	return table, nil
}

// parseAddress accepts integers, hex or decimal strings, "inline" and "?".
// Any negative number means unresolved. A number equal to the Inline
// sentinel is rejected; write "inline" instead.
func parseAddress(value any) (int64, error) {
	var n int64
	switch v := value.(type) {
	case nil:
		return Unresolved, nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			return 0, errors.NewInvalidSpecError("address %d out of range", v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.NewInvalidSpecError("address %v is not an integer", v)
		}
		// 2^63 is the first float64 outside int64
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, errors.NewInvalidSpecError("address %v out of range", v)
		}
		n = int64(v)
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, errors.NewInvalidSpecError("address %s is not an integer in range", v.String())
		}
		n = parsed
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "inline":
			return Inline, nil
		case "?", "unknown", "":
			return Unresolved, nil
		}
		parsed, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, errors.NewInvalidSpecError("address %q is not a number", v)
		}
		n = parsed
	default:
		return 0, errors.NewInvalidSpecError("address has unsupported type %T", value)
	}
	if n == Inline {
		return 0, errors.WithHint(
			errors.NewInvalidSpecError("address %#x is reserved", n),
			`use "inline" for functions without an address`)
	}
	if n < 0 {
		return Unresolved, nil
	}
	return n, nil
}
