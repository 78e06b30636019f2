// Package decl renders single declarations of a generated header:
// member functions, constructors and destructors, data members, padding
// reservations and verbatim text.
//
// Each declaration shape has its own builder so that qualifiers, spacing
// and documentation blocks are produced in one place.
package decl

import (
	"strconv"
	"strings"

	"github.com/teranos/bindgen/model"
)

const indent = "    "

// Decl is any renderable declaration.
type Decl interface {
	Render() string
}

// Function is an ordinary function declaration.
type Function struct {
	Docs        string // reflowed documentation, see Docs
	AddressDocs string // per-platform note lines
	Static      bool
	Virtual     bool
	Const       bool
	Return      string
	Name        string
	Params      []model.Param
}

// Render produces a blank line, the documentation block and the prototype.
func (f Function) Render() string {
	var sb strings.Builder
	writeDocBlock(&sb, f.Docs, f.AddressDocs)

	sb.WriteString(indent)
	if f.Static {
		sb.WriteString("static ")
	}
	if f.Virtual {
		sb.WriteString("virtual ")
	}
	sb.WriteString(f.Return)
	sb.WriteString(" ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	sb.WriteString(Parameters(f.Params))
	sb.WriteString(")")
	if f.Const {
		sb.WriteString(" const")
	}
	sb.WriteString(";\n")
	return sb.String()
}

// Structor is a constructor or destructor declaration: no return type, and
// Name is the class name (prefixed with ~ for destructors).
type Structor struct {
	Docs        string
	AddressDocs string
	Virtual     bool
	Name        string
	Params      []model.Param
}

func (s Structor) Render() string {
	var sb strings.Builder
	writeDocBlock(&sb, s.Docs, s.AddressDocs)

	sb.WriteString(indent)
	if s.Virtual {
		sb.WriteString("virtual ")
	}
	sb.WriteString(s.Name)
	sb.WriteString("(")
	sb.WriteString(Parameters(s.Params))
	sb.WriteString(");\n")
	return sb.String()
}

func writeDocBlock(sb *strings.Builder, docs, addressDocs string) {
	sb.WriteString("\n")
	sb.WriteString(indent + "/**\n")
	sb.WriteString(docs)
	sb.WriteString(addressDocs)
	sb.WriteString(indent + " */\n")
}

// Member is a data member. Private wraps it in its own private section and
// reopens public access right after.
type Member struct {
	Type    string
	Name    string
	Count   int
	Private bool
}

func (m Member) Render() string {
	var sb strings.Builder
	if m.Private {
		sb.WriteString("private:\n")
	}
	sb.WriteString(indent)
	sb.WriteString(m.Type)
	sb.WriteString(" ")
	sb.WriteString(m.Name)
	if m.Count > 0 {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(m.Count))
		sb.WriteString("]")
	}
	sb.WriteString(";")
	if m.Private {
		sb.WriteString("\npublic:")
	}
	sb.WriteString("\n")
	return sb.String()
}

// Pad reserves Bytes bytes of layout.
type Pad struct {
	Bytes int64
}

func (p Pad) Render() string {
	return indent + "GEODE_PAD(" + strconv.FormatInt(p.Bytes, 10) + ");\n"
}

// NoPadding notes that a pad field needs no bytes on the target platform.
type NoPadding struct{}

func (NoPadding) Render() string {
	return indent + "// no padding\n"
}

// Inline is hand-written text copied verbatim.
type Inline struct {
	Text string
}

func (i Inline) Render() string {
	return "\t" + i.Text + "\n"
}

// ForPrototype picks the declaration shape for a prototype. className is
// the enclosing class, empty for free functions.
func ForPrototype(proto model.FunctionProto, className, addressDocs string) Decl {
	docs := Docs(proto.Docs)
	switch proto.Kind {
	case model.Constructor:
		return Structor{
			Docs:        docs,
			AddressDocs: addressDocs,
			Name:        structorName(proto, className),
			Params:      proto.Params,
		}
	case model.Destructor:
		return Structor{
			Docs:        docs,
			AddressDocs: addressDocs,
			Virtual:     proto.IsVirtual,
			Name:        "~" + structorName(proto, className),
		}
	default:
		return Function{
			Docs:        docs,
			AddressDocs: addressDocs,
			Static:      proto.IsStatic,
			Virtual:     proto.IsVirtual,
			Const:       proto.IsConst,
			Return:      proto.Ret.Name,
			Name:        proto.Name,
			Params:      proto.Params,
		}
	}
}

func structorName(proto model.FunctionProto, className string) string {
	if className == "" {
		return strings.TrimPrefix(proto.Name, "~")
	}
	return UnqualifiedName(className)
}

// UnqualifiedName strips any namespace qualification from a class name.
func UnqualifiedName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// Parameters renders a parameter list without the surrounding parentheses.
func Parameters(params []model.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name == "" {
			parts[i] = p.Type.Name
		} else {
			parts[i] = p.Type.Name + " " + p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// Docs reflows a raw documentation blob into comment body lines.
// Blobs too short to hold any text degrade to no documentation.
func Docs(raw string) string {
	if len(raw) < 7 {
		return ""
	}
	body := raw[1 : len(raw)-5]
	return strings.ReplaceAll(body, "        ", "     * ")
}
