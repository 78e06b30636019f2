// Package model holds the in-memory form of binding documents:
// classes, their ordered fields, function prototypes and per-platform
// address tables.
//
// Values are built once by the loader and read-only afterwards.
package model

import (
	"math"
	"strings"

	"github.com/teranos/bindgen/platform"
)

// Sentinel address values.
const (
	// Unresolved marks an address (or pad size) not known yet on a platform.
	Unresolved int64 = -1
	// Inline marks a function compiled inline, with no address of its own.
	Inline int64 = math.MaxInt64
)

// AddressTable maps each concrete platform to a platform number: an
// address, a byte count, or one of the sentinels.
type AddressTable struct {
	MacArm   int64 `json:"mac_arm"`
	MacIntel int64 `json:"mac_intel"`
	Windows  int64 `json:"win"`
	IOS      int64 `json:"ios"`
	Android  int64 `json:"android"`
}

// Unbound is a table with every platform unresolved.
var Unbound = Uniform(Unresolved)

// Uniform returns a table holding v on every platform.
func Uniform(v int64) AddressTable {
	return AddressTable{MacArm: v, MacIntel: v, Windows: v, IOS: v, Android: v}
}

// Get returns the value for a concrete platform.
// Composite and empty platforms are not lookup keys and yield Unresolved.
func (t AddressTable) Get(p platform.Platform) int64 {
	switch p {
	case platform.MacArm:
		return t.MacArm
	case platform.MacIntel:
		return t.MacIntel
	case platform.Windows:
		return t.Windows
	case platform.IOS:
		return t.IOS
	case platform.Android:
		return t.Android
	default:
		return Unresolved
	}
}

// With returns a copy of t with v stored for every concrete platform in p.
func (t AddressTable) With(p platform.Platform, v int64) AddressTable {
	for _, c := range p.Platforms() {
		switch c {
		case platform.MacArm:
			t.MacArm = v
		case platform.MacIntel:
			t.MacIntel = v
		case platform.Windows:
			t.Windows = v
		case platform.IOS:
			t.IOS = v
		case platform.Android:
			t.Android = v
		}
	}
	return t
}

// Type is a type descriptor as written in a binding document.
type Type struct {
	Name string
}

// Param is a single function parameter. Name may be empty.
type Param struct {
	Type Type
	Name string
}

// FunctionKind distinguishes ordinary functions from special members.
type FunctionKind int

const (
	Normal FunctionKind = iota
	Constructor
	Destructor
)

func (k FunctionKind) String() string {
	switch k {
	case Constructor:
		return "ctor"
	case Destructor:
		return "dtor"
	default:
		return "normal"
	}
}

// FunctionProto is a function signature plus its raw documentation blob.
type FunctionProto struct {
	Name      string
	Ret       Type
	Params    []Param
	IsVirtual bool
	IsStatic  bool
	IsConst   bool
	Kind      FunctionKind
	Docs      string
}

// Function is a free-standing global function.
type Function struct {
	Prototype FunctionProto
	Binds     AddressTable
	Platforms platform.Platform
}

// Class is one declared class. Field order mirrors memory
// layout and is never changed.
type Class struct {
	Name         string
	Superclasses []string
	Fields       []Field
	Depends      []string
}

// Root is the merged content of one or more binding documents.
type Root struct {
	// Requires is an optional semver constraint on the generator version.
	Requires  string
	Classes   []Class
	Functions []Function
}

// Merge appends other's classes and functions after r's.
// The first non-empty Requires wins.
func (r *Root) Merge(other *Root) {
	if r.Requires == "" {
		r.Requires = other.Requires
	}
	r.Classes = append(r.Classes, other.Classes...)
	r.Functions = append(r.Functions, other.Functions...)
}

// RawDocs wraps plain documentation text in the raw blob shape the binding
// language parser produces: a leading newline, every line indented by eight
// spaces, closed by the comment terminator.
func RawDocs(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("        ")
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteString("\n")
	}
	sb.WriteString("   */")
	return sb.String()
}
