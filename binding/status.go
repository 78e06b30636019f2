// Package binding decides, per platform, whether a function is bound to a
// known address, still needs reverse engineering, or is compiled inline.
package binding

import (
	"fmt"
	"strings"

	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/platform"
)

// Status is the binding state of an entity on one platform.
type Status int

const (
	// NotApplicable: the entity does not exist on the platform
	NotApplicable Status = iota
	// Missing: the entity has no usable value on any platform and is dropped
	Missing
	// NeedsBinding: the address on this platform is still unresolved
	NeedsBinding
	// Binded: a real address is known
	Binded
	// Inlined: the body lives elsewhere and has no address of its own
	Inlined
)

func (s Status) String() string {
	switch s {
	case NotApplicable:
		return "not-applicable"
	case Missing:
		return "missing"
	case NeedsBinding:
		return "needs-binding"
	case Binded:
		return "binded"
	case Inlined:
		return "inlined"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ForPlatform classifies a single table column.
// It never returns Missing; that is an entity-level verdict.
func ForPlatform(binds model.AddressTable, applicable, p platform.Platform) Status {
	if !applicable.Has(p) {
		return NotApplicable
	}
	switch v := binds.Get(p); {
	case v < 0:
		return NeedsBinding
	case v == model.Inline:
		return Inlined
	default:
		return Binded
	}
}

// IsMissing reports whether no applicable platform has a non-negative
// value. Entities with no applicable platform at all are missing too.
func IsMissing(binds model.AddressTable, applicable platform.Platform) bool {
	for _, p := range applicable.Platforms() {
		if binds.Get(p) >= 0 {
			return false
		}
	}
	return true
}

// Resolution is the resolved status of one entity across all platforms.
type Resolution struct {
	Missing bool

	binds      model.AddressTable
	applicable platform.Platform
}

// Resolve computes the entity's resolution.
func Resolve(binds model.AddressTable, applicable platform.Platform) Resolution {
	return Resolution{
		Missing:    IsMissing(binds, applicable),
		binds:      binds,
		applicable: applicable,
	}
}

// Status returns p's status; every platform of a missing entity is Missing.
func (r Resolution) Status(p platform.Platform) Status {
	if r.Missing {
		return Missing
	}
	return ForPlatform(r.binds, r.applicable, p)
}

// Entity is the status used for inclusion decisions when generating for
// target: Missing for a missing entity, else the target's own status.
func (r Resolution) Entity(target platform.Platform) Status {
	return r.Status(target)
}

// Value returns the raw platform number for p.
func (r Resolution) Value(p platform.Platform) int64 {
	return r.binds.Get(p)
}

// Line is one per-platform documentation note.
type Line struct {
	Platform platform.Platform
	Status   Status
	Value    int64
}

// String renders the note text without comment decoration.
func (l Line) String() string {
	switch l.Status {
	case NeedsBinding:
		return fmt.Sprintf("%s: 0x%x", l.Platform.DisplayName(), l.Value)
	case Inlined:
		return l.Platform.DisplayName() + ": Out of line"
	default:
		return l.Platform.DisplayName()
	}
}

// Lines returns one note per platform whose status is neither
// NotApplicable nor Missing, in fixed platform order.
func (r Resolution) Lines() []Line {
	var lines []Line
	for _, p := range platform.Concrete {
		switch s := r.Status(p); s {
		case NeedsBinding, Binded, Inlined:
			lines = append(lines, Line{Platform: p, Status: s, Value: r.binds.Get(p)})
		}
	}
	return lines
}

// AddressDocs renders Lines as documentation comment lines.
func (r Resolution) AddressDocs() string {
	var sb strings.Builder
	for _, line := range r.Lines() {
		sb.WriteString("     * @note[short] ")
		sb.WriteString(line.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
