package model

import "github.com/teranos/bindgen/platform"

// Field is one entry of a class body. The set of variants is closed:
// InlineField, MemberField, PadField and FunctionBindField.
//
// Consumers switch over variants by implementing FieldVisitor. Adding a
// variant adds a method to FieldVisitor, so every consumer stops compiling
// until it handles the new kind.
type Field interface {
	Accept(v FieldVisitor)
}

// FieldVisitor has one method per Field variant.
type FieldVisitor interface {
	VisitInline(f *InlineField)
	VisitMember(f *MemberField)
	VisitPad(f *PadField)
	VisitFunctionBind(f *FunctionBindField)
}

// InlineField is hand-written text emitted verbatim.
type InlineField struct {
	Inner string
}

// MemberField is a data member, declared only on Platforms.
type MemberField struct {
	Type      Type
	Name      string
	Count     int // array length, 0 for scalars
	Platforms platform.Platform
}

// PadField reserves Amount bytes per platform without a visible name.
type PadField struct {
	Amount AddressTable
}

// FunctionBindField is a member function bound per platform at Binds.
type FunctionBindField struct {
	Prototype FunctionProto
	Binds     AddressTable
	Platforms platform.Platform
}

func (f *InlineField) Accept(v FieldVisitor)       { v.VisitInline(f) }
func (f *MemberField) Accept(v FieldVisitor)       { v.VisitMember(f) }
func (f *PadField) Accept(v FieldVisitor)          { v.VisitPad(f) }
func (f *FunctionBindField) Accept(v FieldVisitor) { v.VisitFunctionBind(f) }
