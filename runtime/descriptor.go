// Package runtime is the streaming validator and parser shipped
// alongside code generated from an XSD. It has no dependency on the
// xsd package that produced the descriptor tables it consumes: a
// generated package imports only runtime, so consumers can parse
// their domain XML without the schema being present at run time.
package runtime

import "encoding/xml"

// Flags are boolean properties of an ElementInfo.
type Flags uint32

const (
	// ReadText marks an element that captures character data between
	// its tags into an accumulating text field.
	ReadText Flags = 1 << iota
	// SkipProcessContents marks an element whose entire subtree is
	// captured verbatim as text, with no recursive parsing.
	SkipProcessContents
	// AnyAttribute marks an element that forwards unrecognized
	// attributes to AnyAttributeSink rather than rejecting them.
	AnyAttribute
)

// Has reports whether bit is set in f.
func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// GetField returns a pointer or appendable handle for one element's
// or attribute's field on a parent record, given the parent.
type GetField func(parent interface{}) interface{}

// SetValue coerces and stores a single attribute or text value onto
// the object returned by a GetField call.
type SetValue func(dst interface{}, pos Position, value string) error

// SetDefault assigns a field's default value when the corresponding
// attribute was absent from the document.
type SetDefault func(dst interface{})

// AddText appends captured character data to an element's text
// field.
type AddText func(dst interface{}, text string)

// SetAnyAttribute records an attribute not named in the owning
// type's attribute table, for types with the AnyAttribute flag set.
type SetAnyAttribute func(dst interface{}, name xml.Name, value string) error

// ChildElementInfo describes one child element slot: the element
// local name the parser matches against, how to reach the field that
// stores its value(s), and its occurrence bounds. MaxOccurs == 0
// means unbounded.
//
// Exactly one of Info and SetValue is set. Info describes a child
// that is itself a record (another ElementInfo) and is parsed
// recursively. SetValue is set instead when the child's content is a
// bare scalar value with no attributes or children of its own; the
// parser reads its text and calls SetValue directly on the handle
// GetField returned, bypassing recursive descent entirely.
type ChildElementInfo struct {
	LocalName string
	GetField  GetField
	Info      *ElementInfo
	SetValue  SetValue
	MinOccurs uint32
	MaxOccurs uint32
}

// AttributeInfo describes one attribute slot. SetValue and
// SetDefault both operate directly on the owning element's record;
// unlike ChildElementInfo there is no separate field accessor, since
// an attribute's generated setter closure already captures its field.
type AttributeInfo struct {
	LocalName   string
	SetValue    SetValue
	IsMandatory bool
	SetDefault  SetDefault
}

// ElementInfo is the per-type descriptor the parser walks to
// validate and populate one generated record. At most 64 Attributes
// are supported per inheritance chain: the parser tracks which have
// been seen with a single uint64 bitmap.
type ElementInfo struct {
	Flags                  Flags
	AddText                AddText
	Children               []ChildElementInfo
	MandatoryChildrenCount int
	Attributes             []AttributeInfo
	Base                   *ElementInfo
	AnyAttributeSink       SetAnyAttribute
}
