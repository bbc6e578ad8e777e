// Package xsd loads and resolves XML Schema documents into a flat,
// canonical Type Graph: every reference resolved, every anonymous type
// named, every substitution group materialized. It does not validate
// XML documents; see the aqwari.net/xsdc/runtime package for the
// streaming validator/parser that is emitted alongside generated code.
package xsd // import "aqwari.net/xsdc/xsd"

import "encoding/xml"

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// xmlNamespace is the well-known, schema-less namespace that carries
// xml:lang, xml:space, xml:base and xml:id.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Kind identifies what shape of XSD type a Type describes.
type Kind int

const (
	// Base is a built-in numeric or boolean scalar, identified by
	// BaseName (e.g. "int32", "double", "boolean").
	Base Kind = iota
	// String is a built-in textual scalar.
	String
	// SimpleRef is an alias for another simple type, named by BaseType.
	SimpleRef
	// Enum is a string restricted to a closed set of EnumValues.
	Enum
	// Union is one of several simple types, named in MemberTypes.
	Union
	// List is a whitespace-separated sequence of ItemType.
	List
	// Element is a complex type: a record of Attributes and Elements.
	Element
	// SubstitutionGroup is a tagged union of Element alternatives.
	SubstitutionGroup
)

func (k Kind) String() string {
	switch k {
	case Base:
		return "Base"
	case String:
		return "String"
	case SimpleRef:
		return "SimpleRef"
	case Enum:
		return "Enum"
	case Union:
		return "Union"
	case List:
		return "List"
	case Element:
		return "Element"
	case SubstitutionGroup:
		return "SubstitutionGroup"
	}
	return "Kind(?)"
}

// Flags are boolean properties of an Element-kind Type.
type Flags uint32

const (
	// SkipProcessContents marks a type whose descendants are opaque
	// text, captured verbatim rather than parsed.
	SkipProcessContents Flags = 1 << iota
	// AnyAttribute marks a type that tolerates unknown attributes.
	AnyAttribute
	// ReadText marks a type that captures character data, set when
	// mixed="true" or when the type's base is textual.
	ReadText
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Attribute is an attribute descriptor.
type Attribute struct {
	Name       xml.Name
	Type       xml.Name
	Mandatory  bool
	HasDefault bool
	Default    string
}

// ElementRef is a child element reference. MaxOccurs == 0 denotes
// "unbounded". RefName is the zero xml.Name when unset; when set
// during resolution it names a substitution-group head this reference
// should eventually resolve to (see substitution.go).
type ElementRef struct {
	Name      xml.Name
	Type      xml.Name
	MinOccurs uint32
	MaxOccurs uint32
	RefName   xml.Name
}

// Type is a node of the Type Graph. Which fields are meaningful
// depends on Kind; this is a single tagged struct rather than a family
// of Go types, because the Resolver needs a stable *Type identity per
// Qualified Name to support recursive and mutually-recursive XSD types
// (a type may need to be looked up again while it is still being built;
// see resolve.go's processType).
type Type struct {
	// Name is this type's own canonical Qualified Name.
	Name xml.Name
	Kind Kind

	// BaseName holds the scalar name for Kind == Base, e.g. "int32",
	// "int64", "double", "boolean".
	BaseName string

	// BaseType holds the supertype name for Kind == SimpleRef, and the
	// optional supertype for Kind == Element (HasBase reports whether
	// it is set).
	BaseType xml.Name
	HasBase  bool

	// EnumValues holds the closed value set for Kind == Enum, in
	// declaration order; duplicates are preserved, not deduplicated.
	EnumValues []string

	// MemberTypes holds the member type names for Kind == Union.
	MemberTypes []xml.Name

	// ItemType names the item type for Kind == List.
	ItemType xml.Name

	// Attributes holds the attribute descriptors for Kind == Element.
	Attributes []Attribute

	// Elements holds child element slots for Kind == Element, and
	// group members (each with MinOccurs == 0) for
	// Kind == SubstitutionGroup.
	Elements []ElementRef

	// Flags holds the boolean properties for Kind == Element.
	Flags Flags
}
