package emitter

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"aqwari.net/xsdc/xsd"
)

func infoIdent(ident string) string {
	return lowerFirst(ident) + "Info"
}

func (cfg *Config) emitElementInfo(buf *bytes.Buffer, graph xsd.Graph, name xml.Name, t *xsd.Type, ident string) {
	info := infoIdent(ident)
	fmt.Fprintf(buf, "var %s = runtime.ElementInfo{\n", info)

	var flagTerms []string
	if t.Flags.Has(xsd.ReadText) {
		flagTerms = append(flagTerms, "runtime.ReadText")
	}
	if t.Flags.Has(xsd.SkipProcessContents) {
		flagTerms = append(flagTerms, "runtime.SkipProcessContents")
	}
	if t.Flags.Has(xsd.AnyAttribute) {
		flagTerms = append(flagTerms, "runtime.AnyAttribute")
	}
	if len(flagTerms) > 0 {
		fmt.Fprintf(buf, "\tFlags: %s,\n", joinOr(flagTerms))
	}
	if t.Flags.Has(xsd.ReadText) {
		fmt.Fprintf(buf, "\tAddText: func(dst interface{}, text string) { dst.(*%s).CharData += text },\n", ident)
	}

	if len(t.Attributes) > 0 {
		fmt.Fprintf(buf, "\tAttributes: []runtime.AttributeInfo{\n")
		for _, a := range t.Attributes {
			cfg.emitAttributeInfo(buf, graph, ident, a)
		}
		fmt.Fprintf(buf, "\t},\n")
	}

	mandatory := 0
	if len(t.Elements) > 0 {
		fmt.Fprintf(buf, "\tChildren: []runtime.ChildElementInfo{\n")
		for _, e := range t.Elements {
			if e.MinOccurs > 0 {
				mandatory++
			}
			cfg.emitChildInfo(buf, graph, ident, e)
		}
		fmt.Fprintf(buf, "\t},\n")
	}
	fmt.Fprintf(buf, "\tMandatoryChildrenCount: %d,\n", mandatory)

	if t.HasBase {
		if base := graph[t.BaseType]; base != nil && base.Kind == xsd.Element {
			fmt.Fprintf(buf, "\tBase: &%s,\n", infoIdent(typeIdent(t.BaseType)))
		}
	}
	if t.Flags.Has(xsd.AnyAttribute) {
		fmt.Fprintf(buf, "\tAnyAttributeSink: func(dst interface{}, name %s, value string) error {\n", "xml.Name")
		fmt.Fprintf(buf, "\t\tv := dst.(*%s)\n", ident)
		fmt.Fprintf(buf, "\t\tif v.OtherAttrs == nil {\n\t\t\tv.OtherAttrs = make(map[string]string)\n\t\t}\n")
		fmt.Fprintf(buf, "\t\tv.OtherAttrs[name.Local] = value\n\t\treturn nil\n\t},\n")
	}
	fmt.Fprintf(buf, "}\n\n")
}

func (cfg *Config) emitAttributeInfo(buf *bytes.Buffer, graph xsd.Graph, ident string, a xsd.Attribute) {
	field := exportedName(a.Name.Local)
	fmt.Fprintf(buf, "\t\t{\n\t\t\tLocalName: %q,\n", a.Name.Local)
	if a.Mandatory {
		fmt.Fprintf(buf, "\t\t\tIsMandatory: true,\n")
	}
	fmt.Fprintf(buf, "\t\t\tSetValue: %s,\n", cfg.setValueClosure(graph, ident, field, a.Type))
	if a.HasDefault {
		fmt.Fprintf(buf, "\t\t\tSetDefault: func(dst interface{}) {\n")
		fmt.Fprintf(buf, "\t\t\t\tv := dst.(*%s)\n", ident)
		goType := cfg.goTypeRef(graph, a.Type)
		fmt.Fprintf(buf, "\t\t\t\tv.%s = %s\n", field, defaultLiteral(goType, underlyingScalarGoType(graph, a.Type), a.Default))
		fmt.Fprintf(buf, "\t\t\t},\n")
	}
	fmt.Fprintf(buf, "\t\t},\n")
}

func (cfg *Config) emitChildInfo(buf *bytes.Buffer, graph xsd.Graph, ident string, e xsd.ElementRef) {
	field := exportedName(e.Name.Local)
	goType := cfg.goTypeRef(graph, e.Type)
	fmt.Fprintf(buf, "\t\t{\n\t\t\tLocalName: %q,\n", e.Name.Local)
	fmt.Fprintf(buf, "\t\t\tGetField: %s,\n", childGetField(ident, field, goType, e.MinOccurs, e.MaxOccurs))
	if childType := graph[e.Type]; childType != nil && (childType.Kind == xsd.Element || childType.Kind == xsd.SubstitutionGroup) {
		fmt.Fprintf(buf, "\t\t\tInfo: &%s,\n", infoIdent(typeIdent(e.Type)))
	} else {
		fmt.Fprintf(buf, "\t\t\tSetValue: %s,\n", cfg.childSetValueClosure(graph, e.Type))
	}
	fmt.Fprintf(buf, "\t\t\tMinOccurs: %d,\n\t\t\tMaxOccurs: %d,\n", e.MinOccurs, e.MaxOccurs)
	fmt.Fprintf(buf, "\t\t},\n")
}

// childSetValueClosure produces the SetValue function literal for a
// child element whose content is a bare scalar, list, or enumeration
// rather than a nested record. Unlike setValueClosure's attribute
// closures, dst here is the GetField-returned slot itself (e.g.
// *int32 or *ColorType), not the parent record, since a repeated
// scalar child's slot is a distinct slice element each time.
func (cfg *Config) childSetValueClosure(graph xsd.Graph, typeName xml.Name) string {
	goType := cfg.goTypeRef(graph, typeName)
	t := graph[typeName]

	if t != nil && t.Kind == xsd.Enum {
		values := lowerFirst(typeIdent(typeName)) + "Values"
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			if _, err := runtime.ParseEnum(%s, pos, value); err != nil {
				return err
			}
			*dst.(*%s) = %s(value)
			return nil
		}`, values, goType, goType)
	}
	if t != nil && t.Kind == xsd.List {
		itemType := cfg.goTypeRef(graph, t.ItemType)
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			items := runtime.ParseList(value)
			out := make(%s, len(items))
			for i, s := range items {
				out[i] = %s(s)
			}
			*dst.(*%s) = out
			return nil
		}`, goType, itemType, goType)
	}

	scalar := underlyingScalarGoType(graph, typeName)
	setter := scalarSetter(scalar)
	if goType == scalar {
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			return runtime.%s(dst.(*%s), pos, value)
		}`, setter, goType)
	}
	return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
		var tmp %s
		if err := runtime.%s(&tmp, pos, value); err != nil {
			return err
		}
		*dst.(*%s) = %s(tmp)
		return nil
	}`, scalar, setter, goType, goType)
}

func childGetField(ident, field, goType string, min, max uint32) string {
	switch {
	case max == 0 || max > 1:
		return fmt.Sprintf(`func(p interface{}) interface{} {
			v := p.(*%s)
			v.%s = append(v.%s, %s{})
			return &v.%s[len(v.%s)-1]
		}`, ident, field, field, goType, field, field)
	case min == 0:
		return fmt.Sprintf(`func(p interface{}) interface{} {
			v := p.(*%s)
			v.%s = new(%s)
			return v.%s
		}`, ident, field, goType, field)
	default:
		return fmt.Sprintf(`func(p interface{}) interface{} { return &p.(*%s).%s }`, ident, field)
	}
}

// setValueClosure produces the SetValue function literal for a field
// of the given declared type, dispatching through the named type's
// own Kind when it is not a bare scalar.
func (cfg *Config) setValueClosure(graph xsd.Graph, ident, field string, typeName xml.Name) string {
	goType := cfg.goTypeRef(graph, typeName)
	t := graph[typeName]

	if t != nil && t.Kind == xsd.Enum {
		values := lowerFirst(typeIdent(typeName)) + "Values"
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			if _, err := runtime.ParseEnum(%s, pos, value); err != nil {
				return err
			}
			dst.(*%s).%s = %s(value)
			return nil
		}`, values, ident, field, goType)
	}
	if t != nil && t.Kind == xsd.List {
		itemType := cfg.goTypeRef(graph, t.ItemType)
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			items := runtime.ParseList(value)
			out := make(%s, len(items))
			for i, s := range items {
				out[i] = %s(s)
			}
			dst.(*%s).%s = out
			return nil
		}`, goType, itemType, ident, field)
	}

	scalar := underlyingScalarGoType(graph, typeName)
	setter := scalarSetter(scalar)
	if goType == scalar {
		return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
			return runtime.%s(&dst.(*%s).%s, pos, value)
		}`, setter, ident, field)
	}
	return fmt.Sprintf(`func(dst interface{}, pos runtime.Position, value string) error {
		var tmp %s
		if err := runtime.%s(&tmp, pos, value); err != nil {
			return err
		}
		dst.(*%s).%s = %s(tmp)
		return nil
	}`, scalar, setter, ident, field, goType)
}

// underlyingScalarGoType walks a SimpleRef alias chain down to its
// Base or String root and returns the native Go type that represents
// it, the type the runtime's scalar setters operate on.
func underlyingScalarGoType(graph xsd.Graph, name xml.Name) string {
	t, ok := graph[name]
	if !ok {
		return "string"
	}
	switch t.Kind {
	case xsd.Base:
		if s, ok := builtinGoType[t.BaseName]; ok {
			return s
		}
		return "string"
	case xsd.SimpleRef:
		return underlyingScalarGoType(graph, t.BaseType)
	default:
		return "string"
	}
}

// scalarSetter returns the runtime setter function for a native Go
// scalar type name, as returned by underlyingScalarGoType.
func scalarSetter(goType string) string {
	switch goType {
	case "bool":
		return "SetBool"
	case "int64":
		return "SetInt64"
	case "int32":
		return "SetInt32"
	case "int16":
		return "SetInt16"
	case "uint64":
		return "SetUint64"
	case "uint32":
		return "SetUint32"
	case "uint16":
		return "SetUint16"
	case "float32":
		return "SetFloat32"
	case "float64":
		return "SetDouble"
	default:
		return "SetString"
	}
}

// defaultLiteral renders a default attribute value as a Go expression
// of type goType. scalar is goType's underlying native representation
// (equal to goType itself for bare scalars): string defaults are
// quoted, everything else is inserted as the bare schema-supplied
// literal, which xs:boolean, xs:decimal and the integer family all
// already write in valid Go numeral/bool syntax.
func defaultLiteral(goType, scalar, value string) string {
	if scalar == "string" {
		if goType == "string" {
			return fmt.Sprintf("%q", value)
		}
		return fmt.Sprintf("%s(%q)", goType, value)
	}
	if goType == scalar {
		return value
	}
	return fmt.Sprintf("%s(%s)", goType, value)
}

func joinOr(terms []string) string {
	out := terms[0]
	for _, t := range terms[1:] {
		out += " | " + t
	}
	return out
}

func (cfg *Config) emitSubstitutionInfo(buf *bytes.Buffer, graph xsd.Graph, t *xsd.Type, ident string) {
	info := infoIdent(ident)
	fmt.Fprintf(buf, "var %s = runtime.ElementInfo{\n\tChildren: []runtime.ChildElementInfo{\n", info)
	for _, e := range t.Elements {
		field := exportedName(e.Name.Local)
		goType := cfg.goTypeRef(graph, e.Type)
		fmt.Fprintf(buf, "\t\t{\n\t\t\tLocalName: %q,\n", e.Name.Local)
		fmt.Fprintf(buf, "\t\t\tGetField: func(p interface{}) interface{} {\n\t\t\t\tv := p.(*%s)\n\t\t\t\tv.%s = new(%s)\n\t\t\t\treturn v.%s\n\t\t\t},\n", ident, field, goType, field)
		if childType := graph[e.Type]; childType != nil && (childType.Kind == xsd.Element || childType.Kind == xsd.SubstitutionGroup) {
			fmt.Fprintf(buf, "\t\t\tInfo: &%s,\n", infoIdent(typeIdent(e.Type)))
		} else {
			fmt.Fprintf(buf, "\t\t\tSetValue: %s,\n", cfg.childSetValueClosure(graph, e.Type))
		}
		fmt.Fprintf(buf, "\t\t\tMinOccurs: 0,\n\t\t\tMaxOccurs: 1,\n\t\t},\n")
	}
	fmt.Fprintf(buf, "\t},\n}\n\n")
}

// emitEntryPoint exposes the document root's descriptor and a
// constructor under fixed, predictable names so callers don't need
// to know the synthetic root type's generated identifier.
func (cfg *Config) emitEntryPoint(buf *bytes.Buffer, graph xsd.Graph, root xml.Name, t *xsd.Type) {
	ident := typeIdent(root)
	cfg.emitStruct(buf, graph, root, t, ident)
	cfg.emitElementInfo(buf, graph, root, t, ident)
	fmt.Fprintf(buf, "// RootInfo is the descriptor for the document's set of valid\n// top-level elements; pass it to runtime.Parse along with NewRoot.\nvar RootInfo = &%s\n\n", infoIdent(ident))
	fmt.Fprintf(buf, "// NewRoot constructs an empty root record for runtime.Parse.\nfunc NewRoot() interface{} { return &%s{} }\n", ident)
}
