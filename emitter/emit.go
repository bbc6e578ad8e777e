package emitter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"aqwari.net/xsdc/internal/dependency"
	"aqwari.net/xsdc/internal/ordered"
	"aqwari.net/xsdc/xsd"
	"golang.org/x/tools/imports"
)

// Emit walks graph and produces a formatted Go source file declaring
// one type per entry and the runtime descriptor tables needed to
// parse documents into them. root, typically xsd.RootName(ns), names
// the synthetic type whose Elements list the document's valid
// top-level elements; its descriptor is exposed as the package-level
// RootInfo variable for callers to pass to runtime.Parse.
func (cfg *Config) Emit(graph xsd.Graph, root xml.Name) ([]byte, error) {
	pkgName := cfg.pkgName
	if pkgName == "" {
		pkgName = "generated"
	}

	if len(cfg.externalTypes) > 0 {
		ordered.RangeStrings(cfg.externalTypes, func(local string) {
			cfg.logf("substituting external type for %s", local)
		})
	}

	keyOf := make(map[string]xml.Name, len(graph))
	for name := range graph {
		keyOf[graphKey(name)] = name
	}

	var deps dependency.Graph
	for key, name := range keyOf {
		refs := typeDependencies(graph, graph[name])
		if len(refs) == 0 {
			deps.Add(key, key)
			continue
		}
		for _, ref := range refs {
			deps.Add(key, graphKey(ref))
		}
	}

	var order []string
	deps.Flatten(func(key string) { order = append(order, key) })

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)

	for _, key := range order {
		name, ok := keyOf[key]
		if !ok || name == root {
			continue
		}
		t := graph[name]
		if t == nil || isInlineScalar(t) {
			continue
		}
		cfg.emitType(&buf, graph, name, t)
	}

	if rootType, ok := graph[root]; ok {
		cfg.emitEntryPoint(&buf, graph, root, rootType)
	}

	formatted, err := imports.Process("generated.go", buf.Bytes(), nil)
	if err != nil {
		return buf.Bytes(), fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}

func graphKey(name xml.Name) string {
	return name.Space + "\x00" + name.Local
}

// isInlineScalar reports whether t is represented directly by a Go
// native type wherever it is referenced, rather than getting its own
// declaration.
func isInlineScalar(t *xsd.Type) bool {
	return t.Kind == xsd.Base || t.Kind == xsd.String
}

// typeDependencies lists the other graph types t's own declaration
// or descriptor table refers to, for ordering purposes only; Go does
// not require type declarations to precede their uses, but a
// dependency-ordered file reads the way a hand-written one would.
func typeDependencies(graph xsd.Graph, t *xsd.Type) []xml.Name {
	if t == nil {
		return nil
	}
	var refs []xml.Name
	add := func(name xml.Name) {
		if dep, ok := graph[name]; ok && !isInlineScalar(dep) && name != t.Name {
			refs = append(refs, name)
		}
	}
	if t.HasBase {
		add(t.BaseType)
	}
	if t.Kind == xsd.List {
		add(t.ItemType)
	}
	for _, m := range t.MemberTypes {
		add(m)
	}
	for _, e := range t.Elements {
		add(e.Type)
	}
	for _, a := range t.Attributes {
		add(a.Type)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Space != refs[j].Space {
			return refs[i].Space < refs[j].Space
		}
		return refs[i].Local < refs[j].Local
	})
	return refs
}

func (cfg *Config) goTypeRef(graph xsd.Graph, name xml.Name) string {
	if override, ok := cfg.externalTypes[name.Local]; ok {
		return override
	}
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
	case xsd.String:
		return "string"
	default:
		return typeIdent(name)
	}
}

func (cfg *Config) emitType(buf *bytes.Buffer, graph xsd.Graph, name xml.Name, t *xsd.Type) {
	ident := typeIdent(name)
	switch t.Kind {
	case xsd.Enum:
		fmt.Fprintf(buf, "// %s is restricted to a fixed set of string values.\ntype %s string\n\n", ident, ident)
		fmt.Fprintf(buf, "var %sValues = %s\n\n", lowerFirst(ident), goStringSlice(t.EnumValues))
		fmt.Fprintf(buf, "// String returns v's underlying enumeration value.\nfunc (v %s) String() string {\n\treturn string(v)\n}\n\n", ident)
	case xsd.Union:
		fmt.Fprintf(buf, "type %s string\n\n", ident)
	case xsd.List:
		fmt.Fprintf(buf, "type %s []%s\n\n", ident, cfg.goTypeRef(graph, t.ItemType))
	case xsd.SimpleRef:
		fmt.Fprintf(buf, "type %s %s\n\n", ident, cfg.goTypeRef(graph, t.BaseType))
	case xsd.Element:
		cfg.emitStruct(buf, graph, name, t, ident)
		cfg.emitElementInfo(buf, graph, name, t, ident)
	case xsd.SubstitutionGroup:
		cfg.emitSubstitutionStruct(buf, graph, t, ident)
		cfg.emitSubstitutionInfo(buf, graph, t, ident)
	}
}

func (cfg *Config) emitStruct(buf *bytes.Buffer, graph xsd.Graph, name xml.Name, t *xsd.Type, ident string) {
	fmt.Fprintf(buf, "type %s struct {\n", ident)
	if t.HasBase && !isInlineScalar(graph[t.BaseType]) {
		fmt.Fprintf(buf, "\t%s\n", typeIdent(t.BaseType))
	}
	for _, a := range t.Attributes {
		fmt.Fprintf(buf, "\t%s %s\n", exportedName(a.Name.Local), cfg.goTypeRef(graph, a.Type))
	}
	for _, e := range t.Elements {
		fmt.Fprintf(buf, "\t%s %s\n", exportedName(e.Name.Local), fieldType(cfg.goTypeRef(graph, e.Type), e.MinOccurs, e.MaxOccurs))
	}
	if t.Flags.Has(xsd.ReadText) {
		fmt.Fprintf(buf, "\tCharData string\n")
	}
	if t.Flags.Has(xsd.AnyAttribute) {
		fmt.Fprintf(buf, "\tOtherAttrs map[string]string\n")
	}
	fmt.Fprintf(buf, "}\n\n")
}

func (cfg *Config) emitSubstitutionStruct(buf *bytes.Buffer, graph xsd.Graph, t *xsd.Type, ident string) {
	fmt.Fprintf(buf, "// %s is a substitution group: exactly one of its\n// fields is populated by the parser for any given instance.\n", ident)
	fmt.Fprintf(buf, "type %s struct {\n", ident)
	for _, e := range t.Elements {
		fmt.Fprintf(buf, "\t%s *%s\n", exportedName(e.Name.Local), cfg.goTypeRef(graph, e.Type))
	}
	fmt.Fprintf(buf, "}\n\n")
}

func fieldType(goType string, min, max uint32) string {
	if max == 0 || max > 1 {
		return "[]" + goType
	}
	if min == 0 {
		return "*" + goType
	}
	return goType
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = toLower(r[0])
	return string(r)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func goStringSlice(values []string) string {
	var buf bytes.Buffer
	buf.WriteString("[]string{")
	for i, v := range values {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%q", v)
	}
	buf.WriteString("}")
	return buf.String()
}
