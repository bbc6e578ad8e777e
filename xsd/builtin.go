package xsd

import "encoding/xml"

// baseNumerics maps the XSD built-in numeric and boolean type local
// names to the scalar BaseName recorded on a Base-kind Type. Width and
// signedness follow each XSD type's own declared range.
var baseNumerics = map[string]string{
	"int":                "int32",
	"long":               "int64",
	"short":              "int16",
	"unsignedInt":        "uint32",
	"unsignedLong":       "uint64",
	"unsignedShort":      "uint16",
	"nonNegativeInteger": "uint64",
	"positiveInteger":    "uint64",
	"integer":            "int64",
	"decimal":            "double",
	"float":              "float32",
	"double":             "double",
	"boolean":            "boolean",
}

// builtinBaseName reports the BaseName for an XSD built-in numeric or
// boolean type in the standard schema namespace.
func builtinBaseName(name xml.Name) (string, bool) {
	if name.Space != schemaNS {
		return "", false
	}
	n, ok := baseNumerics[name.Local]
	return n, ok
}

// isXMLNamespaceAttr reports whether name is one of the well-known
// xml:-namespace attributes (lang, space, base, id), always available
// without any schema declaring them.
func isXMLNamespaceAttr(name xml.Name) bool {
	if name.Space != xmlNamespace {
		return false
	}
	switch name.Local {
	case "lang", "space", "base", "id":
		return true
	}
	return false
}
