package emitter

import (
	"encoding/xml"
	"strings"
	"unicode"

	"aqwari.net/xsdc/internal/gen"
)

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// builtinGoType maps a built-in XSD scalar straight to its Go
// representation, bypassing the generated-type machinery entirely.
// Every other Qualified Name gets its own declaration.
var builtinGoType = map[string]string{
	"int32":   "int32",
	"int64":   "int64",
	"int16":   "int16",
	"uint32":  "uint32",
	"uint64":  "uint64",
	"uint16":  "uint16",
	"double":  "float64",
	"float32": "float32",
	"boolean": "bool",
}

// exportedName turns an XSD local name into an exported Go
// identifier: split on the usual XML-ish word separators, title-case
// each piece, and run the result through gen.Sanitize so it can never
// collide with a Go keyword.
func exportedName(local string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range local {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ':':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return gen.Sanitize(b.String())
}

// typeIdent is the declared Go type name for an XSD type that isn't
// a bare built-in scalar.
func typeIdent(name xml.Name) string {
	local := strings.TrimSuffix(name.Local, "_t")
	return exportedName(local) + "Type"
}
