package runtime

import "embed"

// Source embeds this package's own source tree so that cmd/xsdc can
// copy a standalone runtime alongside each package it generates,
// without the generated code depending on the xsdc module at build
// time. parser_test.go is left out deliberately: compiled output has
// no use for it.
//
//go:embed coerce.go descriptor.go embed.go errors.go parser.go tokenizer.go
var Source embed.FS
