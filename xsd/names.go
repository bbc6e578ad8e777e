package xsd

import "strconv"

// parseOccurs parses a minOccurs/maxOccurs attribute value. The empty
// string means the XSD default of 1. "unbounded" is represented as 0,
// matching the MaxOccurs == 0 "unbounded" convention used throughout
// the Type Graph.
func parseOccurs(s string, def uint32) uint32 {
	switch s {
	case "":
		return def
	case "unbounded":
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		stop("invalid occurs value " + strconv.Quote(s))
	}
	return uint32(n)
}

func parseBoolAttr(s string) bool {
	switch s {
	case "", "0", "false":
		return false
	case "1", "true":
		return true
	}
	stop("invalid boolean value " + strconv.Quote(s))
	return false
}
