package runtime

import (
	"strconv"
	"strings"
)

// SetString stores value unchanged.
func SetString(dst *string, pos Position, value string) error {
	*dst = value
	return nil
}

// SetBool coerces "true"/"1" and "false"/"0".
func SetBool(dst *bool, pos Position, value string) error {
	switch strings.TrimSpace(value) {
	case "true", "1":
		*dst = true
		return nil
	case "false", "0":
		*dst = false
		return nil
	}
	return &VerificationError{Pos: pos, Msg: "expected boolean value"}
}

// SetInt64 parses a base-10 signed 64-bit integer.
func SetInt64(dst *int64, pos Position, value string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected signed 64-bit integer value"}
	}
	*dst = n
	return nil
}

// SetInt32 parses a base-10 signed 32-bit integer.
func SetInt32(dst *int32, pos Position, value string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected signed 32-bit integer value"}
	}
	*dst = int32(n)
	return nil
}

// SetInt16 parses a base-10 signed 16-bit integer.
func SetInt16(dst *int16, pos Position, value string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 16)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected signed 16-bit integer value"}
	}
	*dst = int16(n)
	return nil
}

// SetUint64 parses a base-10 unsigned 64-bit integer.
func SetUint64(dst *uint64, pos Position, value string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected unsigned 64-bit integer value"}
	}
	*dst = n
	return nil
}

// SetUint32 parses a base-10 unsigned 32-bit integer.
func SetUint32(dst *uint32, pos Position, value string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected unsigned 32-bit integer value"}
	}
	*dst = uint32(n)
	return nil
}

// SetUint16 parses a base-10 unsigned 16-bit integer.
func SetUint16(dst *uint16, pos Position, value string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected unsigned 16-bit integer value"}
	}
	*dst = uint16(n)
	return nil
}

// SetFloat32 parses a 32-bit floating point value.
func SetFloat32(dst *float32, pos Position, value string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected floating point value"}
	}
	*dst = float32(n)
	return nil
}

// SetDouble parses a 64-bit floating point value, used for both
// xs:double and xs:decimal.
func SetDouble(dst *float64, pos Position, value string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return &VerificationError{Pos: pos, Msg: "expected double precision floating point value"}
	}
	*dst = n
	return nil
}

// ParseEnum returns the index of value within values, the coercion
// used for xs:enumeration-restricted simple types.
func ParseEnum(values []string, pos Position, value string) (int, error) {
	for i, v := range values {
		if v == value {
			return i, nil
		}
	}
	return 0, &VerificationError{Pos: pos, Msg: "unexpected enumeration value " + strconv.Quote(value)}
}

// ParseList splits a list-typed attribute or element's text on
// whitespace, discarding empty tokens, per xs:list item separation.
func ParseList(value string) []string {
	return strings.Fields(value)
}
