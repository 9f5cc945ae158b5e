package listings

import "regexp"

// The provider emits Python-style NaN, both quoted and bare, where a null is
// meant. These patterns only match a value position: after ':' for the first
// property in an object or after ',' for later ones and array elements.
var (
	quotedNaNAfterColon = regexp.MustCompile(`:\s*"nan"`)
	quotedNaNAfterComma = regexp.MustCompile(`,\s*"nan"`)
	bareNaNAfterColon   = regexp.MustCompile(`:\s*NaN`)
	bareNaNAfterComma   = regexp.MustCompile(`,\s*NaN`)
)

var (
	colonNull = []byte(": null")
	commaNull = []byte(", null")
)

// Repair rewrites "nan" and NaN value tokens to null so the payload decodes as
// standard JSON. It is a lexical pass and assumes those tokens never occur
// inside legitimate string content.
func Repair(body []byte) []byte {
	out := quotedNaNAfterColon.ReplaceAll(body, colonNull)
	out = quotedNaNAfterComma.ReplaceAll(out, commaNull)
	out = bareNaNAfterColon.ReplaceAll(out, colonNull)
	out = bareNaNAfterComma.ReplaceAll(out, commaNull)
	return out
}
