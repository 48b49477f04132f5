// Package utils holds small string helpers shared by the command line and
// the task store.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s on sep, trimming each part and dropping empty ones.
// The result is never nil.
func SplitAndTrim(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pointerUnescaper decodes RFC 6901 escapes. ~1 must be replaced before ~0.
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// JSONPointerToPath renders a JSON Pointer as a dotted path with bracketed
// array indices: "#/2/priority" becomes "[2].priority".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		token = pointerUnescaper.Replace(token)
		switch idx, err := strconv.Atoi(token); {
		case token == "":
		case err == nil:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(idx))
			b.WriteByte(']')
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(token)
		}
	}
	return b.String()
}
