package jsonkv

import "strings"

// Extension is appended to a normalized document name to form its file.
const Extension = ".json"

// Normalize returns the canonical form of a document name: a single
// trailing ".json" is removed (trailing whitespace after it is tolerated).
// Names without the suffix are returned unchanged.
func Normalize(name string) string {
	trimmed := strings.TrimRight(name, " \t\r\n")
	if strings.HasSuffix(trimmed, Extension) {
		return strings.TrimSuffix(trimmed, Extension)
	}
	return name
}

func fileName(name string) string {
	return name + Extension
}
