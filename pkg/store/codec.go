package store

import (
	"strings"
)

// Encode joins names with Delimiter.
func Encode(names []string) []byte {
	return []byte(strings.Join(names, Delimiter))
}

// Decode splits a persisted blob and drops blank entries.
func Decode(data []byte) []string {
	parts := strings.Split(string(data), Delimiter)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
