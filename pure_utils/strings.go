package pure_utils

import (
	"strings"
	"unicode"
)

// SanitizeFileName maps a user-provided file name to a storage-safe key segment.
// Path separators and characters outside [a-zA-Z0-9._-] are replaced by underscores,
// so the same name always maps to the same key (required for archive entry <-> blob
// mapping and for per-case duplicate detection).
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// CsvNameToDocumentName maps an extracted CSV entry name back to the original
// document name: extension swapped to .pdf, underscores restored to spaces.
func CsvNameToDocumentName(csvName string) string {
	name := strings.TrimSuffix(csvName, ".csv")
	name = strings.ReplaceAll(name, "_", " ")
	return name + ".pdf"
}
