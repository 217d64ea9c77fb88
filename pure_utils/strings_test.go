package pure_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"statement jan.pdf", "statement_jan.pdf"},
		{"  trimmed.pdf  ", "trimmed.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"relevé année.pdf", "relev__ann_e.pdf"},
		{"already_safe-1.PDF", "already_safe-1.PDF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFileName(tt.in))
	}
}

func TestSanitizeFileName_isStable(t *testing.T) {
	once := SanitizeFileName("statement jan.pdf")
	assert.Equal(t, once, SanitizeFileName(once))
}

func TestCsvNameToDocumentName(t *testing.T) {
	assert.Equal(t, "statement jan.pdf", CsvNameToDocumentName("statement_jan.csv"))
	assert.Equal(t, "plain.pdf", CsvNameToDocumentName("plain.csv"))
	assert.Equal(t, "no extension.pdf", CsvNameToDocumentName("no_extension"))
}
