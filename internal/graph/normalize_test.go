package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.docx", "report.docx"},
		{"percent encoded space", "my%20file.txt", "my file.txt"},
		{"nfd to nfc", norm.NFD.String("café"), "café"},
		{"malformed escape kept as-is", "100%complete", "100%complete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}
