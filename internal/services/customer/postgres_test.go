package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted US number", "+1 (555) 123-4567", "15551234567"},
		{"bare digits", "5551234567", "5551234567"},
		{"dots and dashes", "555.123-4567", "5551234567"},
		{"letters stripped", "call 555 HELP", "555"},
		{"empty", "", ""},
		{"no digits", "+()- ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}
