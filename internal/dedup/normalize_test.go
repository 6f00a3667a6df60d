package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "AI Summit", "ai summit"},
		{"trims", "  jazz night  ", "jazz night"},
		{"collapses whitespace", "jazz\t\nnight", "jazz night"},
		{"strips punctuation", "rock & roll: live!", "rock  roll live"},
		{"keeps digits", "TechConf 2025", "techconf 2025"},
		{"keeps unicode letters", "Café Olé", "café olé"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeText_Pure(t *testing.T) {
	input := " Mixed  CASE,  input! "
	assert.Equal(t, NormalizeText(input), NormalizeText(input))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already a day", "2025-06-01", "2025-06-01"},
		{"truncates datetime", "2025-03-01T18:00:00+05:30", "2025-03-01"},
		{"trims first", "  2025-06-01  ", "2025-06-01"},
		{"short input untouched", "2025", "2025"},
		{"empty stays empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}
