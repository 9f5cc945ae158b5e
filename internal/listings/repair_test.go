package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Quoted nan as first property",
			input:    `{"bedrooms": "nan"}`,
			expected: `{"bedrooms": null}`,
		},
		{
			name:     "Quoted nan without whitespace",
			input:    `{"a":1,"b":"nan"}`,
			expected: `{"a":1,"b": null}`,
		},
		{
			name:     "Bare NaN value",
			input:    `{"land_size": NaN, "price": 1}`,
			expected: `{"land_size": null, "price": 1}`,
		},
		{
			name:     "Array elements",
			input:    `[1, NaN, "nan"]`,
			expected: `[1, null, null]`,
		},
		{
			name:     "Multiple occurrences",
			input:    `{"a":NaN,"b":"nan","c":NaN}`,
			expected: `{"a": null,"b": null,"c": null}`,
		},
		{
			name:     "Legitimate strings untouched",
			input:    `{"description": "banana nanny", "type": "NaN"}`,
			expected: `{"description": "banana nanny", "type": "NaN"}`,
		},
		{
			name:     "Already valid payload",
			input:    `{"results": [{"area_name": "Belmont North"}]}`,
			expected: `{"results": [{"area_name": "Belmont North"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Repair([]byte(tt.input))
			assert.Equal(t, tt.expected, string(result),
				"Repair(%q) = %q, want %q", tt.input, result, tt.expected)
		})
	}
}
