package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercases and trims", []string{" Work ", "LIFE"}, []string{"work", "life"}},
		{"drops empties", []string{"", "  ", "a"}, []string{"a"}},
		{"dedupes case-insensitively", []string{"Happy", "happy", "HAPPY"}, []string{"happy"}},
		{"preserves first-seen order", []string{"b", "a", "b", "c"}, []string{"b", "a", "c"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	once := NormalizeTags([]string{" Work ", "Life", "work", ""})
	twice := NormalizeTags(once)
	assert.Equal(t, once, twice)
}
