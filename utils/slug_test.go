package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Report Final.pdf", "report-final.pdf"},
		{"  spaced out  ", "spaced-out"},
		{"UPPER_case-mixed", "upper-case-mixed"},
		{"a///b", "a-b"},
		{"사진 모음.zip", "사진-모음.zip"},
		{"---", ""},
		{"", ""},
		{".", ""},
		{"..", ""},
		{"...", ""},
		{"-.-", ""},
		{"v2.0.1.tar.gz", "v2.0.1.tar.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
