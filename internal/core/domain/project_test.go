package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDecodeProjectName tests display labels for encoded directory names
func TestDecodeProjectName(t *testing.T) {
	tests := []struct {
		encoded  string
		expected string
	}{
		{encoded: "-Users-me--work--recall", expected: "recall"},
		{encoded: "home--user--projects--api", expected: "api"},
		{encoded: "plain", expected: "plain"},
		{encoded: "trailing--", expected: "trailing"},
		{encoded: "a----b", expected: "b"},
		{encoded: "--", expected: "--"},
		{encoded: "", expected: ""},
		{encoded: "my-app", expected: "my-app"},
	}

	for _, tt := range tests {
		t.Run(tt.encoded, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeProjectName(tt.encoded))
		})
	}
}

// TestDecodeProjectName_NeverEmpty tests that non-empty input never decodes to empty
func TestDecodeProjectName_NeverEmpty(t *testing.T) {
	for _, in := range []string{"-", "--", "----", "x--", "--x", "a--b--c"} {
		assert.NotEmpty(t, DecodeProjectName(in), in)
	}
}
