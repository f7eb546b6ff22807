package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"CasaLink", "casalink"},
		{"casa-link", "casalink"},
		{"Casa_Link", "casalink"},
		{"ys-teras-maju", "ysterasmaju"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"casalink", "Casalink"},
		{"casa-link", "Casa Link"},
		{"grid_health", "Grid Health"},
		{"typescripttutor", "Typescripttutor"},
		{"--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Titleize(tt.input))
		})
	}
}

func TestCensorText(t *testing.T) {
	assert.Equal(t, "port••••••••••", CensorText("portfolio-site", 4))
	assert.Equal(t, "abc", CensorText("abc", 4))
	assert.Equal(t, "abcd", CensorText("abcd", 4))
	assert.Equal(t, "abcd"+strings.Repeat("•", 20), CensorText("abcdefghijklmnopqrstuvwxyz0123456789", 4))
	assert.Equal(t, "日本語の•", CensorText("日本語のテ", 4))
}

func TestCensorWords(t *testing.T) {
	assert.Equal(t, "A tool for tracking •••", CensorWords("A tool for tracking gym sessions", 4, "none"))
	assert.Equal(t, "Short one", CensorWords("Short one", 4, "none"))
	assert.Equal(t, "none", CensorWords("   ", 4, "none"))
}
