package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Top 10 Beaches",
			expected: "top-10-beaches",
		},
		{
			name:     "with accents",
			input:    "Férias em São Paulo",
			expected: "ferias-em-sao-paulo",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			expected: "uber-munchen",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "mixed case",
			input:    "HeLLo WoRLd",
			expected: "hello-world",
		},
		{
			name:     "tabs and newlines",
			input:    "hello\tworld\nagain",
			expected: "hello-world-again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("hotel ", 40)
	slug := Slugify(long)

	if len(slug) > MaxSlugLength {
		t.Errorf("Slugify produced %d chars, want at most %d", len(slug), MaxSlugLength)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("truncated slug has trailing hyphen: %q", slug)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "valid simple slug", input: "hello-world", expected: true},
		{name: "valid slug with numbers", input: "post-123", expected: true},
		{name: "valid single word", input: "hello", expected: true},
		{name: "invalid - empty", input: "", expected: false},
		{name: "invalid - uppercase", input: "Hello-World", expected: false},
		{name: "invalid - spaces", input: "hello world", expected: false},
		{name: "invalid - special chars", input: "hello!world", expected: false},
		{name: "invalid - starts with hyphen", input: "-hello", expected: false},
		{name: "invalid - ends with hyphen", input: "hello-", expected: false},
		{name: "invalid - consecutive hyphens", input: "hello--world", expected: false},
		{name: "invalid - too long", input: strings.Repeat("a", MaxSlugLength+1), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidSlug(tt.input)
			if result != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
