package rawindexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "hello world", []string{"hello", "world"}},
		{"with punctuation", "hello, world!", []string{"hello", "world"}},
		{"with numbers", "item123 test", []string{"item123", "test"}},
		{"leading/trailing spaces", "  hello world  ", []string{"hello", "world"}},
		{"camelCase", "theOffice", []string{"the", "office"}},
		{"PascalCase", "TheOffice", []string{"the", "office"}},
		{"mixedCase", "myAPIService", []string{"my", "api", "service"}},
		{"acronym then camelCase", "HTTPRequestManager", []string{"http", "request", "manager"}},
		{"acronym at end", "performHTTPRequest", []string{"perform", "http", "request"}},
		{"hyphenated", "state-of-the-art", []string{"state", "of", "the", "art"}},
		{"underscored", "my_variable_name", []string{"my", "variable", "name"}},
		{"all caps", "HELLO WORLD", []string{"hello", "world"}},
		{"only symbols", "!@#$%^", []string{}},
		{"starts with digit then uppercase", "1Password", []string{"1", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitWords(tt.input)
			assert.ElementsMatch(t, tt.want, got)
			assert.Len(t, got, len(tt.want))
		})
	}
}

func TestPrefixNGrams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty token", "", nil},
		{"single character", "a", []string{"a"}},
		{"short token", "cat", []string{"c", "ca", "cat"}},
		{"longer token", "search", []string{"s", "se", "sea", "sear", "searc", "search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prefixNGrams(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}
