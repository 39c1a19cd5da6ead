package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"parenthesized", "(502) 555-0100", "502-555-0100"},
		{"dotted", "502.555.0100", "502-555-0100"},
		{"bare digits", "5025550100", "502-555-0100"},
		{"surrounding space", "  502 555 0100 ", "502-555-0100"},
		{"country code kept", "+1 502 555 0100", "+1 502 555 0100"},
		{"too short", " 555-0100 ", "555-0100"},
		{"no digits", "call us", "call us"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhone_AllTenDigitStrings(t *testing.T) {
	for i := 0; i < 1000; i += 37 {
		digits := fmt.Sprintf("%03d%03d%04d", i, 999-i, i*7%10000)
		want := digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
		assert.Equal(t, want, NormalizePhone(digits))
	}
}

func TestNormalizeEIN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare", "611234567", "61-1234567"},
		{"dashed", "61-1234567", "61-1234567"},
		{"spaced", "61 1234567", "61-1234567"},
		{"embedded", "EIN: 61-1234567 (verified)", "61-1234567"},
		{"no match", "pending", "pending"},
		{"too few digits", " 12-34567 ", "12-34567"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEIN(tt.input))
		})
	}
}

func TestNormalizeEIN_Idempotent(t *testing.T) {
	for _, in := range []string{"611234567", "61 1234567", "EIN 61-1234567", "n/a"} {
		once := NormalizeEIN(in)
		assert.Equal(t, once, NormalizeEIN(once), "input %q", in)
	}
}

func TestNormalizeWebsite(t *testing.T) {
	assert.Equal(t, "https://example.org", NormalizeWebsite("example.org"))
	assert.Equal(t, "http://x.org", NormalizeWebsite("http://x.org"))
	assert.Equal(t, "https://x.org/give", NormalizeWebsite("https://x.org/give"))
	assert.Equal(t, "https://www.x.org", NormalizeWebsite("  www.x.org "))
	assert.Empty(t, NormalizeWebsite(""))
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "KY", NormalizeState("ky"))
	assert.Equal(t, "KE", NormalizeState("Kentucky"))
	assert.Equal(t, "K", NormalizeState("k"))
	assert.Empty(t, NormalizeState("  "))
}
