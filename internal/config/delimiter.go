package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseDelimiter turns a --delimiter flag value into the field separator for
// delimited tables. `\t` and "tab" select a tab. Anything else must be one
// character other than a quote or line break.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid --delimiter %q: must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid --delimiter %q", s)
	}
	return r, nil
}
