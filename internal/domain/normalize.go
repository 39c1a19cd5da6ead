package domain

import (
	"regexp"
	"strings"
)

var (
	// nonDigitRe strips phone punctuation: "(502) 555-0100" -> "5025550100".
	nonDigitRe = regexp.MustCompile(`\D+`)

	// einRe finds a 2+7 digit EIN anywhere in a string, with an optional
	// dash or space between the groups.
	einRe = regexp.MustCompile(`(\d{2})[- ]?(\d{7})`)
)

// NormalizePhone formats a 10-digit US number as DDD-DDD-DDDD. Anything else
// is returned trimmed but otherwise unchanged.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) != 10 {
		return s
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:10]
}

// NormalizeEIN reformats the first EIN-shaped match as DD-DDDDDDD.
// Strings without a match are returned trimmed.
func NormalizeEIN(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	m := einRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[1] + "-" + m[2]
}

// NormalizeWebsite adds an https:// scheme to bare hosts.
func NormalizeWebsite(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}

// NormalizeState keeps the first two characters, uppercased.
func NormalizeState(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}
