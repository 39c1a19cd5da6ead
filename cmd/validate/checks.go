package main

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	phoneRe  = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	ratingRe = regexp.MustCompile(`^\d\.\d$`)
	digitsRe = regexp.MustCompile(`\D+`)
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// column indexes in domain.OutputHeader order.
const (
	colName = iota
	colEIN
	colCause
	colCity
	colState
	colWebsite
	colPhone
	colRating
	colNeeds
	colLat
	colLng
)

func cell(row domain.RawRow, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func validateHeader(header []string) *phase {
	p := &phase{name: "Output header"}
	if !slices.Equal(header, domain.OutputHeader) {
		p.errorf("header = %v, want %v", header, domain.OutputHeader)
	}
	return p
}

func validateRequiredFields(rows []domain.RawRow) *phase {
	p := &phase{name: "Required fields"}
	for i, row := range rows {
		line := i + 2
		if len(row) != len(domain.OutputHeader) {
			p.errorf("line %d: %d fields, want %d", line, len(row), len(domain.OutputHeader))
		}
		if strings.TrimSpace(cell(row, colName)) == "" {
			p.errorf("line %d: empty name", line)
		}
	}
	return p
}

func validateFormats(rows []domain.RawRow) *phase {
	p := &phase{name: "Field formats"}
	for i, row := range rows {
		checkFormats(p.errorf, i+2, row)
	}
	return p
}

// checkFormats flags values the normalizers would have rewritten. Values the
// normalizers pass through unchanged, such as an 11-digit phone, are allowed.
func checkFormats(pf func(string, ...any), line int, row domain.RawRow) {
	if phone := cell(row, colPhone); len(digitsRe.ReplaceAllString(phone, "")) == 10 && !phoneRe.MatchString(phone) {
		pf("line %d: phone %q not in DDD-DDD-DDDD form", line, phone)
	}
	if ein := cell(row, colEIN); domain.NormalizeEIN(ein) != ein {
		pf("line %d: ein %q not in DD-DDDDDDD form", line, ein)
	}
	if site := cell(row, colWebsite); site != "" && !strings.HasPrefix(site, "http://") && !strings.HasPrefix(site, "https://") {
		pf("line %d: website %q has no scheme", line, site)
	}
	if st := cell(row, colState); len([]rune(st)) > 2 || st != strings.ToUpper(st) {
		pf("line %d: state %q is not a 2-character uppercase code", line, st)
	}
	checkRating(pf, line, cell(row, colRating))
}

func checkRating(pf func(string, ...any), line int, rating string) {
	if !ratingRe.MatchString(rating) {
		pf("line %d: rating %q is not a one-decimal number", line, rating)
		return
	}
	v := decimal.RequireFromString(rating)
	if v.GreaterThan(decimal.NewFromInt(5)) {
		pf("line %d: rating %s exceeds 5.0", line, rating)
	}
}

func validateCoordinates(rows []domain.RawRow) *phase {
	p := &phase{name: "Coordinates"}
	for i, row := range rows {
		line := i + 2
		checkCoordinate(p.errorf, line, "lat", cell(row, colLat), 90)
		checkCoordinate(p.errorf, line, "lng", cell(row, colLng), 180)
	}
	return p
}

func checkCoordinate(pf func(string, ...any), line int, name, value string, limit int64) {
	if value == "" {
		return
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		pf("line %d: %s %q is not a number", line, name, value)
		return
	}
	if v.Abs().GreaterThan(decimal.NewFromInt(limit)) {
		pf("line %d: %s %s out of range", line, name, value)
	}
}
