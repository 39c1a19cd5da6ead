package domain

import (
	"fmt"
	"strings"
)

// Field is a canonical column key. The rest of the pipeline works in terms of
// fields regardless of how the source table names its columns.
type Field string

const (
	FieldName    Field = "name"
	FieldEIN     Field = "ein"
	FieldCause   Field = "cause"
	FieldCity    Field = "city"
	FieldState   Field = "state"
	FieldWebsite Field = "website"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldLat     Field = "lat"
	FieldLng     Field = "lng"
	FieldNeeds   Field = "needs"
	FieldRating  Field = "rating"
)

// Fields lists every canonical field in mapping order.
var Fields = []Field{
	FieldName, FieldEIN, FieldCause, FieldCity, FieldState, FieldWebsite,
	FieldPhone, FieldAddress, FieldLat, FieldLng, FieldNeeds, FieldRating,
}

// Aliases maps each field to the header names accepted for it, in priority order.
type Aliases map[Field][]string

// DefaultAliases returns a fresh copy of the built-in alias table.
func DefaultAliases() Aliases {
	return Aliases{
		FieldName:    {"name", "organization", "org", "org_name", "business", "nonprofit"},
		FieldEIN:     {"ein", "tax_id", "taxid", "employer_identification_number"},
		FieldCause:   {"cause", "mission", "description", "about", "focus"},
		FieldCity:    {"city", "town"},
		FieldState:   {"state", "st", "province"},
		FieldWebsite: {"website", "url", "site", "web", "homepage"},
		FieldPhone:   {"phone", "phone_number", "tel", "telephone", "contact"},
		FieldAddress: {"address", "addr", "street", "location", "full_address"},
		FieldLat:     {"lat", "latitude"},
		FieldLng:     {"lng", "long", "lon", "longitude"},
		FieldNeeds:   {"needs", "what_we_need", "volunteer_need", "donations_need"},
		FieldRating:  {"rating", "score"},
	}
}

// Extend appends extra aliases after the existing ones for each field.
// Unknown field names are rejected.
func (a Aliases) Extend(extra map[string][]string) error {
	for name, list := range extra {
		f := Field(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := a[f]; !ok {
			return fmt.Errorf("unknown field %q", name)
		}
		a[f] = append(a[f], list...)
	}
	return nil
}

// ColumnMap resolves fields to column indexes of one input table.
// Fields without a matching header are absent.
type ColumnMap map[Field]int

// MapColumns builds the ColumnMap for a header row. For each field the aliases
// are tried in order, and the first header cell equal to an alias (after
// trimming and lowercasing both) wins. It never fails: an unrecognizable
// header just yields an empty map.
func MapColumns(header []string, aliases Aliases) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	m := make(ColumnMap, len(Fields))
	for _, f := range Fields {
		if idx, ok := findColumn(normalized, aliases[f]); ok {
			m[f] = idx
		}
	}
	return m
}

func findColumn(header []string, candidates []string) (int, bool) {
	for _, cand := range candidates {
		cand = strings.ToLower(strings.TrimSpace(cand))
		for i, h := range header {
			if h == cand {
				return i, true
			}
		}
	}
	return 0, false
}

// Get returns the trimmed cell for f, or "" when the field is absent or the
// row is too short to contain it.
func (m ColumnMap) Get(row RawRow, f Field) string {
	idx, ok := m[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Has reports whether f resolved to a column.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}
