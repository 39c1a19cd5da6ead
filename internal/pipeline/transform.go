package pipeline

import (
	"context"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
)

// Assembler turns raw rows into normalized records using domain rules, with
// optional geocoding enrichment.
type Assembler struct {
	aliases domain.Aliases
	locator *Locator
}

// NewAssembler creates an Assembler. The locator may be disabled but not nil.
func NewAssembler(aliases domain.Aliases, locator *Locator) *Assembler {
	return &Assembler{aliases: aliases, locator: locator}
}

// Columns maps a header row to canonical fields.
func (a *Assembler) Columns(header []string) domain.ColumnMap {
	return domain.MapColumns(header, a.aliases)
}

// Assemble builds the output record for one row. It returns false when the
// row has no name; such rows are dropped whole.
func (a *Assembler) Assemble(ctx context.Context, cols domain.ColumnMap, row domain.RawRow) (domain.Nonprofit, bool) {
	name := cols.Get(row, domain.FieldName)
	if name == "" {
		return domain.Nonprofit{}, false
	}

	cause := cols.Get(row, domain.FieldCause)
	city := cols.Get(row, domain.FieldCity)
	state := domain.NormalizeState(cols.Get(row, domain.FieldState))
	website := domain.NormalizeWebsite(cols.Get(row, domain.FieldWebsite))

	needs := cols.Get(row, domain.FieldNeeds)
	if needs == "" {
		needs = domain.InferNeeds(cause)
	}

	rating := domain.ResolveRating(cols.Get(row, domain.FieldRating), website, cause)

	lat := cols.Get(row, domain.FieldLat)
	lng := cols.Get(row, domain.FieldLng)
	address := cols.Get(row, domain.FieldAddress)
	if (lat == "" || lng == "") && (address != "" || (city != "" && state != "")) {
		result := a.locator.Locate(ctx, address, city, state)
		if result.Found() {
			lat = firstNonEmpty(lat, result.Coordinates.Lat)
			lng = firstNonEmpty(lng, result.Coordinates.Lng)
		}
	}

	return domain.Nonprofit{
		Name:    name,
		EIN:     domain.NormalizeEIN(cols.Get(row, domain.FieldEIN)),
		Cause:   cause,
		City:    city,
		State:   state,
		Website: website,
		Phone:   domain.NormalizePhone(cols.Get(row, domain.FieldPhone)),
		Rating:  domain.FormatRating(rating),
		Needs:   needs,
		Lat:     lat,
		Lng:     lng,
	}, true
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
