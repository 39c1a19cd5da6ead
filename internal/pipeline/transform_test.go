package pipeline_test

import (
	"context"
	"testing"

	"github.com/couchcryptid/nonprofit-etl/internal/adapter/geocache"
	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rawHeader = []string{"Organization", "EIN", "Mission", "City", "ST", "URL", "Telephone", "Address", "Lat", "Lng", "Needs", "Score"}

func newAssembler(geo domain.Geocoder) (*pipeline.Assembler, *pipeline.Locator, *sleepRecorder) {
	clock := newSleepRecorder()
	loc, _ := newLocator(geo, geocache.New(), clock)
	return pipeline.NewAssembler(domain.DefaultAliases(), loc), loc, clock
}

func TestAssembler_FullRow(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns(rawHeader)
	row := domain.RawRow{" Helping Hands ", "EIN 611234567", "We need volunteers for our food drive", "Louisville", "kentucky", "helpinghands.org", "(502) 555-0100", "", "38.25", "-85.76", "", "4.75"}

	rec, ok := a.Assemble(context.Background(), cols, row)
	require.True(t, ok)

	want := domain.Nonprofit{
		Name:    "Helping Hands",
		EIN:     "61-1234567",
		Cause:   "We need volunteers for our food drive",
		City:    "Louisville",
		State:   "KE",
		Website: "https://helpinghands.org",
		Phone:   "502-555-0100",
		Rating:  "4.8",
		Needs:   domain.NeedsVolunteers,
		Lat:     "38.25",
		Lng:     "-85.76",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_SkipsRowWithoutName(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns(rawHeader)

	_, ok := a.Assemble(context.Background(), cols, domain.RawRow{"   ", "611234567"})
	assert.False(t, ok)

	_, ok = a.Assemble(context.Background(), cols, domain.RawRow{})
	assert.False(t, ok)
}

func TestAssembler_NoNameColumnSkipsEverything(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns([]string{"title", "city"})

	_, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Helping Hands", "Louisville"})
	assert.False(t, ok)
}

func TestAssembler_ShortRowYieldsEmptyFields(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns(rawHeader)

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Book Bus"})
	require.True(t, ok)

	assert.Equal(t, domain.Nonprofit{Name: "Book Bus", Rating: "3.8"}, rec)
}

func TestAssembler_KeepsSuppliedNeeds(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns([]string{"name", "mission", "needs"})

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "Please donate", "Shelf stockers"})
	require.True(t, ok)
	assert.Equal(t, "Shelf stockers", rec.Needs)
}

func TestAssembler_UnparsableRatingSeeds(t *testing.T) {
	a, _, _ := newAssembler(nil)
	cols := a.Columns([]string{"name", "website", "rating"})

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "pantry.org", "five stars"})
	require.True(t, ok)
	assert.Equal(t, "4.1", rec.Rating)
}

func TestAssembler_GeocodesMissingCoordinates(t *testing.T) {
	geo := &countingGeocoder{result: louisville}
	a, _, clock := newAssembler(geo)
	cols := a.Columns([]string{"name", "city", "state"})

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "Louisville", "ky"})
	require.True(t, ok)

	assert.Equal(t, []string{"Louisville, KY, USA"}, geo.queries, "state is normalized before the query is built")
	assert.Equal(t, louisville.Lat, rec.Lat)
	assert.Equal(t, louisville.Lng, rec.Lng)
	assert.Len(t, clock.slept, 1)
}

func TestAssembler_PrefersExistingCoordinate(t *testing.T) {
	geo := &countingGeocoder{result: louisville}
	a, _, _ := newAssembler(geo)
	cols := a.Columns([]string{"name", "address", "lat", "lng"})

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "600 W Main St", "38.0", ""})
	require.True(t, ok)

	assert.Equal(t, "38.0", rec.Lat)
	assert.Equal(t, louisville.Lng, rec.Lng)
}

func TestAssembler_SkipsGeocodeWhenCoordinatesPresent(t *testing.T) {
	geo := &countingGeocoder{result: louisville}
	a, _, _ := newAssembler(geo)
	cols := a.Columns([]string{"name", "address", "lat", "lng"})

	_, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "600 W Main St", "38.0", "-85.0"})
	require.True(t, ok)
	assert.Empty(t, geo.queries)
}

func TestAssembler_SkipsGeocodeWithoutLocation(t *testing.T) {
	geo := &countingGeocoder{result: louisville}
	a, loc, _ := newAssembler(geo)
	cols := a.Columns([]string{"name", "city", "state"})

	// City without state is not enough to build a query.
	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "Louisville", ""})
	require.True(t, ok)

	assert.Empty(t, geo.queries)
	assert.Empty(t, rec.Lat)
	assert.Empty(t, loc.Stats())
}

func TestAssembler_DisabledGeocoderLeavesCoordinatesEmpty(t *testing.T) {
	a, loc, _ := newAssembler(nil)
	cols := a.Columns([]string{"name", "address"})

	rec, ok := a.Assemble(context.Background(), cols, domain.RawRow{"Pantry", "600 W Main St"})
	require.True(t, ok)

	assert.Empty(t, rec.Lat)
	assert.Empty(t, rec.Lng)
	assert.Equal(t, 1, loc.Stats()[pipeline.OutcomeDisabled])
}
