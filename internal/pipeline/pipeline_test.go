package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/nonprofit-etl/internal/adapter/geocache"
	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/observability"
	"github.com/couchcryptid/nonprofit-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	table domain.Table
	err   error
}

func (m *mockExtractor) Extract(_ context.Context) (domain.Table, error) {
	return m.table, m.err
}

type mockLoader struct {
	name   string
	err    error
	loaded []domain.Nonprofit
	calls  int
}

func (m *mockLoader) Load(_ context.Context, records []domain.Nonprofit) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, records...)
	return nil
}

func (m *mockLoader) Name() string { return m.name }

type failingPersister struct {
	calls int
}

func (f *failingPersister) Persist() error {
	f.calls++
	return errors.New("disk full")
}

type testRun struct {
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	clock    *sleepRecorder
}

func newTestRun(ext pipeline.Extractor, geo domain.Geocoder, cache *geocache.Cache, persister pipeline.Persister, loaders ...pipeline.Loader) testRun {
	clock := newSleepRecorder()
	metrics := observability.NewMetrics()
	loc := pipeline.NewLocator(geo, cache, clock, courtesyDelay, metrics, discardLogger())
	asm := pipeline.NewAssembler(domain.DefaultAliases(), loc)
	return testRun{
		pipeline: pipeline.New(ext, loc, asm, loaders, persister, discardLogger(), metrics),
		metrics:  metrics,
		clock:    clock,
	}
}

func sampleTable() domain.Table {
	return domain.Table{
		Source: "raw.csv",
		Header: []string{"Org_Name", "Tax_ID", "Description", "Town", "Province", "Homepage", "Phone_Number", "Street"},
		Rows: []domain.RawRow{
			{"Food Bank", "61-1234567", "Please donate canned goods", "Louisville", "KY", "", "5025550100", ""},
			{"", "99-9999999", "orphan row", "Lexington", "KY", "", "", ""},
			{"Coat Closet", "", "Winter clothes drive", "", "", "coats.org", "", "1 Main St"},
		},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	run := newTestRun(&mockExtractor{table: sampleTable()}, nil, geocache.New(), nil, ldr)

	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)

	want := []domain.Nonprofit{
		{
			Name:   "Food Bank",
			EIN:    "61-1234567",
			Cause:  "Please donate canned goods",
			City:   "Louisville",
			State:  "KY",
			Phone:  "502-555-0100",
			Rating: "3.8",
			Needs:  domain.NeedsDonations,
		},
		{
			Name:    "Coat Closet",
			Cause:   "Winter clothes drive",
			Website: "https://coats.org",
			Rating:  "4.1",
			Needs:   domain.NeedsItemDrive,
		},
	}
	if diff := cmp.Diff(want, ldr.loaded); diff != "" {
		t.Fatalf("loaded records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, summary.Read)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 1, summary.Skipped)
	assert.InDelta(t, 3, testutil.ToFloat64(run.metrics.RowsRead), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(run.metrics.RowsWritten), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(run.metrics.RowsSkipped), 0)
}

func TestPipeline_Run_HeaderOnly(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	ext := &mockExtractor{table: domain.Table{Header: []string{"name", "city"}}}
	run := newTestRun(ext, nil, geocache.New(), nil, ldr)

	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ldr.calls, "loaders still run so the header is written")
	assert.Empty(t, ldr.loaded)
	assert.Equal(t, 0, summary.Written)
}

func TestPipeline_Run_UnrecognizedHeaderSkipsAllRows(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	ext := &mockExtractor{table: domain.Table{
		Header: []string{"title", "location_name"},
		Rows:   []domain.RawRow{{"a", "b"}, {"c", "d"}},
	}}
	run := newTestRun(ext, nil, geocache.New(), nil, ldr)

	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	ext := &mockExtractor{err: domain.ErrInputNotFound}
	persister := &failingPersister{}
	run := newTestRun(ext, nil, geocache.New(), persister, ldr)

	_, err := run.pipeline.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Equal(t, 0, ldr.calls)
	assert.Equal(t, 0, persister.calls)
}

func TestPipeline_Run_LoaderErrorIsFatal(t *testing.T) {
	failing := &mockLoader{name: "csv:out.csv", err: errors.New("permission denied")}
	after := &mockLoader{name: "kafka"}
	run := newTestRun(&mockExtractor{table: sampleTable()}, nil, geocache.New(), nil, failing, after)

	_, err := run.pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load csv:out.csv")
	assert.Equal(t, 0, after.calls)
}

func TestPipeline_Run_CacheSaveFailureIsNotFatal(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	persister := &failingPersister{}
	run := newTestRun(&mockExtractor{table: sampleTable()}, nil, geocache.New(), persister, ldr)

	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, persister.calls)
	assert.Equal(t, 2, summary.Written)
}

func TestPipeline_Run_GeocodeFailureKeepsRow(t *testing.T) {
	ldr := &mockLoader{name: "memory"}
	geo := &countingGeocoder{err: errors.New("HTTP 503")}
	run := newTestRun(&mockExtractor{table: sampleTable()}, geo, geocache.New(), nil, ldr)

	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, ldr.loaded, 2)
	for _, rec := range ldr.loaded {
		assert.Empty(t, rec.Lat)
		assert.Empty(t, rec.Lng)
	}
	assert.Equal(t, 2, summary.Geocoded[pipeline.OutcomeFailed])
}

func TestPipeline_Run_SecondRunUsesPersistedCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocode_cache.json")
	geo := &countingGeocoder{result: louisville}

	cache, err := geocache.Load(path)
	require.NoError(t, err)
	first := &mockLoader{name: "memory"}
	run := newTestRun(&mockExtractor{table: sampleTable()}, geo, cache, cache, first)
	summary, err := run.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Louisville, KY, USA", "1 Main St, USA"}, geo.queries)
	assert.Equal(t, 2, summary.Geocoded[pipeline.OutcomeResolved])
	assert.Len(t, run.clock.slept, 2)

	// A fresh run over the same input hits the cache for every query.
	reloaded, err := geocache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())

	second := &mockLoader{name: "memory"}
	offline := &countingGeocoder{err: errors.New("network must not be used")}
	rerun := newTestRun(&mockExtractor{table: sampleTable()}, offline, reloaded, reloaded, second)
	summary, err = rerun.pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, offline.queries)
	assert.Empty(t, rerun.clock.slept)
	assert.Equal(t, 2, summary.Geocoded[pipeline.OutcomeCacheHit])
	if diff := cmp.Diff(first.loaded, second.loaded); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
}
