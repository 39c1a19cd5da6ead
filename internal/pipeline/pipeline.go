package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/observability"
)

// Extractor reads the whole input table.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, error)
}

// Loader writes the assembled records to a destination.
type Loader interface {
	Load(ctx context.Context, records []domain.Nonprofit) error
	Name() string
}

// Persister saves state that should outlive the run, such as the geocode cache.
type Persister interface {
	Persist() error
}

// Summary reports what one run did.
type Summary struct {
	Read     int
	Written  int
	Skipped  int
	Geocoded map[Outcome]int
}

// Pipeline runs one extract-transform-load pass.
type Pipeline struct {
	extractor Extractor
	assembler *Assembler
	locator   *Locator
	loaders   []Loader
	cache     Persister
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Records go to every loader in order; the first
// loader failure fails the run. cache may be nil.
func New(e Extractor, locator *Locator, a *Assembler, loaders []Loader, cache Persister, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		assembler: a,
		locator:   locator,
		loaders:   loaders,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the pass. Extract and load errors are fatal; a cache that
// cannot be saved is logged and ignored.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	defer func() { p.metrics.RunDuration.Set(time.Since(start).Seconds()) }()

	table, err := p.extractor.Extract(ctx)
	if err != nil {
		return Summary{}, err
	}

	cols := p.assembler.Columns(table.Header)
	if !cols.Has(domain.FieldName) {
		p.logger.Warn("no name column found; every row will be skipped", "header", table.Header)
	}
	p.logger.Info("input loaded", "source", table.Source, "rows", len(table.Rows), "mapped_columns", len(cols))

	summary := Summary{Read: len(table.Rows)}
	p.metrics.RowsRead.Add(float64(len(table.Rows)))

	records := make([]domain.Nonprofit, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec, ok := p.assembler.Assemble(ctx, cols, row)
		if !ok {
			summary.Skipped++
			p.metrics.RowsSkipped.Inc()
			p.logger.Debug("skipping row without name", "row", i+1)
			continue
		}
		records = append(records, rec)
	}

	if p.cache != nil {
		if err := p.cache.Persist(); err != nil {
			p.logger.Warn("geocode cache not saved", "error", err)
		}
	}

	for _, l := range p.loaders {
		if err := l.Load(ctx, records); err != nil {
			return summary, fmt.Errorf("load %s: %w", l.Name(), err)
		}
	}

	summary.Written = len(records)
	summary.Geocoded = p.locator.Stats()
	p.metrics.RowsWritten.Add(float64(len(records)))
	p.logger.Info("run complete",
		"read", summary.Read,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"duration", time.Since(start),
	)
	return summary, nil
}
