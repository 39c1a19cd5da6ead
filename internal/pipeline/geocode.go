package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// GeoCache stores coordinates by exact query string.
type GeoCache interface {
	Lookup(query string) (domain.Coordinates, bool)
	Store(query string, coords domain.Coordinates)
}

// Outcome classifies what a geocode attempt did.
type Outcome string

const (
	OutcomeDisabled Outcome = "disabled"
	OutcomeNoQuery  Outcome = "no_query"
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeResolved Outcome = "resolved"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// GeocodeResult is the result of one geocode attempt. Coordinates are set
// only for OutcomeCacheHit and OutcomeResolved; Err is set only for
// OutcomeFailed. Failures never stop the run.
type GeocodeResult struct {
	Query       string
	Coordinates domain.Coordinates
	Outcome     Outcome
	Err         error
}

// Found reports whether the attempt produced coordinates.
func (r GeocodeResult) Found() bool {
	return r.Outcome == OutcomeCacheHit || r.Outcome == OutcomeResolved
}

// Locator resolves addresses through a cache in front of a Geocoder. After
// every successful network lookup it sleeps for the courtesy delay, which
// keeps a run within the public service's one-request-per-second policy.
// Cache hits never touch the network or the clock.
//
// A Locator belongs to a single run and is not safe for concurrent use.
type Locator struct {
	geocoder domain.Geocoder
	cache    GeoCache
	clock    clockwork.Clock
	delay    time.Duration
	metrics  *observability.Metrics
	logger   *slog.Logger
	stats    map[Outcome]int
}

// NewLocator creates a Locator. Pass a nil geocoder to disable geocoding;
// the cache is then left untouched.
func NewLocator(geocoder domain.Geocoder, cache GeoCache, clock clockwork.Clock, delay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Locator {
	if geocoder != nil {
		metrics.GeocodeEnabled.Set(1)
	}
	return &Locator{
		geocoder: geocoder,
		cache:    cache,
		clock:    clock,
		delay:    delay,
		metrics:  metrics,
		logger:   logger,
		stats:    make(map[Outcome]int),
	}
}

// Enabled reports whether lookups may reach the network.
func (l *Locator) Enabled() bool {
	return l.geocoder != nil
}

// Locate geocodes an address described by its street address, city and state.
func (l *Locator) Locate(ctx context.Context, address, city, state string) GeocodeResult {
	result := l.locate(ctx, address, city, state)
	l.stats[result.Outcome]++
	return result
}

func (l *Locator) locate(ctx context.Context, address, city, state string) GeocodeResult {
	if l.geocoder == nil {
		return GeocodeResult{Outcome: OutcomeDisabled}
	}

	query := domain.GeocodeQuery(address, city, state)
	if query == "" {
		return GeocodeResult{Outcome: OutcomeNoQuery}
	}

	if coords, ok := l.cache.Lookup(query); ok {
		l.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return GeocodeResult{Query: query, Coordinates: coords, Outcome: OutcomeCacheHit}
	}
	l.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	coords, err := l.geocoder.Geocode(ctx, query)
	if err != nil {
		l.metrics.GeocodeRequests.WithLabelValues(string(OutcomeFailed)).Inc()
		l.logger.Warn("geocoding failed", "query", query, "error", err)
		return GeocodeResult{Query: query, Outcome: OutcomeFailed, Err: err}
	}
	if coords.Lat == "" || coords.Lng == "" {
		l.metrics.GeocodeRequests.WithLabelValues(string(OutcomeNotFound)).Inc()
		l.logger.Debug("no geocoding result", "query", query)
		return GeocodeResult{Query: query, Outcome: OutcomeNotFound}
	}

	l.metrics.GeocodeRequests.WithLabelValues(string(OutcomeResolved)).Inc()
	l.cache.Store(query, coords)
	if l.delay > 0 {
		l.clock.Sleep(l.delay)
	}
	return GeocodeResult{Query: query, Coordinates: coords, Outcome: OutcomeResolved}
}

// Stats returns how many attempts ended in each outcome.
func (l *Locator) Stats() map[Outcome]int {
	out := make(map[Outcome]int, len(l.stats))
	for k, v := range l.stats {
		out[k] = v
	}
	return out
}
