package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/couchcryptid/nonprofit-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/nonprofit-etl/internal/adapter/geocache"
	kafkaadapter "github.com/couchcryptid/nonprofit-etl/internal/adapter/kafka"
	"github.com/couchcryptid/nonprofit-etl/internal/adapter/nominatim"
	"github.com/couchcryptid/nonprofit-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/nonprofit-etl/internal/config"
	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/observability"
	"github.com/couchcryptid/nonprofit-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

type options struct {
	in          string
	out         string
	geocode     bool
	aliases     string
	delimiter   string
	cache       string
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nonprofit-etl --in <raw.csv|raw.xlsx> --out <nonprofits.csv>",
		Short: "Normalize a raw nonprofit export into nonprofits.csv",
		Long: `nonprofit-etl reads a loosely structured nonprofit export, maps its
columns onto the canonical fields, normalizes phones, EINs, websites and
states, infers needs and ratings, and writes a fixed eleven-column CSV.

With --geocode, rows missing coordinates are looked up through Nominatim.
Lookups are cached on disk and spaced by GEOCODE_DELAY to respect the
public service's usage policy.

Environment:
  LOG_LEVEL, LOG_FORMAT              logging (info, text)
  GEOCODE_URL, GEOCODE_USER_AGENT    geocoding endpoint and identity
  GEOCODE_TIMEOUT, GEOCODE_DELAY     per-request timeout and courtesy delay
  GEOCODE_CACHE_FILE                 cache path (overridden by --cache)
  KAFKA_BROKERS, KAFKA_TOPIC         also publish records to Kafka`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "path to the raw CSV or XLSX input")
	f.StringVar(&opts.out, "out", "", "path to the normalized CSV output")
	f.BoolVar(&opts.geocode, "geocode", false, "geocode rows missing lat/lng (rate-limited and cached)")
	f.StringVar(&opts.aliases, "aliases", "", "YAML file with extra header aliases")
	f.StringVar(&opts.delimiter, "delimiter", ",", `field delimiter for CSV input and output ("\t" for tab)`)
	f.StringVar(&opts.cache, "cache", "", "geocode cache file (default GEOCODE_CACHE_FILE)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	comma, err := config.ParseDelimiter(opts.delimiter)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.cache != "" {
		cfg.GeocodeCacheFile = opts.cache
	}

	aliases, err := config.LoadAliases(opts.aliases)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cache, err := geocache.Load(cfg.GeocodeCacheFile)
	if err != nil {
		logger.Warn("starting with empty geocode cache", "path", cfg.GeocodeCacheFile, "error", err)
	}

	var geocoder domain.Geocoder
	if opts.geocode {
		geocoder = nominatim.NewClient(cfg.GeocodeURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, metrics, logger)
		logger.Info("geocoding enabled", "url", cfg.GeocodeURL, "delay", cfg.GeocodeDelay, "cached", cache.Len())
	}

	locator := pipeline.NewLocator(geocoder, cache, clockwork.NewRealClock(), cfg.GeocodeDelay, metrics, logger)
	assembler := pipeline.NewAssembler(aliases, locator)

	loaders := []pipeline.Loader{csvfile.NewWriter(opts.out, comma)}
	if cfg.KafkaEnabled() {
		kw := kafkaadapter.NewWriter(cfg, opts.in, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, kw)
	}

	p := pipeline.New(newExtractor(opts.in, comma), locator, assembler, loaders, cache, logger, metrics)
	summary, runErr := p.Run(ctx)

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows → %s\n", summary.Written, opts.out)
	return nil
}

// newExtractor picks the reader from the input's extension.
func newExtractor(path string, comma rune) pipeline.Extractor {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsx.NewReader(path)
	}
	return csvfile.NewReader(path, comma)
}
