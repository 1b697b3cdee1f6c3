package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/aggregator"
	"github.com/sentimap/sentimap/internal/analyzer"
	"github.com/sentimap/sentimap/internal/cache"
	"github.com/sentimap/sentimap/internal/collector"
	"github.com/sentimap/sentimap/internal/location"
	"github.com/sentimap/sentimap/internal/models"
	"github.com/sentimap/sentimap/internal/processor"
)

// Pipeline wires collection, processing and aggregation into a single
// entry point for one keyword run.
type Pipeline struct {
	collector  *collector.Collector
	processor  *processor.Processor
	aggregator *aggregator.Aggregator
	cfg        *config.Config
	logger     *slog.Logger
}

// Report is the full output of one pipeline run.
type Report struct {
	Keyword           string                                         `json:"keyword"`
	Provinces         map[string]models.ProvinceAggregate            `json:"provinces"`
	PlatformProvinces map[string]map[string]models.ProvinceAggregate `json:"platform_provinces"`
	PlatformScores    map[string]float64                             `json:"platform_scores"`
	Distribution      map[string]int                                 `json:"distribution"`
	Trend             []aggregator.TrendPoint                        `json:"trend"`
	ItemCount         int                                            `json:"item_count"`
}

// New assembles the pipeline from configuration. store may be nil to run
// without caching.
func New(cfg *config.Config, store cache.Store, clock clockwork.Clock, rng *rand.Rand, logger *slog.Logger) (*Pipeline, error) {
	a, err := analyzer.New(cfg.Sentiment, logger)
	if err != nil {
		return nil, err
	}

	adapters := collector.BuildAdapters(cfg.Collection, collector.AdapterDeps{
		Clock:      clock,
		Rand:       rng,
		Logger:     logger,
		Timeout:    cfg.Collection.Timeout.Std(),
		MaxRetries: cfg.Collection.MaxRetries,
		PageDelay:  cfg.Collection.RequestInterval.Min.Std(),
	})

	gen := collector.NewGenerator(rng, clock, logger)
	col := collector.New(adapters, store, gen, cfg.Collection, clock, rng, logger)
	proc := processor.New(a, location.NewResolver(), clock, logger)
	agg := aggregator.New(cfg.Sentiment.MinimumSamples, logger)

	return &Pipeline{
		collector:  col,
		processor:  proc,
		aggregator: agg,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Run collects, processes and aggregates one keyword across the requested
// platforms. A non-empty domain selects the sentiment dictionary for the
// run. A cancelled context returns the report built from whatever was
// gathered before cancellation, along with the context error.
func (p *Pipeline) Run(ctx context.Context, req collector.Request, domain string) (Report, error) {
	raw, collectErr := p.collector.Collect(ctx, req)

	batch, procErr := p.processor.ProcessAll(ctx, raw, domain)

	report := Report{
		Keyword:           req.Keyword,
		Provinces:         p.aggregator.AggregateByProvince(batch.All),
		PlatformProvinces: p.aggregator.AggregateByPlatform(batch.ByPlatform),
		PlatformScores:    p.aggregator.PlatformComparison(batch.ByPlatform),
		Distribution:      p.aggregator.SentimentDistribution(batch.All),
		Trend:             p.aggregator.TimeTrend(batch.All, 24*time.Hour),
		ItemCount:         len(batch.All),
	}

	if collectErr != nil {
		return report, collectErr
	}
	return report, procErr
}
