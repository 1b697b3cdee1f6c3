package collector

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/cache"
	"github.com/sentimap/sentimap/internal/models"
)

// Request describes one collection run.
type Request struct {
	Keyword   string
	Platforms []string
	Limit     int
	UseCache  bool
	UseMock   bool
}

// Collector drives keyword collection across platform adapters, with cache
// lookups before fetching and synthetic fallback when a platform blocks or
// under-delivers.
type Collector struct {
	adapters map[string]Adapter
	store    cache.Store
	gen      *Generator
	cfg      config.CollectionConfig
	clock    clockwork.Clock
	rng      *rand.Rand
	logger   *slog.Logger
}

// New assembles a Collector. store may be nil, in which case cache lookups
// and persistence are skipped regardless of Request.UseCache.
func New(adapters map[string]Adapter, store cache.Store, gen *Generator, cfg config.CollectionConfig, clock clockwork.Clock, rng *rand.Rand, logger *slog.Logger) *Collector {
	return &Collector{
		adapters: adapters,
		store:    store,
		gen:      gen,
		cfg:      cfg,
		clock:    clock,
		rng:      rng,
		logger:   logger,
	}
}

// Collect gathers up to req.Limit items per requested platform. A failure on
// one platform never aborts the others; cancellation returns whatever was
// gathered so far along with the context error.
func (c *Collector) Collect(ctx context.Context, req Request) (map[string][]models.RawItem, error) {
	runID := uuid.NewString()
	limit := req.Limit
	if limit <= 0 {
		limit = c.cfg.DefaultLimit
	}

	logger := c.logger.With(slog.String("run_id", runID), slog.String("keyword", req.Keyword))
	logger.Info("[Collector] Starting collection run",
		slog.Any("platforms", req.Platforms),
		slog.Int("limit", limit))

	results := make(map[string][]models.RawItem, len(req.Platforms))
	for i, platform := range req.Platforms {
		if err := ctx.Err(); err != nil {
			logger.Warn("[Collector] Run cancelled, returning partial results",
				slog.Int("platforms_done", i))
			return results, err
		}

		items, fromCache := c.collectPlatform(ctx, logger, req, platform, limit)
		results[platform] = items

		// Cache hits cost nothing upstream, so no pause is owed for them.
		if !fromCache && i < len(req.Platforms)-1 {
			if err := c.pause(ctx); err != nil {
				return results, err
			}
		}
	}

	logger.Info("[Collector] Collection run finished",
		slog.Int("platforms", len(results)))
	return results, nil
}

func (c *Collector) collectPlatform(ctx context.Context, logger *slog.Logger, req Request, platform string, limit int) (items []models.RawItem, fromCache bool) {
	logger = logger.With(slog.String("platform", platform))

	if req.UseCache && c.store != nil {
		cached, hit, err := c.store.Lookup(ctx, platform, req.Keyword, limit)
		if err != nil {
			logger.Warn("[Collector] Cache lookup failed, falling through to fetch",
				slog.Any("error", err))
		} else if hit {
			logger.Info("[Collector] Cache hit", slog.Int("count", len(cached)))
			return cached, true
		}
	}

	items = c.fetch(ctx, logger, req, platform, limit)

	if req.UseMock && len(items) < c.minimumYield(limit) {
		needed := limit - len(items)
		logger.Info("[Collector] Insufficient real data, augmenting",
			slog.Int("real", len(items)),
			slog.Int("synthetic", needed))
		items = append(items, c.gen.Generate(req.Keyword, platform, needed)...)
	}

	c.persist(ctx, logger, req, platform, items)
	return items, false
}

func (c *Collector) fetch(ctx context.Context, logger *slog.Logger, req Request, platform string, limit int) []models.RawItem {
	adapter, ok := c.adapters[platform]
	if !ok {
		logger.Warn("[Collector] No adapter configured")
		return nil
	}

	items, err := adapter.Search(ctx, req.Keyword, limit)
	if err != nil {
		if IsBlocked(err) {
			logger.Warn("[Collector] Platform blocked the request", slog.Any("error", err))
		} else {
			logger.Error("[Collector] Fetch failed", slog.Any("error", err))
		}
		// Keep whatever partial page data the adapter handed back.
		return items
	}

	logger.Info("[Collector] Fetched items", slog.Int("count", len(items)))
	return items
}

// minimumYield is the fraction of the requested limit below which a fetch is
// considered insufficient.
func (c *Collector) minimumYield(limit int) int {
	return int(float64(limit) * c.cfg.InsufficientDataFraction)
}

// persist writes the collected set to the cache. UseCache gates only the
// lookup; a run that skipped the cache still warms it for the next one.
func (c *Collector) persist(ctx context.Context, logger *slog.Logger, req Request, platform string, items []models.RawItem) {
	if c.store == nil {
		return
	}

	if len(items) == 0 {
		return
	}

	// Synthetic items are persisted too; the flag in extra keeps them
	// distinguishable on later hits.
	if err := c.store.Upsert(ctx, platform, req.Keyword, items); err != nil {
		logger.Warn("[Collector] Cache persist failed", slog.Any("error", err))
		return
	}
	logger.Debug("[Collector] Persisted items to cache", slog.Int("count", len(items)))
}

// pause waits a randomized interval between platforms so successive requests
// do not share a fixed cadence.
func (c *Collector) pause(ctx context.Context) error {
	min := c.cfg.RequestInterval.Min.Std()
	max := c.cfg.RequestInterval.Max.Std()
	delay := min
	if max > min {
		delay = min + time.Duration(c.rng.Int63n(int64(max-min)))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(delay):
		return nil
	}
}
