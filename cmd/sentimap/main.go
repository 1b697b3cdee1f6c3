package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/cache"
	"github.com/sentimap/sentimap/internal/collector"
	"github.com/sentimap/sentimap/internal/logging"
	"github.com/sentimap/sentimap/internal/pipeline"
)

func main() {
	keyword := flag.String("keyword", "", "keyword to collect and analyze")
	platforms := flag.String("platforms", "", "comma-separated platforms (default: all enabled)")
	limit := flag.Int("limit", 0, "items per platform (default: configured limit)")
	domain := flag.String("domain", "", "sentiment domain dictionary to use")
	noCache := flag.Bool("no-cache", false, "bypass the content cache")
	noMock := flag.Bool("no-mock", false, "disable synthetic data fallback")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := logging.For(logging.InitLogger(level), "sentimap")

	if *keyword == "" {
		logger.Error("[Main] A keyword is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Error("[Main] Invalid configuration",
				slog.String("field", cfgErr.Field),
				slog.String("reason", cfgErr.Reason))
		} else {
			logger.Error("[Main] Failed to load configuration", slog.Any("error", err))
		}
		os.Exit(1)
	}

	// The -debug flag wins; otherwise the configured level applies.
	if !*debug && cfg.App.LogLevel != "" {
		if configured := parseLevel(cfg.App.LogLevel); configured != level {
			logger = logging.For(logging.InitLogger(configured), "sentimap")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	store := openStore(ctx, cfg, clock, logger)
	if store != nil {
		defer store.Close()
	}

	p, err := pipeline.New(&cfg, store, clock, rng, logger)
	if err != nil {
		logger.Error("[Main] Failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	req := collector.Request{
		Keyword:   *keyword,
		Platforms: requestedPlatforms(*platforms, cfg),
		Limit:     *limit,
		UseCache:  !*noCache && store != nil,
		UseMock:   !*noMock,
	}

	report, err := p.Run(ctx, req, *domain)
	if err != nil {
		logger.Warn("[Main] Run ended early", slog.Any("error", err))
	}

	logReport(logger, report)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore builds the configured cache backend. Cache trouble is never
// fatal; the run proceeds uncached.
func openStore(ctx context.Context, cfg config.Config, clock clockwork.Clock, logger *slog.Logger) cache.Store {
	ttl := cfg.CacheTTL()

	switch cfg.Cache.Backend {
	case "postgres":
		store, err := cache.NewPostgresStore(ctx, cfg.Cache.PostgresDSN, ttl, clock, logger)
		if err != nil {
			logger.Warn("[Main] Postgres cache unavailable, running uncached",
				slog.Any("error", err))
			return nil
		}
		return store
	case "valkey":
		store, err := cache.NewValkeyStore(ctx, cfg.Cache.ValkeyAddress, cfg.Cache.ValkeyPassword, ttl, clock, logger)
		if err != nil {
			logger.Warn("[Main] Valkey cache unavailable, running uncached",
				slog.Any("error", err))
			return nil
		}
		return store
	case "":
		return nil
	default:
		logger.Warn("[Main] Unknown cache backend, running uncached",
			slog.String("backend", cfg.Cache.Backend))
		return nil
	}
}

func requestedPlatforms(arg string, cfg config.Config) []string {
	if arg != "" {
		parts := strings.Split(arg, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	var out []string
	for _, platform := range []string{collector.PlatformWeibo, collector.PlatformZhihu, collector.PlatformXiaohongshu} {
		if pc, ok := cfg.Collection.Platforms[platform]; ok && pc.Enabled {
			out = append(out, platform)
		}
	}
	return out
}

func logReport(logger *slog.Logger, report pipeline.Report) {
	logger.Info("[Main] Run complete",
		slog.String("keyword", report.Keyword),
		slog.Int("items", report.ItemCount),
		slog.Int("provinces", len(report.Provinces)))

	for province, agg := range report.Provinces {
		logger.Info("[Main] Province summary",
			slog.String("province", province),
			slog.Float64("score", agg.Score),
			slog.Float64("weighted_score", agg.WeightedScore),
			slog.Int("count", agg.Count))
	}
	for platform, score := range report.PlatformScores {
		logger.Info("[Main] Platform summary",
			slog.String("platform", platform),
			slog.Float64("score", score),
			slog.Int("provinces", len(report.PlatformProvinces[platform])))
	}
	logger.Info("[Main] Sentiment distribution", slog.Any("distribution", report.Distribution))
}
