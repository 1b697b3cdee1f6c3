package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/models"
)

// Adapter fetches raw content for a keyword from one platform. Search returns
// whatever it could obtain, even nothing; it raises a *SourceError only for
// conditions the collector must react to (blocked walls, exhausted retries).
// One adapter instance is a single logical session; concurrent calls to the
// same instance are not assumed safe.
type Adapter interface {
	Platform() string
	Search(ctx context.Context, keyword string, limit int) ([]models.RawItem, error)
}

// AdapterDeps carries the shared collaborators every adapter needs.
type AdapterDeps struct {
	Clock  clockwork.Clock
	Rand   *rand.Rand
	Logger *slog.Logger

	Timeout    time.Duration
	MaxRetries int

	// PageDelay bounds the pause between paged requests to one platform.
	// Zero disables it (used by tests).
	PageDelay time.Duration
}

// AdapterFactory builds one adapter from its platform configuration.
type AdapterFactory func(cfg config.PlatformConfig, deps AdapterDeps) (Adapter, error)

// adapterFactories is the static platform registry. Adapters are selected at
// startup from configuration; there is no dynamic loading.
var adapterFactories = map[string]AdapterFactory{
	PlatformWeibo:       newWeiboAdapter,
	PlatformZhihu:       newZhihuAdapter,
	PlatformXiaohongshu: newXiaohongshuAdapter,
}

// Platform identifiers recognized by the registry.
const (
	PlatformWeibo       = "weibo"
	PlatformZhihu       = "zhihu"
	PlatformXiaohongshu = "xiaohongshu"
)

// BuildAdapters instantiates every enabled platform that has a registered
// factory. A platform that fails to build is logged and skipped so the
// remaining platforms still collect.
func BuildAdapters(cfg config.CollectionConfig, deps AdapterDeps) map[string]Adapter {
	adapters := make(map[string]Adapter)

	for platform, platformCfg := range cfg.Platforms {
		if !platformCfg.Enabled {
			continue
		}
		factory, ok := adapterFactories[platform]
		if !ok {
			deps.Logger.Warn("[Collector] No adapter registered for platform",
				slog.String("platform", platform))
			continue
		}
		adapter, err := factory(platformCfg, deps)
		if err != nil {
			deps.Logger.Error("[Collector] Failed to build adapter",
				slog.String("platform", platform),
				slog.String("error", err.Error()))
			continue
		}
		adapters[platform] = adapter
	}

	return adapters
}

// fetchPage GETs url with headers through client, classifying failures by the
// source-error taxonomy so retryWithBackoff knows what to do.
func fetchPage(ctx context.Context, client *http.Client, platform, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, networkError(platform, err)
	}
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, networkError(platform, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, blockedError(platform, fmt.Errorf("http status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, networkError(platform, fmt.Errorf("http status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, networkError(platform, fmt.Errorf("unexpected http status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(platform, err)
	}
	return body, nil
}

// pagePause sleeps a jittered delay between paged requests, honoring ctx.
func pagePause(ctx context.Context, deps AdapterDeps) {
	if deps.PageDelay <= 0 {
		return
	}
	delay := deps.PageDelay
	if deps.Rand != nil {
		delay += time.Duration(deps.Rand.Int63n(int64(deps.PageDelay) + 1))
	}
	select {
	case <-deps.Clock.After(delay):
	case <-ctx.Done():
	}
}
