package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/models"
)

// weiboCreatedAtLayout is weibo's idiosyncratic timestamp format.
const weiboCreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

type weiboAdapter struct {
	apiBase       string
	endpoint      string
	maxPerRequest int
	client        *http.Client
	hasToken      bool
	deps          AdapterDeps
	logger        *slog.Logger
}

func newWeiboAdapter(cfg config.PlatformConfig, deps AdapterDeps) (Adapter, error) {
	a := &weiboAdapter{
		apiBase:       cfg.APIBase,
		endpoint:      cfg.SearchEndpoint,
		maxPerRequest: cfg.MaxPerRequest,
		hasToken:      cfg.AccessToken != "",
		deps:          deps,
		logger:        deps.Logger,
	}
	if a.maxPerRequest <= 0 {
		a.maxPerRequest = 50
	}

	if a.hasToken {
		// The token rides as a bearer header on every request; the oauth2
		// client owns injection so request building stays uniform.
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
		a.client = oauth2.NewClient(context.Background(), source)
		a.client.Timeout = deps.Timeout
	} else {
		a.client = &http.Client{Timeout: deps.Timeout}
		deps.Logger.Warn("[WeiboAdapter] No access token configured, functionality will be limited")
	}

	return a, nil
}

func (a *weiboAdapter) Platform() string { return PlatformWeibo }

type weiboSearchResponse struct {
	Statuses []weiboStatus `json:"statuses"`
}

type weiboStatus struct {
	ID             int64  `json:"id"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
	Source         string `json:"source"`
	RepostsCount   int    `json:"reposts_count"`
	CommentsCount  int    `json:"comments_count"`
	AttitudesCount int    `json:"attitudes_count"`
	User           struct {
		ScreenName string `json:"screen_name"`
		Location   string `json:"location"`
	} `json:"user"`
}

// Search pages through the topic search API until limit items are collected
// or the API runs dry. Missing credentials yield an empty result, not an
// error; that is a recoverable condition for the collector.
func (a *weiboAdapter) Search(ctx context.Context, keyword string, limit int) ([]models.RawItem, error) {
	if !a.hasToken {
		a.logger.Warn("[WeiboAdapter] Skipping fetch: missing access token")
		return nil, nil
	}

	var results []models.RawItem
	page := 1
	policy := defaultRetryPolicy(a.deps.MaxRetries)

	for len(results) < limit {
		count := a.maxPerRequest
		if remaining := limit - len(results); remaining < count {
			count = remaining
		}

		query := url.Values{}
		query.Set("q", keyword)
		query.Set("count", strconv.Itoa(count))
		query.Set("page", strconv.Itoa(page))
		pageURL := fmt.Sprintf("%s%s?%s", a.apiBase, a.endpoint, query.Encode())

		body, err := retryWithBackoff(ctx, a.deps.Clock, a.deps.Rand, policy, a.logger, func() ([]byte, error) {
			return fetchPage(ctx, a.client, PlatformWeibo, pageURL, nil)
		})
		if err != nil {
			if len(results) > 0 {
				a.logger.Warn("[WeiboAdapter] Fetch failed mid-pagination, returning partial results",
					slog.Int("collected", len(results)),
					slog.String("error", err.Error()))
				return results, nil
			}
			return nil, err
		}

		var resp weiboSearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return results, parseError(PlatformWeibo, err)
		}
		if len(resp.Statuses) == 0 {
			break
		}

		for _, status := range resp.Statuses {
			item, err := a.itemFromStatus(status)
			if err != nil {
				a.logger.Warn("[WeiboAdapter] Skipping malformed status",
					slog.String("error", err.Error()))
				continue
			}
			results = append(results, item)
			if len(results) >= limit {
				break
			}
		}

		if len(resp.Statuses) < count {
			break
		}
		page++
		pagePause(ctx, a.deps)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (a *weiboAdapter) itemFromStatus(status weiboStatus) (models.RawItem, error) {
	if status.ID == 0 {
		return models.RawItem{}, fmt.Errorf("status without id")
	}

	var publishTime time.Time
	if status.CreatedAt != "" {
		if t, err := time.Parse(weiboCreatedAtLayout, status.CreatedAt); err == nil {
			publishTime = t
		}
	}

	// Weibo reports "province city"; keep only the leading field.
	location := status.User.Location
	if i := strings.IndexByte(location, ' '); i > 0 {
		location = location[:i]
	}

	return models.RawItem{
		Platform:    PlatformWeibo,
		ContentID:   strconv.FormatInt(status.ID, 10),
		Text:        status.Text,
		Author:      status.User.ScreenName,
		RawLocation: location,
		PublishTime: publishTime,
		Extra: map[string]any{
			"reposts_count":   status.RepostsCount,
			"comments_count":  status.CommentsCount,
			"attitudes_count": status.AttitudesCount,
			"source":          status.Source,
		},
	}, nil
}
