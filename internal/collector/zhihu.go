package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/models"
)

type zhihuAdapter struct {
	apiBase       string
	endpoint      string
	maxPerRequest int
	apiKey        string
	client        *http.Client
	deps          AdapterDeps
	logger        *slog.Logger
}

func newZhihuAdapter(cfg config.PlatformConfig, deps AdapterDeps) (Adapter, error) {
	a := &zhihuAdapter{
		apiBase:       cfg.APIBase,
		endpoint:      cfg.SearchEndpoint,
		maxPerRequest: cfg.MaxPerRequest,
		apiKey:        cfg.APIKey,
		client:        &http.Client{Timeout: deps.Timeout},
		deps:          deps,
		logger:        deps.Logger,
	}
	if a.maxPerRequest <= 0 {
		a.maxPerRequest = 20
	}
	return a, nil
}

func (a *zhihuAdapter) Platform() string { return PlatformZhihu }

// flexID tolerates both numeric and string ids in API payloads.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type zhihuSearchResponse struct {
	Data []zhihuSearchItem `json:"data"`
}

type zhihuSearchItem struct {
	Type   string      `json:"type"`
	Object zhihuObject `json:"object"`
}

type zhihuObject struct {
	ID           flexID `json:"id"`
	Content      string `json:"content"`
	Excerpt      string `json:"excerpt"`
	URL          string `json:"url"`
	CreatedTime  int64  `json:"created_time"`
	Created      int64  `json:"created"`
	VoteupCount  int    `json:"voteup_count"`
	CommentCount int    `json:"comment_count"`
	Author       struct {
		Name      string `json:"name"`
		Headline  string `json:"headline"`
		Locations []struct {
			Name string `json:"name"`
		} `json:"locations"`
	} `json:"author"`
}

// Search pages through search_v3 by offset, keeping answers and articles.
func (a *zhihuAdapter) Search(ctx context.Context, keyword string, limit int) ([]models.RawItem, error) {
	var results []models.RawItem
	offset := 0
	policy := defaultRetryPolicy(a.deps.MaxRetries)

	headers := map[string]string{
		"Accept":       "application/json, text/plain, */*",
		"Content-Type": "application/json;charset=UTF-8",
	}
	if a.apiKey != "" {
		headers["Authorization"] = "Bearer " + a.apiKey
	}

	for len(results) < limit {
		count := a.maxPerRequest
		if remaining := limit - len(results); remaining < count {
			count = remaining
		}

		query := url.Values{}
		query.Set("q", keyword)
		query.Set("t", "general")
		query.Set("limit", strconv.Itoa(count))
		query.Set("offset", strconv.Itoa(offset))
		pageURL := fmt.Sprintf("%s%s?%s", a.apiBase, a.endpoint, query.Encode())

		body, err := retryWithBackoff(ctx, a.deps.Clock, a.deps.Rand, policy, a.logger, func() ([]byte, error) {
			return fetchPage(ctx, a.client, PlatformZhihu, pageURL, headers)
		})
		if err != nil {
			if len(results) > 0 {
				a.logger.Warn("[ZhihuAdapter] Fetch failed mid-pagination, returning partial results",
					slog.Int("collected", len(results)),
					slog.String("error", err.Error()))
				return results, nil
			}
			return nil, err
		}

		var resp zhihuSearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return results, parseError(PlatformZhihu, err)
		}
		if len(resp.Data) == 0 {
			break
		}

		for _, entry := range resp.Data {
			if entry.Type != "answer" && entry.Type != "article" {
				continue
			}
			item, ok := a.itemFromObject(entry.Type, entry.Object)
			if !ok {
				continue
			}
			results = append(results, item)
			if len(results) >= limit {
				break
			}
		}

		offset += len(resp.Data)
		if len(resp.Data) < a.maxPerRequest {
			break
		}
		pagePause(ctx, a.deps)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (a *zhihuAdapter) itemFromObject(itemType string, obj zhihuObject) (models.RawItem, bool) {
	if obj.ID == "" {
		return models.RawItem{}, false
	}

	content := obj.Content
	created := obj.CreatedTime
	if itemType == "article" {
		content = obj.Excerpt
		created = obj.Created
	}

	var publishTime time.Time
	if created > 0 {
		publishTime = time.Unix(created, 0)
	}

	return models.RawItem{
		Platform:    PlatformZhihu,
		ContentID:   string(obj.ID),
		Text:        content,
		Author:      obj.Author.Name,
		RawLocation: a.extractLocation(obj),
		PublishTime: publishTime,
		Extra: map[string]any{
			"type":          itemType,
			"vote_count":    obj.VoteupCount,
			"comment_count": obj.CommentCount,
			"url":           obj.URL,
		},
	}, true
}

// extractLocation prefers the author's declared locations over anything
// embedded in their headline. The headline fallback is deliberately crude;
// the location resolver does the real normalization downstream.
func (a *zhihuAdapter) extractLocation(obj zhihuObject) string {
	if len(obj.Author.Locations) > 0 && obj.Author.Locations[0].Name != "" {
		return obj.Author.Locations[0].Name
	}
	return obj.Author.Headline
}
