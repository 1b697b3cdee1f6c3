package collector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/models"
)

var noteIDPattern = regexp.MustCompile(`/discovery/item/([a-zA-Z0-9]+)`)

// loginWallMarkers are the page signatures of xiaohongshu's login wall. When
// they show up the session is burned; fetching more pages only returns the
// same wall.
var loginWallMarkers = []string{"查看更多", "立即登录"}

type xiaohongshuAdapter struct {
	searchURL     string
	maxPerRequest int
	client        *http.Client
	deps          AdapterDeps
	logger        *slog.Logger
}

func newXiaohongshuAdapter(cfg config.PlatformConfig, deps AdapterDeps) (Adapter, error) {
	a := &xiaohongshuAdapter{
		searchURL:     cfg.SearchURL,
		maxPerRequest: cfg.MaxPerRequest,
		client:        &http.Client{Timeout: deps.Timeout},
		deps:          deps,
		logger:        deps.Logger,
	}
	if a.searchURL == "" {
		return nil, fmt.Errorf("xiaohongshu: searchUrl is required")
	}
	return a, nil
}

func (a *xiaohongshuAdapter) Platform() string { return PlatformXiaohongshu }

// Search fetches the static search result page and extracts note cards.
// Without script execution only the first page is reachable, so the yield is
// naturally partial; the collector tops up from the synthetic generator.
func (a *xiaohongshuAdapter) Search(ctx context.Context, keyword string, limit int) ([]models.RawItem, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("source", "web_search_result_notes")
	pageURL := fmt.Sprintf("%s?%s", a.searchURL, query.Encode())

	policy := defaultRetryPolicy(a.deps.MaxRetries)
	body, err := retryWithBackoff(ctx, a.deps.Clock, a.deps.Rand, policy, a.logger, func() ([]byte, error) {
		return fetchPage(ctx, a.client, PlatformXiaohongshu, pageURL, map[string]string{
			"Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Referer": "https://www.xiaohongshu.com/",
		})
	})
	if err != nil {
		return nil, err
	}

	if blocked(body) {
		return nil, blockedError(PlatformXiaohongshu, fmt.Errorf("login wall detected"))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, parseError(PlatformXiaohongshu, err)
	}

	seen := make(map[string]struct{})
	var results []models.RawItem

	doc.Find(".note-item, .search-card, .feed-card").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		item, ok := a.itemFromNote(sel)
		if !ok {
			return true
		}
		if _, dup := seen[item.ContentID]; dup {
			return true
		}
		seen[item.ContentID] = struct{}{}
		results = append(results, item)
		return len(results) < limit
	})

	a.logger.Info("[XiaohongshuAdapter] Extracted notes",
		slog.Int("count", len(results)),
		slog.String("keyword", keyword))
	return results, nil
}

// blocked checks the fetched document for login-wall signatures.
func blocked(body []byte) bool {
	page := string(body)
	if !strings.Contains(page, "登录") {
		return false
	}
	for _, marker := range loginWallMarkers {
		if strings.Contains(page, marker) {
			return true
		}
	}
	return false
}

func (a *xiaohongshuAdapter) itemFromNote(sel *goquery.Selection) (models.RawItem, bool) {
	title := strings.TrimSpace(sel.Find(".title, .content-title").First().Text())
	desc := strings.TrimSpace(sel.Find(".desc, .content-desc").First().Text())

	content := title
	switch {
	case title != "" && desc != "":
		content = title + ": " + desc
	case desc != "":
		content = desc
	case title == "":
		content = strings.TrimSpace(sel.Text())
	}

	// Too short to be a real note.
	if utf8.RuneCountInString(content) < 10 {
		return models.RawItem{}, false
	}

	link, _ := sel.Find("a").First().Attr("href")
	noteID := ""
	if m := noteIDPattern.FindStringSubmatch(link); len(m) == 2 {
		noteID = m[1]
	}
	if noteID == "" {
		return models.RawItem{}, false
	}

	return models.RawItem{
		Platform:    PlatformXiaohongshu,
		ContentID:   noteID,
		Text:        content,
		Author:      strings.TrimSpace(sel.Find(".user-name, .author-name").First().Text()),
		RawLocation: strings.TrimSpace(sel.Find(".location, .user-location").First().Text()),
		PublishTime: a.deps.Clock.Now(), // notes do not expose a timestamp
		Extra: map[string]any{
			"type": "note",
			"url":  link,
		},
	}, true
}
