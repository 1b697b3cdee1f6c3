// Package cache persists collected content keyed by (platform, content_id)
// with TTL-based freshness and idempotent upsert semantics.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sentimap/sentimap/internal/models"
)

// Store is the content cache consumed by the collector. A lookup is a hit
// only when at least minCount entries for (platform, keyword) are fresher
// than the TTL; anything less is a miss and the caller refetches. Cached and
// freshly fetched items are never merged.
type Store interface {
	Lookup(ctx context.Context, platform, keyword string, minCount int) ([]models.RawItem, bool, error)
	Upsert(ctx context.Context, platform, keyword string, items []models.RawItem) error
	Close()
}

// Error wraps a cache backend failure. Cache errors are logged and absorbed
// at the collector boundary; they are never fatal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func entryFromItem(keyword string, item models.RawItem, collectedAt time.Time) (models.CacheEntry, error) {
	entry := models.CacheEntry{
		Platform:    item.Platform,
		ContentID:   item.ContentID,
		Keyword:     keyword,
		Content:     item.Text,
		Author:      item.Author,
		Location:    item.RawLocation,
		PublishTime: item.PublishTime,
		CollectedAt: collectedAt,
	}
	if len(item.Extra) > 0 {
		raw, err := json.Marshal(item.Extra)
		if err != nil {
			return entry, fmt.Errorf("encode extra: %w", err)
		}
		entry.ExtraJSON = string(raw)
	}
	return entry, nil
}

func itemFromEntry(entry models.CacheEntry) models.RawItem {
	item := models.RawItem{
		Platform:    entry.Platform,
		ContentID:   entry.ContentID,
		Text:        entry.Content,
		Author:      entry.Author,
		RawLocation: entry.Location,
		PublishTime: entry.PublishTime,
	}
	if entry.ExtraJSON != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(entry.ExtraJSON), &extra); err == nil {
			item.Extra = extra
		}
	}
	return item
}
