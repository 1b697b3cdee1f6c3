package models

import "time"

// CacheEntry is the persisted form of a RawItem in the content cache.
// Uniqueness is enforced on (Platform, ContentID); lookups filter by Keyword
// and CollectedAt freshness.
type CacheEntry struct {
	Platform    string    `json:"platform"`
	ContentID   string    `json:"content_id"`
	Keyword     string    `json:"keyword"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Location    string    `json:"location"`
	PublishTime time.Time `json:"publish_time"`
	CollectedAt time.Time `json:"collected_at"`
	ExtraJSON   string    `json:"extra_json,omitempty"`
}
