package models

import "time"

// RawItem is one piece of content fetched from a platform (or generated by
// the synthetic fallback). Identity is (Platform, ContentID); a second fetch
// of the same id upserts in the cache, it never duplicates.
type RawItem struct {
	Platform    string         `json:"platform"`
	ContentID   string         `json:"content_id"`
	Text        string         `json:"text"`
	Author      string         `json:"author"`
	RawLocation string         `json:"raw_location"`
	PublishTime time.Time      `json:"publish_time"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ExtraSyntheticKey flags items produced by the synthetic generator so
// downstream consumers can tell real from generated data. Aggregation treats
// both identically.
const ExtraSyntheticKey = "synthetic"

// IsSynthetic reports whether the item was produced by the synthetic generator.
func (r RawItem) IsSynthetic() bool {
	v, ok := r.Extra[ExtraSyntheticKey]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
