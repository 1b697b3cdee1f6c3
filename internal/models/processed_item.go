package models

import "time"

// UnknownLocation is the sentinel province/region for unresolvable locations.
const UnknownLocation = "unknown"

// ProcessedItem is a RawItem enriched with sentiment and a resolved location.
// ProcessedItems live only for the duration of one pipeline run; they are
// consumed by the aggregator and never persisted.
type ProcessedItem struct {
	Platform    string    `json:"platform"`
	ContentID   string    `json:"content_id"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	PublishTime time.Time `json:"publish_time"`

	SentimentScore    float64 `json:"sentiment_score"`
	SentimentCategory string  `json:"sentiment_category"`
	Confidence        float64 `json:"confidence"`

	// RawLocation is the unresolved profile location as the platform
	// reported it, kept so resolution stays auditable.
	RawLocation string `json:"raw_location,omitempty"`
	Province    string `json:"province"`
	Region      string `json:"region"`

	ProcessedAt time.Time `json:"processed_at"`

	// Extra carries the raw item's extra fields forward under an "extra_"
	// key prefix so they cannot collide with core fields.
	Extra map[string]any `json:"extra,omitempty"`
}

// ProvinceAggregate summarizes sentiment for one province. Only emitted when
// Count >= the configured minimum sample size.
type ProvinceAggregate struct {
	Province       string         `json:"province"`
	Score          float64        `json:"score"`
	WeightedScore  float64        `json:"weighted_score"`
	Count          int            `json:"count"`
	CategoryCounts map[string]int `json:"categories"`
}
