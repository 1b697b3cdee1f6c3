package models

// Sentiment categories derived from the ensemble score via the configured
// threshold bands.
const (
	CategoryVeryNegative = "very_negative"
	CategoryNegative     = "negative"
	CategoryNeutral      = "neutral"
	CategoryPositive     = "positive"
	CategoryVeryPositive = "very_positive"
)

// SentimentResult is the output of the ensemble analyzer for one text.
type SentimentResult struct {
	Score      float64 `json:"score"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`

	// Per-model sub-scores, kept for diagnostics.
	ModelScores ModelScores `json:"model_scores"`
}

// ModelScores holds the three independent sub-scores, each in [0,1].
type ModelScores struct {
	Lexicon    float64 `json:"lexicon"`
	RuleBased  float64 `json:"rule_based"`
	DomainDict float64 `json:"domain_dict"`
}
