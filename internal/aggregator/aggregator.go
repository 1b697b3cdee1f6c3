package aggregator

import (
	"log/slog"
	"sort"
	"time"

	"github.com/sentimap/sentimap/internal/models"
)

// Aggregator reduces processed items to per-province, per-platform and
// time-bucketed summaries. Provinces only appear in the map output once they
// clear the configured minimum sample size; platform comparisons carry no
// such gate.
type Aggregator struct {
	minimumSamples int
	logger         *slog.Logger
}

// TrendPoint is one time bucket in a sentiment trend.
type TrendPoint struct {
	Bucket time.Time `json:"bucket"`
	Score  float64   `json:"score"`
	Count  int       `json:"count"`
}

// InsufficientBucket labels items that could not be attributed to a province
// in SentimentDistribution output.
const InsufficientBucket = "insufficient"

func New(minimumSamples int, logger *slog.Logger) *Aggregator {
	return &Aggregator{minimumSamples: minimumSamples, logger: logger}
}

// AggregateByProvince groups items by resolved province and summarizes each
// group that has at least the minimum sample count. Unknown locations never
// contribute.
func (a *Aggregator) AggregateByProvince(items []models.ProcessedItem) map[string]models.ProvinceAggregate {
	groups := make(map[string][]models.ProcessedItem)
	for _, item := range items {
		if item.Province == models.UnknownLocation || item.Province == "" {
			continue
		}
		groups[item.Province] = append(groups[item.Province], item)
	}

	out := make(map[string]models.ProvinceAggregate, len(groups))
	gated := 0
	for province, group := range groups {
		if len(group) < a.minimumSamples {
			gated++
			continue
		}
		out[province] = models.ProvinceAggregate{
			Province:       province,
			Score:          meanScore(group),
			WeightedScore:  weightedScore(group),
			Count:          len(group),
			CategoryCounts: categoryCounts(group),
		}
	}

	a.logger.Info("[Aggregator] Province aggregation finished",
		slog.Int("provinces", len(out)),
		slog.Int("below_minimum", gated))
	return out
}

// AggregateByPlatform applies the province aggregation, gate included, to
// each platform's items separately.
func (a *Aggregator) AggregateByPlatform(byPlatform map[string][]models.ProcessedItem) map[string]map[string]models.ProvinceAggregate {
	out := make(map[string]map[string]models.ProvinceAggregate, len(byPlatform))
	for platform, group := range byPlatform {
		if len(group) == 0 {
			continue
		}
		out[platform] = a.AggregateByProvince(group)
	}
	return out
}

// PlatformComparison returns the mean score per platform. Unlike the
// province maps there is no sample gate; a sparse platform is still a valid
// comparison row.
func (a *Aggregator) PlatformComparison(byPlatform map[string][]models.ProcessedItem) map[string]float64 {
	out := make(map[string]float64, len(byPlatform))
	for platform, group := range byPlatform {
		if len(group) == 0 {
			continue
		}
		out[platform] = meanScore(group)
	}
	return out
}

// SentimentDistribution counts items per sentiment category. Every item
// contributes its category; items whose province could not be resolved are
// additionally tallied under InsufficientBucket.
func (a *Aggregator) SentimentDistribution(items []models.ProcessedItem) map[string]int {
	dist := make(map[string]int)
	for _, item := range items {
		dist[item.SentimentCategory]++
		if item.Province == models.UnknownLocation || item.Province == "" {
			dist[InsufficientBucket]++
		}
	}
	return dist
}

// TimeTrend buckets items by publish time truncated to the given interval
// and returns buckets in ascending order. Items without a publish time are
// skipped.
func (a *Aggregator) TimeTrend(items []models.ProcessedItem, bucket time.Duration) []TrendPoint {
	if bucket <= 0 {
		return nil
	}

	groups := make(map[time.Time][]models.ProcessedItem)
	for _, item := range items {
		if item.PublishTime.IsZero() {
			continue
		}
		groups[item.PublishTime.Truncate(bucket)] = append(groups[item.PublishTime.Truncate(bucket)], item)
	}

	points := make([]TrendPoint, 0, len(groups))
	for when, group := range groups {
		points = append(points, TrendPoint{
			Bucket: when,
			Score:  meanScore(group),
			Count:  len(group),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket.Before(points[j].Bucket) })
	return points
}

func meanScore(items []models.ProcessedItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range items {
		sum += item.SentimentScore
	}
	return sum / float64(len(items))
}

// weightedScore averages scores weighted by analyzer confidence. When every
// confidence is zero the plain mean is used so the province still reports a
// score.
func weightedScore(items []models.ProcessedItem) float64 {
	var weighted, weight float64
	for _, item := range items {
		weighted += item.SentimentScore * item.Confidence
		weight += item.Confidence
	}
	if weight == 0 {
		return meanScore(items)
	}
	return weighted / weight
}

func categoryCounts(items []models.ProcessedItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.SentimentCategory]++
	}
	return counts
}
