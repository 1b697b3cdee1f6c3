package aggregator

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimap/sentimap/internal/models"
)

func item(province string, score, confidence float64, category string) models.ProcessedItem {
	return models.ProcessedItem{
		Platform:          "weibo",
		Province:          province,
		SentimentScore:    score,
		Confidence:        confidence,
		SentimentCategory: category,
	}
}

func TestAggregateByProvince_MinimumSampleGate(t *testing.T) {
	agg := New(5, slog.Default())

	items := []models.ProcessedItem{
		// 上海 clears the gate with 5 items; 北京 stays below it with 3.
		item("上海", 0.8, 1, models.CategoryPositive),
		item("上海", 0.6, 1, models.CategoryPositive),
		item("上海", 0.7, 1, models.CategoryPositive),
		item("上海", 0.9, 1, models.CategoryVeryPositive),
		item("上海", 0.5, 1, models.CategoryNeutral),
		item("北京", 0.4, 1, models.CategoryNegative),
		item("北京", 0.3, 1, models.CategoryNegative),
		item("北京", 0.2, 1, models.CategoryNegative),
		item(models.UnknownLocation, 0.9, 1, models.CategoryVeryPositive),
	}

	result := agg.AggregateByProvince(items)

	require.Contains(t, result, "上海")
	assert.NotContains(t, result, "北京")
	assert.NotContains(t, result, models.UnknownLocation)

	shanghai := result["上海"]
	assert.Equal(t, 5, shanghai.Count)
	assert.InDelta(t, 0.7, shanghai.Score, 1e-9)
	assert.Equal(t, 3, shanghai.CategoryCounts[models.CategoryPositive])
	assert.Equal(t, 1, shanghai.CategoryCounts[models.CategoryVeryPositive])
	assert.Equal(t, 1, shanghai.CategoryCounts[models.CategoryNeutral])
}

func TestAggregateByProvince_ConfidenceWeighting(t *testing.T) {
	agg := New(2, slog.Default())

	items := []models.ProcessedItem{
		item("广东", 1.0, 0.9, models.CategoryVeryPositive),
		item("广东", 0.0, 0.1, models.CategoryVeryNegative),
	}

	result := agg.AggregateByProvince(items)
	require.Contains(t, result, "广东")

	guangdong := result["广东"]
	assert.InDelta(t, 0.5, guangdong.Score, 1e-9)
	// The confident item dominates: (1.0*0.9 + 0.0*0.1) / 1.0.
	assert.InDelta(t, 0.9, guangdong.WeightedScore, 1e-9)
}

func TestAggregateByProvince_ZeroConfidenceFallsBackToMean(t *testing.T) {
	agg := New(2, slog.Default())

	items := []models.ProcessedItem{
		item("浙江", 0.8, 0, models.CategoryPositive),
		item("浙江", 0.4, 0, models.CategoryNeutral),
	}

	result := agg.AggregateByProvince(items)
	require.Contains(t, result, "浙江")
	assert.InDelta(t, 0.6, result["浙江"].WeightedScore, 1e-9)
}

func TestAggregateByPlatform_GatePerPlatform(t *testing.T) {
	agg := New(2, slog.Default())

	byPlatform := map[string][]models.ProcessedItem{
		"weibo": {
			item("上海", 0.8, 1, models.CategoryPositive),
			item("上海", 0.6, 1, models.CategoryPositive),
			item("北京", 0.4, 1, models.CategoryNegative),
		},
		"zhihu": {},
	}

	result := agg.AggregateByPlatform(byPlatform)

	require.Contains(t, result, "weibo")
	assert.NotContains(t, result, "zhihu")

	// The minimum-sample gate re-applies within each platform: 北京 has
	// only one weibo item and drops out.
	require.Contains(t, result["weibo"], "上海")
	assert.NotContains(t, result["weibo"], "北京")
	assert.InDelta(t, 0.7, result["weibo"]["上海"].Score, 1e-9)
}

func TestPlatformComparison_NoGate(t *testing.T) {
	agg := New(5, slog.Default())

	byPlatform := map[string][]models.ProcessedItem{
		"weibo": {item("上海", 0.8, 1, models.CategoryPositive)},
		"zhihu": {
			item("北京", 0.2, 1, models.CategoryNegative),
			item("北京", 0.4, 1, models.CategoryNegative),
		},
	}

	result := agg.PlatformComparison(byPlatform)

	assert.InDelta(t, 0.8, result["weibo"], 1e-9)
	assert.InDelta(t, 0.3, result["zhihu"], 1e-9)
}

func TestSentimentDistribution_InsufficientBucket(t *testing.T) {
	agg := New(5, slog.Default())

	items := []models.ProcessedItem{
		item("上海", 0.8, 1, models.CategoryPositive),
		item("上海", 0.3, 1, models.CategoryNegative),
		item(models.UnknownLocation, 0.8, 1, models.CategoryPositive),
		item("", 0.8, 1, models.CategoryPositive),
	}

	dist := agg.SentimentDistribution(items)

	// Unresolved items keep their category tally and add to the
	// insufficient bucket on top.
	assert.Equal(t, 3, dist[models.CategoryPositive])
	assert.Equal(t, 1, dist[models.CategoryNegative])
	assert.Equal(t, 2, dist[InsufficientBucket])
}

func TestTimeTrend(t *testing.T) {
	agg := New(5, slog.Default())

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	withTime := func(p models.ProcessedItem, at time.Time) models.ProcessedItem {
		p.PublishTime = at
		return p
	}

	items := []models.ProcessedItem{
		withTime(item("上海", 0.8, 1, models.CategoryPositive), base),
		withTime(item("上海", 0.4, 1, models.CategoryNeutral), base.Add(2*time.Hour)),
		withTime(item("北京", 0.6, 1, models.CategoryPositive), base.AddDate(0, 0, 1)),
		// Zero publish time never contributes a bucket.
		item("上海", 0.9, 1, models.CategoryVeryPositive),
	}

	points := agg.TimeTrend(items, 24*time.Hour)

	require.Len(t, points, 2)
	assert.True(t, points[0].Bucket.Before(points[1].Bucket))
	assert.Equal(t, 2, points[0].Count)
	assert.InDelta(t, 0.6, points[0].Score, 1e-9)
	assert.Equal(t, 1, points[1].Count)

	assert.Nil(t, agg.TimeTrend(items, 0))
}
