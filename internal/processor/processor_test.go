package processor

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/analyzer"
	"github.com/sentimap/sentimap/internal/location"
	"github.com/sentimap/sentimap/internal/models"
)

func testProcessor(t *testing.T) (*Processor, *clockwork.FakeClock) {
	t.Helper()

	cfg := config.Default().Sentiment
	cfg.DictDir = t.TempDir()

	a, err := analyzer.New(cfg, slog.Default())
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	return New(a, location.NewResolver(), clock, slog.Default()), clock
}

func TestProcess_EnrichesItem(t *testing.T) {
	p, clock := testProcessor(t)

	raw := models.RawItem{
		Platform:    "weibo",
		ContentID:   "42",
		Text:        "这个平台真的很棒，强烈推荐！",
		Author:      "测试用户",
		RawLocation: "上海 浦东",
		PublishTime: clock.Now().Add(-24 * time.Hour),
	}

	item, ok := p.Process(raw)
	require.True(t, ok)

	assert.Equal(t, "weibo", item.Platform)
	assert.Equal(t, "42", item.ContentID)
	assert.Equal(t, "上海 浦东", item.RawLocation)
	assert.Equal(t, "上海", item.Province)
	assert.Equal(t, "华东", item.Region)
	assert.Equal(t, models.CategoryPositive, item.SentimentCategory)
	assert.Greater(t, item.SentimentScore, 0.6)
	assert.Equal(t, clock.Now(), item.ProcessedAt)
}

func TestProcess_ProfileLocationWinsOverText(t *testing.T) {
	p, _ := testProcessor(t)

	item, ok := p.Process(models.RawItem{
		Platform:    "weibo",
		ContentID:   "1",
		Text:        "刚从北京旅游回来，很开心",
		RawLocation: "广东 深圳",
	})
	require.True(t, ok)
	assert.Equal(t, "广东", item.Province)
	assert.Equal(t, "华南", item.Region)
}

func TestProcess_TextLocationFallback(t *testing.T) {
	p, _ := testProcessor(t)

	item, ok := p.Process(models.RawItem{
		Platform:  "zhihu",
		ContentID: "2",
		Text:      "杭州的互联网氛围真的很好",
	})
	require.True(t, ok)
	assert.Equal(t, "浙江", item.Province)
	assert.Equal(t, "华东", item.Region)
}

func TestProcess_UnresolvableLocationIsUnknown(t *testing.T) {
	p, _ := testProcessor(t)

	item, ok := p.Process(models.RawItem{
		Platform:  "zhihu",
		ContentID: "3",
		Text:      "完全不提地名的一条内容",
	})
	require.True(t, ok)
	assert.Equal(t, models.UnknownLocation, item.Province)
	assert.Equal(t, models.UnknownLocation, item.Region)
}

func TestProcess_SkipsEmptyText(t *testing.T) {
	p, _ := testProcessor(t)

	_, ok := p.Process(models.RawItem{Platform: "weibo", ContentID: "4"})
	assert.False(t, ok)
}

func TestProcess_ExtraFieldsPrefixed(t *testing.T) {
	p, _ := testProcessor(t)

	item, ok := p.Process(models.RawItem{
		Platform:  "weibo",
		ContentID: "5",
		Text:      "这个平台真的很棒",
		Extra: map[string]any{
			"reposts_count":          12,
			models.ExtraSyntheticKey: true,
		},
	})
	require.True(t, ok)

	assert.Equal(t, 12, item.Extra["extra_reposts_count"])
	assert.Equal(t, true, item.Extra["extra_"+models.ExtraSyntheticKey])
	assert.NotContains(t, item.Extra, "reposts_count")
}

func TestProcessAll(t *testing.T) {
	p, _ := testProcessor(t)

	raw := map[string][]models.RawItem{
		"weibo": {
			{Platform: "weibo", ContentID: "1", Text: "这个平台真的很棒"},
			{Platform: "weibo", ContentID: "2"}, // empty text, skipped
		},
		"zhihu": {
			{Platform: "zhihu", ContentID: "3", Text: "体验很差，非常失望"},
		},
	}

	batch, err := p.ProcessAll(context.Background(), raw, "")
	require.NoError(t, err)

	assert.Len(t, batch.All, 2)
	assert.Len(t, batch.ByPlatform["weibo"], 1)
	assert.Len(t, batch.ByPlatform["zhihu"], 1)
}

func TestProcessAll_DomainSwitch(t *testing.T) {
	p, _ := testProcessor(t)

	require.NoError(t, p.analyzer.CreateDomainDict("gaming", analyzer.Dictionary{
		"上分": {Score: 0.9, Weight: 1.0},
	}))

	raw := map[string][]models.RawItem{
		"weibo": {{Platform: "weibo", ContentID: "1", Text: "这个英雄很适合上分"}},
	}

	base, err := p.ProcessAll(context.Background(), raw, "")
	require.NoError(t, err)

	boosted, err := p.ProcessAll(context.Background(), raw, "gaming")
	require.NoError(t, err)

	assert.Equal(t, "gaming", p.analyzer.Domain())
	assert.Greater(t, boosted.All[0].SentimentScore, base.All[0].SentimentScore)
}

func TestProcessAll_Cancelled(t *testing.T) {
	p, _ := testProcessor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessAll(ctx, map[string][]models.RawItem{
		"weibo": {{Platform: "weibo", ContentID: "1", Text: "这个平台真的很棒"}},
	}, "")
	assert.ErrorIs(t, err, context.Canceled)
}
