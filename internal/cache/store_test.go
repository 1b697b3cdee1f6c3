package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimap/sentimap/internal/models"
)

func TestEntryConversion_PreservesExtra(t *testing.T) {
	collectedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	item := models.RawItem{
		Platform:    "weibo",
		ContentID:   "42",
		Text:        "这个平台真的很棒",
		Author:      "测试用户",
		RawLocation: "上海",
		PublishTime: collectedAt.Add(-48 * time.Hour),
		Extra: map[string]any{
			"reposts_count": float64(12),
			"source":        "手机客户端",
		},
	}

	entry, err := entryFromItem("编程", item, collectedAt)
	require.NoError(t, err)
	assert.Equal(t, "编程", entry.Keyword)
	assert.Equal(t, collectedAt, entry.CollectedAt)
	assert.NotEmpty(t, entry.ExtraJSON)

	back := itemFromEntry(entry)
	assert.Equal(t, item, back)
}

func TestEntryConversion_NoExtra(t *testing.T) {
	item := models.RawItem{Platform: "zhihu", ContentID: "7", Text: "内容"}

	entry, err := entryFromItem("编程", item, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entry.ExtraJSON)
	assert.Nil(t, itemFromEntry(entry).Extra)
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &Error{Op: "lookup", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "lookup")
}
