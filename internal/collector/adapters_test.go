package collector

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentimap/sentimap/config"
)

func testDeps() AdapterDeps {
	return AdapterDeps{
		Clock:      clockwork.NewRealClock(),
		Rand:       rand.New(rand.NewSource(1)),
		Logger:     slog.Default(),
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	}
}

func TestWeiboAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "编程", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statuses": [{
			"id": 123456,
			"text": "今天参加了编程活动，感觉很充实！",
			"created_at": "Sun Mar 08 12:00:00 +0800 2026",
			"source": "weibo.com",
			"reposts_count": 5,
			"comments_count": 2,
			"attitudes_count": 30,
			"user": {"screen_name": "程序员日常", "location": "北京 朝阳"}
		}]}`))
	}))
	defer srv.Close()

	adapter, err := newWeiboAdapter(config.PlatformConfig{
		APIBase:        srv.URL,
		SearchEndpoint: "/2/search/topics.json",
		AccessToken:    "test-token",
		MaxPerRequest:  10,
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, PlatformWeibo, item.Platform)
	assert.Equal(t, "123456", item.ContentID)
	assert.Equal(t, "程序员日常", item.Author)
	assert.Equal(t, "北京", item.RawLocation)
	assert.Equal(t, 2026, item.PublishTime.Year())
	assert.Equal(t, 5, item.Extra["reposts_count"])
}

func TestWeiboAdapter_BlockedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	adapter, err := newWeiboAdapter(config.PlatformConfig{
		APIBase:        srv.URL,
		SearchEndpoint: "/search",
		AccessToken:    "test-token",
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 5)
	assert.True(t, IsBlocked(err))
	assert.Empty(t, items)
}

func TestWeiboAdapter_MissingTokenSkipsFetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	adapter, err := newWeiboAdapter(config.PlatformConfig{
		APIBase:        srv.URL,
		SearchEndpoint: "/search",
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, calls)
}

func TestZhihuAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "general", r.URL.Query().Get("t"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"type": "answer", "object": {
				"id": 987,
				"content": "我认为编程非常有价值，收获很大。",
				"created_time": 1767225600,
				"voteup_count": 10,
				"author": {"name": "技术达人", "locations": [{"name": "杭州"}]}
			}},
			{"type": "question", "object": {"id": "ignored", "content": "不应该出现"}},
			{"type": "article", "object": {
				"id": "abc123",
				"excerpt": "编程入门应该从基础开始，循序渐进。",
				"created": 1767312000,
				"author": {"name": "行业专家", "headline": "上海 互联网从业者"}
			}}
		]}`))
	}))
	defer srv.Close()

	adapter, err := newZhihuAdapter(config.PlatformConfig{
		APIBase:        srv.URL,
		SearchEndpoint: "/api/v4/search_v3",
		MaxPerRequest:  20,
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	answer := items[0]
	assert.Equal(t, "987", answer.ContentID)
	assert.Equal(t, "杭州", answer.RawLocation)
	assert.Equal(t, "answer", answer.Extra["type"])

	article := items[1]
	assert.Equal(t, "abc123", article.ContentID)
	assert.Contains(t, article.Text, "循序渐进")
	// No declared location: the headline rides along for the resolver.
	assert.Equal(t, "上海 互联网从业者", article.RawLocation)
}

func TestXiaohongshuAdapter_ParsesNotes(t *testing.T) {
	page := `<html><body>
		<div class="note-item">
			<a href="/discovery/item/abc123"></a>
			<div class="title">分享一下我的编程心得</div>
			<div class="desc">坚持每天练习，进步看得见，推荐给大家</div>
			<div class="user-name">学习笔记</div>
			<div class="location">上海</div>
		</div>
		<div class="note-item">
			<a href="/discovery/item/abc123"></a>
			<div class="title">重复的卡片不应该出现第二次喔</div>
		</div>
		<div class="note-item">
			<a href="/discovery/item/def456"></a>
			<div class="title">超实用编程技巧，零基础也能快速上手</div>
		</div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "编程", r.URL.Query().Get("keyword"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	adapter, err := newXiaohongshuAdapter(config.PlatformConfig{
		SearchURL: srv.URL + "/search_result",
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "abc123", first.ContentID)
	assert.Equal(t, "分享一下我的编程心得: 坚持每天练习，进步看得见，推荐给大家", first.Text)
	assert.Equal(t, "学习笔记", first.Author)
	assert.Equal(t, "上海", first.RawLocation)
	assert.False(t, first.PublishTime.IsZero())

	assert.Equal(t, "def456", items[1].ContentID)
}

func TestXiaohongshuAdapter_LoginWall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>登录后查看更多精彩内容，立即登录</body></html>`))
	}))
	defer srv.Close()

	adapter, err := newXiaohongshuAdapter(config.PlatformConfig{
		SearchURL: srv.URL + "/search_result",
	}, testDeps())
	require.NoError(t, err)

	items, err := adapter.Search(context.Background(), "编程", 10)
	assert.True(t, IsBlocked(err))
	assert.Empty(t, items)
}

func TestXiaohongshuAdapter_RequiresSearchURL(t *testing.T) {
	_, err := newXiaohongshuAdapter(config.PlatformConfig{}, testDeps())
	assert.Error(t, err)
}

func TestBuildAdapters_SkipsDisabledAndBroken(t *testing.T) {
	cfg := config.CollectionConfig{
		Platforms: map[string]config.PlatformConfig{
			PlatformWeibo:       {Enabled: true, APIBase: "https://api.weibo.com"},
			PlatformZhihu:       {Enabled: false},
			PlatformXiaohongshu: {Enabled: true}, // missing searchUrl, must not build
			"tieba":             {Enabled: true}, // no registered factory
		},
	}

	adapters := BuildAdapters(cfg, testDeps())

	assert.Contains(t, adapters, PlatformWeibo)
	assert.NotContains(t, adapters, PlatformZhihu)
	assert.NotContains(t, adapters, PlatformXiaohongshu)
	assert.NotContains(t, adapters, "tieba")
}
