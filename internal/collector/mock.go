package collector

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/internal/models"
)

// Generator produces plausible synthetic items from per-platform templates
// when real collection under-delivers. Output is deterministic for a given
// seed; the random source is injected so tests can assert that.
type Generator struct {
	rng    *rand.Rand
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewGenerator builds a Generator around a seeded random source.
func NewGenerator(rng *rand.Rand, clock clockwork.Clock, logger *slog.Logger) *Generator {
	return &Generator{rng: rng, clock: clock, logger: logger}
}

var zhihuTemplates = struct {
	questionTitles []string
	answers        []string
	authors        []string
	locations      []string
}{
	questionTitles: []string{
		"有哪些值得推荐的%s平台？",
		"%s入门应该学习哪些内容？",
		"如何评价最近的%s活动？",
		"大家平时都用什么%s工具？",
		"初学者如何参加%s？",
		"关于%s，你有什么经验可以分享？",
		"%s的未来发展趋势是什么？",
		"学生如何通过%s提升自己？",
		"参加%s有什么好处？",
		"国内外%s水平差距在哪里？",
	},
	answers: []string{
		"我认为%s非常有价值，参加过很多次，收获很大。最重要的是坚持不懈地练习，不断挑战自己。",
		"作为一个%s爱好者，我想分享一些经验。首先，基础很重要；其次，多参与实践；最后，向优秀的人学习。",
		"说实话，国内的%s水平还有提升空间。相比国外，我们在创新性和系统性上有差距，但勤奋程度确实令人钦佩。",
		"最近参加了一场%s，感觉组织得很好，题目难度适中，平台也很稳定，推荐给大家。不过在细节上还有提升空间。",
		"我觉得%s最大的问题是门槛偏高，对新手不够友好。希望能有更多入门级的资源和活动。",
	},
	authors: []string{
		"编程爱好者", "技术达人", "学习者007", "热心网友", "行业专家",
		"计算机学生", "软件工程师", "数据科学家", "产品经理", "教育工作者",
	},
	locations: []string{
		"北京", "上海", "广州", "深圳", "杭州",
		"成都", "武汉", "西安", "南京", "苏州",
		"长沙", "重庆", "天津", "青岛", "宁波",
	},
}

var weiboTemplates = struct {
	posts     []string
	tips      []string
	books     []string
	authors   []string
	locations []string
}{
	posts: []string{
		"今天参加了%s活动，感觉很充实！#每日学习打卡#",
		"分享一个%s的小技巧：{tip}，希望对大家有帮助！",
		"求助：有没有推荐的%s平台或工具？新手想入门",
		"%s真的太难了，学习曲线陡峭啊，有没有同感的朋友？",
		"最近在研究%s相关的项目，有没有同学想一起探讨？",
		"推荐一本关于%s的好书：《{book}》，读完收获很大！",
		"参加%s比赛得了奖，心情超级好！感谢团队的每个人！",
		"为什么国内的%s资源这么少？特别是高质量的中文教程",
		"%s到底有没有必要学？纠结ing...",
		"分享我的%s学习心得：坚持 > 天赋，持续积累很重要",
	},
	tips: []string{
		"多做练习", "看官方文档", "参加社区活动", "跟着项目学习",
		"做好笔记", "定期复习", "教会别人", "写博客",
	},
	books: []string{
		"从入门到精通", "实战指南", "权威教程", "最佳实践",
		"核心原理", "编程之美", "深入浅出", "编程珠玑",
	},
	authors: []string{
		"程序员日常", "IT爱好者", "编程学习笔记", "码农的自我修养",
		"科技最前沿", "互联网分析", "学习打卡", "代码人生",
	},
	locations: []string{
		"北京", "上海", "广州", "深圳", "杭州",
		"成都", "武汉", "西安", "南京", "苏州",
	},
}

var xiaohongshuTemplates = struct {
	titles    []string
	contents  []string
	authors   []string
	locations []string
}{
	titles: []string{
		"分享一下我的%s心得",
		"超实用%s技巧",
		"%s学习日记",
		"关于%s，你不得不知道的事情",
		"我的%s挑战30天",
		"%s入门攻略",
		"零基础如何学习%s",
		"%s学习资源推荐",
		"我是如何自学%s的",
		"小白必看：%s避坑指南",
	},
	contents: []string{
		"今天给大家分享一下我学习%s的经验。首先，建立正确的学习方法很重要；其次，要坚持每天练习；最后，多和圈内的朋友交流。#学习打卡 #经验分享",
		"%s真的很有趣！我已经坚持学习一个月了，感觉自己进步很大。分享几个实用技巧：1.系统学习比碎片化学习效果好 2.多做项目练习 3.遇到问题多查资料，独立思考。",
		"刚开始学%s时走了不少弯路，现在把我的学习路径分享给大家：先打好基础，然后针对性练习，最后做实战项目。希望对你们有帮助！#新手指南",
		"推荐几个学习%s的好资源：官方文档永远是最好的教程，再配合社区里的入门项目反复练习，都是我反复学习的好东西！",
		"学习%s一个月，最大感受：坚持很重要！哪怕每天只学15分钟，一个月下来也会有很大进步。今天分享我的学习笔记和心得体会，希望对同路人有所帮助。",
	},
	authors: []string{
		"学习笔记", "知识分享官", "编程爱好者", "自学达人",
		"热爱生活的程序媛", "技术博主", "代码搬运工", "程序员日常",
		"IT修炼生", "互联网小白",
	},
	locations: []string{
		"北京", "上海", "广州", "深圳", "杭州",
		"成都", "武汉", "西安", "南京", "苏州",
	},
}

// Generate returns count synthetic items for platform, each flagged in Extra
// so downstream consumers can tell them from real data.
func (g *Generator) Generate(keyword, platform string, count int) []models.RawItem {
	if count <= 0 {
		return nil
	}

	var items []models.RawItem
	switch platform {
	case PlatformZhihu:
		items = g.generateZhihu(keyword, count)
	case PlatformWeibo:
		items = g.generateWeibo(keyword, count)
	case PlatformXiaohongshu:
		items = g.generateXiaohongshu(keyword, count)
	default:
		g.logger.Warn("[Generator] Unsupported platform", slog.String("platform", platform))
		return nil
	}

	g.logger.Info("[Generator] Generated synthetic items",
		slog.String("platform", platform),
		slog.Int("count", len(items)))
	return items
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) publishTime() time.Time {
	return g.clock.Now().AddDate(0, 0, -g.rng.Intn(30))
}

func (g *Generator) contentID(platform string, i int) string {
	return fmt.Sprintf("mock_%s_%08x_%d", platform, g.rng.Uint32(), i)
}

func (g *Generator) generateZhihu(keyword string, count int) []models.RawItem {
	items := make([]models.RawItem, 0, count)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf(zhihuTemplates.questionTitles[g.rng.Intn(len(zhihuTemplates.questionTitles))], keyword)
		answer := fmt.Sprintf(zhihuTemplates.answers[g.rng.Intn(len(zhihuTemplates.answers))], keyword)

		items = append(items, models.RawItem{
			Platform:    PlatformZhihu,
			ContentID:   g.contentID(PlatformZhihu, i),
			Text:        title + ": " + answer,
			Author:      g.pick(zhihuTemplates.authors),
			RawLocation: g.pick(zhihuTemplates.locations),
			PublishTime: g.publishTime(),
			Extra: map[string]any{
				models.ExtraSyntheticKey: true,
				"type":                   g.pick([]string{"answer", "article"}),
				"url":                    fmt.Sprintf("https://www.zhihu.com/question/%d", 10000000+g.rng.Intn(90000000)),
			},
		})
	}
	return items
}

func (g *Generator) generateWeibo(keyword string, count int) []models.RawItem {
	items := make([]models.RawItem, 0, count)
	for i := 0; i < count; i++ {
		post := fmt.Sprintf(weiboTemplates.posts[g.rng.Intn(len(weiboTemplates.posts))], keyword)
		if strings.Contains(post, "{tip}") {
			post = strings.ReplaceAll(post, "{tip}", g.pick(weiboTemplates.tips))
		}
		if strings.Contains(post, "{book}") {
			post = strings.ReplaceAll(post, "{book}", keyword+g.pick(weiboTemplates.books))
		}

		items = append(items, models.RawItem{
			Platform:    PlatformWeibo,
			ContentID:   g.contentID(PlatformWeibo, i),
			Text:        post,
			Author:      g.pick(weiboTemplates.authors),
			RawLocation: g.pick(weiboTemplates.locations),
			PublishTime: g.publishTime(),
			Extra: map[string]any{
				models.ExtraSyntheticKey: true,
				"reposts_count":          g.rng.Intn(101),
				"comments_count":         g.rng.Intn(51),
				"attitudes_count":        g.rng.Intn(201),
			},
		})
	}
	return items
}

func (g *Generator) generateXiaohongshu(keyword string, count int) []models.RawItem {
	items := make([]models.RawItem, 0, count)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf(xiaohongshuTemplates.titles[g.rng.Intn(len(xiaohongshuTemplates.titles))], keyword)
		content := fmt.Sprintf(xiaohongshuTemplates.contents[g.rng.Intn(len(xiaohongshuTemplates.contents))], keyword)

		items = append(items, models.RawItem{
			Platform:    PlatformXiaohongshu,
			ContentID:   g.contentID(PlatformXiaohongshu, i),
			Text:        title + "\n\n" + content,
			Author:      g.pick(xiaohongshuTemplates.authors),
			RawLocation: g.pick(xiaohongshuTemplates.locations),
			PublishTime: g.publishTime(),
			Extra: map[string]any{
				models.ExtraSyntheticKey: true,
				"type":                   "note",
				"url":                    fmt.Sprintf("https://www.xiaohongshu.com/discovery/item/%x", 1000000+g.rng.Intn(9000000)),
			},
		})
	}
	return items
}
