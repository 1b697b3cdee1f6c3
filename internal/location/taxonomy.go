package location

import "sort"

// The closed province-level taxonomy: 34 units addressed by full name,
// single-character abbreviation, and classical names where they exist.
var provinceAliases = map[string]string{
	"北京": "北京", "京": "北京",
	"天津": "天津", "津": "天津",
	"上海": "上海", "沪": "上海",
	"重庆": "重庆", "渝": "重庆",
	"河北": "河北", "冀": "河北",
	"山西": "山西", "晋": "山西",
	"辽宁": "辽宁", "辽": "辽宁",
	"吉林": "吉林", "吉": "吉林",
	"黑龙江": "黑龙江", "黑": "黑龙江",
	"江苏": "江苏", "苏": "江苏",
	"浙江": "浙江", "浙": "浙江",
	"安徽": "安徽", "皖": "安徽",
	"福建": "福建", "闽": "福建",
	"江西": "江西", "赣": "江西",
	"山东": "山东", "鲁": "山东",
	"河南": "河南", "豫": "河南",
	"湖北": "湖北", "鄂": "湖北",
	"湖南": "湖南", "湘": "湖南",
	"广东": "广东", "粤": "广东",
	"广西": "广西", "桂": "广西",
	"海南": "海南", "琼": "海南",
	"四川": "四川", "川": "四川", "蜀": "四川",
	"贵州": "贵州", "黔": "贵州", "贵": "贵州",
	"云南": "云南", "滇": "云南", "云": "云南",
	"西藏": "西藏", "藏": "西藏",
	"陕西": "陕西", "陕": "陕西", "秦": "陕西",
	"甘肃": "甘肃", "甘": "甘肃", "陇": "甘肃",
	"青海": "青海", "青": "青海",
	"宁夏": "宁夏", "宁": "宁夏",
	"新疆": "新疆", "新": "新疆",
	"内蒙古": "内蒙古", "内蒙": "内蒙古",
	"香港": "香港", "港": "香港",
	"澳门": "澳门", "澳": "澳门",
	"台湾": "台湾", "台": "台湾",
}

// The fixed 7-region partition. 香港/澳门/台湾 are provinces without a region
// assignment; RegionOf returns no match for them.
var regionProvinces = map[string][]string{
	"华北": {"北京", "天津", "河北", "山西", "内蒙古"},
	"东北": {"辽宁", "吉林", "黑龙江"},
	"华东": {"上海", "江苏", "浙江", "安徽", "福建", "江西", "山东"},
	"华中": {"河南", "湖北", "湖南"},
	"华南": {"广东", "广西", "海南"},
	"西南": {"重庆", "四川", "贵州", "云南", "西藏"},
	"西北": {"陕西", "甘肃", "青海", "宁夏", "新疆"},
}

// cityProvinces maps major cities to their province for profile strings that
// name a city instead of a province.
var cityProvinces = map[string]string{
	"广州": "广东", "深圳": "广东", "东莞": "广东", "佛山": "广东", "珠海": "广东",
	"杭州": "浙江", "宁波": "浙江", "温州": "浙江", "嘉兴": "浙江",
	"南京": "江苏", "苏州": "江苏", "无锡": "江苏", "常州": "江苏", "南通": "江苏",
	"成都": "四川", "绵阳": "四川", "宜宾": "四川",
	"武汉": "湖北", "宜昌": "湖北", "襄阳": "湖北",
	"西安": "陕西", "咸阳": "陕西", "宝鸡": "陕西",
	"长沙": "湖南", "株洲": "湖南", "岳阳": "湖南",
	"郑州": "河南", "洛阳": "河南", "开封": "河南",
	"青岛": "山东", "济南": "山东", "烟台": "山东", "潍坊": "山东",
	"厦门": "福建", "福州": "福建", "泉州": "福建",
	"合肥": "安徽", "芜湖": "安徽",
	"南昌": "江西", "赣州": "江西",
	"沈阳": "辽宁", "大连": "辽宁",
	"长春":  "吉林",
	"哈尔滨": "黑龙江",
	"石家庄": "河北", "唐山": "河北", "保定": "河北",
	"太原": "山西", "大同": "山西",
	"呼和浩特": "内蒙古", "包头": "内蒙古",
	"南宁": "广西", "桂林": "广西", "柳州": "广西",
	"海口": "海南", "三亚": "海南",
	"昆明": "云南", "大理": "云南", "丽江": "云南",
	"贵阳": "贵州", "遵义": "贵州",
	"拉萨":   "西藏",
	"兰州":   "甘肃",
	"西宁":   "青海",
	"银川":   "宁夏",
	"乌鲁木齐": "新疆", "喀什": "新疆",
}

// orderedAliases lists every alias longest-first (ties broken
// lexicographically) so substring extraction is deterministic and full names
// win over single-character abbreviations.
var orderedAliases = func() []string {
	aliases := make([]string, 0, len(provinceAliases))
	for alias := range provinceAliases {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		li, lj := len([]rune(aliases[i])), len([]rune(aliases[j]))
		if li != lj {
			return li > lj
		}
		return aliases[i] < aliases[j]
	})
	return aliases
}()

// orderedCities mirrors orderedAliases for the city table.
var orderedCities = func() []string {
	cities := make([]string, 0, len(cityProvinces))
	for city := range cityProvinces {
		cities = append(cities, city)
	}
	sort.Slice(cities, func(i, j int) bool {
		li, lj := len([]rune(cities[i])), len([]rune(cities[j]))
		if li != lj {
			return li > lj
		}
		return cities[i] < cities[j]
	})
	return cities
}()

// provinceRegions is the reverse province→region index built at init.
var provinceRegions = func() map[string]string {
	m := make(map[string]string, 31)
	for region, provinces := range regionProvinces {
		for _, p := range provinces {
			m[p] = region
		}
	}
	return m
}()

// Provinces returns the standard names of every province-level unit.
func Provinces() []string {
	seen := make(map[string]struct{}, 34)
	var out []string
	for _, p := range provinceAliases {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
