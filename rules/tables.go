package rules

import (
	"strings"
	"unicode"

	"github.com/rushteam/pairkit/core"
)

// 本文件集中存放规则评分用到的静态查找表。
// 表内容来自侍酒经验的粗粒度共识，精确权重交给集成模型与 AI 调整，
// 这里只负责给出永远可计算的基线。

// stylePreference 按蛋白给出首选酒款类型。
var stylePreference = map[core.Protein][]core.WineType{
	core.ProteinBeef:      {core.WineRed},
	core.ProteinLamb:      {core.WineRed},
	core.ProteinGame:      {core.WineRed},
	core.ProteinPork:      {core.WineRed, core.WineWhite},
	core.ProteinPoultry:   {core.WineWhite, core.WineRed},
	core.ProteinFish:      {core.WineWhite},
	core.ProteinShellfish: {core.WineWhite, core.WineSparkling},
	core.ProteinVegetable: {core.WineWhite, core.WineRose},
	core.ProteinCheese:    {core.WineRed, core.WineFortified},
}

// prepLeaning 烹饪方式对酒款类型的偏移：
// 重烹饪（braised/roasted/grilled）偏红，轻烹饪（steamed/poached/raw）偏白/起泡。
var prepLeaning = map[core.Preparation]core.WineType{
	core.PrepBraised: core.WineRed,
	core.PrepRoasted: core.WineRed,
	core.PrepSteamed: core.WineWhite,
	core.PrepPoached: core.WineWhite,
	core.PrepRaw:     core.WineSparkling,
	core.PrepCured:   core.WineSparkling,
}

// adjacentStyles 风格相邻关系（双向）。
// 例如偏红的鱼类菜可以接受桃红：相邻命中给 0.6 而不是 0.2。
var adjacentStyles = map[core.WineType][]core.WineType{
	core.WineRed:       {core.WineRose, core.WineFortified},
	core.WineWhite:     {core.WineRose, core.WineSparkling},
	core.WineRose:      {core.WineRed, core.WineWhite, core.WineSparkling},
	core.WineSparkling: {core.WineWhite, core.WineRose},
	core.WineDessert:   {core.WineFortified},
	core.WineFortified: {core.WineDessert, core.WineRed},
}

// wineBody 酒款类型的酒体（1 轻盈 ~ 3 饱满），用于浓郁度-酒体匹配。
var wineBody = map[core.WineType]float64{
	core.WineSparkling: 1.0,
	core.WineWhite:     1.5,
	core.WineRose:      1.6,
	core.WineDessert:   2.2,
	core.WineRed:       2.7,
	core.WineFortified: 3.0,
}

// intensityBody 菜品浓郁度对应的理想酒体。
var intensityBody = map[core.Intensity]float64{
	core.IntensityLight:  1.2,
	core.IntensityMedium: 2.0,
	core.IntensityRich:   2.8,
}

// cuisineCountries 菜系的经典配餐产酒国（小写）。
var cuisineCountries = map[string][]string{
	"french":   {"france"},
	"italian":  {"italy"},
	"greek":    {"greece"},
	"spanish":  {"spain"},
	"american": {"usa", "united states"},
	"mexican":  {"mexico", "spain"},
	"chinese":  {"germany", "france"}, // 芳香型白酒产区的传统搭配
	"japanese": {"france", "germany"},
	"indian":   {"germany", "france"},
}

// seasonTypePreference 季节-酒款类型偏好表；缺省值 0.5。
// 夏季偏起泡/桃红，秋冬偏饱满红酒。
var seasonTypePreference = map[core.Season]map[core.WineType]float64{
	core.SeasonSpring: {
		core.WineWhite:     0.9,
		core.WineRose:      0.9,
		core.WineSparkling: 0.8,
		core.WineRed:       0.5,
	},
	core.SeasonSummer: {
		core.WineSparkling: 1.0,
		core.WineRose:      1.0,
		core.WineWhite:     0.9,
		core.WineRed:       0.35,
		core.WineFortified: 0.25,
	},
	core.SeasonAutumn: {
		core.WineRed:       0.95,
		core.WineFortified: 0.7,
		core.WineWhite:     0.6,
		core.WineSparkling: 0.45,
	},
	core.SeasonWinter: {
		core.WineRed:       1.0,
		core.WineFortified: 0.85,
		core.WineDessert:   0.6,
		core.WineWhite:     0.5,
		core.WineRose:      0.35,
		core.WineSparkling: 0.4,
	},
}

// stopwords 分词时剔除的高频虚词，避免 token 重叠被稀释。
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "with": true,
	"of": true, "in": true, "on": true, "to": true, "served": true,
	"style": true, "fresh": true, "de": true, "la": true,
}

// tokenize 将自由文本切成小写 token 集合（去虚词、去短词）。
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		word := b.String()
		b.Reset()
		if len(word) < 3 || stopwords[word] {
			return
		}
		tokens[word] = true
	}
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}
