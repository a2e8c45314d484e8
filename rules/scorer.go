package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/rushteam/pairkit/core"
)

// Weights 五项启发式子分的固定权重，必须和为 1。
//
// 相对大小是离线特征重要性分析的标定结果（风格>风味>口感>产区>季节），
// 精确数值作为配置暴露，允许按场景微调。
type Weights struct {
	StyleMatch              float64 `yaml:"style_match" json:"style_match"`
	FlavorHarmony           float64 `yaml:"flavor_harmony" json:"flavor_harmony"`
	TextureBalance          float64 `yaml:"texture_balance" json:"texture_balance"`
	RegionalTradition       float64 `yaml:"regional_tradition" json:"regional_tradition"`
	SeasonalAppropriateness float64 `yaml:"seasonal_appropriateness" json:"seasonal_appropriateness"`
}

// DefaultWeights 返回默认权重。
func DefaultWeights() Weights {
	return Weights{
		StyleMatch:              0.30,
		FlavorHarmony:           0.25,
		TextureBalance:          0.20,
		RegionalTradition:       0.15,
		SeasonalAppropriateness: 0.10,
	}
}

// Validate 校验权重：非负且和为 1（容差 1e-6）。
// 规则评分是整条链路最后的兜底，权重无效属于致命配置错误。
func (w Weights) Validate() error {
	vals := []float64{w.StyleMatch, w.FlavorHarmony, w.TextureBalance, w.RegionalTradition, w.SeasonalAppropriateness}
	sum := 0.0
	for _, v := range vals {
		if v < 0 {
			return core.NewDomainError(core.ModuleRules, core.ErrorCodeInvalidConfig,
				fmt.Sprintf("rules: negative weight %v", v))
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return core.NewDomainError(core.ModuleRules, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("rules: weights must sum to 1.0, got %v", sum))
	}
	return nil
}

// Scorer 是确定性的多因子规则评分器。
// 对任何通过输入校验的候选都能给出分数，永不失败，
// 是集成模型与 AI provider 全部不可用时的最后一道防线。
type Scorer struct {
	weights Weights
}

// NewScorer 创建规则评分器；权重无效时返回 INVALID_CONFIG。
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Score 计算候选的五项子分与加权总分，填入 Breakdown 并返回 RuleTotal。
func (s *Scorer) Score(pctx *core.PairingContext, c *core.Candidate) float64 {
	b := &c.Breakdown
	b.StyleMatch = s.styleMatch(pctx, c)
	b.FlavorHarmony = s.flavorHarmony(pctx, c)
	b.TextureBalance = s.textureBalance(pctx, c)
	b.RegionalTradition = s.regionalTradition(pctx, c)
	b.SeasonalAppropriateness = s.seasonalAppropriateness(pctx, c)

	b.RuleTotal = s.weights.StyleMatch*b.StyleMatch +
		s.weights.FlavorHarmony*b.FlavorHarmony +
		s.weights.TextureBalance*b.TextureBalance +
		s.weights.RegionalTradition*b.RegionalTradition +
		s.weights.SeasonalAppropriateness*b.SeasonalAppropriateness
	return b.RuleTotal
}

// styleMatch 蛋白+烹饪方式 → 首选酒款类型：
// 命中 1.0，风格相邻 0.6，不匹配 0.2，蛋白未知 0.5。
func (s *Scorer) styleMatch(pctx *core.PairingContext, c *core.Candidate) float64 {
	preferred, ok := stylePreference[pctx.Protein]
	if !ok {
		return 0.5
	}

	// 烹饪方式的偏移类型加入首选集合（如烤鱼仍以白为主，红烧禽类可接受红）
	if leaning, ok := prepLeaning[pctx.Preparation]; ok {
		found := false
		for _, t := range preferred {
			if t == leaning {
				found = true
				break
			}
		}
		if !found {
			preferred = append(append([]core.WineType{}, preferred...), leaning)
		}
	}

	for _, t := range preferred {
		if c.Type == t {
			return 1.0
		}
	}
	for _, t := range preferred {
		for _, adj := range adjacentStyles[t] {
			if c.Type == adj {
				return 0.6
			}
		}
	}
	return 0.2
}

// flavorHarmony 菜品描述与酒款风味标签的 token 重叠率。
func (s *Scorer) flavorHarmony(pctx *core.PairingContext, c *core.Candidate) float64 {
	dishTokens := tokenize(pctx.Description)
	wineTokens := tokenize(c.TastingNotes + " " + strings.Join(c.FoodPairingTags, " ") +
		" " + strings.Join(c.GrapeVarieties, " "))
	if len(dishTokens) == 0 || len(wineTokens) == 0 {
		// 任一侧无可用文本时给中性偏下的缺省值
		return 0.3
	}

	matched := 0
	for tok := range dishTokens {
		if wineTokens[tok] {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(dishTokens))
	if ratio > 1 {
		ratio = 1
	}
	// 重叠率整体偏低，留 0.2 的底并放大区分度
	return clamp01(0.2 + 0.8*ratio*2)
}

// textureBalance 浓郁度-酒体匹配：距离越近分越高。
func (s *Scorer) textureBalance(pctx *core.PairingContext, c *core.Candidate) float64 {
	ideal, ok := intensityBody[pctx.Intensity]
	if !ok {
		return 0.5
	}
	body, ok := wineBody[c.Type]
	if !ok {
		return 0.5
	}
	// 最大距离 2.0（轻盈菜 vs 加强酒），线性衰减
	return clamp01(1.0 - math.Abs(ideal-body)/2.0)
}

// regionalTradition 菜系与酒款产地的经典搭配：
// 产酒国命中 1.0，未命中 0.3，菜系未知 0.5。
func (s *Scorer) regionalTradition(pctx *core.PairingContext, c *core.Candidate) float64 {
	cuisine := strings.ToLower(strings.TrimSpace(pctx.Cuisine))
	if cuisine == "" {
		return 0.5
	}
	countries, ok := cuisineCountries[cuisine]
	if !ok {
		return 0.5
	}
	country := strings.ToLower(strings.TrimSpace(c.Country))
	for _, want := range countries {
		if country == want {
			return 1.0
		}
	}
	return 0.3
}

// seasonalAppropriateness 季节-酒款类型偏好；无数据时 0.5。
func (s *Scorer) seasonalAppropriateness(pctx *core.PairingContext, c *core.Candidate) float64 {
	prefs, ok := seasonTypePreference[pctx.Season]
	if !ok {
		return 0.5
	}
	score, ok := prefs[c.Type]
	if !ok {
		return 0.5
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
