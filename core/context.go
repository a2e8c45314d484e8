package core

import "github.com/rushteam/pairkit/pkg/utils"

// Protein 菜品主要蛋白来源。
type Protein string

const (
	ProteinBeef      Protein = "beef"
	ProteinLamb      Protein = "lamb"
	ProteinPork      Protein = "pork"
	ProteinPoultry   Protein = "poultry"
	ProteinFish      Protein = "fish"
	ProteinShellfish Protein = "shellfish"
	ProteinGame      Protein = "game"
	ProteinVegetable Protein = "vegetable"
	ProteinCheese    Protein = "cheese"
	ProteinUnknown   Protein = ""
)

// Preparation 烹饪方式。
type Preparation string

const (
	PrepGrilled Preparation = "grilled"
	PrepRoasted Preparation = "roasted"
	PrepBraised Preparation = "braised"
	PrepFried   Preparation = "fried"
	PrepSteamed Preparation = "steamed"
	PrepPoached Preparation = "poached"
	PrepRaw     Preparation = "raw"
	PrepCured   Preparation = "cured"
	PrepUnknown Preparation = ""
)

// Occasion 用餐场合。
type Occasion string

const (
	OccasionCasual      Occasion = "casual"
	OccasionFormal      Occasion = "formal"
	OccasionCelebration Occasion = "celebration"
	OccasionBusiness    Occasion = "business"
	OccasionRomantic    Occasion = "romantic"
	OccasionUnknown     Occasion = ""
)

// Intensity 菜品浓郁度（轻盈/适中/浓郁）。
type Intensity string

const (
	IntensityLight   Intensity = "light"
	IntensityMedium  Intensity = "medium"
	IntensityRich    Intensity = "rich"
	IntensityUnknown Intensity = ""
)

// Season 季节。
type Season string

const (
	SeasonSpring  Season = "spring"
	SeasonSummer  Season = "summer"
	SeasonAutumn  Season = "autumn"
	SeasonWinter  Season = "winter"
	SeasonUnknown Season = ""
)

// PairingContext 承载一次配餐请求的菜品/场景信息，贯穿整个 Pipeline 透传。
// 除 Labels/Params 外，所有字段在请求构造后不可变。
type PairingContext struct {
	// Description 菜品描述（必填），例如 "Grilled sea bass with lemon and herbs"
	Description string

	// 以下均为可选的结构化上下文；缺失时特征编码落入 unknown 桶
	Protein     Protein
	Cuisine     string // 自由文本菜系，如 "greek" / "french"，匹配时小写+trim
	Preparation Preparation
	Occasion    Occasion
	Intensity   Intensity
	Season      Season

	// GuestCount 用餐人数（>0 时参与特征编码与库存过滤）
	GuestCount int

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	// 例如：requireAI、价格敏感、侍酒师模式等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（预算区间、排除的酒款类型等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (pctx *PairingContext) PutLabel(key string, lbl utils.Label) {
	if pctx.Labels == nil {
		pctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := pctx.Labels[key]; ok {
		pctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	pctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (pctx *PairingContext) GetLabel(key string) (utils.Label, bool) {
	if pctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := pctx.Labels[key]
	return lbl, ok
}
