package core

import "github.com/rushteam/pairkit/pkg/utils"

// WineType 酒款类型。
type WineType string

const (
	WineRed       WineType = "red"
	WineWhite     WineType = "white"
	WineRose      WineType = "rose"
	WineSparkling WineType = "sparkling"
	WineDessert   WineType = "dessert"
	WineFortified WineType = "fortified"
	WineUnknown   WineType = ""
)

// Candidate 是配餐链路中的统一承载结构：候选酒款属性、特征、分数、标签。
// 酒款属性是库存协作方的只读投影，引擎只读不写；
// Vector/Score/Breakdown 等为链路工作状态，由各 Node 填充。
type Candidate struct {
	WineID    string `json:"wine_id"`
	VintageID string `json:"vintage_id"`

	Type              WineType `json:"type"`
	Region            string   `json:"region"`
	Country           string   `json:"country"`
	GrapeVarieties    []string `json:"grape_varieties,omitempty"`
	TastingNotes      string   `json:"tasting_notes,omitempty"`
	FoodPairingTags   []string `json:"food_pairing_tags,omitempty"`
	AvailableQuantity int      `json:"available_quantity"`

	// Vector 是 (菜品上下文, 候选酒款) 的规范特征编码，由 feature.Node 填充
	Vector FeatureVector `json:"-"`

	// Score 是链路工作分数：规则阶段为 RuleTotal，聚合后为 DisplayScore
	Score float64 `json:"score"`

	// Breakdown 各评分来源的明细，聚合 Node 最终只写一次 Total/Confidence
	Breakdown ScoreBreakdown `json:"breakdown"`

	// Reasoning AI 推理文本（可选）；AIEnhanced 标记 AI 信号是否参与
	Reasoning  string `json:"reasoning,omitempty"`
	AIEnhanced bool   `json:"ai_enhanced"`

	// Labels 用于解释与策略驱动（rule_style_match / reason_provider 等）
	Labels map[string]utils.Label `json:"labels,omitempty"`
	Meta   map[string]any         `json:"meta,omitempty"`
}

// ID 返回候选的稳定标识（酒款+年份），用于排序兜底与指纹计算。
func (c *Candidate) ID() string {
	if c.VintageID == "" {
		return c.WineID
	}
	return c.WineID + ":" + c.VintageID
}

func NewCandidate(wineID, vintageID string) *Candidate {
	return &Candidate{
		WineID:    wineID,
		VintageID: vintageID,
		Labels:    make(map[string]utils.Label),
		Meta:      make(map[string]any),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
