package core

// ScoreBreakdown 是单个候选的评分明细：五项启发式子分、集成模型预测、
// AI 调整量，以及聚合后的 Total/DisplayScore/Confidence。
//
// 生命周期约定：
//   - 五项子分与 RuleTotal 由 rules.Node 写入，取值 [0,1]
//   - EnsembleRating/Disagreement 由 ensemble.Node 写入；模型降级时保持 nil
//   - AIAdjustment 由 reason.Orchestrator 写入；provider 全部失败时保持 nil
//   - Total/DisplayScore/Confidence 只由 rank.AggregateNode 写一次
type ScoreBreakdown struct {
	StyleMatch              float64 `json:"style_match"`
	FlavorHarmony           float64 `json:"flavor_harmony"`
	TextureBalance          float64 `json:"texture_balance"`
	RegionalTradition       float64 `json:"regional_tradition"`
	SeasonalAppropriateness float64 `json:"seasonal_appropriateness"`

	// RuleTotal 五项子分的加权和，权重固定且和为 1，因此仍在 [0,1]
	RuleTotal float64 `json:"rule_total"`

	// EnsembleRating 集成模型预测评分 [1,5]；Disagreement 为各树输出的标准差
	EnsembleRating *float64 `json:"ensemble_rating,omitempty"`
	Disagreement   *float64 `json:"disagreement,omitempty"`

	// AIAdjustment AI 推理给出的分数调整量 [-1,+1]
	AIAdjustment *float64 `json:"ai_adjustment,omitempty"`

	// Total 各来源按可用性重归一化权重后的合成分 [0,1]（原始值，不含位置衰减）
	Total float64 `json:"total"`

	// DisplayScore = Total * 位置衰减系数；只影响展示排序，重复调用下稳定
	DisplayScore float64 `json:"display_score"`

	// Confidence 置信度 [0,1]：基础值 × (1-归一化分歧度) × 数据完整度系数
	Confidence float64 `json:"confidence"`
}

// Recommendation 是对外可见的推荐单元。
type Recommendation struct {
	Candidate  *Candidate     `json:"candidate"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Reasoning  string         `json:"reasoning,omitempty"`
	AIEnhanced bool           `json:"ai_enhanced"`
}
