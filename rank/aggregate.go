package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// 数据完整度系数：参与评分的来源越少，置信度越低。
const (
	completenessFull         = 1.0 // 规则 + 集成 + AI
	completenessRuleEnsemble = 0.7 // 规则 + 集成
	completenessRuleOnly     = 0.5 // 仅规则
)

// AggregateNode 是聚合排序 Node，链路的收口：
//   - 按来源可用性重归一化权重，合成 Total
//   - 计算 Confidence = 基础值 × (1-归一化分歧度) × 数据完整度系数
//   - 按 Total 降序排定名次，回填 FeatRank，再按位置衰减写 DisplayScore
//   - Breakdown 的 Total/DisplayScore/Confidence 只在这里写一次
type AggregateNode struct {
	// 三个来源的基准权重；缺失来源的权重会摊给在场来源，
	// 保证不同请求间 Total 始终可比
	WeightRule     float64
	WeightEnsemble float64
	WeightAI       float64

	// BaseConfidence 置信度基础值（<=0 表示 0.9）
	BaseConfidence float64

	// DecayCurve 位置衰减曲线（nil 表示 DefaultDecayCurve）
	DecayCurve []float64
}

// NewAggregateNode 创建聚合 Node；权重非法时返回 INVALID_CONFIG。
func NewAggregateNode(wRule, wEnsemble, wAI float64, opts ...AggregateOption) (*AggregateNode, error) {
	if wRule < 0 || wEnsemble < 0 || wAI < 0 || wRule+wEnsemble+wAI <= 0 {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("rank: invalid source weights (%v, %v, %v)", wRule, wEnsemble, wAI))
	}
	n := &AggregateNode{
		WeightRule:     wRule,
		WeightEnsemble: wEnsemble,
		WeightAI:       wAI,
		BaseConfidence: 0.9,
		DecayCurve:     DefaultDecayCurve(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if !validDecayCurve(n.DecayCurve) {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidConfig,
			"rank: decay curve must be non-increasing within (0,1]")
	}
	return n, nil
}

// AggregateOption 聚合 Node 配置选项
type AggregateOption func(*AggregateNode)

// WithBaseConfidence 设置置信度基础值
func WithBaseConfidence(base float64) AggregateOption {
	return func(n *AggregateNode) {
		if base > 0 && base <= 1 {
			n.BaseConfidence = base
		}
	}
}

// WithDecayCurve 设置位置衰减曲线
func WithDecayCurve(curve []float64) AggregateOption {
	return func(n *AggregateNode) {
		if len(curve) > 0 {
			n.DecayCurve = curve
		}
	}
}

func (n *AggregateNode) Name() string        { return "rank.aggregate" }
func (n *AggregateNode) Kind() pipeline.Kind { return pipeline.KindAggregate }

func (n *AggregateNode) Process(
	_ context.Context,
	_ *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		n.merge(c)
		out = append(out, c)
	}

	// 先按原始 Total 排定名次；并列按 ID，保证确定性
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total > out[j].Breakdown.Total
		}
		return out[i].ID() < out[j].ID()
	})

	// 回填名次特征并按位置衰减写展示分。
	// 曲线单调不增，衰减不会颠倒名次。
	for i, c := range out {
		c.Vector[core.FeatRank] = float64(i)
		c.Breakdown.DisplayScore = c.Breakdown.Total * decayAt(n.DecayCurve, i)
		c.Score = c.Breakdown.DisplayScore
		c.PutLabel("rank_position", utils.Label{Value: fmt.Sprintf("%d", i), Source: "rank"})
	}
	return out, nil
}

// merge 合成单个候选的 Total 与 Confidence。
func (n *AggregateNode) merge(c *core.Candidate) {
	b := &c.Breakdown

	// 各来源归一化到 [0,1] 后按在场权重合成
	wSum := n.WeightRule
	total := n.WeightRule * b.RuleTotal

	disagreementFactor := 1.0
	completeness := completenessRuleOnly

	if b.EnsembleRating != nil {
		wSum += n.WeightEnsemble
		total += n.WeightEnsemble * (*b.EnsembleRating - 1.0) / 4.0
		completeness = completenessRuleEnsemble

		if b.Disagreement != nil {
			// 树输出落在 [1,5]，标准差理论上限 2.0
			nd := *b.Disagreement / 2.0
			if nd > 1 {
				nd = 1
			}
			disagreementFactor = 1.0 - nd
		}
	}

	if b.AIAdjustment != nil {
		wSum += n.WeightAI
		total += n.WeightAI * (*b.AIAdjustment + 1.0) / 2.0
		if b.EnsembleRating != nil {
			completeness = completenessFull
		} else {
			// 两个来源在场（规则+AI），与规则+集成同档
			completeness = completenessRuleEnsemble
		}
	}

	b.Total = clamp01(total / wSum)
	b.Confidence = clamp01(n.BaseConfidence * disagreementFactor * completeness)
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
