package ensemble

import (
	"context"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// Node 是集成模型打分 Node：
// - 写入 EnsembleRating/Disagreement（降级时保持 nil）
// - 更新 candidate.Score 为规则分与归一化模型分的合成，
//   作为进入 AI 推理阶段的 top-K 依据
// - 写入 labels：ensemble_model
type Node struct {
	Model *Model
}

func (n *Node) Name() string        { return "ensemble.score" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *Node) Process(
	_ context.Context,
	_ *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	for _, c := range candidates {
		if c == nil {
			continue
		}

		rating, disagreement, ok := n.Model.Predict(c.Vector)
		if !ok {
			// 模型降级：集成信号缺失，工作分保持 RuleTotal
			c.PutLabel("ensemble_model", utils.Label{Value: "degraded", Source: "ensemble"})
			continue
		}

		r, d := rating, disagreement
		c.Breakdown.EnsembleRating = &r
		c.Breakdown.Disagreement = &d

		// [1,5] 归一化到 [0,1]，与 RuleTotal 等权合成预备分
		normalized := (rating - 1.0) / 4.0
		c.Score = 0.5*c.Breakdown.RuleTotal + 0.5*normalized
		c.PutLabel("ensemble_model", utils.Label{Value: n.Model.Version(), Source: "ensemble"})
	}
	return candidates, nil
}
