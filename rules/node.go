package rules

import (
	"context"
	"fmt"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// Node 是规则评分 Node：
// - 写入五项子分与 RuleTotal（Breakdown）
// - 更新 candidate.Score 为 RuleTotal，作为后续阶段的工作分
// - 写入 labels：rule_style_match（解释用）
type Node struct {
	Scorer *Scorer
}

func (n *Node) Name() string        { return "rules.score" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *Node) Process(
	_ context.Context,
	pctx *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Scorer == nil {
		return nil, core.NewDomainError(core.ModuleRules, core.ErrorCodeInvalidConfig,
			"rules: scorer is not configured")
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		total := n.Scorer.Score(pctx, c)
		c.Score = total
		c.PutLabel("rule_style_match", utils.Label{
			Value:  fmt.Sprintf("%.2f", c.Breakdown.StyleMatch),
			Source: "rules",
		})
	}
	return candidates, nil
}
