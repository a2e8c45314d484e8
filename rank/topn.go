package rank

import (
	"context"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在聚合排序后截取前 N 个候选。
// 通常放在 AggregateNode 之后，控制最终返回的推荐条数。
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(candidates)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindAggregate
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 {
		return candidates, nil
	}
	if len(candidates) <= n.N {
		return candidates, nil
	}
	return candidates[:n.N], nil
}
