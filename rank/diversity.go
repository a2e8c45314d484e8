package rank

import (
	"context"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
)

// Diversity 是一个简单的多样性后处理节点：按酒款类型去重（保留首个出现的类型）。
// 避免推荐列表里全是同一类型，例如三款都是饱满红酒。
//
// 可选节点，不在默认链路中；放在 AggregateNode 之后使用。
type Diversity struct {
	// MaxPerType 每种酒款类型最多保留的候选数（<=0 表示 1）
	MaxPerType int
}

func (n *Diversity) Name() string {
	return "rank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	maxPerType := n.MaxPerType
	if maxPerType <= 0 {
		maxPerType = 1
	}

	seen := make(map[core.WineType]int, 8)
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if seen[c.Type] >= maxPerType {
			continue
		}
		seen[c.Type]++
		out = append(out, c)
	}
	return out, nil
}
