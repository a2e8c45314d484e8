package pipeline

import (
	"context"

	"github.com/rushteam/pairkit/core"
)

// Pipeline 是 Pairkit 的核心抽象：把配餐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	pctx *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, pctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
