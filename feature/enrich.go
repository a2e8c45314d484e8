package feature

import (
	"context"
	"time"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// 特征库中的酒款聚合特征名。
const (
	FeatureNameAvgRating  = "wine_stats:avg_rating" // 历史均分 [1,5]
	FeatureNamePopularity = "wine_stats:popularity" // 热度 [0,1]
)

// EnrichNode 从特征库批量补充酒款聚合特征（历史均分、热度）。
//
// 失败语义：特征库不可用只会降低集成模型的输入质量，不会中断链路；
// 取不到的酒款保持零值特征。
type EnrichNode struct {
	Service core.WineFeatureService

	// Timeout 单次批量查询的超时时间（<=0 表示 2s）
	Timeout time.Duration
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Service == nil || len(candidates) == 0 {
		return candidates, nil
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ids = append(ids, c.WineID)
		}
	}

	features, err := n.Service.GetWineFeatures(fetchCtx, ids)
	if err != nil {
		// 特征库故障静默降级
		for _, c := range candidates {
			if c != nil {
				c.PutLabel("feature_enrich", utils.Label{Value: "unavailable", Source: "feature"})
			}
		}
		return candidates, nil
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		wf, ok := features[c.WineID]
		if !ok {
			continue
		}
		if rating, ok := wf[FeatureNameAvgRating]; ok {
			// 均分 [1,5] 归一化到 [0,1]，与其它数值特征同量纲
			c.Vector[core.FeatAvgRating] = rating / 5.0
		}
		if pop, ok := wf[FeatureNamePopularity]; ok {
			c.Vector[core.FeatPopularity] = pop
		}
		c.PutLabel("feature_enrich", utils.Label{Value: "ok", Source: "feature"})
	}
	return candidates, nil
}
