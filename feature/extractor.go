package feature

import (
	"context"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// Extractor 将 (PairingContext, Candidate) 编码为规范特征向量。
//
// 编码规则：
//   - 类别字段查词表取索引；未知/缺失值落入 unknown 桶（见 UnknownIndex）
//   - GuestCount 先截断到 GuestCountCap 再归一化到 [0,1]
//   - FeatRank 在打分阶段恒为 0，由聚合阶段回填
//   - FeatAvgRating/FeatPopularity 默认 0，由 EnrichNode 补充
type Extractor struct {
	Vocab *Vocabulary

	// GuestCountCap 人数截断上限（<=0 时使用默认值 12）
	GuestCountCap int
}

// NewExtractor 创建特征编码器。
func NewExtractor(vocab *Vocabulary, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		Vocab:         vocab,
		GuestCountCap: 12,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractorOption 编码器配置选项
type ExtractorOption func(*Extractor)

// WithGuestCountCap 设置人数截断上限
func WithGuestCountCap(cap int) ExtractorOption {
	return func(e *Extractor) {
		if cap > 0 {
			e.GuestCountCap = cap
		}
	}
}

// Encode 编码单个候选的特征向量。
func (e *Extractor) Encode(pctx *core.PairingContext, c *core.Candidate) core.FeatureVector {
	var vec core.FeatureVector

	vec[core.FeatProtein] = float64(e.Vocab.Index(DomainProtein, string(pctx.Protein)))
	vec[core.FeatCuisine] = float64(e.Vocab.Index(DomainCuisine, pctx.Cuisine))
	vec[core.FeatPreparation] = float64(e.Vocab.Index(DomainPreparation, string(pctx.Preparation)))
	vec[core.FeatOccasion] = float64(e.Vocab.Index(DomainOccasion, string(pctx.Occasion)))
	vec[core.FeatSeason] = float64(e.Vocab.Index(DomainSeason, string(pctx.Season)))
	vec[core.FeatIntensity] = float64(e.Vocab.Index(DomainIntensity, string(pctx.Intensity)))
	vec[core.FeatWineType] = float64(e.Vocab.Index(DomainWineType, string(c.Type)))

	guests := pctx.GuestCount
	if guests < 0 {
		guests = 0
	}
	if guests > e.GuestCountCap {
		guests = e.GuestCountCap
	}
	vec[core.FeatGuestCount] = float64(guests) / float64(e.GuestCountCap)

	// FeatRank / FeatAvgRating / FeatPopularity 保持零值
	return vec
}

// Node 是特征编码 Node：校验请求输入并为每个候选填充 Vector。
type Node struct {
	Extractor *Extractor
}

func (n *Node) Name() string        { return "feature.extract" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *Node) Process(
	_ context.Context,
	pctx *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if pctx == nil || Normalize(pctx.Description) == "" {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeValidation,
			"feature: dish description is required")
	}
	if len(candidates) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeValidation,
			"feature: at least one candidate is required")
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		c.Vector = n.Extractor.Encode(pctx, c)
		c.PutLabel("feature_vocab", utils.Label{Value: n.Extractor.Vocab.Version, Source: "feature"})
	}
	return candidates, nil
}
