package pipeline

import (
	"context"

	"github.com/rushteam/pairkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFeature     Kind = "feature"     // 特征阶段：编码 (菜品, 候选) 特征向量
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindScore       Kind = "score"       // 打分阶段：规则评分 / 集成模型推理
	KindReason      Kind = "reason"      // 推理阶段：调用外部 AI provider 生成理由与调整量
	KindAggregate   Kind = "aggregate"   // 聚合阶段：合成总分、置信度、位置衰减、截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充信息或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，
// 方便过滤截断、打分排序、推理标注等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		pctx *core.PairingContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}
