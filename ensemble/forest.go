package ensemble

import (
	"math"

	"github.com/rushteam/pairkit/core"
)

// Model 封装一个已加载的决策树集成。
//
// 加载后只读，可被所有并发请求无锁共享。
// 工件加载失败时进入 degraded 状态：Predict 对所有调用返回 ok=false，
// 链路将集成信号视为缺失而不是失败，ML 不可用降低的是质量，不是可用性。
type Model struct {
	artifact *Artifact // degraded 时为 nil
}

// LoadModel 加载模型工件。
// 失败时返回 MODEL_UNAVAILABLE（调用方记一次日志后应改用 Degraded()）。
func LoadModel(path string) (*Model, error) {
	artifact, err := LoadArtifact(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEnsemble, core.ErrorCodeModelUnavailable,
			"ensemble: "+err.Error())
	}
	return &Model{artifact: artifact}, nil
}

// NewModel 直接从工件构建模型（工件需已通过 Validate）。
func NewModel(artifact *Artifact) *Model {
	return &Model{artifact: artifact}
}

// Degraded 返回降级模型：Predict 永远返回 ok=false。
func Degraded() *Model {
	return &Model{}
}

// IsDegraded 返回模型是否处于降级状态。
func (m *Model) IsDegraded() bool {
	return m == nil || m.artifact == nil
}

// Version 返回工件版本；降级时为空串。
func (m *Model) Version() string {
	if m.IsDegraded() {
		return ""
	}
	return m.artifact.Version
}

// Predict 对单个特征向量做推理。
//
// rating 为各树叶子值的均值（由工件校验保证落在 [1,5]），
// disagreement 为各树输出的标准差，后续作为置信度的反向因子。
// 降级状态下返回 (0, 0, false)，永不报错。
func (m *Model) Predict(vec core.FeatureVector) (rating, disagreement float64, ok bool) {
	if m.IsDegraded() {
		return 0, 0, false
	}

	outputs := make([]float64, 0, len(m.artifact.Trees))
	for i := range m.artifact.Trees {
		outputs = append(outputs, traverse(&m.artifact.Trees[i], vec))
	}

	sum := 0.0
	for _, v := range outputs {
		sum += v
	}
	mean := sum / float64(len(outputs))

	variance := 0.0
	for _, v := range outputs {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(outputs))

	return mean, math.Sqrt(variance), true
}

// traverse 自根节点迭代下行至叶子。
// 步数上限为节点总数，防止损坏工件中的环导致死循环。
func traverse(t *Tree, vec core.FeatureVector) float64 {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := &t.Nodes[idx]
		if node.Feature < 0 {
			return node.Value
		}

		val := 0.0
		if node.Feature < core.FeatureDim {
			val = vec[node.Feature]
		}

		if len(node.Categories) > 0 {
			// 类别分裂：命中集合走左
			matched := false
			for _, cat := range node.Categories {
				if val == cat {
					matched = true
					break
				}
			}
			if matched {
				idx = node.Left
			} else {
				idx = node.Right
			}
			continue
		}

		if val <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	// 环或越界：返回量表中位值兜底
	return 3.0
}
