package ensemble

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact 是离线训练产出的集成模型工件（JSON 序列化）。
//
// 工件与特征词表同族版本化：VocabVersion 记录训练时使用的词表版本，
// 加载方可据此校验在线词表是否匹配。
type Artifact struct {
	Version      string `json:"version"`
	VocabVersion string `json:"vocab_version"`
	Trees        []Tree `json:"trees"`
}

// Tree 是一棵浅层决策树，节点以扁平数组存放，下标引用子节点。
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode 决策树节点。
//   - Feature >= 0：内部节点。类别特征用 Categories 分裂（命中走左），
//     数值特征用 Threshold 分裂（<= 走左）
//   - Feature == -1：叶子节点，Value 为输出评分 [1,5]
type TreeNode struct {
	Feature    int       `json:"feature"`
	Threshold  float64   `json:"threshold,omitempty"`
	Categories []float64 `json:"categories,omitempty"`
	Left       int       `json:"left,omitempty"`
	Right      int       `json:"right,omitempty"`
	Value      float64   `json:"value,omitempty"`
}

// LoadArtifact 从文件加载并校验模型工件。
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate 校验工件的结构完整性：非空森林、节点下标合法、叶子值在 [1,5]。
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("artifact missing version")
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact has no trees")
	}
	for ti, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Feature < 0 {
				if node.Value < 1 || node.Value > 5 {
					return fmt.Errorf("tree %d node %d: leaf value %v out of [1,5]", ti, ni, node.Value)
				}
				continue
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}
