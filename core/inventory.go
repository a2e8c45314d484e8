package core

import "context"

// CandidateFilter 库存查询条件。字段为零值时不参与过滤。
type CandidateFilter struct {
	// Types 限定酒款类型（为空表示不限）
	Types []WineType

	// Country / Region 产地限定
	Country string
	Region  string

	// MinQuantity 最低可用库存（通常取用餐人数）
	MinQuantity int

	// Limit 最多返回的候选数（0 表示使用协作方默认值）
	Limit int
}

// Inventory 是库存/酒单协作方的领域接口（只读）。
//
// 设计原则：
//   - 引擎只消费 Candidate 投影，从不回写库存
//   - 实现方自行负责酒款/年份/库存记录的存储与一致性
type Inventory interface {
	// ListAvailableCandidates 按条件列出当前可售的候选酒款。
	// 返回空切片表示无符合条件的酒款（由引擎转换为 NO_CANDIDATES）。
	ListAvailableCandidates(ctx context.Context, filter CandidateFilter) ([]*Candidate, error)
}
