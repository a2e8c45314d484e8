// Package pairkit 是一个餐酒搭配推荐工具包（Pairing Kit）。
//
// 设计要点：
// - Pipeline-first: 配餐逻辑通过 Node 串联（Feature → Filter → Score → Reason → Aggregate）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 分层降级: 集成模型与 AI provider 均可缺席，规则评分永远兜底
package pairkit

import "github.com/rushteam/pairkit/pipeline"

// 轻量 facade：便于用户直接 import "pairkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFeature     = pipeline.KindFeature
	KindFilter      = pipeline.KindFilter
	KindScore       = pipeline.KindScore
	KindReason      = pipeline.KindReason
	KindAggregate   = pipeline.KindAggregate
	KindPostProcess = pipeline.KindPostProcess
)
