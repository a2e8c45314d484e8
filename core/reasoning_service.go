package core

import "context"

// ReasoningService 是生成式 AI 推理服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（reason 包的 provider）实现
//   - 响应在边界处一次性解析校验为强类型，内部代码不再触碰原始 payload
//
// 实现：
//   - reason.OpenAIProvider（OpenAI 兼容 chat completions 服务）
//   - reason.OllamaProvider（本地 Ollama 服务）
type ReasoningService interface {
	// GenerateReasoning 对单个 (菜品上下文, 候选酒款) 生成推理。
	// 响应畸形（缺字段、调整量越界）必须作为错误返回，而非部分成功。
	GenerateReasoning(ctx context.Context, req *ReasoningRequest) (*ReasoningResponse, error)

	// Name 返回 provider 名称（用于日志/标签）
	Name() string

	// Close 关闭连接
	Close() error
}

// ReasoningRequest 推理请求：结构化的菜品上下文 + 候选酒款属性。
type ReasoningRequest struct {
	Dish      *PairingContext
	Candidate *Candidate

	// RuleTotal / EnsembleRating 已有信号，供 prompt 提示模型参考（可选）
	RuleTotal      float64
	EnsembleRating *float64
}

// ReasoningResponse 推理响应（已通过边界校验）。
type ReasoningResponse struct {
	// Reasoning 简短的配餐理由文本（必填）
	Reasoning string

	// Adjustment 分数调整量，必须在 [-1,+1]
	Adjustment float64
}
