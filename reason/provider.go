package reason

// 本文件定义 AI 推理阶段的强类型结果模型。
//
// 设计要点：外部 provider 的响应形态松散多变，全部在边界处一次性
// 解析校验为 Outcome/Attempt；内部代码与测试只面对这里的枚举状态，
// 不再触碰原始 payload，fallback 顺序因此可以脱离网络 mock 独立测试。

// State 是单个候选在推理阶段的状态机状态。
//
// 状态迁移：
//
//	NotRequested → Requesting(primary) → Success
//	                                   → Requesting(secondary) → Success
//	                                                           → Exhausted
//
// Exhausted 表示所有 provider 都未产出可用响应；候选以 AIEnhanced=false
// 继续参与排序，这不是链路失败。
type State string

const (
	StateNotRequested State = "not_requested"
	StateRequesting   State = "requesting"
	StateSuccess      State = "success"
	StateExhausted    State = "exhausted"
)

// FailureKind 单次 provider 调用的失败类别。
type FailureKind string

const (
	// FailureTimeout 调用超时
	FailureTimeout FailureKind = "timeout"
	// FailureUnavailable 网络/服务错误
	FailureUnavailable FailureKind = "unavailable"
	// FailureMalformed 响应畸形：缺少必填字段或调整量越界。
	// 畸形响应按失败处理，绝不算部分成功。
	FailureMalformed FailureKind = "malformed"
)

// Attempt 记录 fallback 链上的一次尝试。
type Attempt struct {
	Provider string
	Failure  FailureKind // 成功时为空
}

// Outcome 是单个候选走完 fallback 链后的终态。
type Outcome struct {
	State State

	// Provider 产出可用响应的 provider 名称（仅 Success 时有效）
	Provider   string
	Reasoning  string
	Adjustment float64 // [-1,+1]，已通过边界校验

	// Attempts 按顺序记录每次尝试，用于 explain/观测
	Attempts []Attempt
}
