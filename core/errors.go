package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），上层（HTTP 等）据此映射状态码
//
// 传播策略：
//   - 可本地恢复的条件（provider 失败、模型不可用）不抛错，
//     体现在 Confidence / AIEnhanced 上
//   - 只有 VALIDATION / INVALID_CONFIG / NO_CANDIDATES 作为错误值返回给调用方
type DomainError struct {
	Code    string // 错误代码（如 "VALIDATION", "NO_CANDIDATES"）
	Message string // 错误消息
	Module  string // 模块名称（如 "feature", "reason", "cache"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeValidation       = "VALIDATION"        // 输入无效（空描述、空候选集）
	ErrorCodeNoCandidates     = "NO_CANDIDATES"     // 库存无符合条件的酒款
	ErrorCodeInvalidConfig    = "INVALID_CONFIG"    // 配置/权重无效（致命）
	ErrorCodeModelUnavailable = "MODEL_UNAVAILABLE" // 集成模型工件缺失/损坏（降级，不对外）
	ErrorCodeProviderTimeout  = "PROVIDER_TIMEOUT"  // provider 调用超时（触发 fallback）
	ErrorCodeProviderError    = "PROVIDER_ERROR"    // provider 调用失败/响应畸形（触发 fallback）
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInternalError    = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleFeature  = "feature"  // 特征编码模块
	ModuleRules    = "rules"    // 规则评分模块
	ModuleEnsemble = "ensemble" // 集成推理模块
	ModuleReason   = "reason"   // AI 推理编排模块
	ModuleRank     = "rank"     // 聚合排序模块
	ModuleCache    = "cache"    // 结果缓存模块
	ModuleStore    = "store"    // 存储模块
	ModuleEngine   = "engine"   // 引擎门面
)

// 通用错误检查函数

// IsValidation 检查错误是否为输入无效
func IsValidation(err error) bool {
	return hasCode(err, ErrorCodeValidation)
}

// IsNoCandidates 检查错误是否为库存无候选
func IsNoCandidates(err error) bool {
	return hasCode(err, ErrorCodeNoCandidates)
}

// IsInvalidConfig 检查错误是否为配置无效
func IsInvalidConfig(err error) bool {
	return hasCode(err, ErrorCodeInvalidConfig)
}

// IsModelUnavailable 检查错误是否为模型不可用
func IsModelUnavailable(err error) bool {
	return hasCode(err, ErrorCodeModelUnavailable)
}

// IsProviderTimeout 检查错误是否为 provider 超时
func IsProviderTimeout(err error) bool {
	return hasCode(err, ErrorCodeProviderTimeout)
}

// IsProviderError 检查错误是否为 provider 失败（含响应畸形）
func IsProviderError(err error) bool {
	return hasCode(err, ErrorCodeProviderError)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
