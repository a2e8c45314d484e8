package core

import "time"

// PairingConfig 是配餐引擎的默认值配置接口。
type PairingConfig interface {
	// DefaultTopK 返回进入 AI 推理阶段的候选数上限
	DefaultTopK() int

	// DefaultResultLimit 返回默认返回的推荐条数
	DefaultResultLimit() int

	// DefaultGuestCountCap 返回人数特征归一化前的截断上限
	DefaultGuestCountCap() int

	// DefaultProviderTimeout 返回单次 provider 调用的超时时间
	DefaultProviderTimeout() time.Duration

	// DefaultCacheTTL 返回结果缓存的过期时间
	DefaultCacheTTL() time.Duration
}

// DefaultPairingConfig 是默认配置实现。
type DefaultPairingConfig struct{}

func (c *DefaultPairingConfig) DefaultTopK() int {
	return 5
}

func (c *DefaultPairingConfig) DefaultResultLimit() int {
	return 3
}

func (c *DefaultPairingConfig) DefaultGuestCountCap() int {
	return 12
}

func (c *DefaultPairingConfig) DefaultProviderTimeout() time.Duration {
	return 30 * time.Second
}

func (c *DefaultPairingConfig) DefaultCacheTTL() time.Duration {
	return 5 * time.Minute
}
