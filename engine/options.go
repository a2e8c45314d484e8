package engine

import (
	"time"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/ensemble"
	"github.com/rushteam/pairkit/feature"
	"github.com/rushteam/pairkit/filter"
	"github.com/rushteam/pairkit/rules"
)

// config 是引擎构建期配置，仅通过 Option 修改。
type config struct {
	ruleWeights rules.Weights

	weightRule     float64
	weightEnsemble float64
	weightAI       float64
	baseConfidence float64
	decayCurve     []float64

	topK            int
	resultLimit     int
	guestCountCap   int
	providerTimeout time.Duration
	cacheTTL        time.Duration

	artifactPath string
	model        *ensemble.Model
	vocab        *feature.Vocabulary

	providers      []core.ReasoningService
	featureService core.WineFeatureService
	sessionLogger  core.SessionLogger
	filters        []filter.Filter
	store          core.Store
}

// Option 引擎配置选项
type Option func(*config)

// WithRuleWeights 设置五项启发式子分的权重（必须和为 1）。
func WithRuleWeights(w rules.Weights) Option {
	return func(c *config) { c.ruleWeights = w }
}

// WithSourceWeights 设置规则/集成/AI 三个来源的聚合基准权重。
func WithSourceWeights(rule, ensemble, ai float64) Option {
	return func(c *config) {
		c.weightRule = rule
		c.weightEnsemble = ensemble
		c.weightAI = ai
	}
}

// WithBaseConfidence 设置置信度基础值。
func WithBaseConfidence(base float64) Option {
	return func(c *config) { c.baseConfidence = base }
}

// WithDecayCurve 设置位置衰减曲线。
func WithDecayCurve(curve []float64) Option {
	return func(c *config) { c.decayCurve = curve }
}

// WithTopK 设置进入 AI 推理阶段的候选数上限。
func WithTopK(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithResultLimit 设置默认返回的推荐条数。
func WithResultLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.resultLimit = n
		}
	}
}

// WithGuestCountCap 设置人数特征归一化前的截断上限。
func WithGuestCountCap(cap int) Option {
	return func(c *config) {
		if cap > 0 {
			c.guestCountCap = cap
		}
	}
}

// WithProviderTimeout 设置单次 provider 调用的超时时间。
func WithProviderTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.providerTimeout = d
		}
	}
}

// WithModelPath 设置集成模型工件路径。
// 加载失败时引擎以降级模式启动（记一次日志），不报错。
func WithModelPath(path string) Option {
	return func(c *config) { c.artifactPath = path }
}

// WithModel 直接注入已加载的集成模型（测试或自定义加载流程用）。
func WithModel(m *ensemble.Model) Option {
	return func(c *config) { c.model = m }
}

// WithVocabulary 注入特征词表（默认 feature.DefaultVocabulary）。
func WithVocabulary(v *feature.Vocabulary) Option {
	return func(c *config) { c.vocab = v }
}

// WithProviders 设置 AI 推理 provider 链（按优先级排列）。
func WithProviders(providers ...core.ReasoningService) Option {
	return func(c *config) { c.providers = providers }
}

// WithFeatureService 接入酒款聚合特征服务（Feast 等）。
func WithFeatureService(svc core.WineFeatureService) Option {
	return func(c *config) { c.featureService = svc }
}

// WithSessionLogger 接入会话记录协作方。
func WithSessionLogger(logger core.SessionLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.sessionLogger = logger
		}
	}
}

// WithFilters 设置候选过滤器链。
func WithFilters(filters ...filter.Filter) Option {
	return func(c *config) { c.filters = filters }
}

// WithStore 接入结果缓存的底层存储（内存或 Redis）。
func WithStore(store core.Store) Option {
	return func(c *config) { c.store = store }
}

// WithCacheTTL 设置结果缓存的过期时间。
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}
