package engine

import (
	"context"
	"log"
	"time"

	"github.com/rushteam/pairkit/cache"
	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/ensemble"
	"github.com/rushteam/pairkit/feature"
	"github.com/rushteam/pairkit/filter"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/rank"
	"github.com/rushteam/pairkit/reason"
	"github.com/rushteam/pairkit/rules"
)

// Engine 是配餐引擎门面：组装 Pipeline、结果缓存、库存与会话协作方，
// 对外暴露 Recommend / QuickRecommend 两个入口。
//
// 错误策略：
//   - VALIDATION / NO_CANDIDATES / INVALID_CONFIG 作为错误返回
//   - 模型降级、provider 失败、特征库不可用均在链路内吸收，
//     体现在 Confidence / AIEnhanced 上
type Engine struct {
	inventory      core.Inventory
	providers      []core.ReasoningService
	featureService core.WineFeatureService
	sessionLogger  core.SessionLogger

	scorer *rules.Scorer
	model  *ensemble.Model
	vocab  *feature.Vocabulary

	filters []filter.Filter
	cache   *cache.ResultCache

	aggregate *rank.AggregateNode

	topK            int
	resultLimit     int
	guestCountCap   int
	providerTimeout time.Duration
	sessionTimeout  time.Duration
}

// Options 是单次请求级选项。
type Options struct {
	// Limit 本次返回的推荐条数（<=0 表示引擎默认值）
	Limit int

	// RequireAI 为 true 时绕过已缓存的结果强制走 AI 推理阶段。
	// 注意：它只保证"尝试过"，provider 全部失败时依旧返回降级结果。
	RequireAI bool
}

// New 创建配餐引擎。配置无效时返回 INVALID_CONFIG。
func New(inventory core.Inventory, opts ...Option) (*Engine, error) {
	defaults := &core.DefaultPairingConfig{}

	cfg := &config{
		ruleWeights:     rules.DefaultWeights(),
		weightRule:      0.4,
		weightEnsemble:  0.35,
		weightAI:        0.25,
		baseConfidence:  0.9,
		topK:            defaults.DefaultTopK(),
		resultLimit:     defaults.DefaultResultLimit(),
		guestCountCap:   defaults.DefaultGuestCountCap(),
		providerTimeout: defaults.DefaultProviderTimeout(),
		cacheTTL:        defaults.DefaultCacheTTL(),
		sessionLogger:   core.NopSessionLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if inventory == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidConfig,
			"engine: inventory is required")
	}

	scorer, err := rules.NewScorer(cfg.ruleWeights)
	if err != nil {
		return nil, err
	}

	model := cfg.model
	if model == nil && cfg.artifactPath != "" {
		loaded, err := ensemble.LoadModel(cfg.artifactPath)
		if err != nil {
			// 模型不可用走降级，不阻塞引擎启动
			log.Printf("pairkit: ensemble model unavailable, running degraded: %v", err)
			loaded = ensemble.Degraded()
		}
		model = loaded
	}
	if model == nil {
		model = ensemble.Degraded()
	}

	vocab := cfg.vocab
	if vocab == nil {
		vocab = feature.DefaultVocabulary()
	}

	aggOpts := []rank.AggregateOption{rank.WithBaseConfidence(cfg.baseConfidence)}
	if len(cfg.decayCurve) > 0 {
		aggOpts = append(aggOpts, rank.WithDecayCurve(cfg.decayCurve))
	}
	aggregate, err := rank.NewAggregateNode(cfg.weightRule, cfg.weightEnsemble, cfg.weightAI, aggOpts...)
	if err != nil {
		return nil, err
	}

	var resultCache *cache.ResultCache
	if cfg.store != nil {
		resultCache = cache.NewResultCache(cfg.store, cfg.cacheTTL)
	}

	return &Engine{
		inventory:       inventory,
		providers:       cfg.providers,
		featureService:  cfg.featureService,
		sessionLogger:   cfg.sessionLogger,
		scorer:          scorer,
		model:           model,
		vocab:           vocab,
		filters:         cfg.filters,
		cache:           resultCache,
		aggregate:       aggregate,
		topK:            cfg.topK,
		resultLimit:     cfg.resultLimit,
		guestCountCap:   cfg.guestCountCap,
		providerTimeout: cfg.providerTimeout,
		sessionTimeout:  3 * time.Second,
	}, nil
}

// Recommend 执行一次完整的配餐推荐（含 AI 推理阶段与结果缓存）。
//
// 相同的 (菜品上下文, 候选集合) 并发到达时通过 singleflight 合并计算。
func (e *Engine) Recommend(ctx context.Context, pctx *core.PairingContext, opts Options) ([]*core.Recommendation, error) {
	candidates, err := e.sourceCandidates(ctx, pctx)
	if err != nil {
		return nil, err
	}

	compute := func(ctx context.Context) ([]*core.Recommendation, error) {
		return e.run(ctx, pctx, candidates, len(e.providers) > 0)
	}

	var recs []*core.Recommendation
	if e.cache == nil {
		recs, err = compute(ctx)
	} else if opts.RequireAI {
		// 绕过可能不含 AI 信号的缓存结果，算完回填
		key := cache.Fingerprint(pctx, candidates)
		recs, err = compute(ctx)
		if err == nil {
			e.cache.Set(ctx, key, recs)
		}
	} else {
		recs, err = e.cache.GetOrCompute(ctx, cache.Fingerprint(pctx, candidates), compute)
	}
	if err != nil {
		return nil, err
	}

	// AI 阶段只覆盖 top-K，返回条数不得超过它
	aiCap := 0
	if len(e.providers) > 0 {
		aiCap = e.topK
	}
	recs = limit(recs, opts.Limit, e.resultLimit, aiCap)
	e.recordSession(pctx, recs)
	return recs, nil
}

// QuickRecommend 执行不含 AI 推理阶段的快速推荐。
// 规则 + 集成模型全程同步无外呼（特征库除外），不走结果缓存。
func (e *Engine) QuickRecommend(ctx context.Context, pctx *core.PairingContext, opts Options) ([]*core.Recommendation, error) {
	candidates, err := e.sourceCandidates(ctx, pctx)
	if err != nil {
		return nil, err
	}

	recs, err := e.run(ctx, pctx, candidates, false)
	if err != nil {
		return nil, err
	}
	return limit(recs, opts.Limit, e.resultLimit, 0), nil
}

// sourceCandidates 从库存拉取候选，空结果转换为 NO_CANDIDATES。
func (e *Engine) sourceCandidates(ctx context.Context, pctx *core.PairingContext) ([]*core.Candidate, error) {
	if pctx == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeValidation,
			"engine: pairing context is required")
	}

	candidates, err := e.inventory.ListAvailableCandidates(ctx, core.CandidateFilter{MinQuantity: 1})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNoCandidates,
			"engine: inventory unavailable: "+err.Error())
	}
	if len(candidates) == 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNoCandidates,
			"engine: no candidates available")
	}
	return candidates, nil
}

// run 组装并执行一次 Pipeline，把终态候选转换为推荐结果。
func (e *Engine) run(ctx context.Context, pctx *core.PairingContext, candidates []*core.Candidate, withAI bool) ([]*core.Recommendation, error) {
	p := e.buildPipeline(withAI)

	// Pipeline 会改写候选工作状态；拷贝一层避免污染调用方切片
	working := make([]*core.Candidate, len(candidates))
	copy(working, candidates)

	out, err := p.Run(ctx, pctx, working)
	if err != nil {
		return nil, err
	}

	recs := make([]*core.Recommendation, 0, len(out))
	for _, c := range out {
		if c == nil {
			continue
		}
		recs = append(recs, &core.Recommendation{
			Candidate:  c,
			Breakdown:  c.Breakdown,
			Reasoning:  c.Reasoning,
			AIEnhanced: c.AIEnhanced,
		})
	}
	return recs, nil
}

func (e *Engine) buildPipeline(withAI bool) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&feature.Node{Extractor: feature.NewExtractor(e.vocab, feature.WithGuestCountCap(e.guestCountCap))},
	}
	if e.featureService != nil {
		nodes = append(nodes, &feature.EnrichNode{Service: e.featureService})
	}
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.Node{Filters: e.filters})
	}
	nodes = append(nodes,
		&rules.Node{Scorer: e.scorer},
		&ensemble.Node{Model: e.model},
	)
	if withAI && len(e.providers) > 0 {
		nodes = append(nodes, &reason.Orchestrator{
			Providers: e.providers,
			TopK:      e.topK,
			Timeout:   e.providerTimeout,
		})
	}
	nodes = append(nodes, e.aggregate)
	return &pipeline.Pipeline{Nodes: nodes}
}

// recordSession 异步记录配餐会话。失败只记日志，不影响响应。
func (e *Engine) recordSession(pctx *core.PairingContext, recs []*core.Recommendation) {
	if e.sessionLogger == nil {
		return
	}
	if _, ok := e.sessionLogger.(core.NopSessionLogger); ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.sessionTimeout)
		defer cancel()
		if _, err := e.sessionLogger.RecordPairingSession(ctx, pctx, recs); err != nil {
			log.Printf("pairkit: record session failed: %v", err)
		}
	}()
}

func limit(recs []*core.Recommendation, requested, fallback, cap int) []*core.Recommendation {
	n := requested
	if n <= 0 {
		n = fallback
	}
	if cap > 0 && n > cap {
		n = cap
	}
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[:n]
}
