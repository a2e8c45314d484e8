package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/pairkit/core"
)

// ResultCache 是配餐结果缓存，底层委托 core.Store（内存或 Redis）。
//
// 设计要点：
//   - 序列化用 JSON，保证 Redis 场景下跨实例可读
//   - GetOrCompute 用 singleflight 合并并发的相同请求：
//     同一指纹同时到达的多个请求只触发一次计算，其余等待共享结果
//   - 缓存读写失败不向上冒错，退化为直接计算
type ResultCache struct {
	store core.Store
	ttl   time.Duration
	group singleflight.Group
}

// NewResultCache 创建结果缓存。ttl<=0 表示写入不过期。
func NewResultCache(store core.Store, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

// Get 查缓存。未命中返回 (nil, false)。
func (c *ResultCache) Get(ctx context.Context, key string) ([]*core.Recommendation, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var recs []*core.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

// Set 写缓存。序列化或存储失败时静默丢弃。
func (c *ResultCache) Set(ctx context.Context, key string, recs []*core.Recommendation) {
	if c == nil || c.store == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	ttlSeconds := int(c.ttl / time.Second)
	if ttlSeconds > 0 {
		_ = c.store.Set(ctx, key, data, ttlSeconds)
		return
	}
	_ = c.store.Set(ctx, key, data)
}

// GetOrCompute 先查缓存，未命中则通过 singleflight 计算并回填。
//
// 并发的相同 key 只执行一次 compute；等待方共享首个结果。
// compute 返回错误时不回填，错误对所有等待方可见。
//
// 取消语义：共享计算运行在与单个调用方取消解耦的 context 上
// （compute 内部自带各环节超时，不会无界执行）。
// 任何一个调用方取消只会让它自己提前退出，flight 继续为其余
// 等待方服务并正常回填缓存。
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	key string,
	compute func(ctx context.Context) ([]*core.Recommendation, error),
) ([]*core.Recommendation, error) {
	if c == nil || c.store == nil {
		return compute(ctx)
	}
	if recs, ok := c.Get(ctx, key); ok {
		return recs, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// 进组后再查一次：排队期间可能已有请求回填
		if recs, ok := c.Get(flightCtx, key); ok {
			return recs, nil
		}
		recs, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		c.Set(flightCtx, key, recs)
		return recs, nil
	})

	select {
	case <-ctx.Done():
		// 取消的调用方提前退出，不影响挂在同一 flight 上的其他调用方
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*core.Recommendation), nil
	}
}

// Invalidate 使指定键失效。
func (c *ResultCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.store == nil {
		return
	}
	_ = c.store.Delete(ctx, key)
}
