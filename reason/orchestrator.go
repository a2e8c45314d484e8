package reason

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/utils"
)

// Orchestrator 是 AI 推理编排 Node：对规则+集成合成分的 top-K 候选
// 并发发起推理，每个候选独立走自己的 provider fallback 链。
//
// 并发模型：
//   - K 个候选并发 fan-out（errgroup），每个 goroutine 独占自己的候选，
//     无共享可变状态
//   - 每次 provider 调用有独立超时；除此之外链路中没有任何无界等待
//   - 调用方 ctx 取消时放弃剩余尝试，候选以 Exhausted 终态继续
//
// 失败语义：provider 全部失败只意味着该候选 AIEnhanced=false，
// 绝不是请求级失败。
type Orchestrator struct {
	// Providers 按优先级排列（primary 在前）
	Providers []core.ReasoningService

	// TopK 进入推理阶段的候选数上限（<=0 表示 5）
	TopK int

	// Timeout 单次 provider 调用的超时时间（<=0 表示 30s）
	Timeout time.Duration
}

func (n *Orchestrator) Name() string        { return "reason.orchestrate" }
func (n *Orchestrator) Kind() pipeline.Kind { return pipeline.KindReason }

func (n *Orchestrator) Process(
	ctx context.Context,
	pctx *core.PairingContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Providers) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	topK := n.TopK
	if topK <= 0 {
		topK = 5
	}

	// 按工作分降序选 top-K；并列按 ID，保证测试可复现
	sorted := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ID() < sorted[j].ID()
	})
	if topK > len(sorted) {
		topK = len(sorted)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, c := range sorted[:topK] {
		c := c
		eg.Go(func() error {
			req := &core.ReasoningRequest{
				Dish:           pctx,
				Candidate:      c,
				RuleTotal:      c.Breakdown.RuleTotal,
				EnsembleRating: c.Breakdown.EnsembleRating,
			}
			outcome := n.runChain(egCtx, req)
			n.apply(c, outcome)
			// provider 失败不中断其他候选
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// runChain 让单个候选走完 provider fallback 链，返回终态。
func (n *Orchestrator) runChain(ctx context.Context, req *core.ReasoningRequest) Outcome {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	out := Outcome{State: StateNotRequested}
	for _, p := range n.Providers {
		if ctx.Err() != nil {
			// 调用方取消：放弃剩余尝试
			break
		}
		out.State = StateRequesting

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := p.GenerateReasoning(callCtx, req)
		cancel()

		if err != nil {
			out.Attempts = append(out.Attempts, Attempt{
				Provider: p.Name(),
				Failure:  classifyFailure(err),
			})
			continue
		}

		out.State = StateSuccess
		out.Provider = p.Name()
		out.Reasoning = resp.Reasoning
		out.Adjustment = resp.Adjustment
		out.Attempts = append(out.Attempts, Attempt{Provider: p.Name()})
		return out
	}

	out.State = StateExhausted
	return out
}

// apply 把终态写回候选。每个 goroutine 只写自己的候选，无需加锁。
func (n *Orchestrator) apply(c *core.Candidate, out Outcome) {
	c.PutLabel("reason_state", utils.Label{Value: string(out.State), Source: "reason"})

	if out.State != StateSuccess {
		c.AIEnhanced = false
		return
	}

	adj := out.Adjustment
	c.Breakdown.AIAdjustment = &adj
	c.Reasoning = out.Reasoning
	c.AIEnhanced = true
	c.PutLabel("reason_provider", utils.Label{Value: out.Provider, Source: "reason"})
	c.PutLabel("reason_adjustment", utils.Label{
		Value:  fmt.Sprintf("%+.2f", adj),
		Source: "reason",
	})
}

// classifyFailure 把单次调用错误归类到 Attempt 枚举。
func classifyFailure(err error) FailureKind {
	var malformed *malformedError
	if errors.As(err, &malformed) {
		return FailureMalformed
	}
	if core.IsProviderTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureUnavailable
}
