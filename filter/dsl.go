package filter

import (
	"context"

	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/pkg/dsl"
)

// DSLFilter 用 CEL 表达式描述排除规则，表达式由配置下发。
// 表达式返回 true 表示候选应被过滤。
//
// 示例：
//   - `candidate.type == "dessert" && dish.intensity != "rich"`
//   - `dish.occasion == "business" && candidate.type == "fortified"`
//
// 表达式求值失败时保留候选（宁可多出一个候选，也不因规则笔误清空列表）。
type DSLFilter struct {
	// Expr CEL 排除表达式
	Expr string
}

func (f *DSLFilter) Name() string { return "filter.dsl" }

func (f *DSLFilter) ShouldFilter(_ context.Context, pctx *core.PairingContext, c *core.Candidate) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	matched, err := dsl.NewEval(c, pctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return matched, nil
}
