package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/pairkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("dish", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选过滤 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：candidate.type == "dessert" / candidate.country != "France"
//   - 数值：candidate.score > 0.7 / candidate.available_quantity >= 6
//   - 上下文：dish.occasion == "formal" && candidate.type == "sparkling"
//   - 标签：label.rule_style_match != null
//
// 示例：
//   - `candidate.type == "dessert" && dish.intensity != "rich"` → 清淡菜不配甜酒
//   - `candidate.available_quantity < dish.guest_count` → 库存不足
type Eval struct {
	candidate *core.Candidate
	pctx      *core.PairingContext
	env       *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(candidate *core.Candidate, pctx *core.PairingContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		pctx:      pctx,
		env:       env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
//
// 注意：CEL 访问不存在的 key 会报错，存在性检查请使用 label.key != null。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	// 准备输入数据
	input := e.buildInput()

	// 执行表达式
	out, _, err := prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// 构建 label map（label.key 直接取 value）
	labelAccessor := make(map[string]interface{})
	for k, v := range e.candidate.Labels {
		labelAccessor[k] = v.Value
	}

	candidate := map[string]interface{}{
		"id":                 e.candidate.ID(),
		"wine_id":            e.candidate.WineID,
		"vintage_id":         e.candidate.VintageID,
		"type":               string(e.candidate.Type),
		"region":             e.candidate.Region,
		"country":            e.candidate.Country,
		"available_quantity": e.candidate.AvailableQuantity,
		"score":              e.candidate.Score,
		"meta":               e.candidate.Meta,
	}

	dish := map[string]interface{}{
		"description": e.pctx.Description,
		"protein":     string(e.pctx.Protein),
		"cuisine":     e.pctx.Cuisine,
		"preparation": string(e.pctx.Preparation),
		"occasion":    string(e.pctx.Occasion),
		"intensity":   string(e.pctx.Intensity),
		"season":      string(e.pctx.Season),
		"guest_count": e.pctx.GuestCount,
		"params":      e.pctx.Params,
	}

	return map[string]interface{}{
		"candidate": candidate,
		"label":     labelAccessor,
		"dish":      dish,
	}
}
