package reason

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/pairkit/core"
)

// systemPrompt 约束模型只输出结构化 JSON，便于边界解析。
const systemPrompt = `You are a sommelier assistant. Evaluate how well the given wine pairs ` +
	`with the given dish. Respond with a single JSON object and nothing else: ` +
	`{"reasoning": "<one or two sentences>", "adjustment": <number in [-1, 1]>}. ` +
	`"adjustment" expresses how much the baseline score should move: positive for ` +
	`an excellent pairing, negative for a poor one.`

// buildUserPrompt 将菜品上下文与候选酒款属性拼装为结构化提示。
func buildUserPrompt(req *core.ReasoningRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dish: %s\n", req.Dish.Description)
	if req.Dish.Protein != core.ProteinUnknown {
		fmt.Fprintf(&b, "Protein: %s\n", req.Dish.Protein)
	}
	if req.Dish.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine: %s\n", req.Dish.Cuisine)
	}
	if req.Dish.Preparation != core.PrepUnknown {
		fmt.Fprintf(&b, "Preparation: %s\n", req.Dish.Preparation)
	}
	if req.Dish.Intensity != core.IntensityUnknown {
		fmt.Fprintf(&b, "Intensity: %s\n", req.Dish.Intensity)
	}
	if req.Dish.Occasion != core.OccasionUnknown {
		fmt.Fprintf(&b, "Occasion: %s\n", req.Dish.Occasion)
	}
	if req.Dish.Season != core.SeasonUnknown {
		fmt.Fprintf(&b, "Season: %s\n", req.Dish.Season)
	}

	c := req.Candidate
	fmt.Fprintf(&b, "\nWine: %s %s wine from %s, %s\n", c.VintageID, c.Type, c.Region, c.Country)
	if len(c.GrapeVarieties) > 0 {
		fmt.Fprintf(&b, "Grapes: %s\n", strings.Join(c.GrapeVarieties, ", "))
	}
	if c.TastingNotes != "" {
		fmt.Fprintf(&b, "Tasting notes: %s\n", c.TastingNotes)
	}

	fmt.Fprintf(&b, "\nBaseline heuristic score: %.2f\n", req.RuleTotal)
	if req.EnsembleRating != nil {
		fmt.Fprintf(&b, "Model predicted rating: %.1f/5\n", *req.EnsembleRating)
	}
	return b.String()
}

// reasoningPayload 是 provider 响应正文中期望的 JSON 结构。
type reasoningPayload struct {
	Reasoning  string   `json:"reasoning"`
	Adjustment *float64 `json:"adjustment"`
}

// malformedError 标记响应畸形（缺字段/越界），供 fallback 链归类为
// FailureMalformed；对调用方而言它同样是 provider 失败。
type malformedError struct {
	msg string
}

func (e *malformedError) Error() string { return e.msg }

// parseReasoning 在边界处一次性解析校验 provider 输出。
// 缺少必填字段或调整量越界都视为 provider 失败，
// 绝不把半成品响应放进链路。
func parseReasoning(content string) (*core.ReasoningResponse, error) {
	content = strings.TrimSpace(content)
	// 容忍模型把 JSON 包在 markdown 代码块里
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload reasoningPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &malformedError{msg: "reason: response is not valid JSON"}
	}
	if strings.TrimSpace(payload.Reasoning) == "" {
		return nil, &malformedError{msg: "reason: response missing reasoning"}
	}
	if payload.Adjustment == nil {
		return nil, &malformedError{msg: "reason: response missing adjustment"}
	}
	if *payload.Adjustment < -1 || *payload.Adjustment > 1 {
		return nil, &malformedError{msg: fmt.Sprintf("reason: adjustment %v out of [-1,1]", *payload.Adjustment)}
	}

	return &core.ReasoningResponse{
		Reasoning:  strings.TrimSpace(payload.Reasoning),
		Adjustment: *payload.Adjustment,
	}, nil
}
