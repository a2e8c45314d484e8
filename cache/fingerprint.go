package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/rushteam/pairkit/core"
)

// Fingerprint 为一次配餐请求计算稳定指纹，作为结果缓存的键。
//
// 指纹覆盖：
//   - 菜品上下文的全部结构化字段（小写 + trim 归一化）
//   - 候选集合的 ID（排序后拼接，集合相同则顺序无关）
//
// 不覆盖 Labels/Params 之外的运行时状态，因此相同请求 + 相同库存
// 必然命中同一个键。
func Fingerprint(pctx *core.PairingContext, candidates []*core.Candidate) string {
	h := fnv.New64a()

	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(norm(p)))
			h.Write([]byte{0})
		}
	}

	write(
		pctx.Description,
		string(pctx.Protein),
		pctx.Cuisine,
		string(pctx.Preparation),
		string(pctx.Occasion),
		string(pctx.Intensity),
		string(pctx.Season),
		fmt.Sprintf("%d", pctx.GuestCount),
	)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID())
	}
	sort.Strings(ids)
	write(ids...)

	return fmt.Sprintf("pairing:%016x", h.Sum64())
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
