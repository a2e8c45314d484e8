package filter

import (
	"context"

	"github.com/rushteam/pairkit/core"
)

// StockFilter 过滤库存不足的候选：可用瓶数必须覆盖用餐人数
// （按每 PerBottleGuests 位客人一瓶估算）。
type StockFilter struct {
	// PerBottleGuests 每瓶酒可供的客人数（<=0 表示 4）
	PerBottleGuests int
}

func (f *StockFilter) Name() string { return "filter.stock" }

func (f *StockFilter) ShouldFilter(_ context.Context, pctx *core.PairingContext, c *core.Candidate) (bool, error) {
	if pctx.GuestCount <= 0 {
		return false, nil
	}
	perBottle := f.PerBottleGuests
	if perBottle <= 0 {
		perBottle = 4
	}
	need := (pctx.GuestCount + perBottle - 1) / perBottle
	return c.AvailableQuantity < need, nil
}
