package rank

// 位置衰减：展示顺序本身会影响感知质量，排第一的选项天然被高估。
// 对展示分按位置打折，让最终列表的分数差异反映真实的推荐强度。
//
// 衰减只作用于 DisplayScore，原始 Total 不动，重复调用下排序必须稳定。

// DefaultDecayCurve 返回默认衰减曲线（首位不打折，逐位递减）。
// 数值是经验标定的结果，生产环境应作为配置下发。
func DefaultDecayCurve() []float64 {
	return []float64{1.0, 0.92, 0.85, 0.80, 0.76}
}

// decayAt 返回 position（从 0 开始）处的衰减系数。
// 超出曲线长度时沿用最后一个值；空曲线等价于不衰减。
func decayAt(curve []float64, position int) float64 {
	if len(curve) == 0 {
		return 1.0
	}
	if position >= len(curve) {
		return curve[len(curve)-1]
	}
	return curve[position]
}

// validDecayCurve 校验曲线：值在 (0,1] 且单调不增，
// 否则衰减可能颠倒排序，破坏排序不变式。
func validDecayCurve(curve []float64) bool {
	prev := 1.0
	for _, v := range curve {
		if v <= 0 || v > 1 || v > prev {
			return false
		}
		prev = v
	}
	return true
}
