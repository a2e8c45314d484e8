package core

import "context"

// WineFeatureService 是酒款聚合特征服务的领域接口。
//
// 聚合特征（历史均分、热度等）由离线管道计算并写入特征库，
// 在线侧只读取，用于补充 FeatureVector 的 FeatAvgRating/FeatPopularity。
//
// 实现：
//   - feast.Adapter（Feast Feature Store）
//   - 任何返回 map[特征名]float64 的自定义实现
type WineFeatureService interface {
	// GetWineFeatures 批量获取酒款聚合特征。
	// 返回 map[wineID]map[featureName]float64；缺失的酒款直接不出现在结果里。
	GetWineFeatures(ctx context.Context, wineIDs []string) (map[string]map[string]float64, error)
}
