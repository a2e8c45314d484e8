package core

// 特征布局：FeatureVector 的固定下标。
// 下标顺序与模型训练时一致，修改会使已训练的集成模型失效，
// 因此只能追加，不能重排或删除。
const (
	FeatProtein     = iota // 蛋白类别索引
	FeatCuisine            // 菜系类别索引
	FeatPreparation        // 烹饪方式类别索引
	FeatOccasion           // 场合类别索引
	FeatSeason             // 季节类别索引
	FeatIntensity          // 浓郁度类别索引
	FeatWineType           // 酒款类型类别索引
	FeatGuestCount         // 人数（截断到上限后归一化到 [0,1]）
	FeatRank               // 排序位置（打分阶段为 0，聚合阶段回填）
	FeatAvgRating          // 酒款历史均分（特征库补充，缺失为 0）
	FeatPopularity         // 酒款热度（特征库补充，缺失为 0）

	// FeatureDim 特征向量维度
	FeatureDim
)

// FeatureVector 是 (PairingContext, Candidate) 的规范数值编码。
// 类别字段存放词表索引（未知值落入保留的 unknown 桶），数值字段已归一化。
type FeatureVector [FeatureDim]float64
