package feast

import (
	"context"

	"github.com/rushteam/pairkit/core"
)

// DefaultFeatures 配餐引擎默认拉取的酒款聚合特征。
var DefaultFeatures = []string{
	"wine_stats:avg_rating",
	"wine_stats:popularity",
}

// Adapter 将 Feast Client 适配为 core.WineFeatureService。
//
// 实体键为 wine_id（不含年份维度，聚合统计按酒款维度维护）。
type Adapter struct {
	// Client Feast 客户端
	Client Client

	// Features 要拉取的特征名称；为空时用 DefaultFeatures
	Features []string

	// Project 项目名称（可选，覆盖客户端默认值）
	Project string
}

// NewAdapter 创建 Feast 特征服务适配器。
func NewAdapter(client Client) *Adapter {
	return &Adapter{Client: client}
}

// GetWineFeatures 按 wine_id 批量拉取聚合特征（实现 core.WineFeatureService 接口）。
//
// 返回 map[wineID]map[featureName]value；某个酒款无数据时不出现在结果里。
func (a *Adapter) GetWineFeatures(ctx context.Context, wineIDs []string) (map[string]map[string]float64, error) {
	if len(wineIDs) == 0 {
		return map[string]map[string]float64{}, nil
	}

	features := a.Features
	if len(features) == 0 {
		features = DefaultFeatures
	}

	entityRows := make([]map[string]interface{}, len(wineIDs))
	for i, id := range wineIDs {
		entityRows[i] = map[string]interface{}{"wine_id": id}
	}

	resp, err := a.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: entityRows,
		Project:    a.Project,
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string]map[string]float64, len(wineIDs))
	for i, fv := range resp.FeatureVectors {
		if i >= len(wineIDs) {
			break
		}
		values := make(map[string]float64)
		for name, raw := range fv.Values {
			if f, ok := raw.(float64); ok {
				values[name] = f
			}
		}
		if len(values) > 0 {
			result[wineIDs[i]] = values
		}
	}
	return result, nil
}

// 确保 Adapter 实现了 core.WineFeatureService 接口
var _ core.WineFeatureService = (*Adapter)(nil)
