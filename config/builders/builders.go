package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/pairkit/config"
	"github.com/rushteam/pairkit/core"
	"github.com/rushteam/pairkit/ensemble"
	"github.com/rushteam/pairkit/feature"
	"github.com/rushteam/pairkit/filter"
	"github.com/rushteam/pairkit/pipeline"
	"github.com/rushteam/pairkit/pkg/conv"
	"github.com/rushteam/pairkit/rank"
	"github.com/rushteam/pairkit/reason"
	"github.com/rushteam/pairkit/rules"
)

func init() {
	config.Register("feature.extract", BuildFeatureExtractNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rules.score", BuildRulesNode)
	config.Register("ensemble.score", BuildEnsembleNode)
	config.Register("reason.orchestrate", BuildReasonNode)
	config.Register("rank.aggregate", BuildAggregateNode)
	config.Register("rank.topn", BuildTopNNode)
	config.Register("rank.diversity", BuildDiversityNode)
}

func BuildFeatureExtractNode(cfg map[string]interface{}) (pipeline.Node, error) {
	vocab := feature.DefaultVocabulary()
	if path := conv.ConfigGet(cfg, "vocab_path", ""); path != "" {
		loaded, err := feature.LoadVocabulary(path)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		vocab = loaded
	}

	opts := []feature.ExtractorOption{}
	if cap := conv.ConfigGetInt64(cfg, "guest_count_cap", 0); cap > 0 {
		opts = append(opts, feature.WithGuestCountCap(int(cap)))
	}
	return &feature.Node{Extractor: feature.NewExtractor(vocab, opts...)}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "stock":
			perBottle := conv.ConfigGetInt64(filterMap, "per_bottle_guests", 0)
			filters = append(filters, &filter.StockFilter{PerBottleGuests: int(perBottle)})
		case "dsl":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("dsl filter: expr is required")
			}
			filters = append(filters, &filter.DSLFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.Node{Filters: filters}, nil
}

func BuildRulesNode(cfg map[string]interface{}) (pipeline.Node, error) {
	weights := rules.DefaultWeights()
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		w := conv.MapToFloat64(weightsMap)
		weights = rules.Weights{
			StyleMatch:              w["style_match"],
			FlavorHarmony:           w["flavor_harmony"],
			TextureBalance:          w["texture_balance"],
			RegionalTradition:       w["regional_tradition"],
			SeasonalAppropriateness: w["seasonal_appropriateness"],
		}
	}
	scorer, err := rules.NewScorer(weights)
	if err != nil {
		return nil, err
	}
	return &rules.Node{Scorer: scorer}, nil
}

func BuildEnsembleNode(cfg map[string]interface{}) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "artifact_path", "")
	if path == "" {
		// 无工件时显式降级
		return &ensemble.Node{Model: ensemble.Degraded()}, nil
	}
	model, err := ensemble.LoadModel(path)
	if err != nil {
		if conv.ConfigGet(cfg, "required", false) {
			return nil, err
		}
		model = ensemble.Degraded()
	}
	return &ensemble.Node{Model: model}, nil
}

func BuildReasonNode(cfg map[string]interface{}) (pipeline.Node, error) {
	providersConfig, ok := cfg["providers"].([]interface{})
	if !ok || len(providersConfig) == 0 {
		return nil, fmt.Errorf("providers not found or empty")
	}

	timeout := time.Duration(conv.ConfigGetInt64(cfg, "timeout", 0)) * time.Second

	providers := make([]core.ReasoningService, 0, len(providersConfig))
	for _, pc := range providersConfig {
		providerMap, ok := pc.(map[string]interface{})
		if !ok {
			continue
		}
		providerType := conv.ConfigGet(providerMap, "type", "")
		endpoint := conv.ConfigGet(providerMap, "endpoint", "")
		model := conv.ConfigGet(providerMap, "model", "")
		if endpoint == "" || model == "" {
			return nil, fmt.Errorf("%s provider: endpoint and model are required", providerType)
		}

		switch providerType {
		case "openai":
			opts := []reason.OpenAIOption{}
			if key := conv.ConfigGet(providerMap, "api_key", ""); key != "" {
				opts = append(opts, reason.WithOpenAIKey(key))
			}
			if timeout > 0 {
				opts = append(opts, reason.WithOpenAITimeout(timeout))
			}
			providers = append(providers, reason.NewOpenAIProvider(endpoint, model, opts...))
		case "ollama":
			opts := []reason.OllamaOption{}
			if timeout > 0 {
				opts = append(opts, reason.WithOllamaTimeout(timeout))
			}
			providers = append(providers, reason.NewOllamaProvider(endpoint, model, opts...))
		default:
			return nil, fmt.Errorf("unknown provider type: %s", providerType)
		}
	}

	node := &reason.Orchestrator{
		Providers: providers,
		TopK:      int(conv.ConfigGetInt64(cfg, "top_k", 0)),
	}
	if timeout > 0 {
		node.Timeout = timeout
	}
	return node, nil
}

func BuildAggregateNode(cfg map[string]interface{}) (pipeline.Node, error) {
	wRule := conv.ConfigGetFloat64(cfg, "weight_rule", 0.4)
	wEnsemble := conv.ConfigGetFloat64(cfg, "weight_ensemble", 0.35)
	wAI := conv.ConfigGetFloat64(cfg, "weight_ai", 0.25)

	opts := []rank.AggregateOption{}
	if base := conv.ConfigGetFloat64(cfg, "base_confidence", 0); base > 0 {
		opts = append(opts, rank.WithBaseConfidence(base))
	}
	if curve := conv.SliceAnyToFloat64(cfg["decay_curve"]); len(curve) > 0 {
		opts = append(opts, rank.WithDecayCurve(curve))
	}
	return rank.NewAggregateNode(wRule, wEnsemble, wAI, opts...)
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.Diversity{MaxPerType: int(conv.ConfigGetInt64(cfg, "max_per_type", 0))}, nil
}
