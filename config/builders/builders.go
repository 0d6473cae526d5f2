package builders

import (
	"fmt"

	"github.com/rushteam/bookrec/config"
	"github.com/rushteam/bookrec/feature"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/model"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/conv"
	"github.com/rushteam/bookrec/rank"
	"github.com/rushteam/bookrec/recall"
	"github.com/rushteam/bookrec/rerank"
)

func init() {
	config.Register("recall.catalog", BuildCatalogRecallNode)
	config.Register("filter", BuildFilterNode)
	config.Register("feature.stats", BuildStatsNode)
	config.Register("rank.weighted", BuildWeightedNode)
	config.Register("rerank.perturb", BuildPerturbNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildCatalogRecallNode(_ config.Resources, _ map[string]interface{}) (pipeline.Node, error) {
	return &recall.CatalogRecall{}, nil
}

func BuildFilterNode(res config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
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
		case "exclude":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			key := conv.ConfigGet(filterMap, "key", "")
			var adapter *filter.StoreAdapter
			if key != "" && res.Store != nil {
				adapter = filter.NewStoreAdapter(res.Store)
			}
			filters = append(filters, filter.NewExcludeFilter(ids, adapter, key))
		case "signal":
			filters = append(filters, &filter.SignalFilter{})
		case "min_rating_count":
			def := res.RecommendConfig().DefaultMinRatingCount()
			filters = append(filters, &filter.MinRatingCountFilter{Min: conv.ConfigGetInt64(filterMap, "min", def)})
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildStatsNode(res config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
	if res.Stats == nil {
		return nil, fmt.Errorf("feature.stats requires a stats service")
	}
	return &feature.StatsNode{
		Service:       res.Stats,
		Override:      conv.ConfigGet(cfg, "override", false),
		BatchSize:     int(conv.ConfigGetInt64(cfg, "batch_size", 0)),
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}, nil
}

func BuildWeightedNode(_ config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
	var m *model.WeightedModel
	if path := conv.ConfigGet(cfg, "model_path", ""); path != "" {
		loaded, err := model.LoadWeightedModel(path)
		if err != nil {
			return nil, err
		}
		m = loaded
	} else {
		var weights map[string]float64
		if raw, ok := cfg["weights"].(map[string]interface{}); ok {
			weights = make(map[string]float64, len(raw))
			for k := range raw {
				weights[k] = conv.ConfigGetFloat64(raw, k, 0)
			}
		}
		m = model.NewWeightedModel(weights)
	}
	return &rank.ScoreNode{
		Model:   m,
		Workers: int(conv.ConfigGetInt64(cfg, "workers", 0)),
	}, nil
}

func BuildPerturbNode(res config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
	n := rerank.NewPerturbNode(res.RecommendConfig())
	n.StdDev = conv.ConfigGetFloat64(cfg, "std_dev", n.StdDev)
	n.PoolFactor = int(conv.ConfigGetInt64(cfg, "pool_factor", int64(n.PoolFactor)))
	n.PoolCap = int(conv.ConfigGetInt64(cfg, "pool_cap", int64(n.PoolCap)))
	return n, nil
}

func BuildDiversityNode(res config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
	n := rerank.NewDiversity(res.RecommendConfig())
	n.AuthorCap = int(conv.ConfigGetInt64(cfg, "author_cap", int64(n.AuthorCap)))
	n.MinGenreCap = int(conv.ConfigGetInt64(cfg, "min_genre_cap", int64(n.MinGenreCap)))
	return n, nil
}

func BuildTopNNode(_ config.Resources, cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
