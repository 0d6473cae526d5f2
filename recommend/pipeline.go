package recommend

import (
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/model"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/rank"
	"github.com/rushteam/bookrec/recall"
	"github.com/rushteam/bookrec/rerank"
)

// DefaultPipeline 返回默认推荐链路：
//
//	recall.catalog → filter(exclude, signal, min_rating_count) → rank.weighted → rerank.perturb → rerank.diversity
func DefaultPipeline(cfg core.RecommendConfig) *pipeline.Pipeline {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.CatalogRecall{},
			&filter.FilterNode{Filters: []filter.Filter{
				filter.NewExcludeFilter(nil, nil, ""),
				&filter.SignalFilter{},
				&filter.MinRatingCountFilter{Min: cfg.DefaultMinRatingCount()},
			}},
			&rank.ScoreNode{Model: model.NewWeightedModel(nil)},
			rerank.NewPerturbNode(cfg),
			rerank.NewDiversity(cfg),
		},
	}
}
