package builders

import (
	"context"
	"testing"

	"github.com/rushteam/bookrec/config"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/rank"
	"github.com/rushteam/bookrec/rerank"
)

const pipelineYAML = `
pipeline:
  name: bookrec
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        filters:
          - type: exclude
            item_ids: ["404"]
          - type: signal
          - type: min_rating_count
            min: 50
          - type: expr
            expr: 'item.year != null && item.year < 1900.0'
    - type: rank.weighted
      config:
        workers: 2
    - type: rerank.perturb
      config:
        std_dev: 0.1
        pool_cap: 30
    - type: rerank.diversity
      config:
        author_cap: 2
    - type: rerank.topn
`

func TestBuildFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	p, err := config.Build(cfg, config.Resources{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Nodes) != 6 {
		t.Fatalf("nodes = %d, want 6", len(p.Nodes))
	}
	fn, ok := p.Nodes[1].(*filter.FilterNode)
	if !ok || len(fn.Filters) != 4 {
		t.Fatalf("filter node = %#v", p.Nodes[1])
	}
	if sn, ok := p.Nodes[2].(*rank.ScoreNode); !ok || sn.Workers != 2 {
		t.Errorf("score node = %#v", p.Nodes[2])
	}
	if pn, ok := p.Nodes[3].(*rerank.PerturbNode); !ok || pn.PoolCap != 30 || pn.PoolFactor != 3 {
		t.Errorf("perturb node = %#v", p.Nodes[3])
	}

	one := func(v float64) *float64 { return &v }
	count := func(v int64) *int64 { return &v }
	books := []*core.Book{
		{ID: "101", Title: "Dune", Author: "Frank Herbert", Genres: "science fiction", AvgRating: one(4.2), RatingsCount: count(1000), SimilarBooks: "202"},
		{ID: "202", Title: "Hyperion", Author: "Dan Simmons", Genres: "science fiction", AvgRating: one(4.2), RatingsCount: count(500), Year: one(1989)},
		{ID: "303", Title: "Frankenstein", Author: "Mary Shelley", Genres: "horror", AvgRating: one(3.8), RatingsCount: count(900), Year: one(1818)},
		{ID: "404", Title: "Blocked", Author: "X", Genres: "science fiction", AvgRating: one(4.9), RatingsCount: count(900)},
		{ID: "505", Title: "Obscure", Author: "Y", Genres: "science fiction", AvgRating: one(4.5), RatingsCount: count(10)},
	}
	catalog := core.NewCatalog(books)
	profile := &core.PreferenceProfile{
		TopGenres:   []string{"science fiction"},
		TopAuthors:  []string{"Frank Herbert"},
		MeanYear:    1965,
		MeanRating:  4.2,
		GenreCounts: map[string]int{"science fiction": 1},
		SimilarIDs:  map[string]struct{}{"202": {}},
		FavoriteIDs: map[string]struct{}{"101": {}},
	}
	rctx := &core.RecommendContext{Catalog: catalog, Profile: profile, TopN: 5, Seed: 1}
	out, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "202" {
		ids := make([]string, 0, len(out))
		for _, it := range out {
			ids = append(ids, it.ID)
		}
		t.Errorf("result = %v, want [202]", ids)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown node", "pipeline:\n  nodes:\n    - type: rank.lr\n"},
		{"stats without service", "pipeline:\n  nodes:\n    - type: feature.stats\n"},
		{"unknown filter", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: exposed\n"},
		{"bad expr", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - type: expr\n            expr: 'item.('\n"},
		{"missing filters", "pipeline:\n  nodes:\n    - type: filter\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := pipeline.ParseYAML([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseYAML() error = %v", err)
			}
			if _, err := config.Build(cfg, config.Resources{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSupportedTypes(t *testing.T) {
	want := []string{"feature.stats", "filter", "rank.weighted", "recall.catalog", "rerank.diversity", "rerank.perturb", "rerank.topn"}
	got := config.SupportedTypes()
	if len(got) != len(want) {
		t.Fatalf("SupportedTypes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SupportedTypes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBuildShippedPipelineConfig(t *testing.T) {
	cfg, err := pipeline.LoadFromYAML("../../configs/pipeline.yaml")
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}
	p, err := config.Build(cfg, config.Resources{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Nodes) != 6 {
		t.Fatalf("nodes = %d, want 6", len(p.Nodes))
	}
	if d, ok := p.Nodes[4].(*rerank.Diversity); !ok || d.AuthorCap != 2 || d.MinGenreCap != 2 {
		t.Errorf("diversity node = %#v", p.Nodes[4])
	}
}
