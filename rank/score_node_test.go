package rank

import (
	"context"
	"testing"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/model"
)

func candidates() []*core.Item {
	return []*core.Item{
		core.NewBookItem(&core.Book{ID: "404", Author: "X", Genres: "horror", AvgRating: f64(3.0), RatingsCount: i64(5000), Year: f64(1990)}),
		core.NewBookItem(&core.Book{ID: "202", Author: "Y", Genres: "science fiction, adventure", AvgRating: f64(4.3), RatingsCount: i64(500), Year: f64(1969)}),
		core.NewBookItem(&core.Book{ID: "505", Author: "Z", Genres: "poetry", AvgRating: f64(3.0), RatingsCount: i64(5000), Year: f64(1990)}),
	}
}

func TestScoreNode_Process(t *testing.T) {
	for _, workers := range []int{0, 4} {
		rctx := &core.RecommendContext{Profile: testProfile()}
		node := &ScoreNode{Model: model.NewWeightedModel(nil), Workers: workers}
		out, err := node.Process(context.Background(), rctx, candidates())
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(out) != 3 {
			t.Fatalf("len = %d, want 3", len(out))
		}
		if out[0].ID != "202" {
			t.Errorf("workers=%d: top = %s, want 202", workers, out[0].ID)
		}
		// 404 与 505 同分，保持输入顺序
		if out[1].ID != "404" || out[2].ID != "505" {
			t.Errorf("workers=%d: tie order = [%s %s], want [404 505]", workers, out[1].ID, out[2].ID)
		}
		top := out[0]
		if top.Features[core.FeatureSimilarity] != 3 {
			t.Errorf("similarity = %v, want 3", top.Features[core.FeatureSimilarity])
		}
		if top.Features[core.FeatureGenre] <= 0 {
			t.Errorf("genre = %v, want > 0", top.Features[core.FeatureGenre])
		}
		if top.Features[core.FeatureDiversity] != 0.5 {
			t.Errorf("diversity = %v, want 0.5", top.Features[core.FeatureDiversity])
		}
		if top.Labels["rank_model"].Value != "weighted" {
			t.Errorf("rank_model label = %v", top.Labels["rank_model"].Value)
		}
	}
}

func TestScoreNode_FinalIsWeightedSum(t *testing.T) {
	rctx := &core.RecommendContext{Profile: testProfile()}
	out, err := (&ScoreNode{}).Process(context.Background(), rctx, candidates())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	weights := model.DefaultWeights()
	for _, it := range out {
		var want float64
		for _, k := range core.FeatureKeys {
			want += float64(weights[k] * it.Features[k])
		}
		if it.Score != want {
			t.Errorf("%s: score = %v, want %v", it.ID, it.Score, want)
		}
	}
}

func TestScoreNode_MissingProfile(t *testing.T) {
	_, err := (&ScoreNode{}).Process(context.Background(), &core.RecommendContext{}, candidates())
	if !core.IsInvalidInput(err) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
