package filter

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/store"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func book(id string, rating *float64, count *int64) *core.Item {
	return core.NewBookItem(&core.Book{ID: id, AvgRating: rating, RatingsCount: count})
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterNode_CandidateRules(t *testing.T) {
	items := []*core.Item{
		book("101", f64(4.5), i64(1000)), // 收藏
		book("202", f64(4.3), i64(500)),
		book("303", nil, i64(500)),       // 缺评分
		book("404", f64(4.0), nil),       // 缺评分人数
		book("505", f64(4.9), i64(10)),   // 低于下限
		book("606", f64(3.9), i64(50)),   // 恰好等于下限
		book("707", f64(math.NaN()), i64(900)),
		book("808", f64(math.Inf(1)), i64(900)),
	}
	rctx := &core.RecommendContext{Favorites: []core.Favorite{{Title: "Dune", ID: "0101"}}}
	node := &FilterNode{Filters: []Filter{
		NewExcludeFilter(nil, nil, ""),
		&SignalFilter{},
		&MinRatingCountFilter{Min: 50},
	}}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	got := ids(out)
	want := []string{"202", "606"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("kept = %v, want %v", got, want)
	}
}

func TestExcludeFilter_StoreBlacklist(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	data, _ := json.Marshal([]string{"7", "008"})
	if err := mem.Set(ctx, "blacklist:books", data); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	f := NewExcludeFilter([]string{"9"}, NewStoreAdapter(mem), "blacklist:books")
	rctx := &core.RecommendContext{}
	for id, want := range map[string]bool{"7": true, "8": true, "9": true, "10": false} {
		got, err := f.ShouldFilter(ctx, rctx, core.NewItem(id))
		if err != nil {
			t.Fatalf("ShouldFilter(%s) error = %v", id, err)
		}
		if got != want {
			t.Errorf("ShouldFilter(%s) = %v, want %v", id, got, want)
		}
	}
}

func TestExprFilter(t *testing.T) {
	if _, err := NewExprFilter("item.("); err == nil {
		t.Fatal("expected compile error")
	}
	f, err := NewExprFilter(`item.year != null && item.year < 1900.0`)
	if err != nil {
		t.Fatalf("NewExprFilter() error = %v", err)
	}
	old := core.NewBookItem(&core.Book{ID: "1", Year: f64(1850)})
	recent := core.NewBookItem(&core.Book{ID: "2", Year: f64(1990)})
	unknown := core.NewBookItem(&core.Book{ID: "3"})

	node := &FilterNode{Filters: []Filter{f}}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{old, recent, unknown})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	got := ids(out)
	if len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Errorf("kept = %v, want [2 3]", got)
	}
}
