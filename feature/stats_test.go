package feature

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/bookrec/core"
)

type fakeStats struct {
	data  map[string]core.BookStats
	err   error
	calls int
}

func (f *fakeStats) Name() string { return "fake" }

func (f *fakeStats) BatchGetBookStats(_ context.Context, ids []string) (map[string]core.BookStats, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]core.BookStats)
	for _, id := range ids {
		if s, ok := f.data[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeStats) Close(context.Context) error { return nil }

func i64(v int64) *int64 { return &v }

func TestStatsNode_FillMissing(t *testing.T) {
	svc := &fakeStats{data: map[string]core.BookStats{
		"1": {AvgRating: f64(3.5), RatingsCount: i64(80)},
		"2": {AvgRating: f64(1.0), RatingsCount: i64(1)},
	}}
	items := []*core.Item{
		core.NewBookItem(&core.Book{ID: "1"}),
		core.NewBookItem(&core.Book{ID: "2", AvgRating: f64(4.2), RatingsCount: i64(900)}),
	}
	node := &StatsNode{Service: svc, BatchSize: 1}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if *out[0].Book.AvgRating != 3.5 || *out[0].Book.RatingsCount != 80 {
		t.Errorf("missing values not filled: %+v", out[0].Book)
	}
	if *out[1].Book.AvgRating != 4.2 || *out[1].Book.RatingsCount != 900 {
		t.Errorf("existing values should be kept without Override: %+v", out[1].Book)
	}
	if svc.calls != 1 {
		t.Errorf("only the incomplete item should be requested, calls = %d", svc.calls)
	}
	if _, ok := out[0].Labels["stats_source"]; !ok {
		t.Errorf("stats_source label missing")
	}
}

func TestStatsNode_Override(t *testing.T) {
	svc := &fakeStats{data: map[string]core.BookStats{
		"2": {AvgRating: f64(1.0)},
	}}
	items := []*core.Item{
		core.NewBookItem(&core.Book{ID: "2", AvgRating: f64(4.2), RatingsCount: i64(900)}),
	}
	out, err := (&StatsNode{Service: svc, Override: true}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if *out[0].Book.AvgRating != 1.0 {
		t.Errorf("AvgRating = %v, want override 1.0", *out[0].Book.AvgRating)
	}
	if *out[0].Book.RatingsCount != 900 {
		t.Errorf("RatingsCount should be kept when service has no value")
	}
}

func TestStatsNode_ServiceErrorIsTolerated(t *testing.T) {
	svc := &fakeStats{err: errors.New("down")}
	items := []*core.Item{core.NewBookItem(&core.Book{ID: "1"})}
	out, err := (&StatsNode{Service: svc}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out[0].Book.AvgRating != nil {
		t.Errorf("AvgRating should stay nil")
	}
}
