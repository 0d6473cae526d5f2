package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	m := NewWeightedModel(nil)
	for i := 0; i < 200; i++ {
		if sum := m.SumWeights(); sum != 1 {
			t.Fatalf("sum = %v, want exactly 1", sum)
		}
	}
}

func TestWeightedModel_Predict(t *testing.T) {
	m := NewWeightedModel(nil)
	features := map[string]float64{
		core.FeatureSimilarity:     3,
		core.FeatureGenre:          3,
		core.FeatureRating:         2,
		core.FeatureAuthor:         2,
		core.FeatureYear:           1,
		core.FeatureDiversity:      1,
		core.FeatureGenreDiversity: 0.6,
		"unrelated":                100,
	}
	got, err := m.Predict(features)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	weights := DefaultWeights()
	var want float64
	for _, k := range core.FeatureKeys {
		want += float64(weights[k] * features[k])
	}
	if math.Abs(want-(0.35*3+0.25*3+0.20*2+0.10*2+0.05*1+0.03*1+0.02*0.6)) > 1e-12 {
		t.Fatalf("want = %v", want)
	}
	if got != want {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
	for i := 0; i < 500; i++ {
		again, _ := m.Predict(features)
		if again != got {
			t.Fatalf("Predict() run %d = %v, want %v", i, again, got)
		}
	}

	zero, _ := m.Predict(map[string]float64{})
	if zero != 0 {
		t.Errorf("Predict(empty) = %v, want 0", zero)
	}
}

func TestLoadWeightedModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte(`{"weights":{"similarity_score":1}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadWeightedModel(path)
	if err != nil {
		t.Fatalf("LoadWeightedModel() error = %v", err)
	}
	got, _ := m.Predict(map[string]float64{core.FeatureSimilarity: 3, core.FeatureGenre: 3})
	if got != 3 {
		t.Errorf("Predict() = %v, want 3", got)
	}

	if _, err := LoadWeightedModel(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWeightedModel_CustomKeysOrder(t *testing.T) {
	m := NewWeightedModel(map[string]float64{"z_extra": 0.1, core.FeatureGenre: 0.5, "a_extra": 0.2, core.FeatureSimilarity: 0.2})
	want := []string{core.FeatureSimilarity, core.FeatureGenre, "a_extra", "z_extra"}
	got := m.keys()
	if len(got) != len(want) {
		t.Fatalf("keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys() = %v, want %v", got, want)
		}
	}

	m.Weights["b_extra"] = 1
	if len(m.keys()) != 5 {
		t.Errorf("keys() after mutation = %v", m.keys())
	}
}
