package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "empty existing takes incoming",
			existing: Label{},
			incoming: Label{Value: "catalog", Source: "recall"},
			want:     Label{Value: "catalog", Source: "recall"},
		},
		{
			name:     "empty incoming keeps existing",
			existing: Label{Value: "catalog", Source: "recall"},
			incoming: Label{},
			want:     Label{Value: "catalog", Source: "recall"},
		},
		{
			name:     "values and sources accumulate",
			existing: Label{Value: "diverse", Source: "rerank"},
			incoming: Label{Value: "backfill", Source: "rerank"},
			want:     Label{Value: "diverse|backfill", Source: "rerank,rerank"},
		},
		{
			name:     "missing source falls back",
			existing: Label{Value: "a"},
			incoming: Label{Value: "b", Source: "rank"},
			want:     Label{Value: "a|b", Source: "rank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
