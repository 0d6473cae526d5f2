package recommend

import (
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestSeed(t *testing.T) {
	a := Seed([]core.Favorite{{ID: "101"}, {ID: "202"}})
	tests := []struct {
		name string
		favs []core.Favorite
		same bool
	}{
		{"reordered", []core.Favorite{{ID: "202"}, {ID: "101"}}, true},
		{"duplicates", []core.Favorite{{ID: "101"}, {ID: "202"}, {ID: "101"}}, true},
		{"leading zeros and spaces", []core.Favorite{{ID: " 0101"}, {ID: "202"}}, true},
		{"empty ids ignored", []core.Favorite{{ID: "101"}, {ID: ""}, {ID: "202"}}, true},
		{"different set", []core.Favorite{{ID: "101"}, {ID: "303"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Seed(tt.favs)
			if (got == a) != tt.same {
				t.Errorf("Seed() = %x, base = %x, want same=%v", got, a, tt.same)
			}
		})
	}
}
