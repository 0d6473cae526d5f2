package feature

import (
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func f64(v float64) *float64 { return &v }

func TestExtractPreferences_Empty(t *testing.T) {
	if p, ok := ExtractPreferences(nil); ok || p != nil {
		t.Fatalf("expected no profile for empty favorites, got %+v", p)
	}
}

func TestExtractPreferences_TopGenresAndAuthors(t *testing.T) {
	favs := []*core.Book{
		{ID: "1", Author: "A", Genres: "Fantasy, Adventure, Magic", Year: f64(1990), AvgRating: f64(4.0), SimilarBooks: "10, 11,abc"},
		{ID: "2", Author: "B", Genres: "romance, fantasy", Year: f64(2010), SimilarBooks: "11,12"},
		{ID: "3", Author: "B", Genres: "drama, horror, poetry, magic"},
		{ID: "4", Author: "", Genres: ""},
		{ID: "5", Author: "C", Genres: "history"},
		{ID: "6", Author: "D", Genres: "war"},
	}

	p, ok := ExtractPreferences(favs)
	if !ok {
		t.Fatal("expected profile")
	}

	// fantasy(2), magic(2), 其余按首次出现：adventure, romance, drama
	wantGenres := []string{"fantasy", "magic", "adventure", "romance", "drama"}
	if !reflect.DeepEqual(p.TopGenres, wantGenres) {
		t.Errorf("TopGenres = %v, want %v", p.TopGenres, wantGenres)
	}
	wantAuthors := []string{"B", "A", "C"}
	if !reflect.DeepEqual(p.TopAuthors, wantAuthors) {
		t.Errorf("TopAuthors = %v, want %v", p.TopAuthors, wantAuthors)
	}
	if p.MeanYear != 2000 {
		t.Errorf("MeanYear = %v, want 2000", p.MeanYear)
	}
	if p.MeanRating != 4.0 {
		t.Errorf("MeanRating = %v, want 4.0", p.MeanRating)
	}
	if p.GenreCounts["fantasy"] != 2 || p.GenreCounts["war"] != 1 {
		t.Errorf("GenreCounts = %v", p.GenreCounts)
	}
	if _, ok := p.GenreCounts[""]; ok {
		t.Errorf("empty genre token should be skipped")
	}
	for _, id := range []string{"10", "11", "12"} {
		if !p.IsSimilar(id) {
			t.Errorf("expected %s in SimilarIDs", id)
		}
	}
	if len(p.SimilarIDs) != 3 {
		t.Errorf("SimilarIDs = %v, want 3 entries", p.SimilarIDs)
	}
	if len(p.FavoriteIDs) != 6 {
		t.Errorf("FavoriteIDs = %v", p.FavoriteIDs)
	}
}

func TestExtractPreferences_Defaults(t *testing.T) {
	p, ok := ExtractPreferences([]*core.Book{{ID: "1", Author: "X", Genres: "Poetry"}})
	if !ok {
		t.Fatal("expected profile")
	}
	if p.MeanYear != 2000 || p.MeanRating != 4.0 {
		t.Errorf("defaults = (%v, %v), want (2000, 4.0)", p.MeanYear, p.MeanRating)
	}
	if p.MaxGenreCount() != 1 {
		t.Errorf("MaxGenreCount = %d", p.MaxGenreCount())
	}
}

func TestExtractPreferences_SkipsNonFinite(t *testing.T) {
	p, ok := ExtractPreferences([]*core.Book{
		{ID: "1", Genres: "fantasy", Year: f64(math.NaN()), AvgRating: f64(math.NaN())},
		{ID: "2", Genres: "fantasy", Year: f64(1980), AvgRating: f64(math.Inf(1))},
		{ID: "3", Genres: "fantasy", Year: f64(math.Inf(-1)), AvgRating: f64(3.5)},
	})
	if !ok {
		t.Fatal("expected profile")
	}
	if p.MeanYear != 1980 {
		t.Errorf("MeanYear = %v, want 1980", p.MeanYear)
	}
	if p.MeanRating != 3.5 {
		t.Errorf("MeanRating = %v, want 3.5", p.MeanRating)
	}

	p, _ = ExtractPreferences([]*core.Book{{ID: "1", AvgRating: f64(math.NaN())}})
	if p.MeanRating != 4.0 {
		t.Errorf("all-NaN ratings should fall back to 4.0, got %v", p.MeanRating)
	}
}

func TestExtractor_CustomLimits(t *testing.T) {
	e := &PreferenceExtractor{TopGenres: 1, TopAuthors: 1, DefaultYear: 1950, DefaultRating: 3}
	p, ok := e.Extract([]*core.Book{
		{ID: "1", Author: "X", Genres: "a, b"},
		{ID: "2", Author: "Y", Genres: "b"},
	})
	if !ok {
		t.Fatal("expected profile")
	}
	if !reflect.DeepEqual(p.TopGenres, []string{"b"}) {
		t.Errorf("TopGenres = %v", p.TopGenres)
	}
	if !reflect.DeepEqual(p.TopAuthors, []string{"X"}) {
		t.Errorf("TopAuthors = %v", p.TopAuthors)
	}
	if p.MeanYear != 1950 || p.MeanRating != 3 {
		t.Errorf("defaults not applied: %v %v", p.MeanYear, p.MeanRating)
	}
}
