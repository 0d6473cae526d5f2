package core

import (
	"reflect"
	"testing"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"101", "101"},
		{"0101", "101"},
		{" 202 ", "202"},
		{"000", "0"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIDList(t *testing.T) {
	got := ParseIDList("202, 303,abc,,0404, 5x")
	want := []string{"202", "303", "404"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseIDList() = %v, want %v", got, want)
	}
	if ParseIDList("") != nil {
		t.Error("ParseIDList(\"\") should be nil")
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]*Book{
		{ID: "0101", Title: "Dune"},
		{ID: "202", Title: "Hyperion"},
		{ID: "101", Title: "Dune again"},
		nil,
		{ID: "303", Title: "Foundation"},
	})
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	b, ok := c.Get("101")
	if !ok || b.Title != "Dune" {
		t.Errorf("Get(101) = %v, %v; want first row", b, ok)
	}
	if _, ok := c.Get("999"); ok {
		t.Error("Get(999) should miss")
	}

	head := c.Head(2)
	if len(head) != 2 || head[0].ID != "101" || head[1].ID != "202" {
		t.Errorf("Head(2) = %v", head)
	}
	if len(c.Head(10)) != 3 || c.Head(0) != nil {
		t.Error("Head bounds")
	}

	resolved := c.Resolve(map[string]struct{}{"303": {}, "101": {}, "999": {}})
	if len(resolved) != 2 || resolved[0].ID != "101" || resolved[1].ID != "303" {
		t.Errorf("Resolve() should follow catalog order, got %v", resolved)
	}

	same := NewCatalog([]*Book{{ID: "101"}, {ID: "202"}, {ID: "303"}})
	other := NewCatalog([]*Book{{ID: "202"}, {ID: "101"}, {ID: "303"}})
	if c.Fingerprint() != same.Fingerprint() {
		t.Error("fingerprint should depend only on the id sequence")
	}
	if c.Fingerprint() == other.Fingerprint() {
		t.Error("fingerprint should change with order")
	}

	var nilCatalog *Catalog
	if nilCatalog.Len() != 0 || nilCatalog.Books() != nil {
		t.Error("nil catalog should be empty")
	}
}

func TestNewCatalog_DoesNotMutateInput(t *testing.T) {
	rating := 4.2
	in := []*Book{{ID: " 0101 ", Title: "Dune", AvgRating: &rating}}
	c := NewCatalog(in)

	if in[0].ID != " 0101 " {
		t.Errorf("input ID rewritten to %q", in[0].ID)
	}
	b, ok := c.Get("101")
	if !ok || b == in[0] {
		t.Fatalf("Get(101) = %p, %v; want a copy", b, ok)
	}
	*b.AvgRating = 1
	if rating != 4.2 {
		t.Error("catalog shares pointer fields with input")
	}
}

func TestBookClone(t *testing.T) {
	y := 1965.0
	b := &Book{ID: "101", Year: &y}
	c := b.Clone()
	*c.Year = 2000
	if *b.Year != 1965 {
		t.Error("Clone() shares pointer fields")
	}
}

func TestDomainErrors(t *testing.T) {
	if !IsInvalidInput(ErrNilCatalog) {
		t.Error("ErrNilCatalog should be INVALID_INPUT")
	}
	if !IsStoreNotFound(ErrStoreNotFound) || IsStoreNotFound(ErrNilCatalog) {
		t.Error("IsStoreNotFound")
	}
	if IsNotFound(nil) || IsDomainError(nil) {
		t.Error("nil is not a domain error")
	}
}
