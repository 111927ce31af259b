package catalog

import (
	"testing"
)

func testCatalog(t *testing.T, names ...string) *Catalog {
	t.Helper()
	entries := make([]*Entry, len(names))
	for i, name := range names {
		entries[i] = &Entry{Name: name}
	}
	cat, err := New(entries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func TestNarrowExactMatch(t *testing.T) {
	cat := testCatalog(t, "Bandage", "Rope", "Metal Scrap")

	n := cat.Narrow("Bandage")
	if n.Match == nil {
		t.Fatal("expected immediate match")
	}
	if n.Match.Label != "Bandage" || n.Match.Score != 1.0 {
		t.Errorf("got %q score %.2f, want Bandage 1.00", n.Match.Label, n.Match.Score)
	}
}

func TestNarrowExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	cat := testCatalog(t, "Metal Scrap")

	n := cat.Narrow("  metal, scrap! ")
	if n.Match == nil || n.Match.Label != "Metal Scrap" || n.Match.Score != 1.0 {
		t.Fatalf("expected exact match through normalization, got %+v", n.Match)
	}
}

func TestNarrowIgnoresQuantityNotation(t *testing.T) {
	cat := testCatalog(t, "Bandage", "Rope")

	n := cat.Narrow("Bandage x5")
	if n.Match == nil {
		t.Fatal("expected immediate match despite quantity suffix")
	}
	if n.Match.Label != "Bandage" || n.Match.Score != 1.0 {
		t.Errorf("got %q score %.2f, want Bandage 1.00", n.Match.Label, n.Match.Score)
	}
}

func TestNarrowAliasMatch(t *testing.T) {
	entries := []*Entry{
		{Name: "Bandage", Aliases: []string{"bndg"}},
		{Name: "Rope"},
	}
	cat, err := New(entries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	n := cat.Narrow("bndg")
	if n.Match == nil || n.Match.Label != "Bandage" {
		t.Fatalf("expected alias to resolve to Bandage, got %+v", n.Match)
	}
}

func TestNarrowNearMiss(t *testing.T) {
	cat := testCatalog(t, "Bandage", "Rope")

	// One OCR error: distance 1.
	n := cat.Narrow("Bandags")
	if n.Match == nil {
		t.Fatal("expected near-miss match")
	}
	if n.Match.Label != "Bandage" || n.Match.Score != 0.95 {
		t.Errorf("got %q score %.2f, want Bandage 0.95", n.Match.Label, n.Match.Score)
	}

	// Two OCR errors against a long name still resolves.
	n = cat.Narrow("Bamdags")
	if n.Match == nil || n.Match.Label != "Bandage" {
		t.Fatalf("expected distance-2 match on long name, got %+v", n.Match)
	}
}

func TestNarrowShortHintReturnsNothing(t *testing.T) {
	cat := testCatalog(t, "Axe", "Bat", "Rope")

	// Hints below 3 characters carry too little signal; the caller falls
	// back to the full catalog.
	n := cat.Narrow("at")
	if n.Match != nil {
		t.Errorf("short hint must not fast-path, got %+v", n.Match)
	}
	if n.Shortlist != nil {
		t.Errorf("short hint must not produce a shortlist, got %v", n.Shortlist)
	}
}

func TestNarrowShortNameGuard(t *testing.T) {
	cat := testCatalog(t, "Bat", "Longsword")

	// Distance 2 to a name of length <= 4 must not fast-path; the length
	// guard exists exactly for this accidental-short-match case.
	n := cat.Narrow("bqq")
	if n.Match != nil {
		t.Fatalf("distance-2 match on short name must not fast-path, got %+v", n.Match)
	}
	if len(n.Shortlist) == 0 {
		t.Fatal("expected a shortlist instead")
	}

	// Distance 1 to a short name is still safe.
	n = cat.Narrow("bqt")
	if n.Match == nil || n.Match.Label != "Bat" || n.Match.Score != 0.95 {
		t.Fatalf("expected distance-1 short-name match, got %+v", n.Match)
	}
}

func TestNarrowShortlist(t *testing.T) {
	names := []string{
		"Bandage", "Rope", "Metal Scrap", "Wood Plank", "Stone Block",
		"Canned Beans", "Water Bottle", "Rifle Ammo", "Pistol Ammo", "Gunpowder",
		"Cloth", "Leather", "Duct Tape", "Nails", "Screws",
	}
	cat := testCatalog(t, names...)

	n := cat.Narrow("zzzzzzzz")
	if n.Match != nil {
		t.Fatalf("nonsense hint must not match, got %+v", n.Match)
	}
	if len(n.Shortlist) != ShortlistSize {
		t.Fatalf("expected %d shortlist entries, got %d", ShortlistSize, len(n.Shortlist))
	}
}

func TestNarrowEmptyHint(t *testing.T) {
	cat := testCatalog(t, "Bandage", "Rope")

	n := cat.Narrow("")
	if n.Match != nil || n.Shortlist != nil {
		t.Fatalf("empty hint must yield neither match nor shortlist, got %+v", n)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"bandage", "bandage", 0},
		{"bandage", "bandags", 1},
		{"flaw", "lawn", 2},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestNormalizeHint(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Bandage x5", "bandage x5"},
		{"  METAL   SCRAP ", "metal scrap"},
		{"Rope!!!", "rope"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeHint(c.in); got != c.want {
			t.Errorf("normalizeHint(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
