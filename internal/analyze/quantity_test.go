package analyze

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		hint string
		want int
	}{
		{"Bandage x5", 5},
		{"Bandage X 12", 12},
		{"x3", 3},
		{"Rifle Ammo 45", 45},
		{"Canned Beans 2 7", 7}, // last standalone integer wins
		{"Bandage", 1},
		{"", 1},
		{"x0", 1},
	}
	for _, c := range cases {
		if got := ParseQuantity(c.hint); got != c.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", c.hint, got, c.want)
		}
	}
}
