package sortorder

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Order{Score, Popularity, DurationAsc, DurationDesc, NameAsc, NameDesc, Newest, PriceAsc, PriceDesc}
	for _, o := range valid {
		if !o.IsValid() {
			t.Errorf("%q should be valid", o)
		}
	}
	for _, o := range []Order{"", "random", "SCORE"} {
		if o.IsValid() {
			t.Errorf("%q should be invalid", o)
		}
	}
}

func TestOrDefault(t *testing.T) {
	if got := Order("").OrDefault(); got != Score {
		t.Errorf("OrDefault() = %q, want %q", got, Score)
	}
	if got := Popularity.OrDefault(); got != Popularity {
		t.Errorf("OrDefault() = %q, want %q", got, Popularity)
	}
}
