package catalog

import (
	"strings"
	"testing"
)

func TestReconstructSplitsPipeDelimitedAttributes(t *testing.T) {
	item := Reconstruct(
		"p-1", "Alpine Express", "Scenic rail journey", "Glacier views",
		"Switzerland|Italy", "Zermatt| Milan ", "Alps", "Scenic|Rail",
		7, "Premium", "guided", 42, 250000, "https://example.com/p-1", 1700000000,
	)

	if got := item.Countries(); len(got) != 2 || got[0] != "Switzerland" || got[1] != "Italy" {
		t.Fatalf("Countries() = %v", got)
	}
	if got := item.Cities(); len(got) != 2 || got[1] != "Milan" {
		t.Fatalf("Cities() = %v, want trimmed values", got)
	}
	if got := item.TripTypes(); len(got) != 2 {
		t.Fatalf("TripTypes() = %v", got)
	}
}

func TestReconstructEmptyAttributes(t *testing.T) {
	item := Reconstruct("p-2", "Mystery", "", "", "", "", "", "", 0, "", "", 0, 0, "", 0)

	if item.Countries() != nil {
		t.Fatalf("empty countries should be nil, got %v", item.Countries())
	}
	if item.Cities() != nil || item.Regions() != nil || item.TripTypes() != nil {
		t.Fatal("empty multi-valued attributes should all be nil")
	}
}

func TestAttributeLookupsAreCaseInsensitive(t *testing.T) {
	item := Reconstruct(
		"p-3", "Tuscan Roads", "", "", "Italy", "Florence|Siena", "Tuscany", "Culinary",
		5, "Value", "self_drive", 10, 0, "", 0,
	)

	if !item.HasCountry("italy") {
		t.Error("HasCountry should match ignoring case")
	}
	if !item.HasCity("SIENA") {
		t.Error("HasCity should match ignoring case")
	}
	if !item.HasRegion("tuscany") || !item.HasTripType("culinary") {
		t.Error("region and trip type lookups should match ignoring case")
	}
	if item.HasCountry("France") {
		t.Error("HasCountry should not match absent values")
	}
}

func TestSearchTextIncludesAttributes(t *testing.T) {
	item := Reconstruct(
		"p-4", "Desert Nights", "Dunes and stars", "Camel trek",
		"Morocco", "Marrakech", "Sahara", "Adventure",
		4, "Premium", "", 3, 0, "", 0,
	)

	text := item.SearchText()
	for _, want := range []string{"Desert Nights", "Dunes and stars", "Morocco", "Marrakech", "Sahara", "Adventure"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchText() missing %q", want)
		}
	}
}
