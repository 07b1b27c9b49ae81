package criteria

import "testing"

func intPtr(n int) *int { return &n }

func TestNewSanitizesValues(t *testing.T) {
	c := New(Input{
		Countries: []string{"  Italy\t", "\x00", "France\n"},
		NameQuery: "  grand \x1btour  ",
	})

	got := c.Countries()
	if len(got) != 2 || got[0] != "Italy" || got[1] != "France" {
		t.Fatalf("Countries() = %v", got)
	}
	if c.NameQuery() != "grand tour" {
		t.Fatalf("NameQuery() = %q", c.NameQuery())
	}
}

func TestNewCapsListSizes(t *testing.T) {
	many := make([]string, MaxListValues+10)
	for i := range many {
		many[i] = "x"
	}
	c := New(Input{Destinations: many})
	if len(c.Destinations()) != MaxListValues {
		t.Fatalf("len(Destinations()) = %d, want %d", len(c.Destinations()), MaxListValues)
	}
}

func TestNewClampsAndOrdersDuration(t *testing.T) {
	c := New(Input{DurationMin: intPtr(12), DurationMax: intPtr(5)})
	if *c.DurationMin() != 5 || *c.DurationMax() != 12 {
		t.Fatalf("swapped bounds = [%d, %d], want [5, 12]", *c.DurationMin(), *c.DurationMax())
	}

	c = New(Input{DurationMin: intPtr(-3), DurationMax: intPtr(9000)})
	if *c.DurationMin() != MinNights || *c.DurationMax() != MaxNights {
		t.Fatalf("clamped bounds = [%d, %d]", *c.DurationMin(), *c.DurationMax())
	}
}

func TestNewDropsEmptyDestinationGroups(t *testing.T) {
	c := New(Input{DestinationGroups: [][]string{{"  "}, {"Rome", "Venice"}, {}}})
	groups := c.DestinationGroups()
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("DestinationGroups() = %v", groups)
	}
}

func TestEmptyCriteria(t *testing.T) {
	c := New(Input{})
	if !c.IsEmpty() {
		t.Error("empty input should yield empty criteria")
	}
	if c.HasLocationConstraint() {
		t.Error("empty criteria has no location constraint")
	}
}

func TestActiveCountAndLocationConstraint(t *testing.T) {
	c := New(Input{
		Countries:   []string{"Italy"},
		Tier:        "Premium",
		DurationMin: intPtr(5),
	})
	if got := c.ActiveCount(); got != 3 {
		t.Fatalf("ActiveCount() = %d, want 3", got)
	}
	if !c.HasLocationConstraint() {
		t.Error("country list is a primary constraint")
	}

	secondary := New(Input{Tier: "Premium", DepartureType: "guided"})
	if secondary.HasLocationConstraint() {
		t.Error("tier and departure type are not location constraints")
	}
}

func TestWithoutCopiesDoNotMutateOriginal(t *testing.T) {
	c := New(Input{
		Countries:     []string{"Italy"},
		Tier:          "Premium",
		TripTypes:     []string{"Scenic"},
		DepartureType: "guided",
		DurationMin:   intPtr(5),
		DurationMax:   intPtr(10),
	})

	relaxed := c.WithoutTier().WithoutTripTypes().WithoutDepartureType().WithoutDuration()
	if relaxed.Tier() != "" || relaxed.TripTypes() != nil || relaxed.DepartureType() != "" {
		t.Error("relaxed copy should drop secondary constraints")
	}
	if relaxed.DurationMin() != nil || relaxed.DurationMax() != nil {
		t.Error("relaxed copy should drop both duration bounds")
	}
	if relaxed.ActiveCount() != 1 || !relaxed.HasLocationConstraint() {
		t.Error("relaxed copy should keep the country constraint")
	}

	if c.Tier() != "Premium" || len(c.TripTypes()) != 1 || c.DurationMin() == nil {
		t.Error("original criteria must be unchanged")
	}
}
