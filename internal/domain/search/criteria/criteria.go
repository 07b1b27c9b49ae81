// Package criteria defines the structured constraint set a caller supplies
// when asking for recommendations. Every field is optional; an empty
// criteria set matches the whole catalogue.
package criteria

import (
	"strings"
	"unicode"
)

// Normalization limits.
const (
	// MaxValueLength is the maximum length of a single criteria value in runes.
	MaxValueLength = 120
	// MaxListValues is the maximum number of values kept per list field.
	MaxListValues = 16
	MinNights     = 1
	MaxNights     = 365
)

// Input is the raw, fully optional constraint set as supplied by a caller.
type Input struct {
	Destinations      []string
	DestinationGroups [][]string
	StartLocation     string
	EndLocation       string
	Region            string
	Countries         []string
	TripTypes         []string
	DurationMin       *int
	DurationMax       *int
	Tier              string
	DepartureType     string
	NameQuery         string
}

// Criteria is a normalized constraint set. Values are trimmed, control
// characters stripped, list sizes capped and duration bounds clamped and
// ordered, so downstream consumers never re-validate.
type Criteria struct {
	destinations      []string
	destinationGroups [][]string
	startLocation     string
	endLocation       string
	region            string
	countries         []string
	tripTypes         []string
	durationMin       *int
	durationMax       *int
	tier              string
	departureType     string
	nameQuery         string
}

// New normalizes raw input into a Criteria.
func New(in Input) Criteria {
	c := Criteria{
		destinations:  sanitizeList(in.Destinations),
		startLocation: sanitize(in.StartLocation),
		endLocation:   sanitize(in.EndLocation),
		region:        sanitize(in.Region),
		countries:     sanitizeList(in.Countries),
		tripTypes:     sanitizeList(in.TripTypes),
		tier:          sanitize(in.Tier),
		departureType: sanitize(in.DepartureType),
		nameQuery:     sanitize(in.NameQuery),
	}

	for _, group := range in.DestinationGroups {
		if g := sanitizeList(group); len(g) > 0 {
			c.destinationGroups = append(c.destinationGroups, g)
		}
		if len(c.destinationGroups) == MaxListValues {
			break
		}
	}

	minN := clampNights(in.DurationMin)
	maxN := clampNights(in.DurationMax)
	if minN != nil && maxN != nil && *minN > *maxN {
		minN, maxN = maxN, minN
	}
	c.durationMin = minN
	c.durationMax = maxN

	return c
}

func sanitize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimSpace(cleaned)
	runes := []rune(cleaned)
	if len(runes) > MaxValueLength {
		cleaned = string(runes[:MaxValueLength])
	}
	return cleaned
}

func sanitizeList(raw []string) []string {
	var out []string
	for _, v := range raw {
		if s := sanitize(v); s != "" {
			out = append(out, s)
		}
		if len(out) == MaxListValues {
			break
		}
	}
	return out
}

func clampNights(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	if v < MinNights {
		v = MinNights
	}
	if v > MaxNights {
		v = MaxNights
	}
	return &v
}

// Destinations returns the flat destination token list.
func (c Criteria) Destinations() []string { return c.destinations }

// DestinationGroups returns the multi-row destination constraint. Values
// within a row are alternatives; rows must all be satisfied.
func (c Criteria) DestinationGroups() [][]string { return c.destinationGroups }

// StartLocation returns the requested starting point.
func (c Criteria) StartLocation() string { return c.startLocation }

// EndLocation returns the requested ending point.
func (c Criteria) EndLocation() string { return c.endLocation }

// Region returns the requested region.
func (c Criteria) Region() string { return c.region }

// Countries returns the requested countries.
func (c Criteria) Countries() []string { return c.countries }

// TripTypes returns the requested vacation types.
func (c Criteria) TripTypes() []string { return c.tripTypes }

// DurationMin returns the minimum trip length in nights, nil if unset.
func (c Criteria) DurationMin() *int { return c.durationMin }

// DurationMax returns the maximum trip length in nights, nil if unset.
func (c Criteria) DurationMax() *int { return c.durationMax }

// Tier returns the requested accommodation tier.
func (c Criteria) Tier() string { return c.tier }

// DepartureType returns the requested departure classifier.
func (c Criteria) DepartureType() string { return c.departureType }

// NameQuery returns the free-text name filter.
func (c Criteria) NameQuery() string { return c.nameQuery }

// IsEmpty reports whether no constraint is active.
func (c Criteria) IsEmpty() bool { return c.ActiveCount() == 0 }

// ActiveCount returns the number of active constraints.
func (c Criteria) ActiveCount() int {
	n := 0
	if len(c.destinations) > 0 {
		n++
	}
	if len(c.destinationGroups) > 0 {
		n++
	}
	if c.startLocation != "" {
		n++
	}
	if c.endLocation != "" {
		n++
	}
	if c.region != "" {
		n++
	}
	if len(c.countries) > 0 {
		n++
	}
	if len(c.tripTypes) > 0 {
		n++
	}
	if c.durationMin != nil || c.durationMax != nil {
		n++
	}
	if c.tier != "" {
		n++
	}
	if c.departureType != "" {
		n++
	}
	if c.nameQuery != "" {
		n++
	}
	return n
}

// HasLocationConstraint reports whether any primary constraint is active.
// Primary constraints pin down what the caller is looking for and are never
// relaxed during fallback.
func (c Criteria) HasLocationConstraint() bool {
	return len(c.destinations) > 0 ||
		len(c.destinationGroups) > 0 ||
		c.startLocation != "" ||
		c.endLocation != "" ||
		c.region != "" ||
		len(c.countries) > 0 ||
		c.nameQuery != ""
}

// WithoutDepartureType returns a copy with the departure type dropped.
func (c Criteria) WithoutDepartureType() Criteria {
	c.departureType = ""
	return c
}

// WithoutTier returns a copy with the tier dropped.
func (c Criteria) WithoutTier() Criteria {
	c.tier = ""
	return c
}

// WithoutTripTypes returns a copy with the vacation types dropped.
func (c Criteria) WithoutTripTypes() Criteria {
	c.tripTypes = nil
	return c
}

// WithoutDuration returns a copy with both duration bounds dropped.
func (c Criteria) WithoutDuration() Criteria {
	c.durationMin = nil
	c.durationMax = nil
	return c
}
