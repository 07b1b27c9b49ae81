package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/railvoy/railvoy/internal/domain/catalog"
	"github.com/railvoy/railvoy/internal/domain/search/criteria"
)

// Per-dimension score contributions. Absolute values are tuning policy;
// the relative ordering is what the ranking behavior depends on:
// city > start/end > country > region > vacation type > duration >
// tier > rank > multi-country > semantic.
const (
	pointsCityMatch    = 40.0
	pointsStartEnd     = 35.0
	pointsCountryMatch = 30.0
	pointsRegionMatch  = 25.0
	pointsTripType     = 20.0

	pointsDurationExact = 15.0
	pointsDurationNear2 = 12.0
	pointsDurationNear4 = 8.0
	pointsDurationNear7 = 4.0

	pointsTierMatch = 12.0

	pointsRankTop100  = 10.0
	pointsRankTop300  = 7.0
	pointsRankTop600  = 4.0
	pointsRankTop1000 = 2.0

	pointsMultiCountry3 = 5.0
	pointsMultiCountry2 = 3.0

	pointsSemanticMax = 4.0
)

// achievableCeiling normalizes raw points against what a genuinely strong
// match accumulates in practice, not the theoretical maximum, so strong
// matches read in the 70-95 range instead of clustering mid-scale.
const achievableCeiling = 130.0

// floorScore guarantees a small positive score for weak matches so ordering
// stays strict even without distinguishing criteria.
const floorScore = 5.0

// genericReason explains floor-scored results.
const genericReason = "Popular travel choice"

type contribution struct {
	points float64
	reason string
}

// score computes the normalized 0-100 match score for an item plus its
// reasons ordered by contribution. similarity is the semantic similarity
// from retrieval, 0 when the item was not retrieved semantically.
func score(item *catalog.Item, c criteria.Criteria, similarity float64) (float64, []string) {
	var contribs []contribution
	add := func(points float64, reason string) {
		contribs = append(contribs, contribution{points: points, reason: reason})
	}

	for _, dest := range destinationTokens(c) {
		switch {
		case item.HasCity(dest):
			add(pointsCityMatch, fmt.Sprintf("Visits %s", dest))
		case item.HasCountry(dest):
			add(pointsCountryMatch, fmt.Sprintf("Visits %s", dest))
		case item.HasRegion(dest):
			add(pointsRegionMatch, fmt.Sprintf("Covers the %s region", dest))
		}
	}

	if start := c.StartLocation(); start != "" && (item.HasCity(start) || item.HasCountry(start)) {
		add(pointsStartEnd, fmt.Sprintf("Starts in %s", start))
	}
	if end := c.EndLocation(); end != "" && (item.HasCity(end) || item.HasCountry(end)) {
		add(pointsStartEnd, fmt.Sprintf("Ends in %s", end))
	}
	if region := c.Region(); region != "" && item.HasRegion(region) {
		add(pointsRegionMatch, fmt.Sprintf("Covers the %s region", region))
	}
	for _, country := range c.Countries() {
		if item.HasCountry(country) {
			add(pointsCountryMatch, fmt.Sprintf("Visits %s", country))
		}
	}
	for _, tripType := range c.TripTypes() {
		if item.HasTripType(tripType) {
			add(pointsTripType, fmt.Sprintf("Great for a %s getaway", strings.ToLower(tripType)))
		}
	}

	if points, reason := durationContribution(item, c); points > 0 {
		add(points, reason)
	}

	if tier := c.Tier(); tier != "" && strings.EqualFold(item.Tier(), tier) {
		add(pointsTierMatch, fmt.Sprintf("%s accommodation", item.Tier()))
	}

	if points := rankContribution(item.Rank()); points > 0 {
		add(points, "Popular with other travellers")
	}

	switch n := len(item.Countries()); {
	case n >= 3:
		add(pointsMultiCountry3, "Multi-country itinerary")
	case n == 2:
		add(pointsMultiCountry2, "Multi-country itinerary")
	}

	if similarity > 0 {
		add(similarity*pointsSemanticMax, "Closely matches your request")
	}

	var raw float64
	for _, contrib := range contribs {
		raw += contrib.points
	}

	normalized := raw / achievableCeiling * 100
	if normalized > 100 {
		normalized = 100
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].points > contribs[j].points
	})
	reasons := make([]string, 0, len(contribs))
	for _, contrib := range contribs {
		reasons = append(reasons, contrib.reason)
	}

	if normalized < floorScore {
		normalized = floorScore
		if len(reasons) == 0 {
			reasons = []string{genericReason}
		}
	}
	return normalized, reasons
}

// destinationTokens flattens the flat list and the grouped rows.
func destinationTokens(c criteria.Criteria) []string {
	tokens := append([]string{}, c.Destinations()...)
	for _, group := range c.DestinationGroups() {
		tokens = append(tokens, group...)
	}
	return tokens
}

// durationContribution awards banded credit for how close the item's length
// is to the requested range: full inside the range, less at +2, +4 and +7
// nights away, nothing beyond.
func durationContribution(item *catalog.Item, c criteria.Criteria) (float64, string) {
	minN, maxN := c.DurationMin(), c.DurationMax()
	if minN == nil && maxN == nil {
		return 0, ""
	}
	nights := item.DurationNights()
	if nights <= 0 {
		return 0, ""
	}

	diff := 0
	switch {
	case minN != nil && nights < *minN:
		diff = *minN - nights
	case maxN != nil && nights > *maxN:
		diff = nights - *maxN
	}

	switch {
	case diff == 0:
		return pointsDurationExact, fmt.Sprintf("%d nights, right in your range", nights)
	case diff <= 2:
		return pointsDurationNear2, fmt.Sprintf("%d nights, close to your range", nights)
	case diff <= 4:
		return pointsDurationNear4, fmt.Sprintf("%d nights, near your range", nights)
	case diff <= 7:
		return pointsDurationNear7, fmt.Sprintf("%d nights", nights)
	}
	return 0, ""
}

// rankContribution awards banded credit by popularity rank, lower rank
// numbers meaning more popular. Rank 0 means unranked.
func rankContribution(rank int) float64 {
	switch {
	case rank <= 0:
		return 0
	case rank <= 100:
		return pointsRankTop100
	case rank <= 300:
		return pointsRankTop300
	case rank <= 600:
		return pointsRankTop600
	case rank <= 1000:
		return pointsRankTop1000
	}
	return 0
}
