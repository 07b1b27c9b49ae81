// Package catalog holds the travel package catalogue value objects.
package catalog

import "strings"

// Item is a single travel package, immutable once loaded from the catalogue.
type Item struct {
	id             string
	name           string
	description    string
	highlights     string
	countries      []string
	cities         []string
	regions        []string
	tripTypes      []string
	durationNights int
	tier           string
	departureType  string
	rank           int
	priceCents     int64
	url            string
	createdAt      int64
}

// Reconstruct rebuilds an item from stored fields. Multi-valued attributes
// arrive pipe-delimited, e.g. "Italy|France".
func Reconstruct(
	id, name, description, highlights string,
	countries, cities, regions, tripTypes string,
	durationNights int, tier, departureType string,
	rank int, priceCents int64, url string, createdAt int64,
) Item {
	return Item{
		id:             id,
		name:           name,
		description:    description,
		highlights:     highlights,
		countries:      splitMulti(countries),
		cities:         splitMulti(cities),
		regions:        splitMulti(regions),
		tripTypes:      splitMulti(tripTypes),
		durationNights: durationNights,
		tier:           tier,
		departureType:  departureType,
		rank:           rank,
		priceCents:     priceCents,
		url:            url,
		createdAt:      createdAt,
	}
}

func splitMulti(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ID returns the catalogue identifier.
func (i Item) ID() string { return i.id }

// Name returns the display name.
func (i Item) Name() string { return i.name }

// Description returns the free-text description.
func (i Item) Description() string { return i.description }

// Highlights returns the free-text highlights.
func (i Item) Highlights() string { return i.highlights }

// Countries returns the visited countries.
func (i Item) Countries() []string { return i.countries }

// Cities returns the visited cities.
func (i Item) Cities() []string { return i.cities }

// Regions returns the covered regions.
func (i Item) Regions() []string { return i.regions }

// TripTypes returns the vacation type labels.
func (i Item) TripTypes() []string { return i.tripTypes }

// DurationNights returns the trip length in nights.
func (i Item) DurationNights() int { return i.durationNights }

// Tier returns the accommodation tier label.
func (i Item) Tier() string { return i.tier }

// DepartureType returns the departure classifier.
func (i Item) DepartureType() string { return i.departureType }

// Rank returns the popularity rank, lower is more popular. Zero means unranked.
func (i Item) Rank() int { return i.rank }

// PriceCents returns the listed price in minor units.
func (i Item) PriceCents() int64 { return i.priceCents }

// URL returns the public package page.
func (i Item) URL() string { return i.url }

// CreatedAt returns the catalogue insertion time as a unix timestamp.
func (i Item) CreatedAt() int64 { return i.createdAt }

// SearchText concatenates the free-text and attribute fields for indexing.
func (i Item) SearchText() string {
	parts := []string{i.name, i.description, i.highlights}
	parts = append(parts, i.countries...)
	parts = append(parts, i.cities...)
	parts = append(parts, i.regions...)
	parts = append(parts, i.tripTypes...)
	return strings.Join(parts, " ")
}

// HasCountry reports whether the item visits the given country, case-insensitive.
func (i Item) HasCountry(country string) bool { return containsFold(i.countries, country) }

// HasCity reports whether the item visits the given city, case-insensitive.
func (i Item) HasCity(city string) bool { return containsFold(i.cities, city) }

// HasRegion reports whether the item covers the given region, case-insensitive.
func (i Item) HasRegion(region string) bool { return containsFold(i.regions, region) }

// HasTripType reports whether the item carries the vacation type, case-insensitive.
func (i Item) HasTripType(tripType string) bool { return containsFold(i.tripTypes, tripType) }

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
