// Package sortorder enumerates the supported result orderings.
package sortorder

// Order is the requested result ordering.
type Order string

// Supported orderings.
const (
	// Score orders by match score descending, the default.
	Score        Order = "score"
	Popularity   Order = "popularity"
	DurationAsc  Order = "duration_asc"
	DurationDesc Order = "duration_desc"
	NameAsc      Order = "name_asc"
	NameDesc     Order = "name_desc"
	Newest       Order = "newest"
	PriceAsc     Order = "price_asc"
	PriceDesc    Order = "price_desc"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	switch o {
	case Score, Popularity, DurationAsc, DurationDesc,
		NameAsc, NameDesc, Newest, PriceAsc, PriceDesc:
		return true
	}
	return false
}

// OrDefault returns the order, falling back to Score when empty or unknown.
func (o Order) OrDefault() Order {
	if o.IsValid() {
		return o
	}
	return Score
}
