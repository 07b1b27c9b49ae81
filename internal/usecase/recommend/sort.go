package recommend

import (
	"sort"
	"strings"

	"github.com/railvoy/railvoy/internal/domain/search/result"
	"github.com/railvoy/railvoy/internal/domain/search/sortorder"
)

// sortResults orders scored results in place. Every ordering breaks ties
// deterministically, ultimately by item ID, so repeated identical requests
// return identical orderings.
func sortResults(scored []result.Scored, order sortorder.Order) {
	less := lessFunc(order)
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if cmp := less(a, b); cmp != 0 {
			return cmp < 0
		}
		return a.Item().ID() < b.Item().ID()
	})
}

func lessFunc(order sortorder.Order) func(a, b *result.Scored) int {
	switch order {
	case sortorder.Popularity:
		return func(a, b *result.Scored) int {
			return compareInt(effectiveRank(a), effectiveRank(b))
		}
	case sortorder.DurationAsc:
		return func(a, b *result.Scored) int {
			return compareInt(a.Item().DurationNights(), b.Item().DurationNights())
		}
	case sortorder.DurationDesc:
		return func(a, b *result.Scored) int {
			return compareInt(b.Item().DurationNights(), a.Item().DurationNights())
		}
	case sortorder.NameAsc:
		return func(a, b *result.Scored) int {
			return strings.Compare(foldName(a), foldName(b))
		}
	case sortorder.NameDesc:
		return func(a, b *result.Scored) int {
			return strings.Compare(foldName(b), foldName(a))
		}
	case sortorder.Newest:
		return func(a, b *result.Scored) int {
			return compareInt64(b.Item().CreatedAt(), a.Item().CreatedAt())
		}
	case sortorder.PriceAsc:
		return func(a, b *result.Scored) int {
			return compareInt64(effectivePrice(a), effectivePrice(b))
		}
	case sortorder.PriceDesc:
		return func(a, b *result.Scored) int {
			return compareInt64(b.Item().PriceCents(), a.Item().PriceCents())
		}
	}
	// Score descending, more popular rank first on equal scores.
	return func(a, b *result.Scored) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		}
		return compareInt(effectiveRank(a), effectiveRank(b))
	}
}

// effectiveRank treats unranked items as least popular.
func effectiveRank(s *result.Scored) int {
	if r := s.Item().Rank(); r > 0 {
		return r
	}
	return 1 << 30
}

// effectivePrice pushes unpriced items to the end of ascending price order.
func effectivePrice(s *result.Scored) int64 {
	if p := s.Item().PriceCents(); p > 0 {
		return p
	}
	return 1 << 62
}

func foldName(s *result.Scored) string {
	return strings.ToLower(s.Item().Name())
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
