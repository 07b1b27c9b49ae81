package predicate

import (
	"strings"

	"github.com/railvoy/railvoy/internal/domain/catalog"
)

// Eval applies the predicate tree to an in-memory item. It mirrors the
// semantics storage adapters implement in their query language, and backs
// the post-merge filtering of semantically retrieved candidates.
func Eval(n Node, item *catalog.Item) bool {
	switch n.kind {
	case KindAnd:
		for _, child := range n.children {
			if !Eval(child, item) {
				return false
			}
		}
		return true
	case KindOr:
		for _, child := range n.children {
			if Eval(child, item) {
				return true
			}
		}
		return len(n.children) == 0
	default:
		return evalLeaf(n, item)
	}
}

func evalLeaf(n Node, item *catalog.Item) bool {
	switch n.op {
	case OpMatchAny:
		return matchAny(n.field, n.str, item)
	case OpEquals:
		return strings.EqualFold(scalarField(n.field, item), n.str)
	case OpContainsText:
		return containsFold(textField(n.field, item), n.str)
	case OpNotContainsText:
		return !containsFold(textField(n.field, item), n.str)
	case OpGTE:
		return numericField(n.field, item) >= n.num
	case OpLTE:
		return numericField(n.field, item) <= n.num
	}
	return false
}

func matchAny(field Field, value string, item *catalog.Item) bool {
	switch field {
	case FieldDestination:
		return item.HasCountry(value) || item.HasCity(value) ||
			item.HasRegion(value) || containsFold(item.Name(), value)
	case FieldCountries:
		return item.HasCountry(value)
	case FieldCities:
		return item.HasCity(value)
	case FieldRegions:
		return item.HasRegion(value)
	case FieldTripTypes:
		return item.HasTripType(value)
	}
	return false
}

func scalarField(field Field, item *catalog.Item) string {
	switch field {
	case FieldTier:
		return item.Tier()
	case FieldDepartureType:
		return item.DepartureType()
	}
	return ""
}

func textField(field Field, item *catalog.Item) string {
	if field == FieldName {
		return item.Name()
	}
	return ""
}

func numericField(field Field, item *catalog.Item) int {
	if field == FieldDuration {
		return item.DurationNights()
	}
	return 0
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
