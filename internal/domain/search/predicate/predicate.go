// Package predicate compiles a criteria set into a typed AND/OR predicate
// tree. The tree is storage-agnostic: adapters translate it into their own
// query language, and Eval applies it directly to in-memory items. Criteria
// values only ever appear as bound leaf values, never inside query text.
package predicate

import (
	"github.com/railvoy/railvoy/internal/domain/search/criteria"
)

// TestMarker flags internal QA packages. Items whose name contains it are
// excluded from every result set regardless of criteria.
const TestMarker = "TEST"

// Field identifies the item attribute a leaf applies to.
type Field string

// Leaf fields.
const (
	// FieldDestination matches a token across countries, cities, regions
	// and the display name.
	FieldDestination   Field = "destination"
	FieldCountries     Field = "countries"
	FieldCities        Field = "cities"
	FieldRegions       Field = "regions"
	FieldTripTypes     Field = "trip_types"
	FieldName          Field = "name"
	FieldDuration      Field = "duration"
	FieldTier          Field = "tier"
	FieldDepartureType Field = "departure_type"
)

// Op is the comparison a leaf performs.
type Op string

// Leaf operations.
const (
	// OpMatchAny matches when the value equals one element of a
	// multi-valued field, case-insensitive.
	OpMatchAny Op = "match_any"
	// OpEquals matches a scalar field exactly, case-insensitive.
	OpEquals Op = "equals"
	// OpContainsText matches a case-insensitive substring of a text field.
	OpContainsText Op = "contains_text"
	// OpNotContainsText is the negation of OpContainsText.
	OpNotContainsText Op = "not_contains_text"
	OpGTE             Op = "gte"
	OpLTE             Op = "lte"
)

// Kind discriminates tree nodes.
type Kind int

// Node kinds.
const (
	KindLeaf Kind = iota
	KindAnd
	KindOr
)

// Node is one node of the predicate tree.
type Node struct {
	kind     Kind
	children []Node
	field    Field
	op       Op
	str      string
	num      int
}

// And combines child predicates; all must match. An empty And matches everything.
func And(children ...Node) Node { return Node{kind: KindAnd, children: children} }

// Or combines child predicates; at least one must match.
func Or(children ...Node) Node { return Node{kind: KindOr, children: children} }

// MatchAny builds a multi-valued membership leaf.
func MatchAny(field Field, value string) Node {
	return Node{kind: KindLeaf, field: field, op: OpMatchAny, str: value}
}

// Equals builds a scalar equality leaf.
func Equals(field Field, value string) Node {
	return Node{kind: KindLeaf, field: field, op: OpEquals, str: value}
}

// ContainsText builds a substring leaf.
func ContainsText(field Field, value string) Node {
	return Node{kind: KindLeaf, field: field, op: OpContainsText, str: value}
}

// NotContainsText builds a negated substring leaf.
func NotContainsText(field Field, value string) Node {
	return Node{kind: KindLeaf, field: field, op: OpNotContainsText, str: value}
}

// GTE builds a numeric lower-bound leaf.
func GTE(field Field, value int) Node {
	return Node{kind: KindLeaf, field: field, op: OpGTE, num: value}
}

// LTE builds a numeric upper-bound leaf.
func LTE(field Field, value int) Node {
	return Node{kind: KindLeaf, field: field, op: OpLTE, num: value}
}

// Kind returns the node kind.
func (n Node) Kind() Kind { return n.kind }

// Children returns the child nodes of an And/Or node.
func (n Node) Children() []Node { return n.children }

// Field returns the leaf field.
func (n Node) Field() Field { return n.field }

// Op returns the leaf operation.
func (n Node) Op() Op { return n.op }

// StringValue returns the bound string value of a leaf.
func (n Node) StringValue() string { return n.str }

// IntValue returns the bound numeric value of a leaf.
func (n Node) IntValue() int { return n.num }

// Compile turns a criteria set into a predicate tree. The root is an And
// node; it always carries the reserved test-marker exclusion, so even empty
// criteria compile to a non-empty tree.
func Compile(c criteria.Criteria) Node {
	clauses := []Node{NotContainsText(FieldName, TestMarker)}

	if dests := c.Destinations(); len(dests) > 0 {
		clauses = append(clauses, anyDestination(dests))
	}
	for _, group := range c.DestinationGroups() {
		clauses = append(clauses, anyDestination(group))
	}
	if v := c.StartLocation(); v != "" {
		clauses = append(clauses, MatchAny(FieldDestination, v))
	}
	if v := c.EndLocation(); v != "" {
		clauses = append(clauses, MatchAny(FieldDestination, v))
	}
	if v := c.Region(); v != "" {
		clauses = append(clauses, MatchAny(FieldRegions, v))
	}
	if countries := c.Countries(); len(countries) > 0 {
		clauses = append(clauses, anyOf(FieldCountries, countries))
	}
	if types := c.TripTypes(); len(types) > 0 {
		clauses = append(clauses, anyOf(FieldTripTypes, types))
	}
	if minN := c.DurationMin(); minN != nil {
		clauses = append(clauses, GTE(FieldDuration, *minN))
	}
	if maxN := c.DurationMax(); maxN != nil {
		clauses = append(clauses, LTE(FieldDuration, *maxN))
	}
	if v := c.Tier(); v != "" {
		clauses = append(clauses, Equals(FieldTier, v))
	}
	if v := c.DepartureType(); v != "" {
		clauses = append(clauses, Equals(FieldDepartureType, v))
	}
	if v := c.NameQuery(); v != "" {
		clauses = append(clauses, ContainsText(FieldName, v))
	}

	return And(clauses...)
}

func anyDestination(tokens []string) Node {
	if len(tokens) == 1 {
		return MatchAny(FieldDestination, tokens[0])
	}
	children := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		children = append(children, MatchAny(FieldDestination, tok))
	}
	return Or(children...)
}

func anyOf(field Field, values []string) Node {
	if len(values) == 1 {
		return MatchAny(field, values[0])
	}
	children := make([]Node, 0, len(values))
	for _, v := range values {
		children = append(children, MatchAny(field, v))
	}
	return Or(children...)
}
