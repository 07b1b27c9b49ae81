package catalog

import (
	"fmt"
	"strings"

	"github.com/railvoy/railvoy/internal/domain/search/predicate"
)

// column maps predicate fields to catalogue columns. Multi-valued
// attributes are stored pipe-delimited, so membership checks run as ILIKE
// substring matches against the raw column.
func column(f predicate.Field) string {
	switch f {
	case predicate.FieldCountries:
		return "countries"
	case predicate.FieldCities:
		return "cities"
	case predicate.FieldRegions:
		return "regions"
	case predicate.FieldTripTypes:
		return "trip_types"
	case predicate.FieldName:
		return "external_name"
	case predicate.FieldDuration:
		return "duration_nights"
	case predicate.FieldTier:
		return "tier"
	case predicate.FieldDepartureType:
		return "departure_type"
	}
	return ""
}

// destinationColumns are the columns a destination token is matched against.
var destinationColumns = []string{"countries", "cities", "regions", "external_name"}

// Translate renders a predicate tree as a parameterized SQL condition.
// Every bound value is passed as a positional argument, never inlined.
func Translate(n predicate.Node) (string, []any) {
	clause, args, _ := translate(n, 1)
	return clause, args
}

func translate(n predicate.Node, argIndex int) (string, []any, int) {
	switch n.Kind() {
	case predicate.KindAnd:
		return translateGroup(n.Children(), " AND ", "TRUE", argIndex)
	case predicate.KindOr:
		return translateGroup(n.Children(), " OR ", "FALSE", argIndex)
	default:
		return translateLeaf(n, argIndex)
	}
}

func translateGroup(children []predicate.Node, sep, empty string, argIndex int) (string, []any, int) {
	if len(children) == 0 {
		return empty, nil, argIndex
	}
	clauses := make([]string, 0, len(children))
	var args []any
	for _, child := range children {
		clause, childArgs, next := translate(child, argIndex)
		clauses = append(clauses, clause)
		args = append(args, childArgs...)
		argIndex = next
	}
	if len(clauses) == 1 {
		return clauses[0], args, argIndex
	}
	return "(" + strings.Join(clauses, sep) + ")", args, argIndex
}

func translateLeaf(n predicate.Node, argIndex int) (string, []any, int) {
	switch n.Op() {
	case predicate.OpMatchAny:
		if n.Field() == predicate.FieldDestination {
			clauses := make([]string, 0, len(destinationColumns))
			args := make([]any, 0, len(destinationColumns))
			for _, col := range destinationColumns {
				clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", col, argIndex))
				args = append(args, "%"+n.StringValue()+"%")
				argIndex++
			}
			return "(" + strings.Join(clauses, " OR ") + ")", args, argIndex
		}
		clause := fmt.Sprintf("%s ILIKE $%d", column(n.Field()), argIndex)
		return clause, []any{"%" + n.StringValue() + "%"}, argIndex + 1
	case predicate.OpEquals:
		clause := fmt.Sprintf("%s ILIKE $%d", column(n.Field()), argIndex)
		return clause, []any{n.StringValue()}, argIndex + 1
	case predicate.OpContainsText:
		clause := fmt.Sprintf("%s ILIKE $%d", column(n.Field()), argIndex)
		return clause, []any{"%" + n.StringValue() + "%"}, argIndex + 1
	case predicate.OpNotContainsText:
		clause := fmt.Sprintf("%s NOT ILIKE $%d", column(n.Field()), argIndex)
		return clause, []any{"%" + n.StringValue() + "%"}, argIndex + 1
	case predicate.OpGTE:
		clause := fmt.Sprintf("%s >= $%d", column(n.Field()), argIndex)
		return clause, []any{n.IntValue()}, argIndex + 1
	case predicate.OpLTE:
		clause := fmt.Sprintf("%s <= $%d", column(n.Field()), argIndex)
		return clause, []any{n.IntValue()}, argIndex + 1
	}
	return "TRUE", nil, argIndex
}
