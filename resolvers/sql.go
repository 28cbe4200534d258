package resolvers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// buildListQuery synthesizes the parameterized SQL spec for the list
// resolver (spec.md §4.7). Every dynamic value is bound through
// core.QueryParameter; no caller-supplied value is ever
// string-interpolated into the SQL text. Field names and the orderBy
// target are checked against core.ValidateIdentifier and operators
// against the closed core.FilterOperator set before being woven into
// the clause (spec.md §9 "closed operator set").
func buildListQuery(partitionKeyField string, args ListArgs) (core.QuerySpec, error) {
	var sql strings.Builder
	var params []core.QueryParameter
	sql.WriteString("SELECT * FROM c")

	var conditions []string

	if args.PartitionKey != "" {
		field := partitionKeyFieldName(partitionKeyField)
		conditions = append(conditions, fmt.Sprintf("c.%s = @pk", field))
		params = append(params, core.Param("pk", args.PartitionKey))
	}

	fieldNames := make([]string, 0, len(args.Where))
	for field := range args.Where {
		fieldNames = append(fieldNames, field)
	}
	sort.Strings(fieldNames)

	for _, field := range fieldNames {
		if err := core.ValidateIdentifier("resolver.list", field); err != nil {
			return core.QuerySpec{}, err
		}

		ops := args.Where[field]
		opNames := make([]string, 0, len(ops))
		for op := range ops {
			opNames = append(opNames, op)
		}
		sort.Strings(opNames)

		for _, opName := range opNames {
			filterOp := core.FilterOperator(opName)
			if err := core.ValidateFilterOperator("resolver.list", filterOp); err != nil {
				return core.QuerySpec{}, err
			}

			paramName := fmt.Sprintf("%s_%s", field, opName)
			value := ops[opName]
			if filterOp == core.OpContains {
				conditions = append(conditions, fmt.Sprintf("CONTAINS(c.%s, @%s)", field, paramName))
			} else {
				conditions = append(conditions, fmt.Sprintf("c.%s %s @%s", field, core.SQLOperator(filterOp), paramName))
			}
			params = append(params, core.Param(paramName, value))
		}
	}

	if len(conditions) > 0 {
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(conditions, " AND "))
	}

	if args.OrderBy != "" {
		if err := core.ValidateIdentifier("resolver.list", args.OrderBy); err != nil {
			return core.QuerySpec{}, err
		}
		direction := core.OrderAsc
		if strings.EqualFold(args.OrderDirection, string(core.OrderDesc)) {
			direction = core.OrderDesc
		}
		fmt.Fprintf(&sql, " ORDER BY c.%s %s", args.OrderBy, direction)
	}

	return core.QuerySpec{SQL: sql.String(), Parameters: params}, nil
}

// partitionKeyFieldName strips the leading "/" from a partition key
// path ("/tenantId" -> "tenantId") to get the bare document field
// name used in a WHERE clause.
func partitionKeyFieldName(path string) string {
	return strings.TrimPrefix(path, "/")
}
