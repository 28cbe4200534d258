package core

import (
	"sort"
	"strconv"
	"strings"
)

// evaluateQuery interprets the narrow set of SQL shapes this codebase
// ever generates (sampling's TOP/DISTINCT VALUE/partition queries and
// the resolver engine's WHERE/ORDER BY list query, sql.go) against the
// in-memory document set. It is not a SQL engine: anything outside
// these shapes is treated as "no filter, no order" rather than
// rejected, since MemoryContainer exists only to exercise the rest of
// the pipeline end to end (spec.md §8 "reference implementation").
func evaluateQuery(docs map[string]Document, spec QuerySpec) []Document {
	sql := strings.TrimSpace(spec.SQL)
	params := paramIndex(spec.Parameters)

	if strings.HasPrefix(strings.ToUpper(sql), "SELECT DISTINCT VALUE") {
		return evaluateDistinctValue(docs, sql)
	}

	where, orderField, orderDesc := splitClauses(sql)
	conditions := parseConditions(where, params)

	out := sortedDocs(docs)
	out = filterDocs(out, conditions)
	if orderField != "" {
		sortByField(out, orderField, orderDesc)
	}
	return out
}

func sortedDocs(docs map[string]Document) []Document {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, docs[id].Clone())
	}
	return out
}

// evaluateDistinctValue handles "SELECT DISTINCT VALUE c.<field> FROM
// c", wrapping each distinct scalar under the "value" key the same way
// a real driver's scalar projection does (sampler.discoverPartitions
// expects exactly this shape).
func evaluateDistinctValue(docs map[string]Document, sql string) []Document {
	field := fieldBetween(sql, "VALUE c.", " FROM")
	if field == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []Document
	for _, d := range sortedDocs(docs) {
		v, ok := d[field]
		if !ok {
			continue
		}
		s, ok := v.Str()
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, Document{"value": String(s)})
	}
	return out
}

func fieldBetween(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:j])
}

func paramIndex(params []QueryParameter) map[string]interface{} {
	idx := make(map[string]interface{}, len(params))
	for _, p := range params {
		idx[strings.TrimPrefix(p.Name, "@")] = p.Value
	}
	return idx
}

// splitClauses pulls the WHERE and ORDER BY portions off a
// "SELECT [TOP n] * FROM c [WHERE ...] [ORDER BY c.field ASC|DESC]"
// statement.
func splitClauses(sql string) (where, orderField string, orderDesc bool) {
	upper := strings.ToUpper(sql)

	orderIdx := strings.Index(upper, " ORDER BY ")
	body := sql
	if orderIdx >= 0 {
		body = sql[:orderIdx]
		orderClause := strings.TrimSpace(sql[orderIdx+len(" ORDER BY "):])
		fields := strings.Fields(orderClause)
		if len(fields) > 0 {
			orderField = strings.TrimPrefix(fields[0], "c.")
		}
		if len(fields) > 1 && strings.EqualFold(fields[1], "DESC") {
			orderDesc = true
		}
	}

	whereIdx := strings.Index(strings.ToUpper(body), " WHERE ")
	if whereIdx >= 0 {
		where = strings.TrimSpace(body[whereIdx+len(" WHERE "):])
	}
	return where, orderField, orderDesc
}

type condition struct {
	field string
	op    string // "=", "!=", ">", "<", "CONTAINS"
	value interface{}
}

// parseConditions splits a WHERE clause on " AND " (the only join
// buildListQuery ever emits) and matches each fragment against the
// fixed set of shapes sql.go produces.
func parseConditions(where string, params map[string]interface{}) []condition {
	if where == "" {
		return nil
	}
	var out []condition
	for _, part := range strings.Split(where, " AND ") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToUpper(part), "CONTAINS(") {
			open := strings.Index(part, "(")
			inner := strings.TrimSuffix(part[open+1:], ")")
			fields := strings.SplitN(inner, ",", 2)
			if len(fields) != 2 {
				continue
			}
			field := strings.TrimPrefix(strings.TrimSpace(fields[0]), "c.")
			paramName := strings.TrimPrefix(strings.TrimSpace(fields[1]), "@")
			out = append(out, condition{field: field, op: "CONTAINS", value: params[paramName]})
			continue
		}

		for _, op := range []string{"!=", "=", ">", "<"} {
			idx := strings.Index(part, " "+op+" ")
			if idx < 0 {
				continue
			}
			field := strings.TrimPrefix(strings.TrimSpace(part[:idx]), "c.")
			paramName := strings.TrimPrefix(strings.TrimSpace(part[idx+len(op)+2:]), "@")
			out = append(out, condition{field: field, op: op, value: params[paramName]})
			break
		}
	}
	return out
}

func filterDocs(docs []Document, conditions []condition) []Document {
	if len(conditions) == 0 {
		return docs
	}
	out := docs[:0:0]
	for _, d := range docs {
		if matchesAll(d, conditions) {
			out = append(out, d)
		}
	}
	return out
}

func matchesAll(d Document, conditions []condition) bool {
	for _, c := range conditions {
		if !matches(d, c) {
			return false
		}
	}
	return true
}

func matches(d Document, c condition) bool {
	v, ok := d[c.field]
	if !ok {
		return false
	}
	want := strValue(c.value)

	switch c.op {
	case "CONTAINS":
		got, _ := v.Str()
		return strings.Contains(got, want)
	case "=":
		return compareAsString(v) == want
	case "!=":
		return compareAsString(v) != want
	case ">", "<":
		got, ok1 := v.Number()
		wantN, err := strconv.ParseFloat(want, 64)
		if !ok1 || err != nil {
			return false
		}
		if c.op == ">" {
			return got > wantN
		}
		return got < wantN
	}
	return false
}

func compareAsString(v Value) string {
	if s, ok := v.Str(); ok {
		return s
	}
	if n, ok := v.Number(); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return ""
}

func strValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func sortByField(docs []Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a := compareAsString(docs[i][field])
		b := compareAsString(docs[j][field])
		if desc {
			return a > b
		}
		return a < b
	})
}
