package inference

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// identifierFieldPattern matches field names the inferencer treats as
// candidates for GraphQL's ID scalar (spec.md §4.5.2).
var identifierFieldPattern = regexp.MustCompile(`(?i)^(id|uuid)$|(Id|ID)$`)

// fieldRecord accumulates everything observed about one field across a
// document sample (spec.md §3 "Field inference record").
type fieldRecord struct {
	count          int
	sawNull        bool
	kinds          map[core.ValueKind]bool
	numbers        []float64
	arrayElemKinds map[core.ValueKind]bool
	children       []map[string]core.Value // object-valued observations, for recursion
	order          int                     // insertion order, for deterministic field ordering
}

func newFieldRecord(order int) *fieldRecord {
	return &fieldRecord{
		kinds:          make(map[core.ValueKind]bool),
		arrayElemKinds: make(map[core.ValueKind]bool),
		order:          order,
	}
}

// Infer derives an immutable Schema from docs, named rootTypeName, per
// cfg's thresholds and nesting rules (spec.md §4.5). docs must be
// non-empty.
func Infer(docs []core.Document, rootTypeName string, cfg core.TypeSystemConfig) (Schema, error) {
	if len(docs) == 0 {
		return Schema{}, core.New("inference.infer", core.KindValidation, "document set must not be empty")
	}

	objs := make([]map[string]core.Value, len(docs))
	for i, d := range docs {
		objs[i] = map[string]core.Value(d)
	}

	stats := &Statistics{TotalDocuments: len(docs)}

	root, nested, err := analyzeLevel(objs, rootTypeName, "", true, 0, cfg, stats)
	if err != nil {
		return Schema{}, err
	}

	stats.TypesGenerated = 1 + len(nested)
	stats.NestedTypesCreated = len(nested)

	return Schema{RootType: root, NestedTypes: nested, Statistics: *stats}, nil
}

// analyzeLevel performs the structural walk over one nesting level
// (spec.md §4.5.1), returning the Type for this level plus every nested
// Type transitively extracted from object-valued fields.
func analyzeLevel(objs []map[string]core.Value, typeName, parentTypeName string, isRoot bool, depth int, cfg core.TypeSystemConfig, stats *Statistics) (Type, []Type, error) {
	records := make(map[string]*fieldRecord)
	var order []string

	for _, obj := range objs {
		for name, val := range obj {
			if isRoot && core.IsSystemField(name) {
				continue
			}
			rec, ok := records[name]
			if !ok {
				rec = newFieldRecord(len(order))
				records[name] = rec
				order = append(order, name)
			}
			rec.count++
			if val.IsNull() {
				rec.sawNull = true
				continue
			}
			rec.kinds[val.Kind()] = true
			switch val.Kind() {
			case core.KindNumber:
				n, _ := val.Number()
				rec.numbers = append(rec.numbers, n)
			case core.KindArray:
				elems, _ := val.Elements()
				for _, e := range elems {
					if e.IsNull() {
						continue
					}
					rec.arrayElemKinds[e.Kind()] = true
					if e.Kind() == core.KindObject {
						fields, _ := e.Fields()
						rec.children = append(rec.children, fields)
					}
				}
			case core.KindObject:
				fields, _ := val.Fields()
				rec.children = append(rec.children, fields)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return records[order[i]].order < records[order[j]].order })

	var fields []Field
	var nestedTypes []Type
	stats.FieldsAnalyzed += len(order)

	for _, name := range order {
		rec := records[name]
		field, childType, err := resolveField(name, rec, typeName, len(objs), depth, cfg, stats)
		if err != nil {
			return Type{}, nil, err
		}
		fields = append(fields, field)
		if childType != nil {
			nestedTypes = append(nestedTypes, *childType)
			nestedTypes = append(nestedTypes, childType.nestedDescendants...)
		}
	}

	return Type{Name: typeName, Fields: fields, IsNested: !isRoot, ParentTypeName: parentTypeName}, nestedTypes, nil
}

// typeWithDescendants lets resolveField propagate a whole extracted
// subtree up to its caller in a single return value.
type typeWithDescendants struct {
	Type
	nestedDescendants []Type
}

func resolveField(name string, rec *fieldRecord, parentTypeName string, totalDocuments, depth int, cfg core.TypeSystemConfig, stats *Statistics) (Field, *typeWithDescendants, error) {
	// A field is "required" only when it meets the threshold and null was
	// never observed (spec.md §4.5.4); present-but-sometimes-null still
	// counts against requiredness.
	required := requiredFraction(rec, totalDocuments) >= cfg.RequiredThreshold && !everObservedNull(rec)

	isArray := len(rec.kinds) == 1 && rec.kinds[core.KindArray]

	if isArray {
		// ID is never applied to array element types even when the name
		// pattern matches; the second return value is only meaningful for
		// scalar fields.
		elemType, _ := widenKindSet(rec.arrayElemKinds, nil, cfg, name, false)
		if rec.arrayElemKinds[core.KindObject] && len(rec.arrayElemKinds) == 1 {
			if depth+1 > cfg.MaxNestingDepth {
				return Field{Name: name, GraphQLType: cfg.NestedTypeFallback, Required: required, IsArray: true}, nil, nil
			}
			childName := parentTypeName + capitalize(name)
			childType, childNested, err := analyzeLevel(rec.children, childName, parentTypeName, false, depth+1, cfg, stats)
			if err != nil {
				return Field{}, nil, err
			}
			return Field{Name: name, GraphQLType: childName, Required: required, IsArray: true, NestedType: childName},
				&typeWithDescendants{Type: childType, nestedDescendants: childNested}, nil
		}
		return Field{Name: name, GraphQLType: elemType, Required: required, IsArray: true}, nil, nil
	}

	if rec.kinds[core.KindObject] && len(rec.kinds) == 1 {
		if depth+1 > cfg.MaxNestingDepth {
			return Field{Name: name, GraphQLType: cfg.NestedTypeFallback, Required: required}, nil, nil
		}
		childName := parentTypeName + capitalize(name)
		childType, childNested, err := analyzeLevel(rec.children, childName, parentTypeName, false, depth+1, cfg, stats)
		if err != nil {
			return Field{}, nil, err
		}
		return Field{Name: name, GraphQLType: childName, Required: required, NestedType: childName},
			&typeWithDescendants{Type: childType, nestedDescendants: childNested}, nil
	}

	if len(rec.kinds) > 1 {
		stats.ConflictsResolved++
		if cfg.ConflictResolution == core.ConflictError {
			return Field{}, nil, core.New("inference.conflict", core.KindTypeConflict,
				fmt.Sprintf("field %q has conflicting observed kinds %v", name, kindNames(rec.kinds))).WithID(name)
		}
		// Heterogeneous mixes including object fall back to the configured
		// NestedTypeFallback scalar (normally JSON), since an object value
		// cannot be represented as a String; every other mix widens to
		// String.
		if rec.kinds[core.KindObject] {
			return Field{Name: name, GraphQLType: cfg.NestedTypeFallback, Required: required}, nil, nil
		}
		return Field{Name: name, GraphQLType: "String", Required: required}, nil, nil
	}

	graphQLType, isID := widenKindSet(rec.kinds, rec.numbers, cfg, name, required)
	if isID {
		return Field{Name: name, GraphQLType: "ID", Required: required}, nil, nil
	}
	return Field{Name: name, GraphQLType: graphQLType, Required: required}, nil, nil
}

func requiredFraction(rec *fieldRecord, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(rec.count) / float64(total)
}

func everObservedNull(rec *fieldRecord) bool {
	return rec.sawNull
}

// widenKindSet resolves a single-kind (or empty) observation set to its
// GraphQL scalar, and reports whether the field additionally qualifies
// as the ID scalar (spec.md §4.5.2, §4.5.3).
func widenKindSet(kinds map[core.ValueKind]bool, numbers []float64, cfg core.TypeSystemConfig, name string, required bool) (string, bool) {
	switch {
	case kinds[core.KindString]:
		if required && identifierFieldPattern.MatchString(name) {
			return "ID", true
		}
		return "String", false
	case kinds[core.KindBool]:
		return "Boolean", false
	case kinds[core.KindNumber]:
		return widenNumber(numbers, cfg), false
	default:
		// No non-null observation at all (field was always null, or
		// never present outside an array context) — conservative default.
		return "String", false
	}
}

// widenNumber applies spec.md §4.5.3: Int only under strict mode, when
// every value is integral and within signed 32-bit range; Float
// otherwise.
func widenNumber(numbers []float64, cfg core.TypeSystemConfig) string {
	if cfg.NumberInference != core.NumberStrict {
		return "Float"
	}
	if len(numbers) == 0 {
		return "Float"
	}
	for _, n := range numbers {
		if n != float64(int32(n)) {
			return "Float"
		}
	}
	return "Int"
}

func kindNames(kinds map[core.ValueKind]bool) []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
