package core

import (
	"regexp"
)

// identifierPattern matches field names and orderBy targets accepted
// anywhere they are interpolated into SQL after validation (spec.md
// §4.3).
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// MaxLimit is the largest accepted page size (spec.md §4.3).
const MaxLimit = 10000

// MaxPartitionKeyLength bounds partition key strings (spec.md §4.3).
const MaxPartitionKeyLength = 2048

// FilterOperator enumerates the closed set of WHERE operators accepted
// by the resolver engine (spec.md §4.3, §9 "operator set is closed").
type FilterOperator string

const (
	OpEq       FilterOperator = "eq"
	OpNe       FilterOperator = "ne"
	OpGt       FilterOperator = "gt"
	OpLt       FilterOperator = "lt"
	OpContains FilterOperator = "contains"
)

var validOperators = map[FilterOperator]bool{
	OpEq: true, OpNe: true, OpGt: true, OpLt: true, OpContains: true,
}

// OrderDirection is ASC or DESC, nothing else (spec.md §4.3).
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// ValidateIdentifier checks a field name or orderBy target against the
// whitelist regex. Rejection kind is KindBadFilter, per spec.md §4.3 —
// identifiers are only ever used inside WHERE/ORDER BY clauses.
func ValidateIdentifier(op, name string) error {
	if name == "" || !identifierPattern.MatchString(name) {
		return New(op, KindBadFilter, "invalid identifier: "+name).WithID(name)
	}
	return nil
}

// ValidatePartitionKey checks a non-empty, length-bounded partition key.
// The value itself is never validated for content — it is always sent
// as a bound parameter, never interpolated into SQL.
func ValidatePartitionKey(op, pk string) error {
	if pk == "" {
		return New(op, KindValidation, "partition key must not be empty")
	}
	if len(pk) > MaxPartitionKeyLength {
		return New(op, KindValidation, "partition key exceeds maximum length")
	}
	return nil
}

// ValidateLimit checks a positive, bounded page size.
func ValidateLimit(op string, limit int) error {
	if limit <= 0 {
		return New(op, KindValidation, "limit must be positive")
	}
	if limit > MaxLimit {
		return New(op, KindValidation, "limit exceeds maximum of 10000")
	}
	return nil
}

// ValidateContinuationToken checks a non-empty, opaque token. Its
// contents are never interpreted by the core.
func ValidateContinuationToken(op, token string) error {
	if token == "" {
		return New(op, KindValidation, "continuation token must not be empty")
	}
	return nil
}

// ValidateOrderDirection checks the direction is exactly ASC or DESC.
func ValidateOrderDirection(op string, dir OrderDirection) error {
	if dir != OrderAsc && dir != OrderDesc {
		return New(op, KindValidation, "order direction must be ASC or DESC")
	}
	return nil
}

// ValidateFilterOperator checks op against the closed operator set.
// Unknown operators are rejected as KindBadFilter — never accepted
// reflectively (spec.md §9).
func ValidateFilterOperator(op string, filterOp FilterOperator) error {
	if !validOperators[filterOp] {
		return New(op, KindBadFilter, "unknown filter operator: "+string(filterOp)).WithID(string(filterOp))
	}
	return nil
}

// SQLOperator maps a validated FilterOperator to its SQL rendering.
// CONTAINS is a function call, not an infix operator, so callers must
// branch on OpContains separately when assembling the clause.
func SQLOperator(op FilterOperator) string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	default:
		return ""
	}
}

// ValidateSampleSize checks the document sampler's requested sample
// size. Zero or negative is a validation error; sizes above 10,000 are
// accepted but the caller should be warned (spec.md §4.4).
func ValidateSampleSize(op string, n int) error {
	if n <= 0 {
		return New(op, KindValidation, "sample size must be positive")
	}
	return nil
}

// SampleSizeWarnThreshold is the point above which ValidateSampleSize's
// caller should log a warning rather than reject the request.
const SampleSizeWarnThreshold = 10000
