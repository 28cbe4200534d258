package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValueKind tags the dynamic shape of a Value, mirroring the JSON value
// model: null, bool, number, string, array, or object.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a small tagged union over an untyped JSON value. The
// inferencer and resolvers operate exclusively through this type and its
// accessor methods — never through reflection over caller-supplied
// generic structs (design note, spec.md §9).
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values.
func Array(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Object wraps a field map.
func Object(m map[string]Value) Value { return Value{kind: KindObject, obj: m} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// Bool returns the boolean payload; ok is false if v is not a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Number returns the numeric payload; ok is false if v is not a number.
func (v Value) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// Str returns the string payload; ok is false if v is not a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Elements returns the array payload; ok is false if v is not an array.
func (v Value) Elements() ([]Value, bool) { return v.arr, v.kind == KindArray }

// Fields returns the object payload; ok is false if v is not an object.
func (v Value) Fields() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// IsInteger reports whether a number Value holds a mathematically
// integral value (used by the type inferencer's number-widening rule,
// spec.md §4.5.3). Non-numbers are never integers.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber {
		return false
	}
	return v.n == float64(int64(v.n))
}

// UnmarshalJSON decodes a JSON value into the tagged union.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromInterface(raw)
	return nil
}

// MarshalJSON encodes the tagged union back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toInterface())
}

func fromInterface(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		f, _ := t.Float64()
		return Number(f)
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = fromInterface(e)
		}
		return Array(elems)
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = fromInterface(e)
		}
		return Object(obj)
	default:
		return Null()
	}
}

func (v Value) toInterface() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.toInterface()
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.toInterface()
		}
		return out
	default:
		return nil
	}
}

// ValueFromAny converts a plain Go value (as produced by encoding/json
// unmarshaling into interface{}, or hand-built test fixtures) into a
// Value. Supported inputs: nil, bool, the numeric kinds, string,
// []interface{}/[]Value, map[string]interface{}/map[string]Value.
func ValueFromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case Value:
		return t
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case string:
		return String(t)
	case []Value:
		return Array(t)
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = ValueFromAny(e)
		}
		return Array(elems)
	case map[string]Value:
		return Object(t)
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = ValueFromAny(e)
		}
		return Object(obj)
	default:
		return Null()
	}
}

// Document is a mapping from field name to a JSON-value — the system's
// unit of storage (spec.md §3). System fields are prefixed "_"; "id" is
// mandatory.
type Document map[string]Value

// NewDocument builds a Document from plain Go values, convenient for
// tests and for core.NewMemoryContainer fixtures.
func NewDocument(fields map[string]interface{}) Document {
	doc := make(Document, len(fields))
	for k, v := range fields {
		doc[k] = ValueFromAny(v)
	}
	return doc
}

// ID returns the document's "id" field as a string, or "" if absent or
// not a string.
func (d Document) ID() string {
	v, ok := d["id"]
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// IsSystemField reports whether name is a Cosmos-style metadata field
// (prefixed "_").
func IsSystemField(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Signature computes the schema signature used by the schema-aware
// sampler (spec.md GLOSSARY): the sorted, pipe-joined list of non-system
// top-level field names.
func (d Document) Signature() string {
	names := make([]string, 0, len(d))
	for k := range d {
		if !IsSystemField(k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// Clone returns a shallow copy of the document's top-level field map.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String implements fmt.Stringer for debug logging.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<value kind=%s>", v.kind)
	}
	return string(b)
}
