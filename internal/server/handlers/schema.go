package handlers

import (
	"fmt"
	"math"
	"strings"
)

// Each resource's input contract is a declarative schema of typed fields
// evaluated once per request, before any store access. A field that is
// missing or fails its constraints counts as absent; absent required
// fields short-circuit the request with one aggregate error.

type source int

const (
	fromPayload source = iota
	fromQuery
)

type kind int

const (
	kindString kind = iota
	kindBool
	kindInt
	kindIntList
)

type field struct {
	name     string
	from     source
	kind     kind
	required bool

	exactLen   int      // strings: exact trimmed length, 0 = any non-empty
	enum       []string // strings: allowed values
	minVal     int      // ints: inclusive range
	maxVal     int
	mustBeTrue bool // bools: only true is accepted
}

// Field constructors; fields are required unless marked optional.

func strField(name string) field {
	return field{name: name, kind: kindString, required: true}
}

func boolTrueField(name string) field {
	return field{name: name, kind: kindBool, required: true, mustBeTrue: true}
}

func intField(name string, min, max int) field {
	return field{name: name, kind: kindInt, required: true, minVal: min, maxVal: max}
}

func intListField(name string) field {
	return field{name: name, kind: kindIntList, required: true}
}

func (f field) exact(n int) field { f.exactLen = n; return f }

func (f field) oneOf(vals ...string) field { f.enum = vals; return f }

func (f field) query() field { f.from = fromQuery; return f }

func (f field) optional() field { f.required = false; return f }

// values holds the cleaned fields a schema accepted. Absent optional
// fields have no entry.
type values map[string]any

func (v values) has(name string) bool { _, found := v[name]; return found }

func (v values) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) integer(name string) int {
	n, _ := v[name].(int)
	return n
}

func (v values) intList(name string) []int {
	l, _ := v[name].([]int)
	return l
}

// evalSchema validates the request against the schema. It is pure: no
// side effects, and the request is never mutated.
func evalSchema(fields []field, r *Request) (values, error) {
	out := make(values, len(fields))
	var missing []string

	for _, f := range fields {
		val, valid := f.clean(r)
		if !valid {
			if f.required {
				missing = append(missing, f.name)
			}
			continue
		}
		out[f.name] = val
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing or invalid required field(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// clean extracts and validates one field, reporting whether it is usable.
func (f field) clean(r *Request) (any, bool) {
	var raw any
	switch f.from {
	case fromQuery:
		s, found := r.Query[f.name]
		if !found {
			return nil, false
		}
		raw = s
	default:
		v, found := r.Payload[f.name]
		if !found {
			return nil, false
		}
		raw = v
	}

	switch f.kind {
	case kindString:
		s, isStr := raw.(string)
		if !isStr {
			return nil, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		if f.exactLen > 0 && len(s) != f.exactLen {
			return nil, false
		}
		if len(f.enum) > 0 && !contains(f.enum, s) {
			return nil, false
		}
		return s, true

	case kindBool:
		b, isBool := raw.(bool)
		if !isBool || (f.mustBeTrue && !b) {
			return nil, false
		}
		return b, true

	case kindInt:
		n, isInt := wholeNumber(raw)
		if !isInt || n < f.minVal || n > f.maxVal {
			return nil, false
		}
		return n, true

	case kindIntList:
		list, isList := raw.([]any)
		if !isList || len(list) == 0 {
			return nil, false
		}
		ints := make([]int, 0, len(list))
		for _, item := range list {
			n, isInt := wholeNumber(item)
			if !isInt {
				return nil, false
			}
			ints = append(ints, n)
		}
		return ints, true
	}

	return nil, false
}

// wholeNumber accepts the numeric types a decoded JSON body can carry and
// rejects fractional values.
func wholeNumber(raw any) (int, bool) {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
