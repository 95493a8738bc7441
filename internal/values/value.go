// Package values implements the replicated key/value state shared between
// server and clients. A Holder keeps the last-known value per dotted key,
// drops notifications that would not change anything, and dispatches the
// remaining ones to listeners asynchronously while preserving per-holder
// notification order.
package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind enumerates the scalar types a Value can carry.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is a JSON scalar. The zero Value is invalid and never equal to any
// valid value, so notifying a zero Value always counts as a change.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsValid() bool { return v.kind != KindInvalid }

func (v Value) Str() string    { return v.s }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Bool() bool     { return v.b }

// AsInt converts numeric values to int64. Strings are parsed on a best-effort
// basis; anything else yields ok=false.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.f), true
	case KindString:
		n, err := strconv.ParseInt(v.s, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// AsBool reports booleans and the strings "true"/"false".
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		b, err := strconv.ParseBool(v.s)
		return b, err == nil
	default:
		return false, false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal compares kind and payload. Cross-kind values are never equal, so an
// int 1 replacing a string "1" is still replicated.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case bool:
		*v = Bool(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return err
		}
		*v = Float(f)
	case nil:
		*v = Value{}
	default:
		return fmt.Errorf("values: non-scalar payload %T", raw)
	}
	return nil
}

// Values is a set of keyed scalars, the unit of replication on the wire.
type Values map[string]Value

// Clone returns a shallow copy; Value is immutable so shallow is enough.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}

// Merge copies o into vs, overwriting existing keys.
func (vs Values) Merge(o Values) {
	for k, v := range o {
		vs[k] = v
	}
}

// SortedKeys returns the keys in lexical order. Indexed keys are zero-padded
// so this matches numeric order as well.
func (vs Values) SortedKeys() []string {
	out := make([]string, 0, len(vs))
	for k := range vs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
