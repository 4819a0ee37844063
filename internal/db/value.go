package db

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindNull is an absent value.
	KindNull Kind = iota
	// KindString is UTF-8 text.
	KindString
	// KindBytes is an opaque byte buffer.
	KindBytes
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindDouble is a 64-bit float.
	KindDouble
	// KindBoolean is a boolean.
	KindBoolean
	// KindArray is an ordered list of values.
	KindArray
	// KindMap is a string-keyed map of values.
	KindMap
)

var kindNames = [...]string{"null", "string", "bytes", "integer", "double", "boolean", "array", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the generic protocol value used both for command arguments and
// decoded replies.
type Value struct {
	kind  Kind
	str   string
	bytes []byte
	i     int64
	f     float64
	b     bool
	arr   []Value
	m     map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps UTF-8 text.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes wraps a byte buffer.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Array wraps an ordered list.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Map wraps a string-keyed map.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Uint converts an unsigned integer. Values above math.MaxInt64 have no
// wire representation.
func Uint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, &ConversionError{
			Value:  strconv.FormatUint(u, 10),
			Reason: "exceeds signed 64-bit range",
		}
	}
	return Int(int64(u)), nil
}

// Float converts a float. Infinities are allowed, NaN is not.
func Float(f float64) (Value, error) {
	if math.IsNaN(f) {
		return Value{}, &ConversionError{Value: "NaN", Reason: "not a number"}
	}
	return Value{kind: KindDouble, f: f}, nil
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Token renders v as a single wire argument.
func (v Value) Token() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBytes:
		return string(v.bytes)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return FormatFloat(v.f)
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// FormatFloat renders f the way the server parses numeric arguments.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// AsString returns the text or bytes payload.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindBytes:
		return string(v.bytes), true
	}
	return "", false
}

// AsInt64 returns the integer payload, parsing strings when needed.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.i, true
	case KindString, KindBytes:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(s, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// AsFloat64 returns the numeric payload, parsing strings when needed.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	case KindString, KindBytes:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// AsArray returns the array payload.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsMap returns the map payload.
func (v Value) AsMap() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// Interface converts v to plain Go values (string, int64, float64, bool,
// []any, map[string]any, nil), suitable for JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBytes:
		return string(v.bytes)
	case KindInteger:
		return v.i
	case KindDouble:
		if math.IsInf(v.f, 0) {
			return FormatFloat(v.f)
		}
		return v.f
	case KindBoolean:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}
