// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "fmt"

// Value is the dynamic value type passed in message payloads, stack
// variables, and scene-graph properties. Its concrete dynamic type is
// always one of: nil, bool, int64, float64, string, []byte, Array, Dict,
// or Opaque.
type Value = any

// Array is the dynamic array variant of Value.
type Array = []Value

// Dict is the dynamic dictionary variant of Value. Keys are always
// strings — the debug protocol never carries non-string map keys.
type Dict = map[string]Value

// Kind classifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindArray
	KindDict
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf classifies v. Integer types narrower than int64 (int, int32,
// uint32, ...) are normalized to KindInt by [Normalize] before they
// reach this point in practice, but KindOf recognizes them directly too
// so callers that skip normalization still get a sensible answer.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case Array:
		return KindArray
	case Dict:
		return KindDict
	case Opaque:
		return KindOpaque
	case *Opaque:
		return KindOpaque
	default:
		return KindOpaque
	}
}

// Opaque stands in for a runtime object the core cannot and should not
// understand — a live script instance, a scene node, a resource handle.
// TypeName and Repr give a human-readable stand-in for display and wire
// transport; Handle carries the live reference for in-process callers
// (the break loop's evaluator, the automation capture) and is never
// serialized.
type Opaque struct {
	// TypeName is the runtime class name (e.g. "Node2D", "PlayerScript").
	TypeName string
	// Repr is a short human-readable representation (e.g. an instance id
	// or a path), used when the value crosses the wire or is printed.
	Repr string
	// Handle is the live object reference. Only meaningful within the
	// process that created it.
	Handle any
}

func (o Opaque) String() string {
	if o.Repr == "" {
		return fmt.Sprintf("<%s>", o.TypeName)
	}
	return fmt.Sprintf("<%s: %s>", o.TypeName, o.Repr)
}

// Normalize coerces narrower numeric types into the two canonical
// numeric representations (int64, float64) and recursively normalizes
// arrays and dicts. This keeps type switches in the rest of the core to
// exactly the set of types KindOf recognizes, regardless of what an
// adapter handed back.
func Normalize(v Value) Value {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	case []Value:
		normalized := make(Array, len(t))
		for i, item := range t {
			normalized[i] = Normalize(item)
		}
		return normalized
	case map[string]Value:
		normalized := make(Dict, len(t))
		for k, item := range t {
			normalized[k] = Normalize(item)
		}
		return normalized
	default:
		return v
	}
}

// Bool returns v's bool value and whether v is actually a bool.
func Bool(v Value) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Int returns v's integer value (after normalization) and whether v is
// an integer type.
func Int(v Value) (int64, bool) {
	switch t := Normalize(v).(type) {
	case int64:
		return t, true
	default:
		return 0, false
	}
}

// Float returns v's float value, accepting either an int or a float
// (useful for numeric payload fields that may arrive as either).
func Float(v Value) (float64, bool) {
	switch t := Normalize(v).(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// String returns v's string value and whether v is actually a string.
func String(v Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ArrayOf returns v's array value and whether v is actually an array.
func ArrayOf(v Value) (Array, bool) {
	switch t := v.(type) {
	case Array:
		return t, true
	default:
		return nil, false
	}
}

// DictOf returns v's dict value and whether v is actually a dict.
func DictOf(v Value) (Dict, bool) {
	switch t := v.(type) {
	case Dict:
		return t, true
	default:
		return nil, false
	}
}

// At returns payload[index] or nil, false if index is out of range.
// Helper for handlers pulling positional arguments out of a payload
// array without manual bounds checks.
func At(payload Array, index int) (Value, bool) {
	if index < 0 || index >= len(payload) {
		return nil, false
	}
	return payload[index], true
}
