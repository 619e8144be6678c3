// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "testing"

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 3, KindInt},
		{"int64", int64(3), KindInt},
		{"float", 3.5, KindFloat},
		{"string", "hi", KindString},
		{"bytes", []byte("hi"), KindBytes},
		{"array", Array{1, 2}, KindArray},
		{"dict", Dict{"a": 1}, KindDict},
		{"opaque", Opaque{TypeName: "Node"}, KindOpaque},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := KindOf(c.v); got != c.want {
				t.Errorf("KindOf(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestNormalizeNumeric(t *testing.T) {
	if got := Normalize(int32(7)); got != int64(7) {
		t.Errorf("Normalize(int32(7)) = %v, want int64(7)", got)
	}
	if got := Normalize(float32(1.5)); got != float64(1.5) {
		t.Errorf("Normalize(float32(1.5)) = %v, want float64(1.5)", got)
	}
}

func TestNormalizeRecursive(t *testing.T) {
	in := []Value{int32(1), map[string]Value{"x": int8(2)}}
	out := Normalize(in)
	arr, ok := ArrayOf(out)
	if !ok || len(arr) != 2 {
		t.Fatalf("Normalize did not produce an Array: %#v", out)
	}
	if arr[0] != int64(1) {
		t.Errorf("arr[0] = %v, want int64(1)", arr[0])
	}
	dict, ok := DictOf(arr[1])
	if !ok {
		t.Fatalf("Normalize did not produce a Dict: %#v", arr[1])
	}
	if dict["x"] != int64(2) {
		t.Errorf("dict[x] = %v, want int64(2)", dict["x"])
	}
}

func TestCBORRoundTripScalars(t *testing.T) {
	cases := []Value{nil, true, int64(42), 3.25, "hello", []byte{1, 2, 3}}
	for _, c := range cases {
		encoded, err := Marshal(c)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", c, err)
		}
		decoded, err := Unmarshal(encoded)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if s, ok := c.(string); ok {
			if decoded != s {
				t.Errorf("round trip %v -> %v", c, decoded)
			}
			continue
		}
		if b, ok := c.([]byte); ok {
			db, ok := decoded.([]byte)
			if !ok || string(db) != string(b) {
				t.Errorf("round trip %v -> %v", c, decoded)
			}
			continue
		}
		if decoded != c && !(c == nil && decoded == nil) {
			t.Errorf("round trip %v -> %v", c, decoded)
		}
	}
}

func TestCBORRoundTripComposite(t *testing.T) {
	in := Array{int64(1), Dict{"name": "Player", "hp": int64(10)}, Array{"a", "b"}}
	encoded, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	arr, ok := ArrayOf(out)
	if !ok || len(arr) != 3 {
		t.Fatalf("decoded not a 3-element array: %#v", out)
	}
	dict, ok := DictOf(arr[1])
	if !ok || dict["name"] != "Player" || dict["hp"] != int64(10) {
		t.Fatalf("decoded dict mismatch: %#v", arr[1])
	}
}

func TestCBORRoundTripOpaque(t *testing.T) {
	in := Opaque{TypeName: "Node2D", Repr: "Player", Handle: "ignored"}
	encoded, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	opaque, ok := out.(Opaque)
	if !ok {
		t.Fatalf("decoded value is not Opaque: %#v", out)
	}
	if opaque.TypeName != "Node2D" || opaque.Repr != "Player" {
		t.Errorf("decoded opaque mismatch: %#v", opaque)
	}
	if opaque.Handle != nil {
		t.Errorf("decoded opaque Handle should be nil, got %#v", opaque.Handle)
	}
}

func TestAt(t *testing.T) {
	payload := Array{"a", "b"}
	if v, ok := At(payload, 1); !ok || v != "b" {
		t.Errorf("At(1) = %v, %v", v, ok)
	}
	if _, ok := At(payload, 5); ok {
		t.Error("At(5) should be out of range")
	}
}
