// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"github.com/fxamacker/cbor/v2"
)

// opaqueWire is the wire representation of an Opaque value. Handle is
// deliberately omitted — it has no meaning outside the process that
// created it.
type opaqueWire struct {
	Opaque   bool   `cbor:"__opaque__"`
	TypeName string `cbor:"type"`
	Repr     string `cbor:"repr"`
}

// MarshalCBOR implements cbor.Marshaler. Opaque values cross the wire as
// a small tagged dict rather than attempting to encode Handle.
func (o Opaque) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(opaqueWire{Opaque: true, TypeName: o.TypeName, Repr: o.Repr})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (o *Opaque) UnmarshalCBOR(data []byte) error {
	var wire opaqueWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	o.TypeName = wire.TypeName
	o.Repr = wire.Repr
	o.Handle = nil
	return nil
}

// encMode and decMode are the shared CBOR encode/decode configuration for the
// scenedebug wire protocol. Indefinite-length maps/arrays are disabled on
// decode (EncOptions default covers encode) so malformed frames fail
// fast rather than hanging a reader.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{MaxArrayElements: 1 << 20, MaxMapPairs: 1 << 20, IndefLength: cbor.IndefLengthForbidden}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes a Value (or any composite of Value) to canonical CBOR.
func Marshal(v Value) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a Value tree. Maps decode as Dict,
// arrays as Array, byte strings as []byte, and the opaque-wire tag (see
// [Opaque]) decodes as an Opaque with a nil Handle.
func Unmarshal(data []byte) (Value, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return decodeTree(raw), nil
}

// decodeTree walks the result of a generic cbor.Unmarshal into `any` and
// normalizes map[any]any (cbor's default map decode target) into Dict,
// recognizing the opaque-wire tag along the way.
func decodeTree(raw any) Value {
	switch t := raw.(type) {
	case map[any]any:
		if isOpaqueWire(t) {
			return Opaque{
				TypeName: stringField(t, "type"),
				Repr:     stringField(t, "repr"),
			}
		}
		dict := make(Dict, len(t))
		for k, v := range t {
			if ks, ok := k.(string); ok {
				dict[ks] = decodeTree(v)
			}
		}
		return dict
	case []any:
		arr := make(Array, len(t))
		for i, v := range t {
			arr[i] = decodeTree(v)
		}
		return arr
	default:
		return Normalize(t)
	}
}

func isOpaqueWire(m map[any]any) bool {
	flag, ok := m["__opaque__"].(bool)
	return ok && flag
}

func stringField(m map[any]any, key string) string {
	s, _ := m[key].(string)
	return s
}
