// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scenegraph

import (
	"github.com/zeebo/blake3"

	"github.com/scenedebug/scenedebug/value"
)

// Hash is a 32-byte BLAKE3 digest over a serialized subtree.
type Hash [32]byte

// treeDomainKey is the single domain-separation key used for all
// tree fingerprints. Unlike a content-addressed store with distinct
// chunk/container/file domains, scenedebug only ever hashes one kind
// of thing — a serialized node subtree — so one key is enough.
var treeDomainKey = [32]byte{
	's', 'c', 'e', 'n', 'e', 'd', 'e', 'b', 'u', 'g', '.', 't', 'r', 'e', 'e',
}

// TreeHash computes the BLAKE3 keyed hash of node's serialized
// subtree (canonical CBOR encoding of Serialize(maxDepth)). Two calls
// against an unmutated subtree produce identical digests; any change
// to a serialized field of a descendant (name, path, class, spatial
// fields, children) changes the digest; properties outside the
// serialized shape do not. Used by automation:get_tree to skip
// re-serializing an unchanged tree.
func TreeHash(node *Node, maxDepth int) (Hash, error) {
	dict := node.Serialize(maxDepth)
	encoded, err := value.Marshal(value.Value(dict))
	if err != nil {
		return Hash{}, err
	}
	return keyedHash(encoded), nil
}

func keyedHash(data []byte) Hash {
	hasher, err := blake3.NewKeyed(treeDomainKey[:])
	if err != nil {
		panic("scenegraph: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var result Hash
	copy(result[:], hasher.Sum(nil))
	return result
}
