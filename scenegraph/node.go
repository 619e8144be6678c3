// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scenegraph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/scenedebug/scenedebug/value"
)

// Kind classifies a Node for the purposes of which spatial fields
// Serialize attaches, per spec.md §4.7's node dictionary shape.
type Kind int

const (
	// KindOther carries no spatial fields.
	KindOther Kind = iota
	// KindNode2D carries position/rotation/scale.
	KindNode2D
	// KindNode3D carries position/rotation/scale.
	KindNode3D
	// KindControl carries position/size (GUI controls).
	KindControl
)

// Vec2/Vec3 are plain coordinate tuples; kept distinct from
// value.Value so callers can build nodes without going through the
// dynamic type system.
type Vec2 struct{ X, Y float64 }
type Vec3 struct{ X, Y, Z float64 }

// Node is one entry in the scene tree. A real host implementation
// would wrap its native node type; Mock builds a tree of these
// directly.
type Node struct {
	mu sync.RWMutex

	name  string
	class string
	kind  Kind

	position2D, rotation2D, scale2D Vec2
	position3D, rotation3D, scale3D Vec3
	size                             Vec2
	visible                          bool

	properties map[string]value.Value
	methods    map[string]func(args value.Array) (value.Value, error)

	parent   *Node
	children []*Node
}

// NewNode constructs a detached node. Use (*Node).AddChild to build a
// tree.
func NewNode(name, class string, kind Kind) *Node {
	return &Node{
		name:       name,
		class:      class,
		kind:       kind,
		visible:    true,
		properties: make(map[string]value.Value),
		methods:    make(map[string]func(args value.Array) (value.Value, error)),
	}
}

func (n *Node) AddChild(child *Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	child.parent = n
	n.children = append(n.children, child)
	return n
}

func (n *Node) SetTransform2D(position, rotation, scale Vec2) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position2D, n.rotation2D, n.scale2D = position, rotation, scale
}

func (n *Node) SetTransform3D(position, rotation, scale Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position3D, n.rotation3D, n.scale3D = position, rotation, scale
}

func (n *Node) SetControlGeometry(position, size Vec2) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position2D, n.size = position, size
}

func (n *Node) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

func (n *Node) SetProperty(name string, v value.Value) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.properties[name] = v
}

func (n *Node) Property(name string) (value.Value, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.properties[name]
	return v, ok
}

// BindMethod registers a callable under name, invoked by CallMethod.
func (n *Node) BindMethod(name string, fn func(args value.Array) (value.Value, error)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methods[name] = fn
}

func (n *Node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

func (n *Node) Class() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.class
}

func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Path returns the node's slash-separated path from the tree root,
// e.g. "/Root/Enemies/Enemy1".
func (n *Node) Path() string {
	var segments []string
	for cur := n; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		segments = append([]string{cur.name}, segments...)
		cur.mu.RUnlock()
	}
	return "/" + strings.Join(segments, "/")
}

// find resolves a slash-separated path against the subtree rooted at
// n. The path's first segment must match n's own name.
func (n *Node) find(path string) (*Node, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return n, nil
	}
	segments := strings.Split(trimmed, "/")
	n.mu.RLock()
	rootName := n.name
	n.mu.RUnlock()
	if segments[0] != rootName {
		return nil, fmt.Errorf("scenegraph: path %q does not start at root %q", path, rootName)
	}
	cur := n
	for _, seg := range segments[1:] {
		cur.mu.RLock()
		var next *Node
		for _, child := range cur.children {
			if child.name == seg {
				next = child
				break
			}
		}
		cur.mu.RUnlock()
		if next == nil {
			return nil, fmt.Errorf("scenegraph: no node named %q under %q", seg, cur.Path())
		}
		cur = next
	}
	return cur, nil
}

// Serialize builds the node dictionary shape spec.md §4.7 requires:
// name, path, class, children, plus spatial fields keyed by Kind.
// maxDepth bounds the recursion (spec.md §9's open question); a node
// at the cap keeps its own fields but carries truncated=true and an
// empty children array instead of its children.
func (n *Node) Serialize(maxDepth int) value.Dict {
	return n.serialize(0, maxDepth)
}

func (n *Node) serialize(depth, maxDepth int) value.Dict {
	n.mu.RLock()
	dict := value.Dict{
		"name":  n.name,
		"path":  n.Path(),
		"class": n.class,
	}
	switch n.kind {
	case KindNode2D:
		dict["position"] = value.Array{n.position2D.X, n.position2D.Y}
		dict["rotation"] = n.rotation2D.X
		dict["scale"] = value.Array{n.scale2D.X, n.scale2D.Y}
		dict["visible"] = n.visible
	case KindNode3D:
		dict["position"] = value.Array{n.position3D.X, n.position3D.Y, n.position3D.Z}
		dict["rotation"] = value.Array{n.rotation3D.X, n.rotation3D.Y, n.rotation3D.Z}
		dict["scale"] = value.Array{n.scale3D.X, n.scale3D.Y, n.scale3D.Z}
		dict["visible"] = n.visible
	case KindControl:
		dict["position"] = value.Array{n.position2D.X, n.position2D.Y}
		dict["size"] = value.Array{n.size.X, n.size.Y}
		dict["visible"] = n.visible
	}
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	n.mu.RUnlock()

	if depth >= maxDepth {
		dict["truncated"] = true
		dict["children"] = value.Array{}
		return dict
	}
	serializedChildren := make(value.Array, 0, len(children))
	for _, child := range children {
		serializedChildren = append(serializedChildren, child.serialize(depth+1, maxDepth))
	}
	dict["children"] = serializedChildren
	return dict
}

// Walk visits n and every descendant depth-first, pre-order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children() {
		child.Walk(visit)
	}
}
