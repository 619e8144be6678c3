// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scenegraph

import "strings"

// matchPattern implements spec.md §4.7's query_nodes/count_nodes
// matching: exact match by default, prefix match if pattern ends
// with "*", suffix match if it begins with "*", and contains match
// if it does both.
func matchPattern(pattern, candidate string) bool {
	if pattern == "*" {
		return true
	}
	hasPrefix := strings.HasPrefix(pattern, "*")
	hasSuffix := strings.HasSuffix(pattern, "*")
	switch {
	case hasPrefix && hasSuffix && len(pattern) >= 2:
		return strings.Contains(candidate, pattern[1:len(pattern)-1])
	case hasSuffix:
		return strings.HasPrefix(candidate, pattern[:len(pattern)-1])
	case hasPrefix:
		return strings.HasSuffix(candidate, pattern[1:])
	default:
		return candidate == pattern
	}
}

// matchNode reports whether pattern matches node's name or class.
func matchNode(pattern string, node *Node) bool {
	return matchPattern(pattern, node.Name()) || matchPattern(pattern, node.Class())
}

// QueryNodes returns every node in the subtree rooted at root whose
// name or class matches pattern, depth-first pre-order.
func QueryNodes(root *Node, pattern string) []*Node {
	var matches []*Node
	root.Walk(func(n *Node) {
		if matchNode(pattern, n) {
			matches = append(matches, n)
		}
	})
	return matches
}

// CountNodes returns len(QueryNodes(root, pattern)) without
// allocating the intermediate slice.
func CountNodes(root *Node, pattern string) int {
	count := 0
	root.Walk(func(n *Node) {
		if matchNode(pattern, n) {
			count++
		}
	})
	return count
}
