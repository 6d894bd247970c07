package jtlog

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"
)

// reservedLogsKey is the sibling entry name reserved at every object
// node (spec.md §3); supplying it as a user path segment is rejected
// by the parser rather than left undefined (SPEC_FULL.md §13).
const reservedLogsKey = "logs"

// node is an object node in the log tree: named children (insertion
// order tracked explicitly, the same discipline
// n0madic-go-brain/parser/types.go's Node{Children map[string]*Node,
// Logs []*LogMessage} uses) plus an optional ordered array of records.
type node struct {
	children   map[string]*node
	childOrder []string
	logs       []Record
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// descendOrCreate returns the existing child named name, or creates
// and attaches a new empty object child, preserving insertion order.
func (n *node) descendOrCreate(name string) *node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNode()
	n.children[name] = c
	n.childOrder = append(n.childOrder, name)
	return c
}

// appendRecord appends r in call order, creating the "logs" array on
// first use.
func (n *node) appendRecord(r Record) {
	n.logs = append(n.logs, r)
}

// clear destroys all child subtrees and records; the node itself (the
// root, by convention) remains.
func (n *node) clear() {
	n.children = make(map[string]*node)
	n.childOrder = nil
	n.logs = nil
}

// walk invokes fn for every node in the tree, passing the dot-joined
// path from the root (empty string for the root itself), in the same
// insertion order children were first created.
func (n *node) walk(path string, fn func(path string, n *node)) {
	fn(path, n)
	for _, name := range n.childOrder {
		child := n.children[name]
		p := name
		if path != "" {
			p = path + "." + name
		}
		child.walk(p, fn)
	}
}

// nodeLogCount returns the total number of records stored anywhere in
// the subtree rooted at n.
func (n *node) nodeLogCount() int {
	total := len(n.logs)
	for _, name := range n.childOrder {
		total += n.children[name].nodeLogCount()
	}
	return total
}

// toOrderedMap renders n as the external JSON-value collaborator's
// object representation, preserving insertion order of both child
// keys and the reserved "logs" array (spec.md §4.3's serialize_pretty
// contract). A fresh *orderedmap.OrderedMap is allocated per call, so
// the returned value is owned by the caller.
func (n *node) toOrderedMap() *orderedmap.OrderedMap {
	om := orderedmap.New()
	if len(n.logs) > 0 {
		om.Set(reservedLogsKey, n.logs)
	}
	for _, name := range n.childOrder {
		om.Set(name, n.children[name].toOrderedMap())
	}
	return om
}

// serializePretty renders the tree as human-readable, insertion-order
// preserving JSON text (spec.md §4.3/§4.4). An empty tree serializes to
// "{}".
func (n *node) serializePretty() (string, error) {
	om := n.toOrderedMap()
	b, err := json.MarshalIndent(om, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
