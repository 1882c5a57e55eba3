package internal

import (
	"sync"
)

// NodeID addresses a node inside a Tree arena.
type NodeID int

// NoNode is the parent of a root node.
const NoNode NodeID = -1

// Node is one render-tree entry. Parent and child links are arena indices,
// so the tree owns its nodes top-down without cyclic pointers.
type Node struct {
	Name        string
	Kind        NodeKind
	IsAsync     bool
	HasPromises bool
	Depth       int
	Children    any // raw content attached at construction
	Props       any // attributes, nil for synthetic nodes
	ChildNodes  []NodeID
	Parent      NodeID
}

// NodeSpec describes a node to insert.
type NodeSpec struct {
	Name     string
	Kind     NodeKind
	Async    bool
	Pending  bool
	Children any
	Props    any
}

// Tree is an append-only arena of render-tree nodes built during one render pass.
// Deferred branches settle on other goroutines, so all access is synchronized.
type Tree struct {
	mu    sync.RWMutex
	nodes []Node
}

// NewTree creates an empty render tree.
func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 0, 16)}
}

// AddRoot inserts the root node (depth 0, no parent).
func (t *Tree) AddRoot(spec NodeSpec) NodeID {
	return t.add(NoNode, spec)
}

// AddChild inserts a node under parent at parent depth + 1.
// A pending spec propagates hasPromises to every ancestor before returning.
func (t *Tree) AddChild(parent NodeID, spec NodeSpec) NodeID {
	return t.add(parent, spec)
}

func (t *Tree) add(parent NodeID, spec NodeSpec) NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()

	depth := 0
	if parent != NoNode {
		if !t.valid(parent) {
			parent = NoNode
		} else {
			depth = t.nodes[parent].Depth + 1
		}
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Name:        spec.Name,
		Kind:        spec.Kind,
		IsAsync:     spec.Async,
		HasPromises: spec.Pending,
		Depth:       depth,
		Children:    spec.Children,
		Props:       spec.Props,
		Parent:      parent,
	})
	if parent != NoNode {
		t.nodes[parent].ChildNodes = append(t.nodes[parent].ChildNodes, id)
	}
	if spec.Pending {
		t.propagateLocked(id)
	}
	return id
}

// MarkAsync flags the node's own evaluation as asynchronous.
func (t *Tree) MarkAsync(id NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.valid(id) {
		t.nodes[id].IsAsync = true
	}
}

// MarkPending sets hasPromises on the node and all its ancestors.
// Non-fragment ancestors below the root are promoted to async as well; the
// root is only marked async explicitly, by whoever declared it so.
func (t *Tree) MarkPending(id NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(id) {
		return
	}
	t.nodes[id].HasPromises = true
	t.propagateLocked(id)
}

func (t *Tree) propagateLocked(id NodeID) {
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		t.nodes[p].HasPromises = true
		if t.nodes[p].Kind != NodeKindFragment && t.nodes[p].Parent != NoNode {
			t.nodes[p].IsAsync = true
		}
	}
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(id) {
		return Node{}, false
	}
	n := t.nodes[id]
	n.ChildNodes = append([]NodeID(nil), n.ChildNodes...)
	return n, true
}

// Depth returns the node depth, or -1 for an unknown id.
func (t *Tree) Depth(id NodeID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(id) {
		return -1
	}
	return t.nodes[id].Depth
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Root returns the id of the first root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Path returns the node names from the root down to id.
func (t *Tree) Path(id NodeID) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pathLocked(id)
}

func (t *Tree) pathLocked(id NodeID) []string {
	if !t.valid(id) {
		return nil
	}
	var path []string
	for cur := id; cur != NoNode; cur = t.nodes[cur].Parent {
		path = append(path, t.nodes[cur].Name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
