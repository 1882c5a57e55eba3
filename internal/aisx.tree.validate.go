package internal

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult holds the async-safety findings for a render tree.
type ValidationResult struct {
	Valid  bool
	Issues []string
}

// Snapshot is a detached, hierarchical copy of a render tree.
type Snapshot struct {
	Name        string
	Kind        NodeKind
	IsAsync     bool
	HasPromises bool
	Depth       int
	Props       any
	Children    []*Snapshot
}

// Validate reports every node that carries pending values without being
// marked async itself. The tree is never mutated.
func (t *Tree) Validate() ValidationResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := ValidationResult{Valid: true, Issues: make([]string, 0)}
	for id := range t.nodes {
		if t.nodes[id].Parent != NoNode {
			continue
		}
		t.validateLocked(NodeID(id), &result)
	}
	result.Valid = len(result.Issues) == 0
	return result
}

func (t *Tree) validateLocked(id NodeID, result *ValidationResult) {
	n := &t.nodes[id]
	if n.HasPromises && !n.IsAsync {
		path := strings.Join(t.pathLocked(id), TreePathSep)
		result.Issues = append(result.Issues, fmt.Sprintf(IssueFmtNotAsync, path))
	}
	for _, child := range n.ChildNodes {
		t.validateLocked(child, result)
	}
}

// Dump renders the tree as indented text with async/pending markers.
// Siblings are sorted by name; this ordering is presentation only.
func (t *Tree) Dump() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sb strings.Builder
	for id := range t.nodes {
		if t.nodes[id].Parent == NoNode {
			t.dumpLocked(NodeID(id), "", &sb)
		}
	}
	return sb.String()
}

func (t *Tree) dumpLocked(id NodeID, indent string, sb *strings.Builder) {
	n := &t.nodes[id]

	asyncMark, pendingMark := TreeMarkBlank, TreeMarkBlank
	if n.IsAsync {
		asyncMark = TreeMarkAsync
	}
	if n.HasPromises {
		pendingMark = TreeMarkPending
	}
	sb.WriteString(indent)
	sb.WriteString(asyncMark)
	sb.WriteString(pendingMark)
	sb.WriteByte(' ')
	sb.WriteString(n.Name)
	sb.WriteByte('\n')

	children := append([]NodeID(nil), n.ChildNodes...)
	sort.SliceStable(children, func(i, j int) bool {
		return t.nodes[children[i]].Name < t.nodes[children[j]].Name
	})
	for _, child := range children {
		t.dumpLocked(child, indent+TreeIndent, sb)
	}
}

// Snapshot copies the subtree rooted at id. Child order is insertion order.
func (t *Tree) Snapshot(id NodeID) *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(id) {
		return nil
	}
	return t.snapshotLocked(id)
}

func (t *Tree) snapshotLocked(id NodeID) *Snapshot {
	n := &t.nodes[id]
	s := &Snapshot{
		Name:        n.Name,
		Kind:        n.Kind,
		IsAsync:     n.IsAsync,
		HasPromises: n.HasPromises,
		Depth:       n.Depth,
		Props:       n.Props,
		Children:    make([]*Snapshot, 0, len(n.ChildNodes)),
	}
	for _, child := range n.ChildNodes {
		s.Children = append(s.Children, t.snapshotLocked(child))
	}
	return s
}
