package internal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTree() (*Tree, NodeID, NodeID, NodeID) {
	tree := NewTree()
	root := tree.AddRoot(NodeSpec{Name: "Fragment", Kind: NodeKindFragment})
	section := tree.AddChild(root, NodeSpec{Name: "section", Kind: NodeKindTag})
	leaf := tree.AddChild(section, NodeSpec{Name: "Widget", Kind: NodeKindComponent})
	return tree, root, section, leaf
}

func TestTree_AddChild_Depth(t *testing.T) {
	tree, root, section, leaf := buildSampleTree()

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, root, tree.Root())
	assert.Equal(t, 0, tree.Depth(root))
	assert.Equal(t, 1, tree.Depth(section))
	assert.Equal(t, 2, tree.Depth(leaf))
	assert.Equal(t, -1, tree.Depth(NodeID(99)))

	n, ok := tree.Node(section)
	require.True(t, ok)
	assert.Equal(t, root, n.Parent)
	assert.Equal(t, []NodeID{leaf}, n.ChildNodes)

	assert.Equal(t, []string{"Fragment", "section", "Widget"}, tree.Path(leaf))
}

func TestTree_Empty(t *testing.T) {
	tree := NewTree()
	assert.Equal(t, NoNode, tree.Root())
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Dump())
	assert.Nil(t, tree.Snapshot(0))
	assert.True(t, tree.Validate().Valid)
}

func TestTree_MarkPending_Propagates(t *testing.T) {
	tree, root, section, leaf := buildSampleTree()

	tree.MarkPending(leaf)

	leafNode, _ := tree.Node(leaf)
	sectionNode, _ := tree.Node(section)
	rootNode, _ := tree.Node(root)

	assert.True(t, leafNode.HasPromises)
	assert.False(t, leafNode.IsAsync, "the pending node itself is not promoted")
	assert.True(t, sectionNode.HasPromises)
	assert.True(t, sectionNode.IsAsync, "non-fragment ancestors are promoted to async")
	assert.True(t, rootNode.HasPromises)
	assert.False(t, rootNode.IsAsync, "fragments are not promoted")
}

func TestTree_MarkPending_RootIsNotPromoted(t *testing.T) {
	tree := NewTree()
	root := tree.AddRoot(NodeSpec{Name: "prompt", Kind: NodeKindTag})
	section := tree.AddChild(root, NodeSpec{Name: "section", Kind: NodeKindTag})
	tree.AddChild(section, NodeSpec{Name: "AsyncContent", Kind: NodeKindSynthetic, Async: true, Pending: true})

	rootNode, _ := tree.Node(root)
	sectionNode, _ := tree.Node(section)
	assert.True(t, rootNode.HasPromises)
	assert.False(t, rootNode.IsAsync, "the root is only marked async explicitly")
	assert.True(t, sectionNode.IsAsync)

	result := tree.Validate()
	assert.Equal(t, []string{`component "prompt" contains pending values but is not marked async; await the render result`}, result.Issues)

	tree.MarkAsync(root)
	assert.True(t, tree.Validate().Valid)
}

func TestTree_AddChild_PendingSpec(t *testing.T) {
	tree, root, section, _ := buildSampleTree()

	content := tree.AddChild(section, NodeSpec{Name: "AsyncContent", Kind: NodeKindSynthetic, Async: true, Pending: true})

	n, _ := tree.Node(content)
	assert.True(t, n.IsAsync)
	assert.True(t, n.HasPromises)

	rootNode, _ := tree.Node(root)
	assert.True(t, rootNode.HasPromises)
}

func TestTree_Validate(t *testing.T) {
	t.Run("no pending values is valid", func(t *testing.T) {
		tree, _, _, _ := buildSampleTree()
		result := tree.Validate()
		assert.True(t, result.Valid)
		assert.Empty(t, result.Issues)
	})

	t.Run("unmarked fragment root is reported", func(t *testing.T) {
		tree, _, _, leaf := buildSampleTree()
		tree.MarkPending(leaf)
		tree.MarkAsync(leaf)

		result := tree.Validate()
		assert.False(t, result.Valid)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], `"Fragment"`)
		assert.Contains(t, result.Issues[0], "not marked async")
	})

	t.Run("reports the full path", func(t *testing.T) {
		tree, root, _, leaf := buildSampleTree()
		tree.MarkPending(leaf)
		tree.MarkAsync(root)

		result := tree.Validate()
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], `"Fragment -> section -> Widget"`)
	})

	t.Run("validation does not mutate", func(t *testing.T) {
		tree, _, _, leaf := buildSampleTree()
		tree.MarkPending(leaf)
		before := tree.Dump()
		_ = tree.Validate()
		assert.Equal(t, before, tree.Dump())
	})
}

func TestTree_Dump(t *testing.T) {
	tree := NewTree()
	root := tree.AddRoot(NodeSpec{Name: "Fragment", Kind: NodeKindFragment})
	tree.AddChild(root, NodeSpec{Name: "zeta", Kind: NodeKindTag})
	alpha := tree.AddChild(root, NodeSpec{Name: "alpha", Kind: NodeKindTag})
	tree.AddChild(alpha, NodeSpec{Name: "AsyncContent", Kind: NodeKindSynthetic, Async: true, Pending: true})

	expected := "   [P] Fragment\n" +
		"  [A][P] alpha\n" +
		"    [A][P] AsyncContent\n" +
		TreeIndent + TreeMarkBlank + TreeMarkBlank + " zeta\n"
	assert.Equal(t, expected, tree.Dump())
}

func TestTree_Snapshot(t *testing.T) {
	tree, root, _, leaf := buildSampleTree()
	tree.MarkPending(leaf)

	snap := tree.Snapshot(root)
	require.NotNil(t, snap)
	assert.Equal(t, "Fragment", snap.Name)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "section", snap.Children[0].Name)
	assert.True(t, snap.Children[0].IsAsync)
	require.Len(t, snap.Children[0].Children, 1)
	assert.Equal(t, 2, snap.Children[0].Children[0].Depth)
	assert.Equal(t, NodeKindComponent, snap.Children[0].Children[0].Kind)
}

func TestTree_ConcurrentAccess(t *testing.T) {
	tree := NewTree()
	root := tree.AddRoot(NodeSpec{Name: "Fragment", Kind: NodeKindFragment})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := tree.AddChild(root, NodeSpec{Name: "AsyncContent", Kind: NodeKindSynthetic})
			tree.MarkPending(id)
			_ = tree.Dump()
			_ = tree.Validate()
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, tree.Len())
	rootNode, _ := tree.Node(root)
	assert.Len(t, rootNode.ChildNodes, 50)
	assert.True(t, rootNode.HasPromises)
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, NodeKindNameTag, NodeKindTag.String())
	assert.Equal(t, NodeKindNameFragment, NodeKindFragment.String())
	assert.Equal(t, NodeKindNameComponent, NodeKindComponent.String())
	assert.Equal(t, NodeKindNameSynthetic, NodeKindSynthetic.String())
	assert.Equal(t, NodeKindNameUnknown, NodeKind(42).String())
}
