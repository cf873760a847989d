package synparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAstNodeAddAndLookupChildren(t *testing.T) {
	root := NewAstNode("program", "", "")
	a := NewAstNode("statement", "", "a")
	b := NewAstNode("statement", "", "b")
	root.AddChild(a)
	root.AddChild(b)

	assert.True(t, root.HasChildren())
	assert.Equal(t, root, a.Parent())
	assert.Equal(t, []*AstNode{a, b}, root.Children())
	assert.Equal(t, a, root.Child("statement"))
	assert.Equal(t, []*AstNode{a, b}, root.ChildrenByName("statement"))
	assert.Equal(t, b, root.ChildById("b"))
	assert.Equal(t, a, root.ChildAt(0))
	assert.Nil(t, root.ChildAt(2))
}

func TestAstNodeReplaceChild(t *testing.T) {
	root := NewAstNode("program", "", "")
	a := NewAstNode("statement", "", "a")
	root.AddChild(a)

	replacement := NewAstNode("statement", "", "a2")
	root.ReplaceChild(a, replacement)

	assert.Equal(t, []*AstNode{replacement}, root.Children())
	assert.Equal(t, root, replacement.Parent())
}

func TestAstNodeRemoveChildren(t *testing.T) {
	root := NewAstNode("program", "", "")
	a := NewAstNode("statement", "", "a")
	root.AddChild(a)
	root.RemoveChildren()

	assert.False(t, root.HasChildren())
	assert.Nil(t, a.Parent())
}

func TestAstNodeCopyIsDetachedButSharesChildren(t *testing.T) {
	root := NewAstNode("program", "", "")
	a := NewAstNode("statement", "", "a")
	root.AddChild(a)

	cp := root.Copy()
	assert.Nil(t, cp.Parent())
	assert.Equal(t, root.Children(), cp.Children())
}

func TestAstNodeDumpIncludesTextAndName(t *testing.T) {
	root := NewAstNode("statement", "", "")
	root.AddChild(NewAstNode("value", "42", "value"))

	var buf strings.Builder
	assert.NoError(t, root.DumpTo(&buf))

	dump := buf.String()
	assert.Contains(t, dump, "statement")
	assert.Contains(t, dump, "42")
}
