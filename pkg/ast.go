package synparse

import (
	"io"

	"github.com/alecthomas/repr"
)

// AstNode is a node in the syntax tree a successful Parse produces. Name and
// Id are arbitrary strings supplied by grammar authors (a rule's name and,
// for TokenNodes, the id passed to TokenNode/EnvChangingTokenNode); Text
// holds the matched token text for leaves, or "" for interior nodes.
type AstNode struct {
	name string
	text string
	id   string

	parent   *AstNode
	children []*AstNode
}

// NewAstNode builds a detached AstNode. Grammar Transform hooks typically
// call this to build a replacement node, then return it.
func NewAstNode(name, text, id string) *AstNode {
	return &AstNode{name: name, text: text, id: id}
}

// Copy returns a shallow copy: same name/text/id and a new children slice
// holding the same child nodes (whose Parent is still n), detached from any
// parent.
func (n *AstNode) Copy() *AstNode {
	cp := &AstNode{name: n.name, text: n.text, id: n.id}
	cp.children = append([]*AstNode(nil), n.children...)
	return cp
}

func (n *AstNode) Name() string { return n.name }
func (n *AstNode) Text() string { return n.text }
func (n *AstNode) Id() string   { return n.id }

func (n *AstNode) SetName(name string) { n.name = name }
func (n *AstNode) SetId(id string)     { n.id = id }

// Parent returns the node this node was added to via AddChild, or nil if
// detached.
func (n *AstNode) Parent() *AstNode { return n.parent }

// Children returns this node's children in traversal order. The returned
// slice must not be mutated directly; use AddChild/RemoveChildren/
// ReplaceChild.
func (n *AstNode) Children() []*AstNode { return n.children }

// HasChildren reports whether this node has at least one child.
func (n *AstNode) HasChildren() bool { return len(n.children) > 0 }

// AddChild appends child, setting its parent to n.
func (n *AstNode) AddChild(child *AstNode) {
	n.children = append(n.children, child)
	child.parent = n
}

// RemoveChildren detaches and discards every child of n.
func (n *AstNode) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// ReplaceChild swaps old for replacement among n's children. It is a no-op
// if old is not a child of n.
func (n *AstNode) ReplaceChild(old, replacement *AstNode) {
	for i, c := range n.children {
		if c == old {
			n.children[i] = replacement
			replacement.parent = n
			return
		}
	}
}

// Child returns the first child named name, or nil.
func (n *AstNode) Child(name string) *AstNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// ChildrenByName returns every child named name, in order.
func (n *AstNode) ChildrenByName(name string) []*AstNode {
	var res []*AstNode
	for _, c := range n.children {
		if c.name == name {
			res = append(res, c)
		}
	}
	return res
}

// ChildById returns the first child whose Id equals id, or nil.
func (n *AstNode) ChildById(id string) *AstNode {
	for _, c := range n.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

// ChildrenById returns every child whose Id equals id, in order.
func (n *AstNode) ChildrenById(id string) []*AstNode {
	var res []*AstNode
	for _, c := range n.children {
		if c.id == id {
			res = append(res, c)
		}
	}
	return res
}

// ChildAt returns the child at position i (0-based), or nil if out of
// range.
func (n *AstNode) ChildAt(i int) *AstNode {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Dump pretty-prints the subtree rooted at n using repr, useful in tests and
// interactive debugging of a grammar's output shape.
func (n *AstNode) Dump() string {
	return repr.String(n, repr.Indent("  "), repr.OmitEmpty(true), repr.IgnoreGoStringer())
}

// DumpTo writes Dump's output to w.
func (n *AstNode) DumpTo(w io.Writer) error {
	_, err := io.WriteString(w, n.Dump())
	return err
}
