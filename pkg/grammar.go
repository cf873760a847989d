package synparse

import "sync/atomic"

// nodeKind identifies which of the four grammar node categories a node
// belongs to: RuleStart, RuleEnd, TokenNode, or a pure Technical connector.
type nodeKind int

const (
	kindTechnical nodeKind = iota
	kindRuleStart
	kindRuleEnd
	kindToken
)

var techIDSeq uint64

func nextTechID() uint64 {
	return atomic.AddUint64(&techIDSeq, 1)
}

// node is a vertex in the grammar graph. Its fields are a tagged union over
// the four categories; which ones are meaningful depends on kind.
type node struct {
	kind   nodeKind
	techID uint64

	// RuleStart / RuleEnd
	rule    Rule
	envVars map[string]interface{}

	// TokenNode
	tokenType TokenType
	tokenID   string
	envChange func(env map[string]interface{}, tok Token)

	// Technical, RuleEnd, and TokenNode successors. For a RuleStart this
	// holds only the paired RuleEnd; its real successors are requested
	// lazily from rule.Expand on every call, see getSuccessors.
	successors []*node
}

func (n *node) socket() *node { return n }
func (n *node) plug() *node   { return n }

// ruleName returns the name carried by a RuleStart/RuleEnd node, or "" for
// the other two kinds.
func (n *node) ruleName() string {
	if n.rule == nil {
		return ""
	}
	return n.rule.RuleName()
}

// getSuccessors returns this node's out-edges. For a RuleStart this expands
// the owning rule's body lazily and fresh on every call (so recursive rules
// never require a pre-built cyclic graph); for everything else it returns
// the static successor list wired at grammar-construction time.
func (n *node) getSuccessors(ctx *Context) ([]*node, error) {
	if n.kind != kindRuleStart {
		return n.successors, nil
	}

	entry := connectorNode()
	ruleEnd := n.successors[0] // the single RuleEnd this RuleStart was paired with
	if err := n.rule.Expand(entry, ruleEnd, ctx); err != nil {
		return nil, err
	}
	return []*node{entry}, nil
}

// GrammarElement is a subgraph fragment with one entry socket and one exit
// plug. Combinators accept and return GrammarElements; successors are
// appended to a fragment's plug, never to an internal node.
type GrammarElement interface {
	socket() *node
	plug() *node
}

// element is the concrete GrammarElement produced by every combinator: an
// entry node and an exit node, possibly distinct.
type element struct {
	entry *node
	exit  *node
}

func (e element) socket() *node { return e.entry }
func (e element) plug() *node   { return e.exit }

// Rule is the grammar-authoring abstraction: a named production with an
// Expand callback that wires its body onto the start/end connectors it is
// given. Expand may reference other rules (including itself, for
// recursion) via RuleRef; each RuleRef call produces a fresh RuleStart,
// deferring expansion until the parser actually walks into it.
type Rule interface {
	// RuleName identifies this rule; it becomes the Name of every AstNode
	// the rule produces.
	RuleName() string

	// Expand wires this rule's body between start and end. It is called
	// once per traversal attempt that reaches this rule, never cached.
	Expand(start, end GrammarElement, ctx *Context) error
}

// Transformer is an optional capability a Rule may implement: when present,
// Transform runs on the AstNode this rule produced just before it is
// attached to its parent, and may return a replacement node.
type Transformer interface {
	Transform(n *AstNode) *AstNode
}

// RuleID is an optional capability a Rule may implement to tag its AstNodes
// with an id distinct from its name (see AstNode.ChildById).
type RuleID interface {
	RuleID() string
}

// connectorNode builds a bare Technical node: a pure connector contributing
// no AST material.
func connectorNode() *node {
	return &node{kind: kindTechnical, techID: nextTechID()}
}

// Connector returns a standalone Technical GrammarElement, for grammars that
// need an explicit pass-through point.
func Connector() GrammarElement {
	n := connectorNode()
	return element{n, n}
}

// Connect wires a's plug directly to b's socket and returns the combined
// fragment from a's socket to b's plug.
func Connect(a, b GrammarElement) GrammarElement {
	a.plug().successors = append(a.plug().successors, b.socket())
	return element{a.socket(), b.plug()}
}

// TokenNode returns a GrammarElement matching a single token of type tt. id
// is attached to the AstNode leaf createAst produces for it (see
// AstNode.ChildById); it may be left "".
func TokenNode(tt TokenType, id string) GrammarElement {
	n := &node{kind: kindToken, tokenType: tt, tokenID: id, techID: nextTechID()}
	return element{n, n}
}

// EnvChangingTokenNode is a TokenNode that additionally writes into the
// nearest enclosing rule's environment once matched. onMatch is invoked
// symmetrically on both push (match) and pop (backtrack), so it should be
// self-inverse, or idempotent under its own reapplication.
func EnvChangingTokenNode(tt TokenType, id string, onMatch func(env map[string]interface{}, tok Token)) GrammarElement {
	n := &node{kind: kindToken, tokenType: tt, tokenID: id, techID: nextTechID(), envChange: onMatch}
	return element{n, n}
}

// RuleRef returns a fresh GrammarElement spanning a new RuleStart to a new
// RuleEnd, both bound to rule. Every call — including recursive calls from
// within rule's own Expand — allocates a brand-new pair, which is what lets
// the same Rule value be referenced at multiple, or recursive, positions in
// the grammar.
func RuleRef(rule Rule) GrammarElement {
	end := &node{kind: kindRuleEnd, rule: rule, techID: nextTechID()}
	start := &node{
		kind:       kindRuleStart,
		rule:       rule,
		envVars:    make(map[string]interface{}),
		techID:     nextTechID(),
		successors: []*node{end},
	}
	return element{start, end}
}

// Sequence wires elems one after another: start -> e1 -> ... -> en -> end.
func Sequence(elems ...GrammarElement) GrammarElement {
	if len(elems) == 0 {
		c := connectorNode()
		return element{c, c}
	}
	for i := 0; i < len(elems)-1; i++ {
		elems[i].plug().successors = append(elems[i].plug().successors, elems[i+1].socket())
	}
	return element{elems[0].socket(), elems[len(elems)-1].plug()}
}

// ZeroToOne wires e as optional: start -> e -> end, and start -> end.
func ZeroToOne(e GrammarElement) GrammarElement {
	start := connectorNode()
	end := connectorNode()
	start.successors = append(start.successors, e.socket(), end)
	e.plug().successors = append(e.plug().successors, end)
	return element{start, end}
}

// ZeroToMany wires e as a repeatable-but-optional branch: start -> end, and
// start -> e -> start (the back-edge implementing repetition).
func ZeroToMany(e GrammarElement) GrammarElement {
	start := connectorNode()
	end := connectorNode()
	start.successors = append(start.successors, e.socket(), end)
	e.plug().successors = append(e.plug().successors, start)
	return element{start, end}
}

// OneToMany wires e as required, repeatable: start -> e -> end, e -> e.
func OneToMany(e GrammarElement) GrammarElement {
	end := connectorNode()
	e.plug().successors = append(e.plug().successors, e.socket(), end)
	return element{e.socket(), end}
}

// Grammar pairs a root Rule with the full set of TokenTypes the lexer should
// recognize while walking it.
type Grammar struct {
	root       Rule
	tokenTypes []TokenType
}

// NewGrammar builds a Grammar. tokenTypes should include every classifier
// any rule in root's transitive expansion might match against.
func NewGrammar(root Rule, tokenTypes ...TokenType) *Grammar {
	return &Grammar{root: root, tokenTypes: tokenTypes}
}

// rootElement returns a fresh RuleStart/RuleEnd pair for the grammar's root
// rule; every Parse call seeds its Path with a new one.
func (g *Grammar) rootElement() GrammarElement {
	return RuleRef(g.root)
}
