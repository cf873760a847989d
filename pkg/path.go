package synparse

import (
	"strconv"
	"strings"
)

// pathElement pairs a grammar node with the token matched against it, if
// any (TokenNodes not yet matched, and every non-token node, carry nil).
type pathElement struct {
	node  *node
	token *Token
}

// envFrame is one slot of the environment stack: either a RuleStart's live
// variable map, or a boundary marker (isEnd) recording a RuleEnd crossing.
type envFrame struct {
	vars  map[string]interface{}
	isEnd bool
}

// path is the parser's current walk through the grammar graph: an ordered
// sequence of (node, matched-token-or-none) pairs, plus the environment
// stack derived from the RuleStart/RuleEnd crossings seen so far. A path is
// ephemeral to a single Parse call.
type path struct {
	elements []pathElement
	envStack []envFrame
}

func newPath() *path {
	return &path{}
}

// push appends n (with its matched token, if any) to the path, updating the
// environment stack and invoking any env-changing TokenNode's hook.
func (p *path) push(n *node, tok *Token) {
	p.elements = append(p.elements, pathElement{node: n, token: tok})

	switch n.kind {
	case kindRuleStart:
		p.envStack = append(p.envStack, envFrame{vars: n.envVars})
	case kindRuleEnd:
		p.envStack = append(p.envStack, envFrame{isEnd: true})
	case kindToken:
		if n.envChange != nil {
			if vars := p.curEnvVars(); vars != nil {
				n.envChange(vars, tokenOrZero(tok))
			}
		}
	}
}

// pop removes and returns the path's tail element, reverting the
// environment stack (and, symmetrically, re-invoking an env-changing
// TokenNode's hook) to match.
func (p *path) pop() pathElement {
	e := p.elements[len(p.elements)-1]
	p.elements = p.elements[:len(p.elements)-1]

	switch e.node.kind {
	case kindRuleStart, kindRuleEnd:
		p.envStack = p.envStack[:len(p.envStack)-1]
	case kindToken:
		if e.node.envChange != nil {
			if vars := p.curEnvVars(); vars != nil {
				e.node.envChange(vars, tokenOrZero(e.token))
			}
		}
	}

	return e
}

func tokenOrZero(tok *Token) Token {
	if tok == nil {
		return Token{}
	}
	return *tok
}

func (p *path) length() int {
	return len(p.elements)
}

// at returns the element at index, supporting negative indices counted from
// the end (at(-1) is the tail), mirroring the source's getElement.
func (p *path) at(index int) pathElement {
	if index < 0 {
		index = len(p.elements) + index
	}
	return p.elements[index]
}

// curEnvVars returns the variable map of the nearest RuleStart that is still
// open on the path (i.e. has not had its matching RuleEnd pushed), or nil
// if none. Closed RuleStart/RuleEnd pairs are skipped via a bracket-depth
// walk over the envStack, scanning from the most recently pushed frame.
func (p *path) curEnvVars() map[string]interface{} {
	level := 0
	for i := len(p.envStack) - 1; i >= 0; i-- {
		f := p.envStack[i]
		if !f.isEnd {
			if level == 0 {
				return f.vars
			}
			level++
		} else {
			level--
		}
	}
	return nil
}

// getEnvVar looks up name lexically, innermost scope first, across every
// RuleStart currently open on the path.
func (p *path) getEnvVar(name string) (interface{}, bool) {
	var open []map[string]interface{}
	for _, f := range p.envStack {
		if !f.isEnd {
			open = append(open, f.vars)
		} else if len(open) > 0 {
			open = open[:len(open)-1]
		}
	}
	for i := len(open) - 1; i >= 0; i-- {
		if v, ok := open[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// lastToken returns the most recently matched token on the path, or nil if
// no TokenNode has matched yet.
func (p *path) lastToken() *Token {
	for i := len(p.elements) - 1; i >= 0; i-- {
		if p.elements[i].token != nil {
			return p.elements[i].token
		}
	}
	return nil
}

// String renders the text of every matched token along the path, joined by
// '.', for debugging and test failure output.
func (p *path) String() string {
	var parts []string
	for _, e := range p.elements {
		if e.token != nil {
			parts = append(parts, e.token.Text)
		}
	}
	return strings.Join(parts, ".")
}

// Trail renders the technical id of every node along the path, joined by
// ':', for debugging and test failure output.
func (p *path) Trail() string {
	var parts []string
	for _, e := range p.elements {
		parts = append(parts, strconv.FormatUint(e.node.techID, 10))
	}
	return strings.Join(parts, ":")
}
