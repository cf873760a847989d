package synparse

// Parser walks a Grammar's graph against a token stream, backtracking over
// every alternative successor at each choice point until it finds a path
// that consumes the entire input, or exhausts every alternative.
//
// A Parser is reusable across calls to Parse/ParseString/ParseFile: each
// call builds its own Lexer and Path, so concurrent parses of independent
// inputs are safe as long as the underlying Grammar's Rules do not mutate
// shared state from Expand.
type Parser struct {
	grammar *Grammar

	lineCommentsEnabled bool
	lineCommentStart    string

	blockCommentsEnabled bool
	blockCommentStart    string
	blockCommentEnd      string
}

// NewParser builds a Parser for grammar.
func NewParser(grammar *Grammar) *Parser {
	return &Parser{grammar: grammar}
}

// EnableLineComments configures every Lexer this Parser builds to skip
// single-line comments starting with start.
func (p *Parser) EnableLineComments(start string) {
	p.lineCommentsEnabled = true
	p.lineCommentStart = start
}

// EnableBlockComments configures every Lexer this Parser builds to skip
// block comments delimited by start and end.
func (p *Parser) EnableBlockComments(start, end string) {
	p.blockCommentsEnabled = true
	p.blockCommentStart = start
	p.blockCommentEnd = end
}

func (p *Parser) newLexer() *Lexer {
	l := NewLexer()
	for _, tt := range p.grammar.tokenTypes {
		l.AddTokenType(tt)
	}
	if p.lineCommentsEnabled {
		l.EnableLineComments(p.lineCommentStart)
	}
	if p.blockCommentsEnabled {
		l.EnableBlockComments(p.blockCommentStart, p.blockCommentEnd)
	}
	return l
}

// Parse runs the grammar against stream, returning the AstNode the grammar's
// root rule produced. A *ParseError is returned when every alternative at
// some point in the walk rejects the remaining input; a *LexError is
// returned when the lexer cannot classify a lexeme.
func (p *Parser) Parse(stream InputStream) (*AstNode, error) {
	l := p.newLexer()
	l.SetInputStream(stream)

	tbuf := newTokenBuffer(l)
	pth := newPath()
	ff := &furthestFailure{idx: -1}

	root := p.grammar.rootElement()
	ok, err := p.tryNode(root.socket(), pth, tbuf, ff)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos, text := p.failurePosition(tbuf, ff)
		return nil, &ParseError{Pos: pos, TokenText: text}
	}

	return createAst(pth)
}

// ParseString parses s as a standalone input.
func (p *Parser) ParseString(s string) (*AstNode, error) {
	return p.Parse(NewStringInputStream(s))
}

// ParseFile opens path and parses its contents.
func (p *Parser) ParseFile(path string) (*AstNode, error) {
	stream, err := NewFileInputStream(path)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return p.Parse(stream)
}

// furthestFailure tracks the deepest point the search reached before every
// alternative at or beyond it was exhausted, keyed by a token's absolute
// position in the stream (see bufferedToken.idx) rather than by when a
// branch happened to unwind. Recursive backtracking restores tbuf's
// pushback stack to the state it had at the start of the search on total
// failure, so by the time Parse sees the result, the buffer's own lookahead
// points at the first token again — reporting a ParseError from that would
// always blame the very start of the input, not the token the search
// actually got stuck on. furthestFailure is what lets Parse report the
// latter instead.
type furthestFailure struct {
	idx  int
	pos  Position
	text string
}

func (f *furthestFailure) note(idx int, pos Position, text string) {
	if idx > f.idx {
		f.idx = idx
		f.pos = pos
		f.text = text
	}
}

// failurePosition reports the furthest point the search reached, if any
// token was ever looked at; otherwise it falls back to whatever tbuf has
// buffered (covering, e.g., a grammar that never manages to peek a single
// token before failing) and finally line 1, column 0 if the input itself
// was empty.
func (p *Parser) failurePosition(tbuf *tokenBuffer, ff *furthestFailure) (Position, string) {
	if ff.idx >= 0 {
		return ff.pos, ff.text
	}
	tok, _, ok, err := tbuf.peek()
	if err != nil || !ok {
		return Position{Line: 1, Column: 0}, ""
	}
	return tok.Pos, tok.Text
}

// tryNode attempts to walk the grammar graph starting at n, given the path
// and token stream built up so far. It returns true once some continuation
// from n consumes every remaining token and reaches a dead end in the
// graph; false means every alternative reachable from n failed, and pth/tbuf
// have been restored to the state they were in on entry.
func (p *Parser) tryNode(n *node, pth *path, tbuf *tokenBuffer, ff *furthestFailure) (bool, error) {
	switch n.kind {
	case kindToken:
		return p.tryTokenNode(n, pth, tbuf, ff)
	default:
		return p.tryStructuralNode(n, pth, tbuf, ff)
	}
}

// tryStructuralNode handles RuleStart, RuleEnd, and Technical nodes: none of
// them consume a token themselves, so the only question is which of their
// successors (lazily expanded, for RuleStart) leads to acceptance.
func (p *Parser) tryStructuralNode(n *node, pth *path, tbuf *tokenBuffer, ff *furthestFailure) (bool, error) {
	pth.push(n, nil)

	var ctx *Context
	if n.kind == kindRuleStart {
		ctx = &Context{path: pth}
		tok, _, ok, err := tbuf.peek()
		if err != nil {
			pth.pop()
			return false, err
		}
		if ok {
			ctx.token = &tok
		}
	}

	succs, err := n.getSuccessors(ctx)
	if err != nil {
		pth.pop()
		if _, isSuccessorErr := err.(*SuccessorError); isSuccessorErr {
			return false, nil
		}
		return false, err
	}

	if len(succs) == 0 {
		atEnd, err := tbuf.atEnd()
		if err != nil {
			pth.pop()
			return false, err
		}
		if atEnd {
			return true, nil
		}
		if tok, idx, ok, _ := tbuf.peek(); ok {
			ff.note(idx, tok.Pos, tok.Text)
		}
		pth.pop()
		return false, nil
	}

	for _, s := range succs {
		ok, err := p.tryNode(s, pth, tbuf, ff)
		if err != nil {
			pth.pop()
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	pth.pop()
	return false, nil
}

// tryTokenNode handles a TokenNode: it consumes exactly one token from tbuf
// if the lookahead matches n's TokenType, and backtracks (pushing the token
// back) if every continuation past it fails. Every point at which the
// lookahead fails to fit — a type mismatch, or a match with nowhere left to
// go while input remains — is reported to ff, so the deepest such point
// survives the subsequent unwind.
func (p *Parser) tryTokenNode(n *node, pth *path, tbuf *tokenBuffer, ff *furthestFailure) (bool, error) {
	tok, idx, ok, err := tbuf.peek()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if !tok.HasTypeID(n.tokenType.ID()) {
		ff.note(idx, tok.Pos, tok.Text)
		return false, nil
	}

	tbuf.consume()
	pth.push(n, &tok)

	if len(n.successors) == 0 {
		atEnd, err := tbuf.atEnd()
		if err != nil {
			pth.pop()
			tbuf.pushback(tok, idx)
			return false, err
		}
		if atEnd {
			return true, nil
		}
		if next, nidx, nok, _ := tbuf.peek(); nok {
			ff.note(nidx, next.Pos, next.Text)
		}
		pth.pop()
		tbuf.pushback(tok, idx)
		return false, nil
	}

	for _, s := range n.successors {
		ok, err := p.tryNode(s, pth, tbuf, ff)
		if err != nil {
			pth.pop()
			tbuf.pushback(tok, idx)
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	pth.pop()
	tbuf.pushback(tok, idx)
	return false, nil
}

// createAst replays a completed, accepting path into an AstNode tree: every
// RuleStart opens a node, every RuleEnd closes it (running its Rule's
// Transform hook, if any, and attaching the result to the enclosing rule),
// and every matched TokenNode becomes a leaf of the rule currently open.
func createAst(pth *path) (*AstNode, error) {
	var stack []*AstNode
	var root *AstNode

	for _, e := range pth.elements {
		n := e.node
		switch n.kind {
		case kindRuleStart:
			an := NewAstNode(n.rule.RuleName(), "", "")
			if idr, ok := n.rule.(RuleID); ok {
				an.SetId(idr.RuleID())
			}
			stack = append(stack, an)

		case kindRuleEnd:
			if len(stack) == 0 {
				return nil, &InternalError{Msg: "rule end reached with no open rule on the path"}
			}
			an := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if tr, ok := n.rule.(Transformer); ok {
				an = tr.Transform(an)
			}
			if len(stack) > 0 {
				stack[len(stack)-1].AddChild(an)
			} else {
				root = an
			}

		case kindToken:
			if len(stack) == 0 {
				return nil, &InternalError{Msg: "matched token reached with no open rule on the path"}
			}
			leaf := NewAstNode(n.tokenID, tokenOrZero(e.token).Text, n.tokenID)
			stack[len(stack)-1].AddChild(leaf)
		}
	}

	if root == nil {
		return nil, &InternalError{Msg: "parse completed without producing a root ast node"}
	}
	return root, nil
}
