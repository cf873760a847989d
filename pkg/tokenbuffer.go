package synparse

// bufferedToken pairs a token with the absolute order it was pulled from the
// lexer in, so that a failure reported from deep inside a backtracking
// search can be compared against one reported higher up and the furthest
// (most advanced) one kept, regardless of how many tokens have since been
// pushed back on top of it.
type bufferedToken struct {
	tok Token
	idx int
}

// tokenBuffer wraps a Lexer with a pushback stack, letting the parser peek a
// token, try a branch, and put it back unconsumed when that branch fails.
type tokenBuffer struct {
	lexer   *Lexer
	pending []bufferedToken
	nextIdx int
}

func newTokenBuffer(l *Lexer) *tokenBuffer {
	return &tokenBuffer{lexer: l}
}

// peek returns the next token without consuming it, along with its absolute
// stream index, pulling a fresh one from the lexer only if the pushback
// stack is empty. ok is false at end of input.
func (b *tokenBuffer) peek() (Token, int, bool, error) {
	if n := len(b.pending); n > 0 {
		bt := b.pending[n-1]
		return bt.tok, bt.idx, true, nil
	}
	tok, ok, err := b.lexer.NextToken()
	if err != nil {
		return Token{}, 0, false, err
	}
	if !ok {
		return Token{}, 0, false, nil
	}
	idx := b.nextIdx
	b.nextIdx++
	b.pending = append(b.pending, bufferedToken{tok, idx})
	return tok, idx, true, nil
}

// consume discards the token last returned by peek.
func (b *tokenBuffer) consume() {
	b.pending = b.pending[:len(b.pending)-1]
}

// pushback returns tok (with the index peek originally reported for it) to
// the front of the queue, undoing a consume.
func (b *tokenBuffer) pushback(tok Token, idx int) {
	b.pending = append(b.pending, bufferedToken{tok, idx})
}

// atEnd reports whether the input is exhausted, without consuming anything.
func (b *tokenBuffer) atEnd() (bool, error) {
	_, _, ok, err := b.peek()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
