package synparse

// inputBuffer holds up to fillSize characters of lookahead from an
// InputStream. It never blocks on end-of-input: once the stream is
// exhausted it simply yields whatever is left, then empty content.
type inputBuffer struct {
	stream   InputStream
	fillSize int
	content  []rune
}

func newInputBuffer(stream InputStream, fillSize int) *inputBuffer {
	return &inputBuffer{stream: stream, fillSize: fillSize}
}

// fill refills the buffer lazily, stopping once it is full or the stream
// reports end-of-input.
func (b *inputBuffer) fill() {
	for len(b.content) < b.fillSize {
		if b.stream.EndOfInput() {
			return
		}
		b.content = append(b.content, b.stream.NextChar())
	}
}

// peekContent returns the currently-buffered characters as a string,
// refilling lazily first.
func (b *inputBuffer) peekContent() string {
	b.fill()
	return string(b.content)
}

// consumeChar returns and removes the first buffered character, then
// refills. It returns 0, false if the buffer is empty.
func (b *inputBuffer) consumeChar() (rune, bool) {
	b.fill()
	if len(b.content) == 0 {
		return 0, false
	}
	r := b.content[0]
	b.content = b.content[1:]
	b.fill()
	return r, true
}

// consumeAll returns and removes every buffered character without
// refilling.
func (b *inputBuffer) consumeAll() string {
	s := string(b.content)
	b.content = nil
	return s
}
