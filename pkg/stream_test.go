package synparse

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringInputStreamYieldsEveryChar(t *testing.T) {
	s := NewStringInputStream("ab")
	assert.False(t, s.EndOfInput())
	assert.Equal(t, 'a', s.NextChar())
	assert.Equal(t, 'b', s.NextChar())
	assert.True(t, s.EndOfInput())
}

func TestFileInputStreamReadsContent(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "synparse-stream-*.txt")
	assert.NoError(t, err)
	_, err = f.WriteString("line one\nline two")
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	s, err := NewFileInputStream(f.Name())
	assert.NoError(t, err)
	defer s.Close()

	var out []rune
	for !s.EndOfInput() {
		out = append(out, s.NextChar())
	}
	assert.Equal(t, "line one\nline two", string(out))
}
