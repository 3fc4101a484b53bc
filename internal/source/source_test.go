package source

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(l *Lines) []string {
	var out []string
	for {
		line, ok := l.Next()
		if !ok {
			return out
		}
		out = append(out, line)
	}
}

func TestLinesYieldsEachLine(t *testing.T) {
	t.Parallel()

	l := NewLines(strings.NewReader("http://a/1\r\nhttp://b/2\n\nhttp://c/3"))
	assert.Equal(t, []string{"http://a/1", "http://b/2", "", "http://c/3"}, collect(l))
	assert.NoError(t, l.Err())

	line, ok := l.Next()
	assert.False(t, ok)
	assert.Empty(t, line)
}

func TestLinesEmptyInput(t *testing.T) {
	t.Parallel()

	l := NewLines(strings.NewReader(""))
	assert.Empty(t, collect(l))
	assert.NoError(t, l.Err())
}

func TestLinesStopsOnReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := iotest.TimeoutReader(strings.NewReader("http://a/1\nhttp://b/2\n"))
	l := NewLines(&failAfter{r: r, err: boom})
	got := collect(l)
	require.Error(t, l.Err())
	assert.ErrorIs(t, l.Err(), boom)
	assert.LessOrEqual(t, len(got), 2)
}

func TestLinesRejectsOversizedLine(t *testing.T) {
	t.Parallel()

	l := NewLines(strings.NewReader(strings.Repeat("x", MaxLineBytes+1) + "\n"))
	assert.Empty(t, collect(l))
	assert.Error(t, l.Err())
}

type failAfter struct {
	r   interface{ Read([]byte) (int, error) }
	err error
}

func (f *failAfter) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err != nil {
		return n, f.err
	}
	return n, nil
}
