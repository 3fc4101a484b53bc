// Package source reads newline-delimited URLs from an input stream.
package source

import (
	"bufio"
	"fmt"
	"io"
)

// MaxLineBytes bounds a single input line.
const MaxLineBytes = 1 << 20

// Lines yields one raw line per call to Next until EOF or a read error.
// Trailing "\r\n" and "\n" are stripped; lines are otherwise untouched.
type Lines struct {
	scanner *bufio.Scanner
	err     error
}

// NewLines wraps r.
func NewLines(r io.Reader) *Lines {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	return &Lines{scanner: sc}
}

// Next returns the next line and true, or "" and false once the stream ends.
func (l *Lines) Next() (string, bool) {
	if l.err != nil {
		return "", false
	}
	if l.scanner.Scan() {
		return l.scanner.Text(), true
	}
	if err := l.scanner.Err(); err != nil {
		l.err = fmt.Errorf("read input line: %w", err)
	}
	return "", false
}

// Err returns the read error that ended the stream, if any.
func (l *Lines) Err() error {
	return l.err
}
