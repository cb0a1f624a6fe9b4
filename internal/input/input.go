// Package input provides line-oriented readers for the interactive REPL in
// cmd/floyd: one backed by GNU Readline for a real TTY, one that reads plain
// lines off any io.Reader for piped/scripted input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of input lines for the REPL to parse, one line at a
// time. Implementations must tolerate repeated calls after io.EOF, always
// returning "", io.EOF once input is exhausted.
type Reader interface {
	// ReadLine reads a single line. It blocks until one is ready. If there
	// is an error or input is at end, the returned string is empty.
	ReadLine() (string, error)

	// AllowBlank sets whether an empty line is returned as-is (true) or
	// skipped in favor of the next non-blank line (false, the default).
	AllowBlank(allow bool)

	// Close releases any resources the Reader holds (a readline session's
	// terminal state, in particular). Must be called before disposal.
	Close() error
}

// DirectReader implements Reader by reading lines directly off any
// io.Reader, with no escape-sequence handling or history. Suitable for
// piped files or scripted input.
//
// DirectReader should not be used directly; instead, create one with
// NewDirectReader.
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveReader implements Reader by reading lines from stdin through
// GNU Readline, giving the operator line editing and history. Only
// meaningful when attached to a real TTY.
//
// InteractiveReader should not be used directly; instead, create one with
// NewInteractiveReader.
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader wraps r in a buffered line reader. The returned Reader
// must have Close called on it before disposal.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader starts a readline session on stdin/stdout with the
// given initial prompt. The returned Reader must have Close called on it
// before disposal to restore terminal state.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close is a no-op for DirectReader, which owns no resources beyond the
// buffer itself; present so DirectReader satisfies Reader uniformly with
// InteractiveReader.
func (dr *DirectReader) Close() error {
	return nil
}

// Close tears down the underlying readline session.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line, skipping blank lines unless AllowBlank(true)
// was set. Returns "", io.EOF at end of input.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadLine reads the next line via readline, skipping blank lines unless
// AllowBlank(true) was set. Returns "", io.EOF at end of input.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ir.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.blanksAllowed = allow
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (ir *InteractiveReader) AllowBlank(allow bool) {
	ir.blanksAllowed = allow
}

// SetPrompt updates the prompt text shown before the next read.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
	ir.prompt = p
}

// GetPrompt returns the prompt currently in effect.
func (ir *InteractiveReader) GetPrompt() string {
	return ir.prompt
}
