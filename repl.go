package floyd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/floyd/internal/input"
)

const consoleOutputWidth = 80

// Engine drives an interactive read-parse-print loop against a compiled
// Grammar: each line of input is parsed as one run of the starting rule (or
// Start, if set) and the result or error is printed.
type Engine struct {
	g           *Grammar
	start       string
	in          input.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates an Engine reading lines from inputStream and writing results
// to outputStream. If inputStream is nil, stdin is used; if outputStream is
// nil, stdout is used. start overrides g's declared starting rule when
// non-empty.
//
// Readline-backed line editing is used only when attached to a real
// stdin/stdout pair and forceDirectInput is false; otherwise lines are read
// directly off inputStream with no escape handling, suitable for piped
// input.
func New(inputStream io.Reader, outputStream io.Writer, g *Grammar, start string, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		g:           g,
		start:       start,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		ir, err := input.NewInteractiveReader("floyd> ")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive reader: %w", err)
		}
		eng.in = ir
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close releases the Engine's input reader.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}
	return nil
}

// RunUntilQuit reads lines until EOF or a ":quit" line, parsing each against
// the compiled grammar and printing its value or error. initial lines, if
// any, are run immediately before the interactive loop starts, letting a
// caller script a few parses at launch (the -c flag in cmd/floyd).
func (eng *Engine) RunUntilQuit(initial []string) error {
	intro := "floyd interactive parser\n"
	intro += "=========================\n"
	intro += fmt.Sprintf("starting rule: %s\n", eng.effectiveStart())
	intro += "enter input to parse, or :quit to exit\n\n"
	if err := eng.write(intro); err != nil {
		return err
	}

	eng.running = true
	defer func() { eng.running = false }()

	for _, line := range initial {
		eng.runOne(line)
	}

	for eng.running {
		line, err := eng.in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if line == ":quit" {
			break
		}

		eng.runOne(line)
	}

	return eng.write("goodbye\n")
}

func (eng *Engine) runOne(line string) {
	res := eng.g.Parse(line, Options{Start: eng.start})
	var msg string
	if res.Err != nil {
		msg = fmt.Sprintf("error: %s", res.Err)
	} else {
		msg = fmt.Sprintf("%v", res.Val)
	}
	msg = rosed.Edit(msg).Wrap(consoleOutputWidth).String()
	if err := eng.write(msg + "\n"); err != nil {
		eng.running = false
	}
}

func (eng *Engine) effectiveStart() string {
	if eng.start != "" {
		return eng.start
	}
	return eng.g.StartingRule()
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return eng.out.Flush()
}
