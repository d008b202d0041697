/*
Parsesh is an interactive shell for trying out a parsr grammar: each line
typed is parsed and its reduced value (or error) is printed back.

Usage:

	parsesh [flags]

The flags are:

	-g, --grammar FILE
		Load the grammar to use from the given Markdown file (see
		internal/ictiobus.FromMarkdown) instead of the built-in
		S-expression calculator demo.

	-r, --root NAME
		The root symbol to parse against, when --grammar is given. Ignored
		for the built-in demo grammar, whose root is always "expr".

	-d, --direct
		Force reading directly from stdin instead of going through the
		readline line editor, even if launched in a tty.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/lechimp-p/parsr/internal/calc"
	"github.com/lechimp-p/parsr/internal/ictiobus"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

var (
	flagGrammar = pflag.StringP("grammar", "g", "", "Load the grammar to use from the given Markdown file.")
	flagRoot    = pflag.StringP("root", "r", "expr", "The root symbol to parse against.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of readline.")
)

// lineReader is the minimal surface both readline and a bare bufio.Scanner
// need to satisfy for the REPL loop below.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

func main() {
	pflag.Parse()

	frontend, root, err := buildFrontend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build grammar: %s\n", err)
		os.Exit(1)
	}

	lr, err := newLineReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start input: %s\n", err)
		os.Exit(1)
	}
	defer lr.Close()

	fmt.Printf("parsesh: parsing against root symbol %q; Ctrl-D to quit\n", root)

	for {
		line, err := lr.ReadLine()
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "read error: %s\n", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		value, err := frontend.ParseString(context.Background(), line, types.Context{})
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		fmt.Printf("=> %v\n", value)
	}
}

func buildFrontend() (*ictiobus.Frontend[any], string, error) {
	if *flagGrammar == "" {
		fe, err := calc.New()
		if err != nil {
			return nil, "", err
		}
		return ictiobus.Adapt(fe, func(v int) any { return v }), "expr", nil
	}

	f, err := os.Open(*flagGrammar)
	if err != nil {
		return nil, "", fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()

	b, err := ictiobus.FromMarkdown(f, *flagRoot)
	if err != nil {
		return nil, "", err
	}
	fe, err := ictiobus.Build[any](b)
	if err != nil {
		return nil, "", err
	}
	return fe, *flagRoot, nil
}

// readlineAdapter adapts *readline.Instance to lineReader.
type readlineAdapter struct{ rl *readline.Instance }

func (a readlineAdapter) ReadLine() (string, error) { return a.rl.Readline() }
func (a readlineAdapter) Close() error              { return a.rl.Close() }

// directAdapter adapts a bufio.Scanner over stdin to lineReader, for
// non-interactive or --direct invocations.
type directAdapter struct{ sc *bufio.Scanner }

func (a *directAdapter) ReadLine() (string, error) {
	if !a.sc.Scan() {
		if err := a.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return a.sc.Text(), nil
}
func (a *directAdapter) Close() error { return nil }

func newLineReader() (lineReader, error) {
	if *flagDirect || !isatty() {
		return &directAdapter{sc: bufio.NewScanner(os.Stdin)}, nil
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return readlineAdapter{rl: rl}, nil
}

func isatty() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
