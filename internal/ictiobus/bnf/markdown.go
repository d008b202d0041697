package bnf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mkast "github.com/gomarkdown/markdown/ast"
	mkparser "github.com/gomarkdown/markdown/parser"

	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
)

// Spec is a grammar authored as fenced code blocks embedded in a Markdown
// document: one or more ` ```tokens ` blocks naming tokens (one per line,
// `id pattern`), and one or more ` ```grammar ` blocks of `name := body`
// rule definitions in the BNF shorthand this package parses.
type Spec struct {
	// TokenLines holds every line from every "tokens" block, in document
	// order, each expected to be `id pattern` (pattern extending to end of
	// line; split on the first run of whitespace).
	TokenLines []string

	// Rules holds every `name := body` line from every "grammar" block,
	// already parsed into symbol graphs via Parse. Forward references
	// across rules are left as Deferred nodes for the caller's
	// symbol.Grammar.Resolve to fix up.
	Rules map[string]*symbol.Symbol
}

// ExtractMarkdown scans r for fenced code blocks tagged "tokens" or
// "grammar" and assembles a Spec from their contents. Blocks tagged
// anything else are ignored, so a grammar may be documented inline in an
// otherwise ordinary README.
func ExtractMarkdown(r io.Reader) (*Spec, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := markdown.Parse(src, mkparser.New())

	var scanner blockScanner
	tokensBlob := markdown.Render(doc, scanner.forTag("tokens"))
	grammarBlob := markdown.Render(doc, scanner.forTag("grammar"))

	spec := &Spec{Rules: map[string]*symbol.Symbol{}}

	lineScan := bufio.NewScanner(bytes.NewReader(tokensBlob))
	for lineScan.Scan() {
		line := strings.TrimSpace(lineScan.Text())
		if line == "" {
			continue
		}
		spec.TokenLines = append(spec.TokenLines, line)
	}

	ruleScan := bufio.NewScanner(bytes.NewReader(grammarBlob))
	for ruleScan.Scan() {
		line := strings.TrimSpace(ruleScan.Text())
		if line == "" {
			continue
		}
		name, body, ok := strings.Cut(line, ":=")
		if !ok {
			return nil, fmt.Errorf("bnf: grammar line missing ':=': %q", line)
		}
		name = strings.TrimSpace(name)
		sym, err := Parse(strings.TrimSpace(body))
		if err != nil {
			return nil, fmt.Errorf("bnf: rule %q: %w", name, err)
		}
		sym.Name = name
		spec.Rules[name] = sym
	}

	return spec, nil
}

// blockScanner renders only the fenced code blocks whose info string names
// one particular tag, discarding everything else in the document. A fresh
// renderer is built per tag since markdown.Render does not accept render
// options per call.
type blockScanner struct {
	tag string
}

func (b blockScanner) forTag(tag string) blockScanner {
	return blockScanner{tag: tag}
}

func (b blockScanner) RenderNode(w io.Writer, node mkast.Node, entering bool) mkast.WalkStatus {
	if !entering {
		return mkast.GoToNext
	}
	codeBlock, ok := node.(*mkast.CodeBlock)
	if !ok || codeBlock == nil {
		return mkast.GoToNext
	}
	if strings.EqualFold(strings.TrimSpace(string(codeBlock.Info)), b.tag) {
		w.Write(codeBlock.Literal)
	}
	return mkast.GoToNext
}

func (b blockScanner) RenderHeader(io.Writer, mkast.Node) {}
func (b blockScanner) RenderFooter(io.Writer, mkast.Node) {}
