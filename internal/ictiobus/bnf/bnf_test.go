package bnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
)

func Test_Parse_bareName(t *testing.T) {
	sym, err := Parse("expr")
	require.NoError(t, err)
	assert.Equal(t, symbol.Deferred, sym.Kind)
	assert.Equal(t, "expr", sym.Ref)
}

func Test_Parse_sequenceOfNames(t *testing.T) {
	sym, err := Parse("a b c")
	require.NoError(t, err)
	assert.Equal(t, symbol.Sequence, sym.Kind)
	require.Len(t, sym.Children, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, symbol.Deferred, sym.Children[i].Kind)
		assert.Equal(t, want, sym.Children[i].Ref)
	}
}

func Test_Parse_group(t *testing.T) {
	sym, err := Parse("(a b)")
	require.NoError(t, err)
	assert.Equal(t, symbol.Sequence, sym.Kind)
	require.Len(t, sym.Children, 2)
}

func Test_Parse_alternation(t *testing.T) {
	sym, err := Parse("a | b | c")
	require.NoError(t, err)
	assert.Equal(t, symbol.Alternation, sym.Kind)
	require.Len(t, sym.Children, 3)
}

func Test_Parse_optional(t *testing.T) {
	sym, err := Parse("?a")
	require.NoError(t, err)
	assert.Equal(t, symbol.Repetition, sym.Kind)
	assert.Equal(t, 0, sym.From)
	assert.Equal(t, 1, sym.To)
}

func Test_Parse_unboundedRepeat(t *testing.T) {
	sym, err := Parse("*a")
	require.NoError(t, err)
	assert.Equal(t, symbol.Repetition, sym.Kind)
	assert.Equal(t, 0, sym.From)
	assert.Equal(t, symbol.Unbounded, sym.To)
}

func Test_Parse_boundedRepeat(t *testing.T) {
	sym, err := Parse("{2,4}*a")
	require.NoError(t, err)
	assert.Equal(t, symbol.Repetition, sym.Kind)
	assert.Equal(t, 2, sym.From)
	assert.Equal(t, 4, sym.To)
}

func Test_Parse_repeatWithOpenLowerBound(t *testing.T) {
	sym, err := Parse("{,3}*a")
	require.NoError(t, err)
	assert.Equal(t, symbol.Repetition, sym.Kind)
	assert.Equal(t, 0, sym.From)
	assert.Equal(t, 3, sym.To)
}

func Test_Parse_repeatOfGroup(t *testing.T) {
	sym, err := Parse("*(a b)")
	require.NoError(t, err)
	require.Equal(t, symbol.Repetition, sym.Kind)
	repeated := sym.Repeated()
	assert.Equal(t, symbol.Sequence, repeated.Kind)
}

func Test_Parse_emptyStringIsError(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func Test_ExtractMarkdown(t *testing.T) {
	doc := "" +
		"# A tiny grammar\n\n" +
		"Some prose that should be ignored entirely.\n\n" +
		"```tokens\n" +
		"num \\d+\n" +
		"~ws \\s+\n" +
		"```\n\n" +
		"More prose.\n\n" +
		"```grammar\n" +
		"expr := num\n" +
		"```\n"

	spec, err := ExtractMarkdown(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, spec.TokenLines, 2)
	assert.Equal(t, "num \\d+", spec.TokenLines[0])
	assert.Equal(t, "~ws \\s+", spec.TokenLines[1])

	require.Contains(t, spec.Rules, "expr")
	assert.Equal(t, symbol.Deferred, spec.Rules["expr"].Kind)
	assert.Equal(t, "num", spec.Rules["expr"].Ref)
}

func Test_ExtractMarkdown_ignoresUnrelatedFences(t *testing.T) {
	doc := "" +
		"```go\n" +
		"fmt.Println(\"hi\")\n" +
		"```\n\n" +
		"```tokens\n" +
		"num \\d+\n" +
		"```\n"

	spec, err := ExtractMarkdown(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, spec.TokenLines, 1)
	assert.Equal(t, "num \\d+", spec.TokenLines[0])
}
