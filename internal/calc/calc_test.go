package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// These three inputs are spec scenario 1 verbatim, and double as the
// regression test for a prior consumed-flag bug in the sequence state's
// continuation building: nested op_expr compositions (the middle example)
// corrupted in-flight token delivery to a freshly spawned continuation.
func Test_Calc_sExpressions(t *testing.T) {
	fe, err := New()
	require.NoError(t, err)

	cases := []struct {
		in   string
		want int
	}{
		{"(+ 10 2)", 12},
		{"(* 5 (+ (- 7 3) 2))", 30},
		{"(% (+ 2 5) 2)", 1},
	}

	for _, c := range cases {
		got, err := fe.ParseString(context.Background(), c.in, types.Context{})
		assert.NoErrorf(t, err, "parsing %q", c.in)
		assert.Equalf(t, c.want, got, "parsing %q", c.in)
	}
}

func Test_Calc_bareNumber(t *testing.T) {
	fe, err := New()
	require.NoError(t, err)

	got, err := fe.ParseString(context.Background(), "42", types.Context{})
	assert.NoError(t, err)
	assert.Equal(t, 42, got)
}
