package irtext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/irtext"
)

func TestParse_LetAndApply(t *testing.T) {
	gen := ir.NewCounter()

	term, err := irtext.Parse(context.Background(), gen, []byte(`
		(let strict x (const 5)
		  (apply (var x) (var x)))
	`))
	require.NoError(t, err)

	let, ok := term.(ir.Let)
	require.True(t, ok)
	assert.Equal(t, ir.Strict, let.Kind)
	assert.Equal(t, ir.Const{Value: ir.IntLit(5)}, let.Def)

	apply, ok := let.Body.(ir.Apply)
	require.True(t, ok)
	require.Len(t, apply.Args, 1)
}

func TestParse_CatchAndRaiseShareLabel(t *testing.T) {
	gen := ir.NewCounter()

	term, err := irtext.Parse(context.Background(), gen, []byte(`
		(catch 1
		  (raise 1 (const 7))
		  ((int p))
		  (prim succ (var p)))
	`))
	require.NoError(t, err)

	catch, ok := term.(ir.Staticcatch)
	require.True(t, ok)
	assert.EqualValues(t, 1, catch.Label)

	raise, ok := catch.Body.(ir.Staticraise)
	require.True(t, ok)
	assert.Equal(t, catch.Label, raise.Label)
	require.Len(t, catch.Params, 1)
	assert.Equal(t, ir.Intval{}, catch.Params[0].Kind)
}
