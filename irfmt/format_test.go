package irfmt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/irfmt"
)

func TestFormat_RendersLetAndApply(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("v")

	term := ir.Let{
		Kind: ir.Strict,
		Id:   v,
		Def:  ir.Const{Value: ir.IntLit(5)},
		Body: ir.Apply{
			Func: ir.Var{Name: v},
			Args: []ir.Term{ir.Var{Name: v}},
		},
	}

	out, err := irfmt.Format(context.Background(), nil, term)
	require.NoError(t, err)
	assert.Contains(t, string(out), "let Strict")
	assert.Contains(t, string(out), "= 5 in")
}
