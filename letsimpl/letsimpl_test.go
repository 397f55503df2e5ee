package letsimpl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/ireval"
	"github.com/slowlang/midrw/letsimpl"
)

func succPrims() map[string]func([]ireval.Value) ireval.Value {
	return map[string]func([]ireval.Value) ireval.Value{
		"succ": func(args []ireval.Value) ireval.Value { return args[0].(int64) + 1 },
	}
}

func optimizeFlags() config.Flags { return config.Flags{NativeCode: true} }

func TestRun_DropsUnusedAliasBinding(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("v")

	term := ir.Let{
		Kind: ir.Alias,
		Id:   v,
		Def:  ir.Const{Value: ir.IntLit(1)},
		Body: ir.Const{Value: ir.IntLit(2)},
	}

	out, err := letsimpl.Run(context.Background(), optimizeFlags(), gen, term)
	require.NoError(t, err)
	assert.Equal(t, ir.Const{Value: ir.IntLit(2)}, out)
}

func TestRun_PropagatesSingleUseAlias(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("v")

	term := ir.Let{
		Kind: ir.Alias,
		Id:   v,
		Def:  ir.Const{Value: ir.IntLit(41)},
		Body: ir.Prim{Op: ir.Named{Name: "succ"}, Args: []ir.Term{ir.Var{Name: v}}},
	}

	before, err := ireval.Eval(ireval.NewEnv(succPrims()), term)
	require.NoError(t, err)

	out, err := letsimpl.Run(context.Background(), optimizeFlags(), gen, term)
	require.NoError(t, err)

	prim, ok := out.(ir.Prim)
	require.True(t, ok)
	assert.Equal(t, ir.Const{Value: ir.IntLit(41)}, prim.Args[0])

	after, err := ireval.Eval(ireval.NewEnv(succPrims()), out)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_PromotesSingleFieldMutableBlockToVariable(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("r")

	term := ir.Let{
		Kind: ir.Strict,
		Id:   v,
		Def: ir.Prim{
			Op:   ir.Makeblock{Tag: 0, Mutable: true, Shape: []ir.Kind{ir.Intval{}}},
			Args: []ir.Term{ir.Const{Value: ir.IntLit(0)}},
		},
		Body: ir.Sequence{
			Left: ir.Prim{
				Op:   ir.Setfield{Index: 0},
				Args: []ir.Term{ir.Var{Name: v}, ir.Const{Value: ir.IntLit(5)}},
			},
			Right: ir.Prim{Op: ir.Field{Index: 0}, Args: []ir.Term{ir.Var{Name: v}}},
		},
	}

	out, err := letsimpl.Run(context.Background(), optimizeFlags(), gen, term)
	require.NoError(t, err)

	let, ok := out.(ir.Let)
	require.True(t, ok)
	assert.Equal(t, ir.Variable, let.Kind)
	assert.Equal(t, ir.Intval{}, let.Value)

	seq, ok := let.Body.(ir.Sequence)
	require.True(t, ok)

	assign, ok := seq.Left.(ir.Assign)
	require.True(t, ok)
	assert.Equal(t, v, assign.Var)

	read, ok := seq.Right.(ir.Var)
	require.True(t, ok)
	assert.Equal(t, v, read.Name)
}

func TestRun_AbandonsPromotionWhenReferenceEscapes(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("r")

	term := ir.Let{
		Kind: ir.Strict,
		Id:   v,
		Def: ir.Prim{
			Op:   ir.Makeblock{Tag: 0, Mutable: true, Shape: []ir.Kind{ir.Intval{}}},
			Args: []ir.Term{ir.Const{Value: ir.IntLit(0)}},
		},
		// Passing the whole block as a plain value is not one of the
		// recognized access shapes.
		Body: ir.Apply{Func: ir.Var{Name: v}, Args: nil},
	}

	out, err := letsimpl.Run(context.Background(), optimizeFlags(), gen, term)
	require.NoError(t, err)

	let, ok := out.(ir.Let)
	require.True(t, ok)
	assert.Equal(t, ir.Strict, let.Kind)

	prim, ok := let.Def.(ir.Prim)
	require.True(t, ok)
	_, isMakeblock := prim.Op.(ir.Makeblock)
	assert.True(t, isMakeblock)
}

func TestRun_MergesCurriedFunctions(t *testing.T) {
	gen := ir.NewCounter()
	a := gen.Fresh("a")
	b := gen.Fresh("b")

	term := ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: a, Kind: ir.Intval{}}},
		Body: ir.Function{
			Conv:   ir.Curried,
			Params: []ir.Param{{Id: b, Kind: ir.Intval{}}},
			Body:   ir.Prim{Op: ir.Named{Name: "add"}, Args: []ir.Term{ir.Var{Name: a}, ir.Var{Name: b}}},
		},
	}

	out, err := letsimpl.Run(context.Background(), optimizeFlags(), gen, term)
	require.NoError(t, err)

	fn, ok := out.(ir.Function)
	require.True(t, ok)
	assert.Len(t, fn.Params, 2)
}
