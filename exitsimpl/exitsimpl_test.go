package exitsimpl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/exitsimpl"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/ireval"
)

func TestRun_DropsUnusedHandler(t *testing.T) {
	const lbl ir.Label = 1

	term := ir.Staticcatch{
		Body:    ir.Const{Value: ir.IntLit(1)},
		Label:   lbl,
		Handler: ir.Const{Value: ir.IntLit(2)},
	}

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, ir.NewCounter(), diag.Discard{}, term)
	require.NoError(t, err)
	assert.Equal(t, ir.Const{Value: ir.IntLit(1)}, out)
}

func TestRun_InlinesSingleUseHandler(t *testing.T) {
	const lbl ir.Label = 1

	gen := ir.NewCounter()
	p := gen.Fresh("x")

	term := ir.Staticcatch{
		Body:  ir.Staticraise{Label: lbl, Args: []ir.Term{ir.Const{Value: ir.IntLit(7)}}},
		Label: lbl,
		Params: []ir.Param{
			{Id: p, Kind: ir.Intval{}},
		},
		Handler: ir.Prim{Op: ir.Named{Name: "succ"}, Args: []ir.Term{ir.Var{Name: p}}},
	}

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	let, ok := out.(ir.Let)
	require.True(t, ok, "expected a Let cascade, got %T", out)
	assert.Equal(t, ir.Strict, let.Kind)
	assert.Equal(t, ir.Const{Value: ir.IntLit(7)}, let.Def)

	prim, ok := let.Body.(ir.Prim)
	require.True(t, ok)
	assert.Equal(t, ir.Named{Name: "succ"}, prim.Op)
	assert.Equal(t, ir.Var{Name: let.Id}, prim.Args[0])
}

func TestRun_FollowsAliasChain(t *testing.T) {
	const (
		outer ir.Label = 1
		inner ir.Label = 2
	)

	term := ir.Staticcatch{
		Label: outer,
		Body: ir.Staticcatch{
			Label:   inner,
			Body:    ir.Staticraise{Label: inner},
			Handler: ir.Staticraise{Label: outer},
		},
		Handler: ir.Const{Value: ir.IntLit(9)},
	}

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, ir.NewCounter(), diag.Discard{}, term)
	require.NoError(t, err)
	assert.Equal(t, ir.Const{Value: ir.IntLit(9)}, out)
}

func TestRun_BetaReducesExactApplication(t *testing.T) {
	gen := ir.NewCounter()
	x := gen.Fresh("x")

	term := ir.Apply{
		Func: ir.Function{
			Conv:   ir.Curried,
			Params: []ir.Param{{Id: x, Kind: ir.Intval{}}},
			Body:   ir.Var{Name: x},
		},
		Args: []ir.Term{ir.Const{Value: ir.IntLit(5)}},
	}

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	let, ok := out.(ir.Let)
	require.True(t, ok)
	assert.Equal(t, ir.Const{Value: ir.IntLit(5)}, let.Def)
	assert.Equal(t, ir.Var{Name: let.Id}, let.Body)
}

func TestRun_ContractsRevapplyAndIdentity(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")

	revapply := ir.Prim{
		Op:   ir.Revapply{},
		Args: []ir.Term{ir.Const{Value: ir.IntLit(1)}, ir.Var{Name: f}},
	}

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, revapply)
	require.NoError(t, err)

	apply, ok := out.(ir.Apply)
	require.True(t, ok)
	assert.Equal(t, ir.Var{Name: f}, apply.Func)
	assert.Equal(t, []ir.Term{ir.Const{Value: ir.IntLit(1)}}, apply.Args)

	identity := ir.Prim{Op: ir.Identity{}, Args: []ir.Term{ir.Const{Value: ir.IntLit(3)}}}
	out, err = exitsimpl.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, identity)
	require.NoError(t, err)
	assert.Equal(t, ir.Const{Value: ir.IntLit(3)}, out)
}

func TestRun_PreservesObservableSemantics(t *testing.T) {
	gen := ir.NewCounter()
	x := gen.Fresh("x")

	term := ir.Apply{
		Func: ir.Function{
			Conv:   ir.Curried,
			Params: []ir.Param{{Id: x, Kind: ir.Intval{}}},
			Body:   ir.Var{Name: x},
		},
		Args: []ir.Term{ir.Const{Value: ir.IntLit(5)}},
	}

	before, err := ireval.Eval(ireval.NewEnv(nil), term)
	require.NoError(t, err)

	out, err := exitsimpl.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	after, err := ireval.Eval(ireval.NewEnv(nil), out)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}
