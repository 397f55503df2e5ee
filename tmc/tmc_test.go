package tmc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/ireval"
	"github.com/slowlang/midrw/tmc"
)

func listBuildingPrims() map[string]func([]ireval.Value) ireval.Value {
	return map[string]func([]ireval.Value) ireval.Value{
		"zero": func(args []ireval.Value) ireval.Value {
			if args[0].(int64) == 0 {
				return int64(1)
			}
			return int64(0)
		},
		"pred": func(args []ireval.Value) ireval.Value { return args[0].(int64) - 1 },
	}
}

func consCandidate(gen ir.IdentGen, f, n ir.Ident) ir.Function {
	return ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: n, Kind: ir.Intval{}}},
		Body: ir.Ifthenelse{
			Cond: ir.Prim{Op: ir.Named{Name: "zero"}, Args: []ir.Term{ir.Var{Name: n}}},
			Then: ir.Const{Value: ir.IntLit(0)},
			Else: ir.Prim{
				Op: ir.Makeblock{Tag: 0, Shape: []ir.Kind{ir.Intval{}, ir.Genval{}}},
				Args: []ir.Term{
					ir.Var{Name: n},
					ir.Apply{
						Func: ir.Var{Name: f},
						Args: []ir.Term{ir.Prim{Op: ir.Named{Name: "pred"}, Args: []ir.Term{ir.Var{Name: n}}}},
					},
				},
			},
		},
		Attrs: ir.FuncAttrs{TMCCandidate: true},
	}
}

func TestRun_SplitsCandidateIntoDirectAndDPS(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")
	n := gen.Fresh("n")

	term := ir.Letrec{
		Bindings: []ir.LetrecBinding{{Id: f, Value: consCandidate(gen, f, n)}},
		Body:     ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Const{Value: ir.IntLit(3)}}},
	}

	out, err := tmc.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	letrec, ok := out.(ir.Letrec)
	require.True(t, ok)
	require.Len(t, letrec.Bindings, 2)

	direct := letrec.Bindings[0]
	assert.Equal(t, f, direct.Id)
	directFn, ok := direct.Value.(ir.Function)
	require.True(t, ok)
	assert.Len(t, directFn.Params, 1)

	dps := letrec.Bindings[1]
	dpsFn, ok := dps.Value.(ir.Function)
	require.True(t, ok)
	require.Len(t, dpsFn.Params, 3)
	assert.Equal(t, ir.Genval{}, dpsFn.Params[0].Kind)
	assert.Equal(t, ir.Intval{}, dpsFn.Params[1].Kind)

	ite, ok := dpsFn.Body.(ir.Ifthenelse)
	require.True(t, ok)

	// the zero branch writes straight into the destination
	writeThen, ok := ite.Then.(ir.Prim)
	require.True(t, ok)
	_, isSetfieldComputed := writeThen.Op.(ir.SetfieldComputed)
	assert.True(t, isSetfieldComputed)

	// the recursive branch allocates the cons cell up front, links it into
	// the destination, and then makes the recursive DPS call (in tail
	// position) writing directly into its second field
	let, ok := ite.Else.(ir.Let)
	require.True(t, ok)
	_, isMakeblock := let.Def.(ir.Prim).Op.(ir.Makeblock)
	assert.True(t, isMakeblock)

	seq, ok := let.Body.(ir.Sequence)
	require.True(t, ok)
	call, ok := seq.Right.(ir.Apply)
	require.True(t, ok)
	callee, ok := call.Func.(ir.Var)
	require.True(t, ok)
	assert.Equal(t, dps.Id, callee.Name)
	assert.Len(t, call.Args, 3)

	link, ok := seq.Left.(ir.Prim)
	require.True(t, ok)
	_, isSetfieldComputed = link.Op.(ir.SetfieldComputed)
	assert.True(t, isSetfieldComputed)
}

func TestRun_PreservesObservableSemantics(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")
	n := gen.Fresh("n")

	term := ir.Letrec{
		Bindings: []ir.LetrecBinding{{Id: f, Value: consCandidate(gen, f, n)}},
		Body:     ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Const{Value: ir.IntLit(3)}}},
	}

	before, err := ireval.Eval(ireval.NewEnv(listBuildingPrims()), term)
	require.NoError(t, err)

	out, err := tmc.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	after, err := ireval.Eval(ireval.NewEnv(listBuildingPrims()), out)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestRun_LeavesNonCandidateLetrecUntouched(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")

	fn := ir.Function{
		Conv:   ir.Curried,
		Params: nil,
		Body:   ir.Const{Value: ir.IntLit(1)},
	}

	term := ir.Letrec{
		Bindings: []ir.LetrecBinding{{Id: f, Value: fn}},
		Body:     ir.Var{Name: f},
	}

	out, err := tmc.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)
	assert.Equal(t, term, out)
}

func TestRun_AmbiguousConstructorArgumentsError(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")
	n := gen.Fresh("n")

	fn := ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: n, Kind: ir.Intval{}}},
		Body: ir.Prim{
			Op: ir.Makeblock{Tag: 0, Shape: []ir.Kind{ir.Genval{}, ir.Genval{}}},
			Args: []ir.Term{
				ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Var{Name: n}}},
				ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Var{Name: n}}},
			},
		},
		Attrs: ir.FuncAttrs{TMCCandidate: true},
	}

	term := ir.Letrec{
		Bindings: []ir.LetrecBinding{{Id: f, Value: fn}},
		Body:     ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Const{Value: ir.IntLit(1)}}},
	}

	_, err := tmc.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.Error(t, err)

	var ambiguous *tmc.AmbiguousConstructorArgumentsError
	assert.ErrorAs(t, err, &ambiguous)
}

func TestRun_ExplicitTailcallResolvesAmbiguity(t *testing.T) {
	gen := ir.NewCounter()
	f := gen.Fresh("f")
	n := gen.Fresh("n")

	fn := ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: n, Kind: ir.Intval{}}},
		Body: ir.Prim{
			Op: ir.Makeblock{Tag: 0, Shape: []ir.Kind{ir.Genval{}, ir.Genval{}}},
			Args: []ir.Term{
				ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Var{Name: n}}},
				ir.Apply{
					Func:            ir.Var{Name: f},
					Args:            []ir.Term{ir.Var{Name: n}},
					TailcallRequest: ir.Tailcall(true),
				},
			},
		},
		Attrs: ir.FuncAttrs{TMCCandidate: true},
	}

	term := ir.Letrec{
		Bindings: []ir.LetrecBinding{{Id: f, Value: fn}},
		Body:     ir.Apply{Func: ir.Var{Name: f}, Args: []ir.Term{ir.Const{Value: ir.IntLit(1)}}},
	}

	out, err := tmc.Run(context.Background(), config.Flags{}, gen, diag.Discard{}, term)
	require.NoError(t, err)

	letrec, ok := out.(ir.Letrec)
	require.True(t, ok)
	require.Len(t, letrec.Bindings, 2)

	dpsFn, ok := letrec.Bindings[1].Value.(ir.Function)
	require.True(t, ok)

	// the unannotated first argument is bound up front; the annotated
	// second argument is the chosen one, whose recursive call is rewritten
	// into a DPS call writing straight into the allocated block.
	bindArg, ok := dpsFn.Body.(ir.Let)
	require.True(t, ok)

	allocBlk, ok := bindArg.Body.(ir.Let)
	require.True(t, ok)
	_, isMakeblock := allocBlk.Def.(ir.Prim).Op.(ir.Makeblock)
	assert.True(t, isMakeblock)

	seq, ok := allocBlk.Body.(ir.Sequence)
	require.True(t, ok)
	call, ok := seq.Right.(ir.Apply)
	require.True(t, ok)
	callee, ok := call.Func.(ir.Var)
	require.True(t, ok)
	assert.Equal(t, letrec.Bindings[1].Id, callee.Name)
}
