package lift_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/ireval"
	"github.com/slowlang/midrw/lift"
)

func countdownPrims() map[string]func([]ireval.Value) ireval.Value {
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

func TestRun_LiftsSingleTailCalledFunction(t *testing.T) {
	gen := ir.NewCounter()
	labels := ir.NewLabels()
	loop := gen.Fresh("loop")
	n := gen.Fresh("n")

	fn := ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: n, Kind: ir.Intval{}}},
		Body: ir.Ifthenelse{
			Cond: ir.Prim{Op: ir.Named{Name: "zero"}, Args: []ir.Term{ir.Var{Name: n}}},
			Then: ir.Const{Value: ir.IntLit(0)},
			Else: ir.Prim{Op: ir.Named{Name: "pred"}, Args: []ir.Term{ir.Var{Name: n}}},
		},
		Attrs: ir.FuncAttrs{Local: ir.AlwaysLocal},
	}

	// Let is non-recursive, so the function body cannot call loop itself;
	// its single call site is the Let body's tail call.

	term := ir.Let{
		Id:   loop,
		Def:  fn,
		Body: ir.Apply{Func: ir.Var{Name: loop}, Args: []ir.Term{ir.Const{Value: ir.IntLit(10)}}},
	}

	before, err := ireval.Eval(ireval.NewEnv(countdownPrims()), term)
	require.NoError(t, err)

	cfg := config.Flags{NativeCode: true}
	out, err := lift.Run(context.Background(), cfg, gen, labels, diag.Discard{}, term)
	require.NoError(t, err)

	catch, ok := out.(ir.Staticcatch)
	require.True(t, ok, "expected a Staticcatch, got %T", out)
	assert.Len(t, catch.Params, 1)

	raise, ok := catch.Body.(ir.Staticraise)
	require.True(t, ok)
	assert.Equal(t, catch.Label, raise.Label)

	after, err := ireval.Eval(ireval.NewEnv(countdownPrims()), out)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_InvalidatesEscapingFunction(t *testing.T) {
	gen := ir.NewCounter()
	labels := ir.NewLabels()
	f := gen.Fresh("f")
	x := gen.Fresh("x")

	fn := ir.Function{
		Conv:   ir.Curried,
		Params: []ir.Param{{Id: x, Kind: ir.Genval{}}},
		Body:   ir.Var{Name: x},
		Attrs:  ir.FuncAttrs{Local: ir.DefaultLocal, Inline: ir.DefaultInline},
	}

	// f escapes by being passed as a plain value.
	term := ir.Let{
		Id:  f,
		Def: fn,
		Body: ir.Apply{
			Func: ir.Var{Name: f},
			Args: []ir.Term{ir.Var{Name: f}},
		},
	}

	cfg := config.Flags{NativeCode: true}
	out, err := lift.Run(context.Background(), cfg, gen, labels, diag.Discard{}, term)
	require.NoError(t, err)

	// Escaped: the original Let/Function survives untouched.
	let, ok := out.(ir.Let)
	require.True(t, ok)
	_, isFn := let.Def.(ir.Function)
	assert.True(t, isFn)
}

func TestRun_SkippedWhenLiftDisabled(t *testing.T) {
	gen := ir.NewCounter()
	labels := ir.NewLabels()
	loop := gen.Fresh("loop")

	term := ir.Let{
		Id: loop,
		Def: ir.Function{
			Conv:   ir.Curried,
			Params: nil,
			Body:   ir.Const{Value: ir.IntLit(1)},
			Attrs:  ir.FuncAttrs{Local: ir.AlwaysLocal},
		},
		Body: ir.Apply{Func: ir.Var{Name: loop}},
	}

	cfg := config.Flags{NativeCode: false, Debug: true}
	out, err := lift.Run(context.Background(), cfg, gen, labels, diag.Discard{}, term)
	require.NoError(t, err)
	assert.Equal(t, term, out)
}
