package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/rewrite"
)

func TestPipeline_Run_DropsUnusedHandlerAndDeadBinding(t *testing.T) {
	gen := ir.NewCounter()
	v := gen.Fresh("v")

	term := ir.Let{
		Kind: ir.Alias,
		Id:   v,
		Def:  ir.Const{Value: ir.IntLit(1)},
		Body: ir.Staticcatch{
			Body:    ir.Const{Value: ir.IntLit(2)},
			Label:   1,
			Handler: ir.Const{Value: ir.IntLit(3)},
		},
	}

	p := rewrite.Pipeline{
		Cfg:    config.Flags{NativeCode: true},
		Gen:    gen,
		Labels: ir.NewLabels(),
		Sink:   diag.Discard{},
	}

	out, err := p.Run(context.Background(), term)
	require.NoError(t, err)
	assert.Equal(t, ir.Const{Value: ir.IntLit(2)}, out)
}

func TestPipeline_Run_DebugSkipsLiftAndAggressiveLetSimp(t *testing.T) {
	gen := ir.NewCounter()
	loop := gen.Fresh("loop")

	term := ir.Let{
		Id: loop,
		Def: ir.Function{
			Conv:  ir.Curried,
			Body:  ir.Const{Value: ir.IntLit(1)},
			Attrs: ir.FuncAttrs{Local: ir.AlwaysLocal},
		},
		Body: ir.Apply{Func: ir.Var{Name: loop}},
	}

	p := rewrite.Pipeline{
		Cfg:    config.Flags{NativeCode: false, Debug: true},
		Gen:    gen,
		Labels: ir.NewLabels(),
		Sink:   diag.Discard{},
	}

	out, err := p.Run(context.Background(), term)
	require.NoError(t, err)

	// lift is disabled in debug mode: the result is still a Let/Function,
	// never a Staticcatch.
	let, ok := out.(ir.Let)
	require.True(t, ok)
	_, isFn := let.Def.(ir.Function)
	assert.True(t, isFn)
}
