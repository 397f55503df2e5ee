// Package rewrite wires the four mid-IR passes into one fixed pipeline:
// local-function lifting, exit simplification, let simplification, then
// TMC. Structured as a short sequence of named stages, each wrapped with
// errors.Wrap(err, stage) on failure and traced through the same ctx.
package rewrite

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/exitsimpl"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/letsimpl"
	"github.com/slowlang/midrw/lift"
	"github.com/slowlang/midrw/tmc"
)

// Pipeline runs the four passes in a fixed order, against one host-supplied
// identifier generator, label generator and diagnostic sink.
type Pipeline struct {
	Cfg    config.Flags
	Gen    ir.IdentGen
	Labels ir.LabelGen
	Sink   diag.Sink
}

// Run applies the pipeline to t: lift, exitsimpl, letsimpl, tmc, in that
// order. Each stage's error is wrapped with its own name.
func (p Pipeline) Run(ctx context.Context, t ir.Term) (_ ir.Term, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "rewrite: run")
	defer tr.Finish("err", &err)

	t, err = lift.Run(ctx, p.Cfg, p.Gen, p.Labels, p.Sink, t)
	if err != nil {
		return nil, errors.Wrap(err, "lift")
	}

	t, err = exitsimpl.Run(ctx, p.Cfg, p.Gen, p.Sink, t)
	if err != nil {
		return nil, errors.Wrap(err, "exitsimpl")
	}

	t, err = letsimpl.Run(ctx, p.Cfg, p.Gen, t)
	if err != nil {
		return nil, errors.Wrap(err, "letsimpl")
	}

	t, err = tmc.Run(ctx, p.Cfg, p.Gen, p.Sink, t)
	if err != nil {
		return nil, errors.Wrap(err, "tmc")
	}

	return t, nil
}
