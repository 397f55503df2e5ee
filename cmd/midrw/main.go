// Command midrw runs the mid-IR rewriting pipeline over a textual IR
// fixture and prints the result, mirroring slow's own cmd/slow: one
// top-level *cli.Command with subcommands, each Action taking its
// positional file arguments from c.Args.
package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/irfmt"
	"github.com/slowlang/midrw/irtext"
	"github.com/slowlang/midrw/rewrite"
)

func main() {
	runCmd := &cli.Command{
		Name:   "run",
		Action: runAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "midrw",
		Description: "midrw applies the mid-level IR rewriting pipeline to a textual IR fixture",
		Commands: []*cli.Command{
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// runAct reads each file argument as an irtext fixture, applies the
// default (native, optimizing) pipeline configuration, and prints the
// rewritten term. There is no per-invocation flag surface yet: the flags
// in config.Flags are a host-embedding concern, and this module carries no
// confirmed flag-parsing API to build one on top of (see DESIGN.md).
func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	gen := ir.NewCounter()
	labels := ir.NewLabels()
	sink := diag.NewTlogSink(ctx)

	pipeline := rewrite.Pipeline{
		Cfg:    config.Flags{NativeCode: true},
		Gen:    gen,
		Labels: labels,
		Sink:   sink,
	}

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		t, err := irtext.Parse(ctx, gen, text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		out, err := pipeline.Run(ctx, t)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		b, err := irfmt.Format(ctx, nil, out)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s\n", b)
	}

	return nil
}
