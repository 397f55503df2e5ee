package diag

import (
	"context"

	"tlog.app/go/tlog"
)

// TlogSink is the default Sink outside tests: every warning and annotation
// is traced through the tlog span active on ctx via tr.Printw/tlog.Printw,
// instead of fmt.Println or a dedicated logger type.
type TlogSink struct {
	ctx context.Context
}

// NewTlogSink returns a Sink that writes to the tlog span on ctx.
func NewTlogSink(ctx context.Context) TlogSink {
	return TlogSink{ctx: ctx}
}

func (s TlogSink) Warn(w Warning) {
	tlog.SpanFromContext(s.ctx).Printw("warning", "kind", w.Kind.String(), "func", w.Func, "loc", w.Loc)
}

func (s TlogSink) Annotate(a Annotation) {
	tlog.SpanFromContext(s.ctx).Printw("tailcall annotation", "site", a.Site, "tail", a.Tail)
}
