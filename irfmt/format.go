// Package irfmt pretty-prints ir.Term: a recursive, indentation-tracking
// style built on byte-buffer building via hfmt.Appendf instead of
// fmt.Sprintf plus string concatenation, one function per node-kind group,
// a depth counter threaded explicitly rather than carried on a receiver.
package irfmt

import (
	"context"

	"tlog.app/go/errors"
	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/midrw/ir"
)

// Format appends a human-readable rendering of t to b and returns the
// extended buffer, the same (ctx, b, x) → ([]byte, error) shape as
// format.Format.
func Format(ctx context.Context, b []byte, t ir.Term) ([]byte, error) {
	return format(ctx, b, t, 0)
}

func format(ctx context.Context, b []byte, t ir.Term, d int) (_ []byte, err error) {
	switch x := t.(type) {
	case ir.Var:
		return hfmt.Appendf(b, "v%d", int(x.Name)), nil

	case ir.Const:
		return formatLiteral(b, x.Value), nil

	case ir.Apply:
		b, err = format(ctx, b, x.Func, d)
		if err != nil {
			return nil, errors.Wrap(err, "func")
		}
		b = append(b, "("...)
		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}
			b, err = format(ctx, b, a, d)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}
		b = append(b, ")"...)
		if x.Tail {
			b = append(b, " [tail]"...)
		}
		return b, nil

	case ir.Function:
		b = app(b, 0, "fun (")
		for i, p := range x.Params {
			if i != 0 {
				b = append(b, ", "...)
			}
			b = hfmt.Appendf(b, "v%d", int(p.Id))
		}
		b = append(b, ") {\n"...)
		b, err = format(ctx, b, x.Body, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}
		b = append(b, '\n')
		b = app(b, d, "}")
		return b, nil

	case ir.Let:
		b = app(b, d, "let %s v%d = ", x.Kind.String(), int(x.Id))
		b, err = format(ctx, b, x.Def, d)
		if err != nil {
			return nil, errors.Wrap(err, "def")
		}
		b = append(b, " in\n"...)
		return format(ctx, b, x.Body, d)

	case ir.Letrec:
		b = app(b, d, "letrec\n")
		for _, bd := range x.Bindings {
			b = app(b, d+1, "v%d = ", int(bd.Id))
			b, err = format(ctx, b, bd.Value, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "binding v%d", int(bd.Id))
			}
			b = append(b, '\n')
		}
		b = app(b, d, "in\n")
		return format(ctx, b, x.Body, d)

	case ir.Prim:
		b = hfmt.Appendf(b, "%T(", x.Op)
		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}
			b, err = format(ctx, b, a, d)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}
		b = append(b, ")"...)
		return b, nil

	case ir.Ifthenelse:
		b = app(b, d, "if ")
		b, err = format(ctx, b, x.Cond, d)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}
		b = append(b, " then\n"...)
		b, err = format(ctx, b, x.Then, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "then")
		}
		b = append(b, '\n')
		b = app(b, d, "else\n")
		b, err = format(ctx, b, x.Else, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "else")
		}
		return b, nil

	case ir.Sequence:
		b, err = format(ctx, b, x.Left, d)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}
		b = append(b, ";\n"...)
		b = app(b, d, "")
		return format(ctx, b, x.Right, d)

	case ir.Staticraise:
		b = hfmt.Appendf(b, "raise L%d(", int(x.Label))
		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}
			b, err = format(ctx, b, a, d)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}
		b = append(b, ")"...)
		return b, nil

	case ir.Staticcatch:
		b, err = format(ctx, b, x.Body, d)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}
		b = append(b, '\n')
		b = hfmt.Appendf(b, "catch L%d(", int(x.Label))
		for i, p := range x.Params {
			if i != 0 {
				b = append(b, ", "...)
			}
			b = hfmt.Appendf(b, "v%d", int(p.Id))
		}
		b = append(b, ") ->\n"...)
		return format(ctx, b, x.Handler, d+1)

	default:
		// Every other node (Switch, Stringswitch, Trywith, While, For,
		// Assign, Send, Event, Ifused): render the tag and recurse into its
		// children generically rather than carry yet another near-identical case.
		b = hfmt.Appendf(b, "%T[", t)
		for i, c := range ir.Children(t) {
			if i != 0 {
				b = append(b, ", "...)
			}
			b, err = format(ctx, b, c, d)
			if err != nil {
				return nil, errors.Wrap(err, "child %d", i)
			}
		}
		b = append(b, "]"...)
		return b, nil
	}
}

func formatLiteral(b []byte, l ir.Literal) []byte {
	switch x := l.(type) {
	case ir.IntLit:
		return hfmt.Appendf(b, "%d", int64(x))
	case ir.StringLit:
		return hfmt.Appendf(b, "%q", string(x))
	case ir.BlockLit:
		b = hfmt.Appendf(b, "<%d>(", x.Tag)
		for i, f := range x.Fields {
			if i != 0 {
				b = append(b, ", "...)
			}
			b = formatLiteral(b, f)
		}
		return append(b, ")"...)
	default:
		return hfmt.Appendf(b, "%v", l)
	}
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	if f == "" {
		return b
	}
	return hfmt.Appendf(b, f, args...)
}
