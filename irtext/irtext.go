// Package irtext is a minimal textual reader for ir.Term fixtures, used only
// by _test.go files and by cmd/midrw's run subcommand. It is not a surface
// language: it mirrors the IR's own shape as a small Lisp-ish
// s-expression notation, one node kind per tag.
//
// Scans with skipSpaces/findChar-style byte-slice helpers rather than
// regexp or a generated lexer, generalized into a whole-buffer token
// scanner since an ir.Term fixture nests across lines.
package irtext

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/midrw/ir"
)

// Parse reads one ir.Term from text. gen mints the Ident values bound by
// `let`/`fun`/`catch` forms (there is no `letrec` form); an identifier
// already bound earlier in text resolves to the same Ident when referenced
// again by name.
func Parse(ctx context.Context, gen ir.IdentGen, text []byte) (ir.Term, error) {
	p := &parser{buf: text, idents: make(map[string]ir.Ident), gen: gen}
	p.skipSpaces()
	t, err := p.term()
	if err != nil {
		return nil, errors.Wrap(err, "irtext")
	}
	p.skipSpaces()
	if p.pos != len(p.buf) {
		return nil, errors.New("irtext: trailing input at byte %d", p.pos)
	}
	return t, nil
}

type parser struct {
	buf    []byte
	pos    int
	idents map[string]ir.Ident
	gen    ir.IdentGen
}

func (p *parser) ident(name string) ir.Ident {
	if id, ok := p.idents[name]; ok {
		return id
	}
	id := p.gen.Fresh(name)
	p.idents[name] = id
	return id
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.buf) {
		switch p.buf[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.buf) {
		return 0
	}
	return p.buf[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpaces()
	if p.peek() != c {
		return errors.New("irtext: expected %q at byte %d, got %q", c, p.pos, p.peek())
	}
	p.pos++
	return nil
}

// token reads a bare (unquoted, unparenthesized) token: an identifier,
// keyword or integer literal.
func (p *parser) token() string {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.buf) {
		switch p.buf[p.pos] {
		case ' ', '\t', '\n', '\r', '(', ')':
			return string(p.buf[start:p.pos])
		}
		p.pos++
	}
	return string(p.buf[start:p.pos])
}

// term parses one `(tag ...)` form.
func (p *parser) term() (ir.Term, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	tag := p.token()

	var t ir.Term

	switch tag {
	case "var":
		t = ir.Var{Name: p.ident(p.token())}

	case "const":
		t = ir.Const{Value: ir.IntLit(parseInt(p.token()))}

	case "let":
		kind := parseKind(p.token())
		id := p.ident(p.token())
		def, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "let def")
		}
		body, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "let body")
		}
		t = ir.Let{Kind: kind, Id: id, Def: def, Body: body}

	case "apply":
		fn, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "apply func")
		}
		args, e := p.restTerms()
		if e != nil {
			return nil, errors.Wrap(e, "apply args")
		}
		t = ir.Apply{Func: fn, Args: args}

	case "if":
		cond, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "if cond")
		}
		then, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "if then")
		}
		els, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "if else")
		}
		t = ir.Ifthenelse{Cond: cond, Then: then, Else: els}

	case "seq":
		left, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "seq left")
		}
		right, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "seq right")
		}
		t = ir.Sequence{Left: left, Right: right}

	case "prim":
		name := p.token()
		args, e := p.restTerms()
		if e != nil {
			return nil, errors.Wrap(e, "prim args")
		}
		t = ir.Prim{Op: ir.Named{Name: name}, Args: args}

	case "raise":
		label := parseInt(p.token())
		args, e := p.restTerms()
		if e != nil {
			return nil, errors.Wrap(e, "raise args")
		}
		t = ir.Staticraise{Label: ir.Label(label), Args: args}

	case "catch":
		label := parseInt(p.token())
		body, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "catch body")
		}
		params, e := p.params()
		if e != nil {
			return nil, errors.Wrap(e, "catch params")
		}
		handler, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "catch handler")
		}
		t = ir.Staticcatch{Body: body, Label: ir.Label(label), Params: params, Handler: handler}

	case "fun":
		params, e := p.params()
		if e != nil {
			return nil, errors.Wrap(e, "fun params")
		}
		body, e := p.term()
		if e != nil {
			return nil, errors.Wrap(e, "fun body")
		}
		t = ir.Function{Conv: ir.Curried, Params: params, Body: body}

	default:
		return nil, errors.New("irtext: unknown tag %q", tag)
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return t, nil
}

// restTerms reads zero or more terms up to (but not consuming) the closing
// ')' of the enclosing form — the variadic argument-list shape `apply`,
// `prim` and `raise` all share.
func (p *parser) restTerms() ([]ir.Term, error) {
	var out []ir.Term
	for {
		p.skipSpaces()
		if p.peek() == ')' {
			return out, nil
		}
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}

// params parses a parenthesized list of `(kind name)` pairs.
func (p *parser) params() ([]ir.Param, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out []ir.Param
	for {
		p.skipSpaces()
		if p.peek() == ')' {
			p.pos++
			return out, nil
		}
		if err := p.expect('('); err != nil {
			return nil, err
		}
		kind := parseValueKind(p.token())
		id := p.ident(p.token())
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		out = append(out, ir.Param{Id: id, Kind: kind})
	}
}

func parseInt(s string) int64 {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var n int64
	for _, c := range s {
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func parseKind(s string) ir.BindingKind {
	switch s {
	case "strict":
		return ir.Strict
	case "alias":
		return ir.Alias
	case "strictopt":
		return ir.StrictOpt
	case "variable":
		return ir.Variable
	default:
		return ir.Strict
	}
}

func parseValueKind(s string) ir.Kind {
	switch s {
	case "int":
		return ir.Intval{}
	case "float":
		return ir.Floatval{}
	default:
		return ir.Genval{}
	}
}
