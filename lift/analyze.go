package lift

import "github.com/slowlang/midrw/ir"

// tail walks t, which sits in tail position of scope. nonTail walks a
// subterm that is never in tail position of its parent, which installs the
// subterm itself as a fresh scope.
func (p *pass) nonTail(t ir.Term) {
	p.tail(t, p.freshScope())
}

func (p *pass) tail(t ir.Term, scope int) {
	switch x := t.(type) {
	case ir.Let:
		if fn, ok := x.Def.(ir.Function); ok && eligible(fn.Attrs) {
			p.candidates[x.Id] = &candidate{id: x.Id, fn: fn, bindScope: scope}
			p.order = append(p.order, x.Id)
			// The candidate's own body is a fresh tail scope, same as any
			// other function literal's body — a reference to a sibling
			// candidate in here must still be seen by the escape check.
			p.tail(fn.Body, p.freshScope())
			p.tail(x.Body, scope)
			return
		}
		p.nonTail(x.Def)
		p.tail(x.Body, scope)

	case ir.Letrec:
		for _, b := range x.Bindings {
			p.nonTail(b.Value)
		}
		p.tail(x.Body, scope)

	case ir.Apply:
		if v, ok := x.Func.(ir.Var); ok {
			if c, ok := p.candidates[v.Name]; ok {
				p.applyCandidate(c, x, scope)
				for _, a := range x.Args {
					p.nonTail(a)
				}
				return
			}
		}
		p.nonTail(x.Func)
		for _, a := range x.Args {
			p.nonTail(a)
		}

	case ir.Var:
		// Any bare reference to a candidate's identifier, outside a fully
		// applied call, is an escape.
		if c, ok := p.candidates[x.Name]; ok {
			c.invalid = true
		}

	case ir.Ifthenelse:
		p.nonTail(x.Cond)
		p.tail(x.Then, scope)
		p.tail(x.Else, scope)

	case ir.Sequence:
		p.nonTail(x.Left)
		p.tail(x.Right, scope)

	case ir.Switch:
		p.nonTail(x.Scrutinee)
		for _, a := range x.Consts {
			p.tail(a.Body, scope)
		}
		for _, a := range x.Blocks {
			p.tail(a.Body, scope)
		}
		if x.Default != nil {
			p.tail(x.Default, scope)
		}

	case ir.Stringswitch:
		p.nonTail(x.Scrutinee)
		for _, c := range x.Cases {
			p.tail(c.Body, scope)
		}
		if x.Default != nil {
			p.tail(x.Default, scope)
		}

	case ir.Staticcatch:
		p.tail(x.Body, scope)
		p.tail(x.Handler, scope)

	case ir.Trywith:
		// A body under a dynamic handler can unwind past any ordinary
		// return point, so it is not treated as tail; the handler resumes
		// normal control flow and keeps the outer scope.
		p.nonTail(x.Body)
		p.tail(x.Handler, scope)

	case ir.Function:
		p.tail(x.Body, p.freshScope())

	case ir.While:
		p.nonTail(x.Cond)
		p.nonTail(x.Body)

	case ir.For:
		p.nonTail(x.Low)
		p.nonTail(x.High)
		p.nonTail(x.Body)

	case ir.Event:
		p.tail(x.Sub, scope)

	case ir.Ifused:
		p.tail(x.Sub, scope)

	default:
		for _, c := range ir.Children(t) {
			p.nonTail(c)
		}
	}
}

func (p *pass) applyCandidate(c *candidate, x ir.Apply, scope int) {
	switch {
	case len(x.Args) != len(c.fn.Params):
		c.invalid = true
	case c.hasScope && c.scope != scope:
		c.invalid = true
	default:
		c.scope, c.hasScope = scope, true
	}
}
