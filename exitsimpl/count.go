package exitsimpl

import "github.com/slowlang/midrw/ir"

// count is Phase A: a single pass over t recording, for every static-
// exception label, how many times it is raised and the deepest dynamic-try
// nesting any of those raises sits under. depth is the number of enclosing
// Trywith bodies at the current position; it resets to 0 across a Function
// boundary, since Staticraise/Staticcatch never cross one.
func (p *pass) count(t ir.Term, depth int) {
	switch x := t.(type) {
	case ir.Staticraise:
		c := p.counts[x.Label]
		c.Count++
		if depth > c.MaxTryDepth {
			c.MaxTryDepth = depth
		}
		p.counts[x.Label] = c

		for _, a := range x.Args {
			p.count(a, depth)
		}

	case ir.Staticcatch:
		p.count(x.Body, depth)

		if target, ok := isAliasShape(x); ok {
			c := p.counts[x.Label]
			fwd := p.counts[target]
			fwd.Count += c.Count
			if c.MaxTryDepth > fwd.MaxTryDepth {
				fwd.MaxTryDepth = c.MaxTryDepth
			}
			p.counts[target] = fwd
			break
		}

		p.count(x.Handler, depth)

	case ir.Trywith:
		p.count(x.Body, depth+1)
		p.count(x.Handler, depth)

	case ir.Function:
		p.count(x.Body, 0)

	case ir.Switch:
		p.count(x.Scrutinee, depth)

		for _, a := range x.Consts {
			p.count(a.Body, depth)
		}
		for _, a := range x.Blocks {
			p.count(a.Body, depth)
		}

		if x.Default != nil {
			p.count(x.Default, depth)

			// A Default arm stands in for every unlisted const tag AND every
			// unlisted block tag at once: when both families are partial, the
			// backend duplicates it onto two distinct code paths, so anything
			// it raises is reachable twice.
			if len(x.Consts) < x.NumConsts && len(x.Blocks) < x.NumBlocks {
				p.count(x.Default, depth)
			}
		}

	default:
		for _, c := range ir.Children(t) {
			p.count(c, depth)
		}
	}
}
