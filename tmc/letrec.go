package tmc

import (
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
)

// processLetrec expands every TMC-candidate binding of x into a pair of
// bindings: the original identifier now holds the ordinary ("direct")
// function, and a fresh identifier holds its destination-passing companion.
// Non-candidate bindings pass through unchanged.
func (p *pass) processLetrec(x ir.Letrec) (ir.Term, error) {
	var candidateIDs []ir.Ident
	for _, b := range x.Bindings {
		fn, ok := b.Value.(ir.Function)
		if !ok || !isCandidate(p.cfg, fn.Attrs) {
			continue
		}
		candidateIDs = append(candidateIDs, b.Id)
	}
	if len(candidateIDs) == 0 {
		return x, nil
	}

	for _, id := range candidateIDs {
		fn := mustFunction(x, id)
		p.spec[id] = specialized{dpsID: p.gen.Fresh("dps"), arity: len(fn.Params)}
	}

	newBindings := make([]ir.LetrecBinding, 0, len(x.Bindings)+len(candidateIDs))
	for _, b := range x.Bindings {
		fn, ok := b.Value.(ir.Function)
		sp, isCand := p.spec[b.Id]
		if !ok || !isCand {
			newBindings = append(newBindings, b)
			continue
		}

		directChoice := p.analyze(fn.Body)
		if !directChoice.HasTMCCalls {
			p.sink.Warn(diag.Warning{Kind: diag.UnusedTMCAttribute, Loc: fn.Loc})
		}

		direct := fn
		direct.Body = directChoice.Direct()
		newBindings = append(newBindings, ir.LetrecBinding{Id: b.Id, Value: direct})

		dstVar := p.gen.Fresh("dst")
		offID := p.gen.Fresh("off")
		dpsParams := make([]ir.Param, 0, len(fn.Params)+2)
		dpsParams = append(dpsParams, ir.Param{Id: dstVar, Kind: ir.Genval{}}, ir.Param{Id: offID, Kind: ir.Intval{}})
		dpsParams = append(dpsParams, fn.Params...)

		dpsBody := duplicate(p.gen, fn.Body)
		dpsChoice := p.analyze(dpsBody)
		dpsFn := ir.Function{
			Conv:   fn.Conv,
			Params: dpsParams,
			Return: fn.Return,
			Body:   dpsChoice.DPS(true, Dest{Var: dstVar, Offset: ir.Var{Name: offID}}),
			Attrs:  fn.Attrs,
			Loc:    fn.Loc,
		}
		newBindings = append(newBindings, ir.LetrecBinding{Id: sp.dpsID, Value: dpsFn})
	}

	x.Bindings = newBindings
	return x, nil
}

func mustFunction(x ir.Letrec, id ir.Ident) ir.Function {
	for _, b := range x.Bindings {
		if b.Id == id {
			return b.Value.(ir.Function)
		}
	}
	panic("tmc: candidate identifier not found in its own letrec")
}
