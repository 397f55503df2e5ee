// Package ireval is a small big-step interpreter for closed ir.Term values,
// used only from the four passes' _test.go files to check that a rewrite
// preserved observable semantics. It is the test double for the
// IR-construction/codegen collaborator this module never owns — never
// imported outside a _test.go file.
package ireval

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/midrw/ir"
)

// Value is anything an evaluated ir.Term reduces to: an int64, a string, a
// *Block (a heap-allocated, possibly mutable tuple), a closure for an
// evaluated Function, or whatever a Named primitive from the prims table
// returns.
type Value any

// Block is a heap-allocated tuple, the runtime counterpart of Makeblock.
type Block struct {
	Tag    int
	Fields []Value
}

// Env is the store the interpreter reads variables from and Assign writes
// mutable cells into.
type Env struct {
	vars   map[ir.Ident]Value
	prims  map[string]func([]Value) Value
	parent *Env
}

// NewEnv builds a root environment with the given primitive table (the
// caller supplies whatever Named primitives its fixtures exercise: "zero",
// "pred", "succ", arithmetic, and so on).
func NewEnv(prims map[string]func([]Value) Value) *Env {
	return &Env{vars: make(map[ir.Ident]Value), prims: prims}
}

func (e *Env) child() *Env {
	return &Env{vars: make(map[ir.Ident]Value), prims: e.prims, parent: e}
}

func (e *Env) get(id ir.Ident) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// set mutates the cell for id in the nearest enclosing frame that defines
// it, matching Assign's requirement that id name a Variable binding already
// in scope.
func (e *Env) set(id ir.Ident, v Value) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[id]; ok {
			s.vars[id] = v
			return
		}
	}
	panic(fmt.Sprintf("ireval: assign to unbound %v", id))
}

// raiseSignal and exnSignal are the payloads the interpreter's two panic/
// recover pairs carry, for Staticraise/Staticcatch and Trywith/an
// application-level exception respectively — both are non-local exits with
// no ordinary return, so encoding them as anything but a Go panic would
// mean threading an exit-kind sum type through every eval call.
type raiseSignal struct {
	label ir.Label
	args  []Value
}

// closure is the runtime representation of ir.Function.
type closure struct {
	params []ir.Param
	body   ir.Term
	env    *Env
}

// Eval evaluates a closed ir.Term to a Value. Function is represented at
// runtime as a *closure boxed in Value; callers that need to invoke one
// programmatically should build an Apply term instead.
func Eval(env *Env, t ir.Term) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(raiseSignal); ok {
				panic(r) // Staticraise escaping its Staticcatch: a genuine bug in the fixture.
			}
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New("ireval: %v", r)
		}
	}()
	return eval(env, t), nil
}

func eval(env *Env, t ir.Term) Value {
	switch x := t.(type) {
	case ir.Var:
		v, ok := env.get(x.Name)
		if !ok {
			panic(fmt.Sprintf("ireval: unbound variable %v", x.Name))
		}
		return v

	case ir.Const:
		switch l := x.Value.(type) {
		case ir.IntLit:
			return int64(l)
		case ir.StringLit:
			return string(l)
		default:
			panic(fmt.Sprintf("ireval: unsupported literal %T", l))
		}

	case ir.Function:
		return &closure{params: x.Params, body: x.Body, env: env}

	case ir.Apply:
		fn := eval(env, x.Func)
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			args[i] = eval(env, a)
		}
		return apply(fn, args)

	case ir.Let:
		v := eval(env, x.Def)
		next := env.child()
		next.vars[x.Id] = v
		return eval(next, x.Body)

	case ir.Letrec:
		next := env.child()
		for _, b := range x.Bindings {
			next.vars[b.Id] = eval(next, b.Value)
		}
		return eval(next, x.Body)

	case ir.Prim:
		return evalPrim(env, x)

	case ir.Ifthenelse:
		if truthy(eval(env, x.Cond)) {
			return eval(env, x.Then)
		}
		return eval(env, x.Else)

	case ir.Sequence:
		eval(env, x.Left)
		return eval(env, x.Right)

	case ir.While:
		for truthy(eval(env, x.Cond)) {
			eval(env, x.Body)
		}
		return int64(0)

	case ir.For:
		lo, hi := eval(env, x.Low).(int64), eval(env, x.High).(int64)
		next := env.child()
		step := int64(1)
		if x.Dir == ir.Downto {
			step = -1
		}
		for i := lo; (x.Dir == ir.Upto && i <= hi) || (x.Dir == ir.Downto && i >= hi); i += step {
			next.vars[x.Var] = i
			eval(next, x.Body)
		}
		return int64(0)

	case ir.Assign:
		env.set(x.Var, eval(env, x.Value))
		return int64(0)

	case ir.Switch:
		return evalSwitch(env, x)

	case ir.Stringswitch:
		return evalStringswitch(env, x)

	case ir.Staticcatch:
		return evalCatch(env, x)

	case ir.Staticraise:
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			args[i] = eval(env, a)
		}
		panic(raiseSignal{label: x.Label, args: args})

	case ir.Trywith:
		return evalTrywith(env, x)

	case ir.Event:
		return eval(env, x.Sub)

	case ir.Ifused:
		return eval(env, x.Sub)

	default:
		panic(fmt.Sprintf("ireval: unsupported node %T", t))
	}
}

func apply(fn Value, args []Value) Value {
	c, ok := fn.(*closure)
	if !ok {
		panic(fmt.Sprintf("ireval: apply of non-function %T", fn))
	}
	if len(c.params) != len(args) {
		panic("ireval: arity mismatch")
	}
	next := c.env.child()
	for i, p := range c.params {
		next.vars[p.Id] = args[i]
	}
	return eval(next, c.body)
}

func evalPrim(env *Env, x ir.Prim) Value {
	switch op := x.Op.(type) {
	case ir.Makeblock:
		fields := make([]Value, len(x.Args))
		for i, a := range x.Args {
			fields[i] = eval(env, a)
		}
		return &Block{Tag: op.Tag, Fields: fields}

	case ir.Field:
		blk := eval(env, x.Args[0]).(*Block)
		return blk.Fields[op.Index]

	case ir.Setfield:
		blk := eval(env, x.Args[0]).(*Block)
		blk.Fields[op.Index] = eval(env, x.Args[1])
		return int64(0)

	case ir.SetfieldComputed:
		blk := eval(env, x.Args[0]).(*Block)
		idx := eval(env, x.Args[1]).(int64)
		blk.Fields[idx] = eval(env, x.Args[2])
		return int64(0)

	case ir.Offsetref:
		blk := eval(env, x.Args[0]).(*Block)
		blk.Fields[0] = blk.Fields[0].(int64) + int64(op.Delta)
		return int64(0)

	case ir.Offsetint:
		return eval(env, x.Args[0]).(int64) + int64(op.Delta)

	case ir.Revapply:
		v := eval(env, x.Args[0])
		fn := eval(env, x.Args[1])
		return apply(fn, []Value{v})

	case ir.Dirapply:
		fn := eval(env, x.Args[0])
		v := eval(env, x.Args[1])
		return apply(fn, []Value{v})

	case ir.Identity:
		return eval(env, x.Args[0])

	case ir.BytesToString, ir.BytesOfString:
		return eval(env, x.Args[0])

	case ir.ObjWithTag:
		return eval(env, x.Args[1])

	case ir.Named:
		fn, ok := env.prims[op.Name]
		if !ok {
			panic(fmt.Sprintf("ireval: unknown primitive %q", op.Name))
		}
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			args[i] = eval(env, a)
		}
		return fn(args)

	default:
		panic(fmt.Sprintf("ireval: unsupported prim %T", op))
	}
}

func evalSwitch(env *Env, x ir.Switch) Value {
	tag := eval(env, x.Scrutinee)
	switch v := tag.(type) {
	case int64:
		for _, a := range x.Consts {
			if int64(a.Tag) == v {
				return eval(env, a.Body)
			}
		}
	case *Block:
		for _, a := range x.Blocks {
			if a.Tag == v.Tag {
				return eval(env, a.Body)
			}
		}
	}
	if x.Default != nil {
		return eval(env, x.Default)
	}
	panic("ireval: switch with no matching arm and no default")
}

func evalStringswitch(env *Env, x ir.Stringswitch) Value {
	s := eval(env, x.Scrutinee).(string)
	for _, c := range x.Cases {
		if c.Value == s {
			return eval(env, c.Body)
		}
	}
	if x.Default != nil {
		return eval(env, x.Default)
	}
	panic("ireval: stringswitch with no matching arm and no default")
}

func evalCatch(env *Env, x ir.Staticcatch) (result Value) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		sig, ok := r.(raiseSignal)
		if !ok || sig.label != x.Label {
			panic(r)
		}
		next := env.child()
		for i, p := range x.Params {
			next.vars[p.Id] = sig.args[i]
		}
		result = eval(next, x.Handler)
	}()
	return eval(env, x.Body)
}

func evalTrywith(env *Env, x ir.Trywith) (result Value) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(raiseSignal); ok {
			panic(r) // a static exception unwinds past Trywith untouched.
		}
		exn, ok := r.(exnSignal)
		if !ok {
			panic(r)
		}
		next := env.child()
		next.vars[x.ExnVar] = exn.value
		result = eval(next, x.Handler)
	}()
	return eval(env, x.Body)
}

// exnSignal is the payload of a dynamic exception, raised by the "raise"
// primitive a fixture's prims table can install to drive Trywith tests.
type exnSignal struct {
	value Value
}

// Raise panics with a dynamic exception value, for use inside a prims
// table entry a test wires up to a Named primitive like "raise".
func Raise(v Value) {
	panic(exnSignal{value: v})
}

func truthy(v Value) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case *Block:
		return true
	default:
		return v != nil
	}
}
