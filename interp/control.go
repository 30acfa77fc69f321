// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package interp

import (
	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/value"
)

// evalLet allocates a fresh heap slot bound to n.Name, evaluates Body
// with it in scope, then restores the outer env - the heap address
// itself survives, since there is no in-run garbage collector (spec
// §4.8 "Let... allocates a fresh address... then restores env; the
// heap address survives").
func (it *Interpreter) evalLet(c execctx.Ctx[value.Val], n ir.Let) []State {
	initVal := value.None()
	cur := c
	if n.Init != nil {
		results := it.EvalExpr(c, n.Init)
		var out []State
		for _, r := range results {
			out = append(out, it.evalLetBody(r.Ctx, n, r.Val)...)
		}
		return out
	}
	return it.evalLetBody(cur, n, initVal)
}

func (it *Interpreter) evalLetBody(c execctx.Ctx[value.Val], n ir.Let, initVal value.Val) []State {
	if !c.Active() {
		return []State{{Ctx: c}}
	}
	addr, heap := c.Heap.AllocWith(initVal)
	outerEnv := c.Env
	inner := c.WithEnv(c.Env.Set(n.Name, addr)).WithHeap(heap)
	bodyStates := it.EvalStmt(inner, n.Body)
	out := make([]State, len(bodyStates))
	for i, s := range bodyStates {
		out[i] = State{Ctx: s.Ctx.WithEnv(outerEnv), Signal: s.Signal}
	}
	return out
}

// evalFunDef allocates a Func value capturing the current env, binds
// Name, then evaluates Scope (spec §4.8).
func (it *Interpreter) evalFunDef(c execctx.Ctx[value.Val], n ir.FunDef) []State {
	fn := value.NewFunc(n.Name, n.Params, n.Body, c.Env)
	if n.Varargs != "" {
		fn = fn.WithVarargs(n.Varargs)
	}
	if n.Kwargs != "" {
		fn = fn.WithKwargs(n.Kwargs)
	}
	cur := c
	for param, dflt := range n.Defaults {
		results := it.EvalExpr(cur, dflt)
		if len(results) != 1 {
			// a symbolic-branching default is unusual; take the first
			// path's value and keep its Ctx, matching the common case
			// of a constant default.
		}
		if len(results) > 0 {
			cur = results[0].Ctx
			fn = fn.WithDefault(param, results[0].Val)
		}
	}
	addr, heap := cur.Heap.AllocWith(value.FromFunc(fn))
	next := cur.WithEnv(cur.Env.Set(n.Name, addr)).WithHeap(heap)
	return it.EvalStmt(next, n.Scope)
}

// evalIf splits via ifThenElse and runs each branch independently
// (spec §4.8).
func (it *Interpreter) evalIf(c execctx.Ctx[value.Val], n ir.If) []State {
	results := it.EvalExpr(c, n.Cond)
	var out []State
	for _, r := range results {
		out = append(out, it.branchOn(r.Ctx, r.Val, n)...)
	}
	return out
}

func (it *Interpreter) branchOn(c execctx.Ctx[value.Val], cond value.Val, n ir.If) []State {
	if !c.Active() {
		return []State{{Ctx: c}}
	}
	decided, ctr, ok := execctx.IsTruthy(cond, c.Heap)
	if !ok {
		return []State{{Ctx: c.WarnWithMsg("condition could not be evaluated", n.Src())}}
	}
	if ctr == nil {
		if decided {
			return it.EvalStmt(c, n.Then)
		}
		if n.Else != nil {
			return it.EvalStmt(c, n.Else)
		}
		return states(c)
	}
	thenCtx := c.Require([]constraint.Ctr{*ctr}, "", n.Src())
	negated := ctr.Negate()
	elseCtx := c.Require([]constraint.Ctr{negated}, "", n.Src())
	var out []State
	if thenCtx.Active() {
		out = append(out, it.EvalStmt(thenCtx, n.Then)...)
	}
	if elseCtx.Active() {
		if n.Else != nil {
			out = append(out, it.EvalStmt(elseCtx, n.Else)...)
		} else {
			out = append(out, State{Ctx: elseCtx})
		}
	}
	if len(out) == 0 {
		// both sides were immediately decided false, which can't
		// actually happen (cond xor !cond is a tautology), but guard
		// against a solver regression turning this into a dead path.
		out = append(out, State{Ctx: c.FailWithMsg("if-condition had no feasible branch", n.Src())})
	}
	return out
}

// evalForIn implements spec §4.8 ForIn: the length of an Object
// iterable is its element count, and the loop unrolls once per element,
// up to UnrollBound iterations. A non-Object iterable warns. Because
// iterableLength reports a length for every Object, no split between
// "loop terminated" and "loop continues" is made.
func (it *Interpreter) evalForIn(c execctx.Ctx[value.Val], n ir.ForIn) []State {
	results := it.EvalExpr(c, n.Iter)
	var out []State
	for _, r := range results {
		out = append(out, it.unroll(r.Ctx, n, r.Val, 0)...)
	}
	return out
}

func (it *Interpreter) unroll(c execctx.Ctx[value.Val], n ir.ForIn, iter value.Val, depth int) []State {
	if !c.Active() || depth >= it.UnrollBound {
		return []State{{Ctx: c}}
	}
	length, lok := iterableLength(c, iter)
	if lok && int64(depth) >= length {
		return []State{{Ctx: c}}
	}
	elem, eok := iterableElem(c, iter, int64(depth))
	if !eok {
		return []State{{Ctx: c.WarnWithMsg("for-loop element could not be resolved", n.Src())}}
	}
	addr, heap := c.Heap.AllocWith(elem)
	bodyEnv := c.Env.Set(n.Iden, addr)
	bodyStates := it.EvalStmt(c.WithEnv(bodyEnv).WithHeap(heap), n.Body)

	var out []State
	for _, s := range bodyStates {
		restored := s.Ctx.WithEnv(c.Env)
		switch s.Signal {
		case SigBreak:
			out = append(out, State{Ctx: restored})
		case SigReturn:
			out = append(out, s)
		case SigContinue, SigNone:
			if !lok {
				// symbolic-length iterable: split "loop continues" vs.
				// "loop terminated here" at every step (spec §4.8).
				out = append(out, State{Ctx: restored})
			}
			out = append(out, it.unroll(restored, n, iter, depth+1)...)
		}
	}
	return out
}
