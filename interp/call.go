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

// evalCall implements spec §4.8 Call: evaluate callee and args, bind
// parameters (positional + varargs + kwargs + defaults), then for Func
// values push a call frame and interpret the body; for classes
// (Objects with __call__) invoke __new__ then __init__.
func (it *Interpreter) evalCall(c execctx.Ctx[value.Val], n ir.Call) []ExprResult {
	var out []ExprResult
	for _, cr := range it.EvalExpr(c, n.Callee) {
		if !cr.Ctx.Active() {
			out = append(out, cr)
			continue
		}
		cur := cr.Ctx
		args := make([]value.Val, 0, len(n.Args))
		ok := true
		for _, a := range n.Args {
			evs := it.EvalExpr(cur, a)
			if len(evs) == 0 || !evs[0].Ctx.Active() {
				if len(evs) > 0 {
					out = append(out, evs[0])
				}
				ok = false
				break
			}
			cur = evs[0].Ctx
			args = append(args, evs[0].Val)
		}
		if !ok {
			continue
		}
		kwargs := make(map[string]value.Val, len(n.Kwargs))
		for name, e := range n.Kwargs {
			evs := it.EvalExpr(cur, e)
			if len(evs) == 0 || !evs[0].Ctx.Active() {
				ok = false
				break
			}
			cur = evs[0].Ctx
			kwargs[name] = evs[0].Val
		}
		if !ok {
			continue
		}
		out = append(out, it.callValue(cur, cr.Val, args, kwargs, n.Src())...)
	}
	return out
}

func (it *Interpreter) callValue(c execctx.Ctx[value.Val], callee value.Val, args []value.Val, kwargs map[string]value.Val, src *constraint.Source) []ExprResult {
	switch callee.Tag {
	case value.TagFunc:
		return it.applyFunc(c, callee.Fn, args, kwargs, src)
	case value.TagObject:
		return it.instantiate(c, callee.Obj, args, kwargs, src)
	}
	if obj := objectOf(c, callee); obj != nil {
		if ctor, ok := obj.Attr("__call__"); ok && ctor.Tag == value.TagFunc {
			return it.applyFunc(c, ctor.Fn.Bind(callee), args, kwargs, src)
		}
	}
	r := warn(c, "value is not callable", src)
	return []ExprResult{r}
}

// instantiate implements the class-call path: __new__ followed by
// __init__ (spec §4.8 "for classes (Objects with __call__), invokes
// their __new__ followed by __init__").
func (it *Interpreter) instantiate(c execctx.Ctx[value.Val], class *value.Object, args []value.Val, kwargs map[string]value.Val, src *constraint.Source) []ExprResult {
	newFn, hasNew := class.Attr("__new__")
	var cur = c
	var self value.Val
	if hasNew && newFn.Tag == value.TagFunc {
		results := it.applyFunc(cur, newFn.Fn, args, kwargs, src)
		if len(results) == 0 {
			return nil
		}
		cur = results[0].Ctx
		self = results[0].Val
	} else {
		addr, heap := cur.Heap.AllocWith(value.FromObject(value.NewObject().WithAttr("__mro__", value.FromObject(value.NewObject().WithElem(0, value.FromObject(class))))))
		cur = cur.WithHeap(heap)
		self = value.FromAddr(addr)
	}
	if initFn, _, ok := lookupMRO(cur, self, "__init__"); ok && initFn.Tag == value.TagFunc {
		results := it.applyFunc(cur, initFn.Fn.Bind(self), args, kwargs, src)
		if len(results) == 0 {
			return nil
		}
		out := make([]ExprResult, len(results))
		for i, r := range results {
			out[i] = ExprResult{Ctx: r.Ctx, Val: self}
		}
		return out
	}
	return []ExprResult{{Ctx: cur, Val: self}}
}

// applyFunc binds positional + varargs + kwargs + defaults, pushes a
// call frame derived from the Func's captured env, interprets the
// body, and unwraps the resulting Return signal into an ordinary
// expression result (spec §4.8 Call, Func).
func (it *Interpreter) applyFunc(c execctx.Ctx[value.Val], fn *value.Func, args []value.Val, kwargs map[string]value.Val, src *constraint.Source) []ExprResult {
	env := fn.Captured
	params := fn.Params
	argIdx := 0
	heap := c.Heap
	if fn.Bound {
		if len(params) == 0 {
			return []ExprResult{warn(c, "bound function has no receiver parameter", src)}
		}
		var selfAddr value.Addr
		selfAddr, heap = heap.AllocWith(fn.Self)
		env = env.Set(params[0], selfAddr)
		params = params[1:]
	}
	for _, p := range params {
		var v value.Val
		switch {
		case argIdx < len(args):
			v = args[argIdx]
			argIdx++
		case kwargs != nil:
			if kv, ok := kwargs[p]; ok {
				v = kv
			} else if dv, ok := fn.Defaults[p]; ok {
				v = dv
			} else {
				v = value.None()
			}
		default:
			if dv, ok := fn.Defaults[p]; ok {
				v = dv
			} else {
				v = value.None()
			}
		}
		var addr value.Addr
		addr, heap = heap.AllocWith(v)
		env = env.Set(p, addr)
	}
	if fn.Varargs != "" {
		rest := value.NewObject()
		for i := argIdx; i < len(args); i++ {
			rest = rest.WithElem(int64(i-argIdx), args[i])
		}
		var addr value.Addr
		addr, heap = heap.AllocWith(value.FromObject(rest))
		env = env.Set(fn.Varargs, addr)
	}
	if fn.Kwargs != "" {
		rest := value.NewObject()
		for k, v := range kwargs {
			rest = rest.WithKey(k, v)
		}
		var addr value.Addr
		addr, heap = heap.AllocWith(value.FromObject(rest))
		env = env.Set(fn.Kwargs, addr)
	}

	callCtx := c.WithEnv(env).WithHeap(heap).PushFrame(execctx.Frame{FuncName: fn.Name, Source: src})
	body, _ := fn.Body.(ir.Stmt)
	if body == nil {
		return []ExprResult{{Ctx: callCtx.PopFrame().WithEnv(c.Env), Val: value.None()}}
	}
	states := it.EvalStmt(callCtx, body)
	out := make([]ExprResult, len(states))
	for i, s := range states {
		ret := value.None()
		if s.Signal == SigReturn {
			ret = s.Ctx.Ret
		}
		restored := s.Ctx.PopFrame().WithEnv(c.Env)
		out[i] = ExprResult{Ctx: restored, Val: ret}
	}
	return out
}

// evalLibCall dispatches via the registry (spec §4.8 LibCall).
func (it *Interpreter) evalLibCall(c execctx.Ctx[value.Val], n ir.LibCall) []ExprResult {
	cur := c
	params := make([]value.Val, 0, len(n.Params))
	for _, p := range n.Params {
		evs := it.EvalExpr(cur, p)
		if len(evs) == 0 {
			return []ExprResult{warn(c, "library call parameter produced no result", n.Src())}
		}
		cur = evs[0].Ctx
		params = append(params, evs[0].Val)
	}
	if it.Libs == nil {
		return []ExprResult{warn(cur, "no library-call registry configured", n.Src())}
	}
	set := it.Libs.Dispatch(n.Kind, cur, params, n.Src())
	out := make([]ExprResult, len(set.Paths))
	for i, p := range set.Paths {
		out[i] = ExprResult{Ctx: p, Val: p.Ret}
	}
	return out
}
