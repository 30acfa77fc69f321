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
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

// EvalExpr evaluates e, returning every resulting (Ctx, Val) pair. Most
// expressions produce exactly one result; Call can fork (a called
// function's body may split on a conditional) and so can any
// expression containing one.
func (it *Interpreter) EvalExpr(c execctx.Ctx[value.Val], e ir.Expr) []ExprResult {
	if !c.Active() {
		return []ExprResult{{Ctx: c, Val: value.None()}}
	}
	switch n := e.(type) {
	case ir.Const:
		return []ExprResult{{Ctx: c, Val: evalConst(n)}}
	case ir.Name:
		return []ExprResult{it.evalName(c, n)}
	case ir.ObjectLit:
		addr, heap := c.Heap.AllocWith(value.FromObject(value.NewObject()))
		return []ExprResult{{Ctx: c.WithHeap(heap), Val: value.FromAddr(addr)}}
	case ir.Tuple:
		return it.evalList(c, n.Elems)
	case ir.List:
		return it.evalList(c, n.Elems)
	case ir.Attr:
		return it.evalAttr(c, n)
	case ir.Subscr:
		return it.evalSubscr(c, n)
	case ir.BinOp:
		return it.evalBinOp(c, n)
	case ir.UnaryOp:
		return it.evalUnaryOp(c, n)
	case ir.Call:
		return it.evalCall(c, n)
	case ir.LibCall:
		return it.evalLibCall(c, n)
	}
	r := warn(c, "unrecognized expression node", e.Src())
	return []ExprResult{r}
}

func evalConst(n ir.Const) value.Val {
	switch n.Kind {
	case ir.ConstNone:
		return value.None()
	case ir.ConstNotImpl:
		return value.NotImpl()
	case ir.ConstBool:
		return value.Bool(symbolic.BoolConst(n.Bool))
	case ir.ConstInt:
		return value.Int(symbolic.Int(n.Int))
	case ir.ConstFloat:
		return value.Float(symbolic.Float(n.Flt))
	case ir.ConstString:
		return value.Str(symbolic.StrConst(n.Str))
	}
	return value.None()
}

// evalName resolves env lookup -> addr, then fetches to a concrete
// value (spec §4.8 "Name: env lookup -> addr; fetch to produce a
// value").
func (it *Interpreter) evalName(c execctx.Ctx[value.Val], n ir.Name) ExprResult {
	addr, ok := c.Env.Get(n.Ident)
	if !ok {
		return warn(c, "undefined name: "+n.Ident, n.Src())
	}
	v, ok := value.Fetch(value.FromAddr(addr), c.Heap)
	if !ok {
		return warn(c, "dangling reference for name: "+n.Ident, n.Src())
	}
	return ExprResult{Ctx: c, Val: v}
}

// evalList evaluates each element left-to-right against a single
// threaded Ctx (element expressions are assumed not to themselves
// fork; a forking element would need a full cartesian-product
// FlatMap, which no construct in ir actually needs since only If/
// ForIn/Call split paths and those always appear as whole statements
// or as a Call's own result, handled in evalCall) and allocates a
// fresh indexed Object (spec §4.8 "Tuple / List... alloc an Object
// with integer indices").
func (it *Interpreter) evalList(c execctx.Ctx[value.Val], elems []ir.Expr) []ExprResult {
	cur := c
	allValues := make([]value.Val, 0, len(elems))
	for _, el := range elems {
		evs := it.EvalExpr(cur, el)
		if len(evs) == 0 {
			continue
		}
		cur = evs[0].Ctx
		allValues = append(allValues, evs[0].Val)
	}
	obj := value.NewObject()
	for i, v := range allValues {
		obj = obj.WithElem(int64(i), v)
	}
	addr, heap := cur.Heap.AllocWith(value.FromObject(obj))
	return []ExprResult{{Ctx: cur.WithHeap(heap), Val: value.FromAddr(addr)}}
}

// evalAttr resolves n.Name by walking Object's MRO chain (spec §4.8).
// A resolved Func is bound to self when Object itself (not one of its
// MRO ancestors) doesn't already carry the attribute directly, i.e.
// when it was found on a class rather than on the instance.
func (it *Interpreter) evalAttr(c execctx.Ctx[value.Val], n ir.Attr) []ExprResult {
	var out []ExprResult
	for _, or := range it.evalObjectRef(c, n.Object) {
		if !or.Ctx.Active() {
			out = append(out, or)
			continue
		}
		v, fromSelf, ok := lookupMRO(or.Ctx, or.Val, n.Name)
		if !ok {
			out = append(out, warn(or.Ctx, "no attribute "+n.Name, n.Src()))
			continue
		}
		if !fromSelf && v.Tag == value.TagFunc {
			v = value.FromFunc(v.Fn.Bind(or.Val))
		}
		out = append(out, ExprResult{Ctx: or.Ctx, Val: v})
	}
	return out
}

// lookupMRO looks for name directly on self first, then walks self's
// __mro__ tuple in order (spec §4.8, §1 Non-goals "single-chain [MRO]
// only").
func lookupMRO(c execctx.Ctx[value.Val], self value.Val, name string) (v value.Val, fromSelf bool, ok bool) {
	san, sok := value.Sanitize(self, c.Heap)
	if !sok {
		return value.Val{}, false, false
	}
	obj := objectOf(c, san)
	if obj == nil {
		return value.Val{}, false, false
	}
	if v, has := obj.Attr(name); has {
		return v, true, true
	}
	mro, has := obj.MRO()
	if !has {
		return value.Val{}, false, false
	}
	for _, cls := range mro {
		clsSan, sok := value.Sanitize(cls, c.Heap)
		if !sok {
			continue
		}
		clsObj := objectOf(c, clsSan)
		if clsObj == nil {
			continue
		}
		if v, has := clsObj.Attr(name); has {
			return v, false, true
		}
	}
	return value.Val{}, false, false
}

// evalObjectRef evaluates e the way an object-base sub-expression needs
// to be resolved for mutation (Attr/Subscr assignment) as well as for
// ordinary attribute/item lookup: a bare Name resolves through
// Sanitize rather than Fetch, so the Addr pointing at the Object
// survives instead of being collapsed away - Fetch chases straight
// through to the Object itself, which loses the very address a
// mutation needs to write back to (spec §4.6's Sanitize/Fetch
// distinction). Anything other than a bare Name falls back to
// ordinary evaluation.
func (it *Interpreter) evalObjectRef(c execctx.Ctx[value.Val], e ir.Expr) []ExprResult {
	if n, ok := e.(ir.Name); ok {
		addr, has := c.Env.Get(n.Ident)
		if !has {
			return []ExprResult{warn(c, "undefined name: "+n.Ident, n.Src())}
		}
		san, sok := value.Sanitize(value.FromAddr(addr), c.Heap)
		if !sok {
			return []ExprResult{warn(c, "dangling reference for name: "+n.Ident, n.Src())}
		}
		return []ExprResult{{Ctx: c, Val: san}}
	}
	return it.EvalExpr(c, e)
}

func objectOf(c execctx.Ctx[value.Val], v value.Val) *value.Object {
	if v.Tag == value.TagObject {
		return v.Obj
	}
	if v.Tag == value.TagAddr {
		stored, ok := c.Heap.Get(v.Addr)
		if ok && stored.Tag == value.TagObject {
			return stored.Obj
		}
	}
	return nil
}

// evalSubscr resolves an integer index directly against the object's
// indexed elements; anything else dispatches to __getitem__ via MRO
// (spec §4.8).
func (it *Interpreter) evalSubscr(c execctx.Ctx[value.Val], n ir.Subscr) []ExprResult {
	var out []ExprResult
	for _, or := range it.evalObjectRef(c, n.Object) {
		if !or.Ctx.Active() {
			out = append(out, or)
			continue
		}
		for _, ixr := range it.EvalExpr(or.Ctx, n.Index) {
			out = append(out, it.subscrOne(ixr.Ctx, or.Val, ixr.Val, n))
		}
	}
	return out
}

func (it *Interpreter) subscrOne(c execctx.Ctx[value.Val], target, idx value.Val, n ir.Subscr) ExprResult {
	obj := objectOf(c, target)
	if obj == nil {
		return warn(c, "subscript target is not an object", n.Src())
	}
	if idx.Tag == value.TagInt {
		if nc, isConst := idx.Num.(symbolic.NumConst); isConst {
			i, _ := nc.Val.Int64()
			i = int64(symbolic.AbsIndexByLen(int(i), len(obj.Elems)))
			v, ok := obj.Elem(i)
			if !ok {
				return warn(c, "index out of range", n.Src())
			}
			return ExprResult{Ctx: c, Val: v}
		}
	}
	if idx.Tag == value.TagString {
		if sc, isConst := idx.Str.(symbolic.StrConst); isConst {
			v, ok := obj.Key(string(sc))
			if !ok {
				return warn(c, "missing key", n.Src())
			}
			return ExprResult{Ctx: c, Val: v}
		}
	}
	getitem, _, ok := lookupMRO(c, target, "__getitem__")
	if !ok || getitem.Tag != value.TagFunc {
		return warn(c, "object is not subscriptable (symbolic index, no __getitem__)", n.Src())
	}
	results := it.applyFunc(c, getitem.Fn, []value.Val{idx}, nil, n.Src())
	if len(results) == 0 {
		return warn(c, "__getitem__ produced no result", n.Src())
	}
	return ExprResult{Ctx: results[0].Ctx, Val: results[0].Val}
}

func iterableLength(c execctx.Ctx[value.Val], v value.Val) (int64, bool) {
	obj := objectOf(c, v)
	if obj == nil {
		return 0, false
	}
	return int64(len(obj.Elems)), true
}

func iterableElem(c execctx.Ctx[value.Val], v value.Val, i int64) (value.Val, bool) {
	obj := objectOf(c, v)
	if obj == nil {
		return value.Val{}, false
	}
	return obj.Elem(i)
}
