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
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

// EvalStmt evaluates s starting from c, returning every resulting
// terminated-or-forked State. A path that has become Failed is still
// returned (for reporting) but is never advanced further.
func (it *Interpreter) EvalStmt(c execctx.Ctx[value.Val], s ir.Stmt) []State {
	if !c.Active() {
		return []State{{Ctx: c, Signal: SigNone}}
	}
	switch n := s.(type) {
	case ir.Seq:
		return it.evalSeq(c, n.Stmts)
	case ir.Pass:
		return states(c)
	case ir.ExprStmt:
		out := it.EvalExpr(c, n.Value)
		res := make([]State, len(out))
		for i, r := range out {
			res[i] = State{Ctx: r.Ctx, Signal: SigNone}
		}
		return res
	case ir.Assign:
		return it.evalAssign(c, n)
	case ir.Let:
		return it.evalLet(c, n)
	case ir.FunDef:
		return it.evalFunDef(c, n)
	case ir.If:
		return it.evalIf(c, n)
	case ir.ForIn:
		return it.evalForIn(c, n)
	case ir.Return:
		return it.evalReturn(c, n)
	case ir.Break:
		return []State{{Ctx: c, Signal: SigBreak}}
	case ir.Continue:
		return []State{{Ctx: c, Signal: SigContinue}}
	}
	return []State{{Ctx: c.WarnWithMsg("unrecognized statement node", s.Src()), Signal: SigNone}}
}

// evalSeq runs stmts in order, stopping early on the first non-SigNone
// signal or the first Failed path (spec §4.8 "Seq... standard").
func (it *Interpreter) evalSeq(c execctx.Ctx[value.Val], stmts []ir.Stmt) []State {
	live := []State{{Ctx: c, Signal: SigNone}}
	for _, s := range stmts {
		var next []State
		for _, st := range live {
			if !st.Ctx.Active() || st.Signal != SigNone {
				next = append(next, st)
				continue
			}
			next = append(next, it.EvalStmt(st.Ctx, s)...)
		}
		live = next
	}
	return live
}

func (it *Interpreter) evalReturn(c execctx.Ctx[value.Val], n ir.Return) []State {
	if n.Value == nil {
		return []State{{Ctx: c.SetRetVal(value.None()), Signal: SigReturn}}
	}
	out := it.EvalExpr(c, n.Value)
	res := make([]State, len(out))
	for i, r := range out {
		res[i] = State{Ctx: r.Ctx.SetRetVal(r.Val), Signal: SigReturn}
	}
	return res
}

// evalAssign evaluates the right-hand side, then stores it per the
// target kind (spec §4.8 "Assign may target Name / Attr / Subscr and
// performs heap mutation accordingly").
func (it *Interpreter) evalAssign(c execctx.Ctx[value.Val], n ir.Assign) []State {
	rhs := it.EvalExpr(c, n.Value)
	var out []State
	for _, r := range rhs {
		if !r.Ctx.Active() {
			out = append(out, State{Ctx: r.Ctx})
			continue
		}
		out = append(out, it.store(r.Ctx, n.Target, r.Val)...)
	}
	return out
}

func (it *Interpreter) store(c execctx.Ctx[value.Val], t ir.Target, v value.Val) []State {
	switch t.Kind {
	case ir.TargetName:
		addr, ok := c.Env.Get(t.Name)
		if !ok {
			a, h := c.Heap.AllocWith(v)
			return []State{{Ctx: c.WithEnv(c.Env.Set(t.Name, a)).WithHeap(h)}}
		}
		return []State{{Ctx: c.WithHeap(c.Heap.Set(addr, v))}}

	case ir.TargetAttr:
		var out []State
		for _, or := range it.evalObjectRef(c, t.Object) {
			if !or.Ctx.Active() {
				out = append(out, State{Ctx: or.Ctx})
				continue
			}
			obj, addr, ok := resolveObject(or.Ctx, or.Val)
			if !ok {
				out = append(out, State{Ctx: or.Ctx.WarnWithMsg("attribute assignment target is not an object", t.Src())})
				continue
			}
			updated := obj.WithAttr(t.AttrName, v)
			out = append(out, State{Ctx: writeBackObject(or.Ctx, addr, updated)})
		}
		return out

	case ir.TargetSubscr:
		var out []State
		for _, or := range it.evalObjectRef(c, t.Object) {
			if !or.Ctx.Active() {
				out = append(out, State{Ctx: or.Ctx})
				continue
			}
			for _, ixr := range it.EvalExpr(or.Ctx, t.Index) {
				out = append(out, it.storeSubscr(ixr.Ctx, or.Val, ixr.Val, v, t.Src()))
			}
		}
		return out
	}
	return []State{{Ctx: c.WarnWithMsg("unrecognized assignment target", t.Src())}}
}

// resolveObject dereferences v down to an Object, also returning the
// last Addr in the chain (via Sanitize) so a caller can write the
// updated Object straight back to the slot it came from.
func resolveObject(c execctx.Ctx[value.Val], v value.Val) (*value.Object, value.Addr, bool) {
	san, ok := value.Sanitize(v, c.Heap)
	if !ok || san.Tag != value.TagAddr {
		if ok && v.Tag == value.TagObject {
			return v.Obj, value.NoAddr, true
		}
		return nil, value.NoAddr, false
	}
	fetched, ok := c.Heap.Get(san.Addr)
	if !ok || fetched.Tag != value.TagObject {
		return nil, value.NoAddr, false
	}
	return fetched.Obj, san.Addr, true
}

func writeBackObject(c execctx.Ctx[value.Val], addr value.Addr, o *value.Object) execctx.Ctx[value.Val] {
	if addr == value.NoAddr {
		return c // an object literal with no heap slot of its own (shouldn't normally occur)
	}
	return c.WithHeap(c.Heap.Set(addr, value.FromObject(o)))
}

func (it *Interpreter) storeSubscr(c execctx.Ctx[value.Val], target, idx, v value.Val, src *constraint.Source) State {
	obj, addr, ok := resolveObject(c, target)
	if !ok {
		return State{Ctx: c.WarnWithMsg("subscript assignment target is not an object", src)}
	}
	if nc, isConst := idx.Num.(symbolic.NumConst); idx.Tag == value.TagInt && isConst {
		i, _ := nc.Val.Int64()
		i = int64(symbolic.AbsIndexByLen(int(i), len(obj.Elems)))
		return State{Ctx: writeBackObject(c, addr, obj.WithElem(i, v))}
	}
	if idx.Tag == value.TagString {
		if sc, isConst := idx.Str.(symbolic.StrConst); isConst {
			return State{Ctx: writeBackObject(c, addr, obj.WithKey(string(sc), v))}
		}
	}
	return State{Ctx: c.WarnWithMsg("symbolic subscript assignment is not supported", src)}
}
