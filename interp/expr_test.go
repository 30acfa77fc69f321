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
	"testing"

	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func TestEvalConstAndName(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	addr, heap := c.Heap.AllocWith(value.Int(symbolic.Int(7)))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("n", addr))

	results := it.EvalExpr(c, ir.Name{Ident: "n"})
	if len(results) != 1 || results[0].Val.Tag != value.TagInt {
		t.Fatalf("expected a single int result, got %+v", results)
	}

	results = it.EvalExpr(c, ir.Name{Ident: "missing"})
	if len(results) != 1 || results[0].Ctx.Status() != execctx.Warned {
		t.Fatalf("expected an undefined name to warn, got status=%v", results[0].Ctx.Status())
	}
}

func TestEvalListThenSubscr(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	lit := ir.List{Elems: []ir.Expr{
		ir.Const{Kind: ir.ConstInt, Int: 10},
		ir.Const{Kind: ir.ConstInt, Int: 20},
		ir.Const{Kind: ir.ConstInt, Int: 30},
	}}
	results := it.EvalExpr(c, lit)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	c = results[0].Ctx
	listAddr := results[0].Val

	// bind it to a name so Subscr's Object expr can find it
	addr, heap := c.Heap.AllocWith(listAddr)
	c = c.WithHeap(heap).WithEnv(c.Env.Set("xs", addr))

	sub := ir.Subscr{Object: ir.Name{Ident: "xs"}, Index: ir.Const{Kind: ir.ConstInt, Int: -1}}
	results = it.EvalExpr(c, sub)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	nc, ok := results[0].Val.Num.(symbolic.NumConst)
	if !ok {
		t.Fatal("expected a constant int result")
	}
	if got, _ := nc.Val.Int64(); got != 30 {
		t.Fatalf("expected xs[-1] == 30, got %d", got)
	}
}

func TestEvalAttrBindsSelfWhenFoundOnClass(t *testing.T) {
	it := newInterp()
	c := freshCtx()

	fn := value.NewFunc("greet", []string{"self"}, nil, c.Env)

	class := value.NewObject().WithAttr("greet", value.FromFunc(fn))
	classAddr, heap := c.Heap.AllocWith(value.FromObject(class))
	c = c.WithHeap(heap)

	// MRO() requires the __mro__ attribute to hold the tuple Object
	// directly (it checks v.Tag == TagObject without chasing the heap);
	// the tuple's own elements are addresses, which lookupMRO resolves
	// through Sanitize/objectOf.
	mroTuple := value.NewObject().WithElem(0, value.FromAddr(classAddr))
	self := value.NewObject().WithAttr("__mro__", value.FromObject(mroTuple))
	selfAddr, heap := c.Heap.AllocWith(value.FromObject(self))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("obj", selfAddr))

	results := it.EvalExpr(c, ir.Attr{Object: ir.Name{Ident: "obj"}, Name: "greet"})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	v := results[0].Val
	if v.Tag != value.TagFunc {
		t.Fatalf("expected a bound Func, got tag %v", v.Tag)
	}
	if !v.Fn.Bound {
		t.Fatal("expected the method to be bound to self, since it was found via __mro__ not directly on the instance")
	}
}

func TestEvalAttrDirectOnSelfIsNotBound(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	fn := value.NewFunc("helper", nil, nil, c.Env)

	self := value.NewObject().WithAttr("helper", value.FromFunc(fn))
	selfAddr, heap := c.Heap.AllocWith(value.FromObject(self))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("obj", selfAddr))

	results := it.EvalExpr(c, ir.Attr{Object: ir.Name{Ident: "obj"}, Name: "helper"})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Val.Fn.Bound {
		t.Fatal("a function found directly on the instance should not be (re)bound")
	}
}
