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

	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func TestEvalIfSplitsOnSymbolicCond(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	sym := symbolic.NumSymbol{ID: 1, Sort: symbolic.SortInt, Name: "n"}
	addr, heap := c.Heap.AllocWith(value.Int(sym))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("n", addr))

	cond := ir.BinOp{Op: "<", Left: ir.Const{Kind: ir.ConstInt, Int: 0}, Right: ir.Name{Ident: "n"}}
	stmt := ir.If{
		Cond: cond,
		Then: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "branch"}, Value: ir.Const{Kind: ir.ConstInt, Int: 1}},
		Else: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "branch"}, Value: ir.Const{Kind: ir.ConstInt, Int: 0}},
	}
	states := it.EvalStmt(c, stmt)
	if len(states) != 2 {
		t.Fatalf("expected the if to split into 2 paths, got %d", len(states))
	}
	seen := map[int64]bool{}
	for _, s := range states {
		a, ok := s.Ctx.Env.Get("branch")
		if !ok {
			t.Fatal("expected branch to be bound on every path")
		}
		v, _ := s.Ctx.Heap.Get(a)
		nc := v.Num.(symbolic.NumConst)
		n, _ := nc.Val.Int64()
		seen[n] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected both branches to have executed, got %v", seen)
	}
}

func TestEvalIfImmediatelyDecidedRunsOnlyOneBranch(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	stmt := ir.If{
		Cond: ir.Const{Kind: ir.ConstBool, Bool: true},
		Then: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "branch"}, Value: ir.Const{Kind: ir.ConstInt, Int: 1}},
		Else: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "branch"}, Value: ir.Const{Kind: ir.ConstInt, Int: 0}},
	}
	states := it.EvalStmt(c, stmt)
	if len(states) != 1 {
		t.Fatalf("expected a single path for a trivially-true condition, got %d", len(states))
	}
	a, _ := states[0].Ctx.Env.Get("branch")
	v, _ := states[0].Ctx.Heap.Get(a)
	nc := v.Num.(symbolic.NumConst)
	n, _ := nc.Val.Int64()
	if n != 1 {
		t.Fatalf("expected the then-branch to have run, got branch=%d", n)
	}
}

func TestEvalLetRestoresOuterEnv(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	// an outer binding of "x" that Let's inner "x" must shadow, then
	// restore on exit.
	outerAddr, heap := c.Heap.AllocWith(value.Int(symbolic.Int(100)))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("x", outerAddr))

	let := ir.Let{
		Name: "x",
		Init: ir.Const{Kind: ir.ConstInt, Int: 1},
		Body: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "x"}, Value: ir.Const{Kind: ir.ConstInt, Int: 2}},
	}
	states := it.EvalStmt(c, let)
	if len(states) != 1 {
		t.Fatalf("expected one path, got %d", len(states))
	}
	finalAddr, _ := states[0].Ctx.Env.Get("x")
	if finalAddr != outerAddr {
		t.Fatal("expected the outer x binding to be restored after the Let body finished")
	}
	v, _ := states[0].Ctx.Heap.Get(outerAddr)
	nc := v.Num.(symbolic.NumConst)
	n, _ := nc.Val.Int64()
	if n != 100 {
		t.Fatal("the outer x's value should be untouched by the Let's inner assignment")
	}
}

func listLit(vals ...int64) *value.Object {
	o := value.NewObject()
	for i, n := range vals {
		o = o.WithElem(int64(i), value.Int(symbolic.Int(n)))
	}
	return o
}

func TestEvalForInConstantLengthFullyUnrolls(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	addr, heap := c.Heap.AllocWith(value.FromObject(listLit(1, 2, 3)))
	c = c.WithHeap(heap)

	sumAddr, heap := c.Heap.AllocWith(value.Int(symbolic.Int(0)))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("total", sumAddr))

	loop := ir.ForIn{
		Iden: "it",
		Iter: ir.Const{Kind: ir.ConstInt, Int: 0}, // placeholder; patched below
		Body: ir.Assign{
			Target: ir.Target{Kind: ir.TargetName, Name: "total"},
			Value:  ir.BinOp{Op: "+", Left: ir.Name{Ident: "total"}, Right: ir.Name{Ident: "it"}},
		},
	}
	// directly construct the iterable expression as a Name bound to addr,
	// since ir has no literal-address expression node.
	c = c.WithEnv(c.Env.Set("xs", addr))
	loop.Iter = ir.Name{Ident: "xs"}

	states := it.EvalStmt(c, loop)
	if len(states) != 1 {
		t.Fatalf("expected a constant-length loop to produce exactly one path, got %d", len(states))
	}
	totalAddr, _ := states[0].Ctx.Env.Get("total")
	v, _ := states[0].Ctx.Heap.Get(totalAddr)
	nc := v.Num.(symbolic.NumConst)
	n, _ := nc.Val.Int64()
	if n != 6 {
		t.Fatalf("expected total == 1+2+3 == 6, got %d", n)
	}
}

func TestEvalForInBreakStopsUnrolling(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	addr, heap := c.Heap.AllocWith(value.FromObject(listLit(1, 2, 3)))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("xs", addr))

	loop := ir.ForIn{
		Iden: "it",
		Iter: ir.Name{Ident: "xs"},
		Body: ir.Break{},
	}
	states := it.EvalStmt(c, loop)
	if len(states) != 1 {
		t.Fatalf("expected exactly one path after an immediate break, got %d", len(states))
	}
	if states[0].Signal != SigNone {
		t.Fatal("Break should be consumed by the enclosing ForIn, not propagate past it")
	}
}
