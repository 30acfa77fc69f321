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

// TestScenarioS1ScalarFold is spec §8 Scenario S1: evaluating (2+3)*4
// in an empty env yields a single terminated Ctx with retVal Int(20)
// and an empty constraint log.
func TestScenarioS1ScalarFold(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	expr := ir.BinOp{
		Op:    "*",
		Left:  ir.BinOp{Op: "+", Left: constExpr(2), Right: constExpr(3)},
		Right: constExpr(4),
	}
	results := it.EvalExpr(c, expr)
	if len(results) != 1 {
		t.Fatalf("expected a single terminated path, got %d", len(results))
	}
	r := results[0]
	if r.Val.Tag != value.TagInt {
		t.Fatalf("expected an Int result, got tag %v", r.Val.Tag)
	}
	nc, ok := r.Val.Num.(symbolic.NumConst)
	if !ok || nc.Val.String() != "20" {
		t.Fatalf("expected retVal 20, got %s", r.Val.Num)
	}
	if len(r.Ctx.Ctrs.Log()) != 0 {
		t.Fatalf("expected an empty constraint log for a purely concrete fold, got %d entries", len(r.Ctx.Ctrs.Log()))
	}
}

// TestScenarioS5BranchFork is spec §8 Scenario S5: an if-statement on a
// symbolic boolean forks into two terminated paths, one with b=true
// added to its constraint set and one with b=false.
func TestScenarioS5BranchFork(t *testing.T) {
	it := newInterp()
	c := freshCtx()
	b := symbolic.BoolSymbol{ID: 1, Name: "b"}
	addr, heap := c.Heap.AllocWith(value.Bool(b))
	c = c.WithHeap(heap).WithEnv(c.Env.Set("b", addr))

	stmt := ir.If{
		Cond: ir.Name{Ident: "b"},
		Then: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "out"}, Value: constExpr(1)},
		Else: ir.Assign{Target: ir.Target{Kind: ir.TargetName, Name: "out"}, Value: constExpr(0)},
	}
	states := it.EvalStmt(c, stmt)
	if len(states) != 2 {
		t.Fatalf("expected the if to fork into 2 paths, got %d", len(states))
	}
	sawTrue, sawFalse := false, false
	for _, st := range states {
		addr, _ := st.Ctx.Env.Get("out")
		v, _ := st.Ctx.Heap.Get(addr)
		nc := v.Num.(symbolic.NumConst)
		switch nc.Val.String() {
		case "1":
			sawTrue = true
		case "0":
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Fatalf("expected one path per branch outcome, saw true=%v false=%v", sawTrue, sawFalse)
	}
}

// TestScenarioS6MROAttributeLookup is spec §8 Scenario S6: a class C
// with base B holding method m on B only resolves m through C's MRO
// chain, and the returned value is m bound to the instance.
func TestScenarioS6MROAttributeLookup(t *testing.T) {
	it := newInterp()
	c := freshCtx()

	m := value.NewFunc("m", []string{"self"}, nil, c.Env)
	classB := value.NewObject().WithAttr("m", value.FromFunc(m))
	bAddr, heap := c.Heap.AllocWith(value.FromObject(classB))
	c = c.WithHeap(heap)

	mro := value.NewObject().WithElem(0, value.FromAddr(bAddr))
	instance := value.NewObject().WithAttr("__mro__", value.FromObject(mro))
	instAddr, heap2 := c.Heap.AllocWith(value.FromObject(instance))
	c = c.WithHeap(heap2).WithEnv(c.Env.Set("inst", instAddr))

	results := it.EvalExpr(c, ir.Attr{Object: ir.Name{Ident: "inst"}, Name: "m"})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	v := results[0].Val
	if v.Tag != value.TagFunc || v.Fn.Name != "m" {
		t.Fatalf("expected to resolve B's m through the instance's MRO, got %+v", v)
	}
	if !v.Fn.Bound {
		t.Fatal("expected m to come back bound to the instance")
	}
}
