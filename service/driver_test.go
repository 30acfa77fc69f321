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

package service

import (
	"testing"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/libcall"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func constExpr(i int64) ir.Expr { return ir.Const{Kind: ir.ConstInt, Int: i} }

// symbolicIntInput registers a stand-in for the library-call
// collaborator that would otherwise hand the interpreter a fresh,
// unconstrained symbolic parameter at the start of a run (spec §1/§6
// treats the library-call surface itself as out of scope).
func symbolicIntInput() *libcall.Registry {
	r := libcall.NewRegistry()
	r.Register("input.int", func(c execctx.Ctx[value.Val], params []value.Val, src *constraint.Source) execctx.CtxSet[value.Val] {
		sym := symbolic.NumSymbol{ID: 1, Sort: symbolic.SortInt, Name: "n"}
		return execctx.Of(c.SetRetVal(value.Int(sym)))
	})
	return r
}

func branchBody() ir.Stmt {
	return ir.Let{
		Name: "n",
		Init: ir.LibCall{Kind: "input.int"},
		Body: ir.If{
			Cond: ir.BinOp{Op: "<", Left: constExpr(0), Right: ir.Name{Ident: "n"}},
			Then: ir.Return{Value: constExpr(1)},
			Else: ir.Return{Value: constExpr(0)},
		},
	}
}

// TestDriverRunScalarFold is spec §8 Scenario S1: a return of a
// constant-folded arithmetic expression should terminate in a single
// Active path with an empty constraint log.
func TestDriverRunScalarFold(t *testing.T) {
	d := NewDriver(libcall.NewRegistry(), DefaultRunConfig())
	body := ir.Return{Value: ir.BinOp{
		Op:    "*",
		Left:  ir.BinOp{Op: "+", Left: constExpr(2), Right: constExpr(3)},
		Right: constExpr(4),
	}}
	out := d.Run(Program{Entries: []Entry{{Name: "scalar_fold", Body: body}}})
	if len(out) != 1 {
		t.Fatalf("expected a single terminated path, got %d", len(out))
	}
	if out[0].Status != execctx.Active {
		t.Fatalf("expected an active path, got %v (fail message %q)", out[0].Status, out[0].FailMessage)
	}
	if len(out[0].Ctrs) != 0 {
		t.Fatalf("expected an empty constraint log for a purely concrete fold, got %d entries", len(out[0].Ctrs))
	}
}

// TestDriverRunBranchForksOnSymbolicCondition is spec §8 Scenario S5: a
// conditional over a symbolic value forks the entry into two
// terminated paths, one per branch.
func TestDriverRunBranchForksOnSymbolicCondition(t *testing.T) {
	d := NewDriver(symbolicIntInput(), DefaultRunConfig())
	out := d.Run(Program{Entries: []Entry{{Name: "branch", Body: branchBody()}}})
	if len(out) != 2 {
		t.Fatalf("expected the symbolic condition to fork into 2 paths, got %d", len(out))
	}
	for _, diag := range out {
		if diag.Status != execctx.Active {
			t.Fatalf("expected both branch paths to be active, got %v", diag.Status)
		}
	}
}

func TestDriverRunCollapsesOnBudgetExceeded(t *testing.T) {
	cfg := RunConfig{UnrollBound: 10, WorkListCap: 1}
	d := NewDriver(symbolicIntInput(), cfg)
	out := d.Run(Program{Entries: []Entry{{Name: "branch", Body: branchBody()}}})
	if len(out) != 1 {
		t.Fatalf("expected the fan-out to collapse into a single summary diagnostic, got %d", len(out))
	}
	if out[0].Status != execctx.Warned {
		t.Fatalf("expected the collapsed diagnostic to be warned, got %v", out[0].Status)
	}
}

func TestDriverRunMultipleEntriesAreIndependent(t *testing.T) {
	d := NewDriver(libcall.NewRegistry(), DefaultRunConfig())
	fold := ir.Return{Value: ir.BinOp{Op: "+", Left: constExpr(1), Right: constExpr(1)}}
	out := d.Run(Program{Entries: []Entry{
		{Name: "a", Body: fold},
		{Name: "b", Body: fold},
	}})
	if len(out) != 2 {
		t.Fatalf("expected one diagnostic per entry, got %d", len(out))
	}
	if out[0].Entry != "a" || out[1].Entry != "b" {
		t.Fatalf("expected diagnostics tagged with their originating entry, got %q then %q", out[0].Entry, out[1].Entry)
	}
}
