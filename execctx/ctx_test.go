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

package execctx

import (
	"testing"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/rational"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func TestRequireTrivialTrueNoFail(t *testing.T) {
	c := New[value.Val](value.NewEnv(), value.NewHeap())
	c2 := c.Require([]constraint.Ctr{constraint.Eq(symbolic.Int(1), symbolic.Int(1))}, "unreachable", nil)
	if !c2.Active() {
		t.Fatal("trivially true constraint should not fail the path")
	}
}

func TestRequireFalseFails(t *testing.T) {
	c := New[value.Val](value.NewEnv(), value.NewHeap())
	c2 := c.Require([]constraint.Ctr{constraint.Eq(symbolic.Int(1), symbolic.Int(2))}, "1 != 2", nil)
	if c2.Active() {
		t.Fatal("expected the path to fail on a provably-false constraint")
	}
	if c2.Status() != Failed {
		t.Fatalf("expected Failed status, got %v", c2.Status())
	}
}

func TestRequireUndecidedNarrowsRange(t *testing.T) {
	s := symbolic.NumSymbol{ID: 1, Sort: symbolic.SortInt, Name: "n"}
	c := New[value.Val](value.NewEnv(), value.NewHeap())
	c2 := c.Require([]constraint.Ctr{constraint.LessThan(symbolic.Int(0), s)}, "", nil)
	if !c2.Active() {
		t.Fatal("undecided constraint should not fail the path")
	}
	r := c2.Ctrs.GetSymbolRange(s.ID)
	if !r.Gte(rational.FromInt64(1)) {
		t.Errorf("expected n's range to start at 1, got %s", r)
	}
}

func TestWarnKeepsActive(t *testing.T) {
	c := New[value.Val](value.NewEnv(), value.NewHeap())
	c2 := c.WarnWithMsg("missing attribute", nil)
	if !c2.Active() {
		t.Fatal("a warned path should remain active")
	}
	if c2.Status() != Warned {
		t.Fatalf("expected Warned status, got %v", c2.Status())
	}
	if len(c2.Logs) != 1 {
		t.Fatalf("expected one log entry, got %d", len(c2.Logs))
	}
}

func TestIsTruthyConstants(t *testing.T) {
	h := value.NewHeap()
	if truthy, ctr, ok := IsTruthy(value.Int(symbolic.Int(0)), h); !ok || ctr != nil || truthy {
		t.Fatalf("expected 0 to be falsy, got truthy=%v ctr=%v ok=%v", truthy, ctr, ok)
	}
	if truthy, ctr, ok := IsTruthy(value.Int(symbolic.Int(5)), h); !ok || ctr != nil || !truthy {
		t.Fatalf("expected 5 to be truthy, got truthy=%v ctr=%v ok=%v", truthy, ctr, ok)
	}
	if truthy, _, ok := IsTruthy(value.None(), h); !ok || truthy {
		t.Fatal("expected None to be falsy")
	}
}

func TestIsTruthySymbolicYieldsConstraint(t *testing.T) {
	s := symbolic.NumSymbol{ID: 7, Sort: symbolic.SortInt, Name: "n"}
	h := value.NewHeap()
	_, ctr, ok := IsTruthy(value.Int(s), h)
	if !ok {
		t.Fatal("expected ok=true for a symbolic scalar")
	}
	if ctr == nil {
		t.Fatal("expected a constraint to be handed back for a symbolic scalar")
	}
}
