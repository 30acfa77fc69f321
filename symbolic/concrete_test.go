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

package symbolic

import (
	"math"
	"testing"
)

// TestSimplifierSoundOnConstants is Testable Property 2: for a
// constant-only tree, simplify(e) folds to a NumConst whose value
// equals the value the independent ConcreteEval reference produces.
func TestSimplifierSoundOnConstants(t *testing.T) {
	cases := []ExpNum{
		NumBinary{Op: OpMul, L: NumBinary{Op: OpAdd, L: Int(2), R: Int(3)}, R: Int(4)},
		NumUnary{Op: OpAbs, X: Int(-5)},
		NumBinary{Op: OpFloorDiv, L: Int(7), R: Int(2)},
		NumBinary{Op: OpMod, L: Int(7), R: Int(3)},
		NumBinary{Op: OpPow, L: Int(2), R: Int(10)},
		NumUnary{Op: OpNeg, X: NumBinary{Op: OpSub, L: Int(3), R: Int(8)}},
		NumMinMax{Op: OpMax, Args: []ExpNum{Int(3), Int(9), Int(-4)}},
	}

	s := NewSimplifier(NoRanges)
	for _, e := range cases {
		if !IsConstOnly(e) {
			t.Fatalf("fixture %s is not constant-only", e)
		}
		want := ConcreteEval(e)
		got := s.Num(e)
		gc, ok := got.(NumConst)
		if !ok {
			t.Fatalf("simplify(%s) did not fold to a constant, got %s", e, got)
		}
		if have := gc.Val.ToFloat(); math.Abs(have-want) > 1e-9 {
			t.Errorf("simplify(%s) = %v, reference evaluator says %v", e, have, want)
		}
	}
}

func TestIsConstOnlyRejectsFreeSymbols(t *testing.T) {
	x := NumSymbol{ID: 1, Sort: SortInt, Name: "x"}
	e := NumBinary{Op: OpAdd, L: Int(1), R: x}
	if IsConstOnly(e) {
		t.Fatal("expected an expression referencing a free symbol to not be const-only")
	}
}
