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
	"fmt"
	"math"
)

// ConcreteEval evaluates a constant-only ExpNum tree natively over
// float64, independently of the rational-backed constant folding
// Simplifier.Num performs. It exists solely to check Testable Property
// 2 ("simplifier soundness on constants") from a code path that shares
// nothing with the simplifier itself - a bug in one is unlikely to
// reproduce identically in the other. It panics if e contains a free
// NumSymbol; callers only ever call it on trees already known to be
// constant-only (e.g. by checking IsConstOnly first).
func ConcreteEval(e ExpNum) float64 {
	switch x := e.(type) {
	case NumConst:
		return x.Val.ToFloat()
	case NumUnary:
		v := ConcreteEval(x.X)
		switch x.Op {
		case OpNeg:
			return -v
		case OpAbs:
			return math.Abs(v)
		case OpFloor:
			return math.Floor(v)
		case OpCeil:
			return math.Ceil(v)
		}
	case NumBinary:
		l, r := ConcreteEval(x.L), ConcreteEval(x.R)
		switch x.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpTrueDiv:
			return l / r
		case OpFloorDiv:
			return math.Floor(l / r)
		case OpMod:
			return math.Mod(l, r)
		case OpPow:
			return math.Pow(l, r)
		}
	case NumMinMax:
		vals := make([]float64, len(x.Args))
		for i, a := range x.Args {
			vals[i] = ConcreteEval(a)
		}
		acc := vals[0]
		for _, v := range vals[1:] {
			if x.Op == OpMin && v < acc {
				acc = v
			}
			if x.Op == OpMax && v > acc {
				acc = v
			}
		}
		return acc
	}
	panic(fmt.Sprintf("symbolic: ConcreteEval: not a constant-only expression: %s", e))
}

// IsConstOnly reports whether every leaf of e is a NumConst, i.e.
// whether ConcreteEval(e) is safe to call.
func IsConstOnly(e ExpNum) bool {
	switch x := e.(type) {
	case NumConst:
		return true
	case NumSymbol:
		return false
	case NumUnary:
		return IsConstOnly(x.X)
	case NumBinary:
		return IsConstOnly(x.L) && IsConstOnly(x.R)
	case NumMinMax:
		for _, a := range x.Args {
			if !IsConstOnly(a) {
				return false
			}
		}
		return len(x.Args) > 0
	case ShapeIndex, ShapeNumel:
		return false
	}
	return false
}
