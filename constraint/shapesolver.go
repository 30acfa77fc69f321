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

package constraint

import "github.com/shapecheck/tsa/symbolic"

// The shape sub-solver resolves spec.md §9's open question: "the
// source's shape-sub-solver is a placeholder ... an implementer should
// decide whether to implement axis-wise broadcast reasoning or to leave
// these as always-accepted (deferred) constraints." SPEC_FULL §C.2
// decides it: when both shapes have a statically known rank, reason
// axis-by-axis using the num range cache; defer (always accept) when
// rank itself is symbolic, since there is then no way to even align
// axes from the right, and also when the ranks are known but some
// aligned axis pair does not simplify to constants and no decided pair
// conflicts.

// checkShapeImmediate decides a Forall/Broadcastable constraint when
// possible, returning nil (deferred) when no decision is available.
func checkShapeImmediate(sim *symbolic.Simplifier, c Ctr) *bool {
	switch c.Kind {
	case KindBroadcastable:
		return checkBroadcastable(sim, c.ShapeL, c.ShapeR)
	case KindForall:
		// forall over an integer range is only immediately decidable
		// when the range is a known-empty interval (vacuously true) or
		// a singleton (reduces to substituting the one value); general
		// quantifier elimination is out of scope per spec §1 Non-goals
		// ("no full SMT capability").
		if c.Range.IsEmpty() {
			return boolp(true)
		}
		if v, ok := c.Range.IsConst(); ok {
			body := substituteNum(*c.Body, c.Sym.ID, symbolic.NumConst{Val: v})
			return checkImmediate(sim, body)
		}
	}
	return nil
}

// solveShape stores a shape/forall/broadcastable constraint; when an
// axis-wise decision is available it is folded directly into failure,
// otherwise the constraint is accepted and left in the log for
// traversal at query time (spec §4.5 step 3).
func (cs *CtrSet) solveShape(c Ctr) *CtrSet {
	sim := cs.Simplifier()
	if v := checkShapeImmediate(sim, c); v != nil && !*v {
		out := cs.clone()
		out.failed = true
		if c.Message != "" {
			out.failMsg = c.Message
		} else {
			out.failMsg = "shape constraint proven false: " + c.String()
		}
		return out
	}
	return cs
}

// checkBroadcastable implements axis-wise broadcast reasoning: aligned
// from the right, each axis pair must be equal, or one of them must be
// exactly 1, using the range cache to resolve symbolic dims that have
// narrowed to a singleton. A conflicting constant pair gives false; if
// some pair stays non-constant and none conflicts, the result is nil.
func checkBroadcastable(sim *symbolic.Simplifier, l, r symbolic.ExpShape) *bool {
	ls := sim.Shape(l)
	rs := sim.Shape(r)
	lc, lok := ls.(symbolic.ShapeConst)
	rc, rok := rs.(symbolic.ShapeConst)
	if !lok || !rok {
		return nil // rank symbolic on at least one side: deferred
	}
	n := len(lc.Dims)
	if len(rc.Dims) > n {
		n = len(rc.Dims)
	}
	allDecided := true
	for i := 0; i < n; i++ {
		var ld, rd symbolic.ExpNum = symbolic.Int(1), symbolic.Int(1)
		if i < len(lc.Dims) {
			ld = lc.Dims[len(lc.Dims)-1-i]
		}
		if i < len(rc.Dims) {
			rd = rc.Dims[len(rc.Dims)-1-i]
		}
		ld = sim.Num(ld)
		rd = sim.Num(rd)
		lv, lok := symbolic.AsConstInt(ld)
		rv, rok := symbolic.AsConstInt(rd)
		if !lok || !rok {
			allDecided = false
			continue
		}
		if lv != rv && lv != 1 && rv != 1 {
			return boolp(false)
		}
	}
	if allDecided {
		return boolp(true)
	}
	return nil
}

// substituteNum replaces every occurrence of a numeric symbol with a
// constant inside a constraint tree; used only by the quantifier
// elimination special case above.
func substituteNum(c Ctr, sym symbolic.SymbolID, with symbolic.ExpNum) Ctr {
	subst := func(e symbolic.ExpNum) symbolic.ExpNum { return substNumExpr(e, sym, with) }
	switch c.Kind {
	case KindEq, KindNe, KindLt, KindLe:
		c.L, c.R = subst(c.L), subst(c.R)
	case KindAnd, KindOr:
		args := make([]Ctr, len(c.Args))
		for i, a := range c.Args {
			args[i] = substituteNum(a, sym, with)
		}
		c.Args = args
	case KindNot:
		sub := substituteNum(c.Args[0], sym, with)
		c.Args = []Ctr{sub}
	}
	return c
}

func substNumExpr(e symbolic.ExpNum, sym symbolic.SymbolID, with symbolic.ExpNum) symbolic.ExpNum {
	switch x := e.(type) {
	case symbolic.NumSymbol:
		if x.ID == sym {
			return with
		}
		return x
	case symbolic.NumUnary:
		return symbolic.NumUnary{Op: x.Op, X: substNumExpr(x.X, sym, with)}
	case symbolic.NumBinary:
		return symbolic.NumBinary{Op: x.Op, L: substNumExpr(x.L, sym, with), R: substNumExpr(x.R, sym, with)}
	}
	return e
}
