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

import "github.com/shapecheck/tsa/rational"

// Term is one addend of a NormalExp: a coefficient times an opaque
// (non-constant, non-linear-reducible) sub-expression.
type Term struct {
	Expr ExpNum
	Coef rational.Rational
}

// NormalExp is the normal form produced by Normalize: a sum of
// coefficient * term pairs, aggregated by structural equality, plus a
// constant term. Non-linear sub-expressions (mod, true-div, unary ops,
// shape index, min/max, numel) are kept opaque as a single Term with
// coefficient 1 rather than expanded further.
type NormalExp struct {
	Terms []Term
	Const rational.Rational
}

// Linear reports whether e reduced to at most one distinct symbolic
// term; the constraint solver (§4.5) only proceeds when this holds.
func (n NormalExp) Linear() bool { return len(n.Terms) <= 1 }

// Normalize walks add/sub/mul/neg nodes and aggregates like terms by
// structural equality (symbolic.EqualNumExpr), refusing to expand
// non-linear forms further: they become a single opaque Term. The
// simplifier should be run over e before calling Normalize so constant
// folding has already happened; Normalize does not re-simplify.
func Normalize(e ExpNum) NormalExp {
	return normalizeScaled(e, rational.FromInt64(1))
}

func normalizeScaled(e ExpNum, scale rational.Rational) NormalExp {
	switch x := e.(type) {
	case NumConst:
		return NormalExp{Const: x.Val.Mul(scale)}
	case NumUnary:
		if x.Op == OpNeg {
			return normalizeScaled(x.X, scale.Neg())
		}
		return opaqueTerm(e, scale)
	case NumBinary:
		switch x.Op {
		case OpAdd:
			l := normalizeScaled(x.L, scale)
			r := normalizeScaled(x.R, scale)
			return mergeNormal(l, r)
		case OpSub:
			l := normalizeScaled(x.L, scale)
			r := normalizeScaled(x.R, scale.Neg())
			return mergeNormal(l, r)
		case OpMul:
			// linear iff exactly one side is a constant
			if lc, ok := x.L.(NumConst); ok {
				return normalizeScaled(x.R, scale.Mul(lc.Val))
			}
			if rc, ok := x.R.(NumConst); ok {
				return normalizeScaled(x.L, scale.Mul(rc.Val))
			}
			return opaqueTerm(e, scale)
		default:
			return opaqueTerm(e, scale)
		}
	default:
		return opaqueTerm(e, scale)
	}
}

func opaqueTerm(e ExpNum, scale rational.Rational) NormalExp {
	if scale.Sign() == 0 {
		return NormalExp{Const: rational.Zero()}
	}
	return NormalExp{Terms: []Term{{Expr: e, Coef: scale}}}
}

func mergeNormal(a, b NormalExp) NormalExp {
	out := NormalExp{Const: a.Const.Add(b.Const), Terms: append([]Term{}, a.Terms...)}
	for _, t := range b.Terms {
		out = addTerm(out, t)
	}
	return out
}

func addTerm(n NormalExp, t Term) NormalExp {
	for i := range n.Terms {
		if EqualNumExpr(n.Terms[i].Expr, t.Expr) {
			n.Terms[i].Coef = n.Terms[i].Coef.Add(t.Coef)
			if n.Terms[i].Coef.Sign() == 0 {
				n.Terms = append(n.Terms[:i], n.Terms[i+1:]...)
			}
			return n
		}
	}
	if t.Coef.Sign() != 0 {
		n.Terms = append(n.Terms, t)
	}
	return n
}

// ToExpr rebuilds an ExpNum from a NormalExp (used when the solver gives
// up on a constraint and needs to hand the caller back a num expression
// for the opaque remainder, or by tests asserting a particular normal
// form round-trips).
func (n NormalExp) ToExpr() ExpNum {
	var acc ExpNum
	if !n.Const.IsInt() || n.Const.Sign() != 0 || len(n.Terms) == 0 {
		acc = NumConst{Val: n.Const}
	}
	for _, t := range n.Terms {
		term := t.Expr
		if t.Coef.Cmp(rational.FromInt64(1)) != 0 {
			term = NumBinary{Op: OpMul, L: NumConst{Val: t.Coef}, R: t.Expr}
		}
		if acc == nil {
			acc = term
		} else {
			acc = NumBinary{Op: OpAdd, L: acc, R: term}
		}
	}
	if acc == nil {
		acc = NumConst{Val: rational.Zero()}
	}
	return acc
}
