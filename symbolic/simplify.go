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

// Simplifier rewrites expression trees bottom-up, folding constants and
// applying the rules in spec.md §4.2. Every call always terminates
// (there is no fixpoint loop inside a single Simplify* call; callers
// that need idempotence across repeated simplification - spec Testable
// Property 1 - get it for free because the rules are already saturated
// in one bottom-up pass).
type Simplifier struct {
	Ranges RangeProvider
}

// NewSimplifier builds a Simplifier consulting the given range cache.
// Pass symbolic.NoRanges to simplify without any constraint-set context.
func NewSimplifier(ranges RangeProvider) *Simplifier {
	if ranges == nil {
		ranges = NoRanges
	}
	return &Simplifier{Ranges: ranges}
}

// Num applies the bottom-up numeric simplification rules of spec §4.2.
func (s *Simplifier) Num(e ExpNum) ExpNum {
	switch x := e.(type) {
	case NumConst:
		return x
	case NumSymbol:
		if v, ok := s.Ranges.SingletonValue(x.ID); ok {
			return NumConst{Val: v}
		}
		return x
	case NumUnary:
		return s.simplifyUnary(x)
	case NumBinary:
		return s.simplifyBinary(x)
	case ShapeIndex:
		return s.simplifyShapeIndex(x)
	case ShapeNumel:
		return s.simplifyNumel(x)
	case NumMinMax:
		return s.simplifyMinMax(x)
	}
	return e
}

func (s *Simplifier) simplifyUnary(x NumUnary) ExpNum {
	inner := s.Num(x.X)
	switch x.Op {
	case OpNeg:
		if c, ok := inner.(NumConst); ok {
			return NumConst{Val: c.Val.Neg()}
		}
		if n, ok := inner.(NumUnary); ok && n.Op == OpNeg {
			return n.X // double negation cancels
		}
	case OpAbs:
		if c, ok := inner.(NumConst); ok {
			if c.Val.Sign() < 0 {
				return NumConst{Val: c.Val.Neg()}
			}
			return c
		}
		if isKnownNonNegative(inner, s.Ranges) {
			return inner
		}
	case OpFloor, OpCeil:
		if c, ok := inner.(NumConst); ok {
			if x.Op == OpFloor {
				return NumConst{Val: c.Val.Floor()}
			}
			return NumConst{Val: c.Val.Ceil()}
		}
		if isStructurallyInteger(inner) {
			return inner
		}
	}
	return NumUnary{Op: x.Op, X: inner}
}

func isKnownNonNegative(e ExpNum, ranges RangeProvider) bool {
	if sym, ok := e.(NumSymbol); ok {
		if v, ok := ranges.SingletonValue(sym.ID); ok {
			return v.Sign() >= 0
		}
	}
	return false
}

// isStructurallyInteger reports whether e is known to always take an
// integer value irrespective of ranges: integer constants, integer-sort
// symbols, and sums/products/negations thereof.
func isStructurallyInteger(e ExpNum) bool {
	switch x := e.(type) {
	case NumConst:
		return x.Val.IsInt()
	case NumSymbol:
		return x.Sort == SortInt
	case NumUnary:
		return x.Op == OpNeg && isStructurallyInteger(x.X)
	case NumBinary:
		switch x.Op {
		case OpAdd, OpSub, OpMul, OpFloorDiv, OpMod:
			return isStructurallyInteger(x.L) && isStructurallyInteger(x.R)
		}
	case ShapeIndex, ShapeNumel:
		return true // dimensions are always integral
	}
	return false
}

func (s *Simplifier) simplifyBinary(x NumBinary) ExpNum {
	l := s.Num(x.L)
	r := s.Num(x.R)
	lc, lok := l.(NumConst)
	rc, rok := r.(NumConst)
	if lok && rok {
		if v, ok := foldConst(x.Op, lc.Val, rc.Val); ok {
			return NumConst{Val: v}
		}
	}
	switch x.Op {
	case OpAdd:
		if lok && lc.Val.Sign() == 0 {
			return r
		}
		if rok && rc.Val.Sign() == 0 {
			return l
		}
		return reassociateAdd(l, r, lok, lc, rok, rc)
	case OpSub:
		if rok && rc.Val.Sign() == 0 {
			return l
		}
		if EqualNumExpr(l, r) {
			return NumConst{Val: rational.Zero()}
		}
	case OpMul:
		if lok {
			switch lc.Val.Sign() {
			case 0:
				return NumConst{Val: rational.Zero()}
			}
			if lc.Val.Cmp(rational.FromInt64(1)) == 0 {
				return r
			}
		}
		if rok {
			switch rc.Val.Sign() {
			case 0:
				return NumConst{Val: rational.Zero()}
			}
			if rc.Val.Cmp(rational.FromInt64(1)) == 0 {
				return l
			}
		}
	case OpFloorDiv, OpTrueDiv:
		if rok && rc.Val.Cmp(rational.FromInt64(1)) == 0 {
			return l
		}
	}
	return NumBinary{Op: x.Op, L: l, R: r}
}

// reassociateAdd pushes a constant through one more level of add/sub so
// that e.g. (x + 2) + 3 folds to x + 5, per spec §4.2 "re-associate
// constants through add/sub/mul with one non-const child".
func reassociateAdd(l, r ExpNum, lok bool, lc NumConst, rok bool, rc NumConst) ExpNum {
	if rok {
		if b, ok := l.(NumBinary); ok && b.Op == OpAdd {
			if c2, ok2 := b.R.(NumConst); ok2 {
				if v, ok3 := foldConst(OpAdd, c2.Val, rc.Val); ok3 {
					return NumBinary{Op: OpAdd, L: b.L, R: NumConst{Val: v}}
				}
			}
		}
	}
	if lok {
		if b, ok := r.(NumBinary); ok && b.Op == OpAdd {
			if c2, ok2 := b.L.(NumConst); ok2 {
				if v, ok3 := foldConst(OpAdd, c2.Val, lc.Val); ok3 {
					return NumBinary{Op: OpAdd, L: NumConst{Val: v}, R: b.R}
				}
			}
		}
	}
	return NumBinary{Op: OpAdd, L: l, R: r}
}

func foldConst(op BinaryOp, l, r rational.Rational) (rational.Rational, bool) {
	switch op {
	case OpAdd:
		return l.Add(r), true
	case OpSub:
		return l.Sub(r), true
	case OpMul:
		return l.Mul(r), true
	case OpTrueDiv:
		if r.Sign() == 0 {
			return rational.Rational{}, false
		}
		return l.Div(r), true
	case OpFloorDiv:
		if r.Sign() == 0 {
			return rational.Rational{}, false
		}
		return l.Div(r).Floor(), true
	case OpMod:
		if r.Sign() == 0 || !l.IsInt() || !r.IsInt() {
			return rational.Rational{}, false
		}
		li, _ := l.Int64()
		ri, _ := r.Int64()
		return rational.FromInt64(li % ri), true
	case OpPow:
		if !r.IsInt() {
			return rational.Rational{}, false
		}
		n, ok := r.Int64()
		if !ok || n < 0 || n > 1<<20 {
			return rational.Rational{}, false
		}
		acc := rational.FromInt64(1)
		for i := int64(0); i < n; i++ {
			acc = acc.Mul(l)
		}
		return acc, true
	}
	return rational.Rational{}, false
}

func (s *Simplifier) simplifyShapeIndex(x ShapeIndex) ExpNum {
	shape := s.Shape(x.Shape)
	idx := s.Num(x.Index)
	if c, ok := shape.(ShapeConst); ok {
		if i, ok := AsConstInt(idx); ok {
			if i < 0 {
				i += int64(len(c.Dims))
			}
			if i >= 0 && int(i) < len(c.Dims) {
				return s.Num(c.Dims[i])
			}
		}
	}
	if cc, ok := shape.(ShapeConcat); ok {
		if i, ok := AsConstInt(idx); ok {
			if lc, ok := cc.L.(ShapeConst); ok {
				if i >= 0 && int(i) < len(lc.Dims) {
					return s.Num(lc.Dims[i])
				}
				if i >= int64(len(lc.Dims)) {
					return s.Num(ShapeIndex{Shape: cc.R, Index: Int(i - int64(len(lc.Dims)))})
				}
			}
		}
	}
	if sd, ok := shape.(ShapeSetDim); ok {
		if axis, ok := AsConstInt(sd.Axis); ok {
			if i, ok := AsConstInt(idx); ok && i == axis {
				return s.Num(sd.NewDim)
			}
			return s.Num(ShapeIndex{Shape: sd.Base, Index: idx})
		}
	}
	return ShapeIndex{Shape: shape, Index: idx}
}

func (s *Simplifier) simplifyNumel(x ShapeNumel) ExpNum {
	shape := s.Shape(x.Shape)
	switch sh := shape.(type) {
	case ShapeConst:
		acc := Int(1)
		for _, d := range sh.Dims {
			acc = s.Num(NumBinary{Op: OpMul, L: acc, R: d})
		}
		return acc
	case ShapeConcat:
		return s.Num(NumBinary{Op: OpMul, L: ShapeNumel{Shape: sh.L}, R: ShapeNumel{Shape: sh.R}})
	}
	return ShapeNumel{Shape: shape}
}

func (s *Simplifier) simplifyMinMax(x NumMinMax) ExpNum {
	args := make([]ExpNum, len(x.Args))
	var best *rational.Rational
	var symbolic []ExpNum
	for i, a := range x.Args {
		args[i] = s.Num(a)
		if c, ok := args[i].(NumConst); ok {
			if best == nil {
				v := c.Val
				best = &v
			} else if x.Op == OpMin && c.Val.Cmp(*best) < 0 {
				v := c.Val
				best = &v
			} else if x.Op == OpMax && c.Val.Cmp(*best) > 0 {
				v := c.Val
				best = &v
			}
		} else {
			symbolic = append(symbolic, args[i])
		}
	}
	if len(symbolic) == 0 && best != nil {
		return NumConst{Val: *best}
	}
	if best != nil {
		symbolic = append(symbolic, NumConst{Val: *best})
	}
	if len(symbolic) == 1 {
		return symbolic[0]
	}
	return NumMinMax{Op: x.Op, Args: symbolic}
}

// Bool applies the bottom-up boolean simplification rules of spec §4.2.
func (s *Simplifier) Bool(e ExpBool) ExpBool {
	switch x := e.(type) {
	case BoolConst, BoolSymbol:
		return x
	case NumEq:
		return s.simplifyNumEq(x)
	case Lt:
		return s.simplifyLt(x)
	case BoolEq:
		l, r := s.Bool(x.L), s.Bool(x.R)
		if lc, ok := l.(BoolConst); ok {
			if rc, ok := r.(BoolConst); ok {
				return BoolConst((bool(lc) == bool(rc)) != x.Ne)
			}
		}
		return BoolEq{L: l, R: r, Ne: x.Ne}
	case StringEq:
		l, r := s.String(x.L), s.String(x.R)
		if lc, ok := l.(StrConst); ok {
			if rc, ok := r.(StrConst); ok {
				return BoolConst((lc == rc) != x.Ne)
			}
		}
		return StringEq{L: l, R: r, Ne: x.Ne}
	case ShapeEq:
		l, r := s.Shape(x.L), s.Shape(x.R)
		if EqualShapeExpr(l, r) {
			return BoolConst(!x.Ne)
		}
		return ShapeEq{L: l, R: r, Ne: x.Ne}
	case BoolAnd:
		return s.simplifyAnd(x)
	case BoolOr:
		return s.simplifyOr(x)
	case BoolNot:
		return s.simplifyNot(x)
	}
	return e
}

func (s *Simplifier) simplifyNumEq(x NumEq) ExpBool {
	l := s.Num(x.L)
	r := s.Num(x.R)
	lc, lok := l.(NumConst)
	rc, rok := r.(NumConst)
	if lok && rok {
		return BoolConst((lc.Val.Cmp(rc.Val) == 0) != x.Ne)
	}
	if EqualNumExpr(l, r) {
		return BoolConst(!x.Ne)
	}
	return NumEq{L: l, R: r, Ne: x.Ne}
}

func (s *Simplifier) simplifyLt(x Lt) ExpBool {
	l := s.Num(x.L)
	r := s.Num(x.R)
	lc, lok := l.(NumConst)
	rc, rok := r.(NumConst)
	if lok && rok {
		c := lc.Val.Cmp(rc.Val)
		if x.Le {
			return BoolConst(c <= 0)
		}
		return BoolConst(c < 0)
	}
	return Lt{L: l, R: r, Le: x.Le}
}

func (s *Simplifier) simplifyAnd(x BoolAnd) ExpBool {
	var out []ExpBool
	for _, a := range x.Args {
		sa := s.Bool(a)
		if c, ok := sa.(BoolConst); ok {
			if !bool(c) {
				return BoolConst(false) // short-circuit
			}
			continue
		}
		out = append(out, sa)
	}
	if len(out) == 0 {
		return BoolConst(true)
	}
	if len(out) == 1 {
		return out[0]
	}
	return BoolAnd{Args: out}
}

func (s *Simplifier) simplifyOr(x BoolOr) ExpBool {
	var out []ExpBool
	for _, a := range x.Args {
		sa := s.Bool(a)
		if c, ok := sa.(BoolConst); ok {
			if bool(c) {
				return BoolConst(true) // short-circuit
			}
			continue
		}
		out = append(out, sa)
	}
	if len(out) == 0 {
		return BoolConst(false)
	}
	if len(out) == 1 {
		return out[0]
	}
	return BoolOr{Args: out}
}

func (s *Simplifier) simplifyNot(x BoolNot) ExpBool {
	inner := s.Bool(x.X)
	switch v := inner.(type) {
	case BoolConst:
		return BoolConst(!v)
	case Lt:
		// not (<) -> (>=), i.e. swap operands and flip strictness
		return Lt{L: v.R, R: v.L, Le: !v.Le}
	case NumEq:
		return NumEq{L: v.L, R: v.R, Ne: !v.Ne}
	case BoolEq:
		return BoolEq{L: v.L, R: v.R, Ne: !v.Ne}
	case StringEq:
		return StringEq{L: v.L, R: v.R, Ne: !v.Ne}
	case ShapeEq:
		return ShapeEq{L: v.L, R: v.R, Ne: !v.Ne}
	case BoolNot:
		return v.X // double negation cancels
	}
	return BoolNot{X: inner}
}

// String applies the bottom-up string simplification rules of spec §4.2.
func (s *Simplifier) String(e ExpString) ExpString {
	switch x := e.(type) {
	case StrConst, StrSymbol:
		return x
	case StrConcat:
		l := s.String(x.L)
		r := s.String(x.R)
		if lc, ok := l.(StrConst); ok {
			if rc, ok := r.(StrConst); ok {
				return StrConst(string(lc) + string(rc))
			}
		}
		return StrConcat{L: l, R: r}
	case StrSlice:
		return s.simplifyStrSlice(x)
	}
	return e
}

func (s *Simplifier) simplifyStrSlice(x StrSlice) ExpString {
	inner := s.String(x.X)
	c, ok := inner.(StrConst)
	if !ok {
		return StrSlice{X: inner, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
	}
	start, end := 0, len(c)
	if x.Start != nil {
		if v, ok := AsConstInt(s.Num(x.Start)); ok {
			start = absIndexByLen(int(v), len(c))
		} else {
			return StrSlice{X: inner, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
		}
	}
	if x.End != nil {
		if v, ok := AsConstInt(s.Num(x.End)); ok {
			end = absIndexByLen(int(v), len(c))
		} else {
			return StrSlice{X: inner, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
		}
	}
	if start < 0 {
		start = 0
	}
	if end > len(c) {
		end = len(c)
	}
	if start >= end {
		return StrConst("")
	}
	return StrConst(string(c)[start:end])
}

func simplifyOptNum(s *Simplifier, e ExpNum) ExpNum {
	if e == nil {
		return nil
	}
	return s.Num(e)
}

// absIndexByLen normalizes a possibly-negative Python-style index
// against a known length, per spec §9's "absIndexByLen utility" note;
// every slice/index site in this package and the interpreter funnels
// through here instead of duplicating the adjustment ad hoc.
func absIndexByLen(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	return idx
}

// AbsIndexByLen is the exported form used by the interpreter package at
// every indexing site (list/string/shape), per spec §9.
func AbsIndexByLen(idx, length int) int { return absIndexByLen(idx, length) }

// Shape applies the bottom-up shape simplification rules of spec §4.2.
func (s *Simplifier) Shape(e ExpShape) ExpShape {
	switch x := e.(type) {
	case ShapeConst:
		dims := make([]ExpNum, len(x.Dims))
		for i, d := range x.Dims {
			dims[i] = s.Num(d)
		}
		return ShapeConst{Dims: dims}
	case ShapeSymbol:
		if dims, ok := s.Ranges.CachedShape(x.ID); ok {
			return ShapeConst{Dims: dims}
		}
		return x
	case ShapeConcat:
		l := s.Shape(x.L)
		r := s.Shape(x.R)
		if lc, ok := l.(ShapeConst); ok {
			if rc, ok := r.(ShapeConst); ok {
				return ShapeConst{Dims: append(append([]ExpNum{}, lc.Dims...), rc.Dims...)}
			}
		}
		return ShapeConcat{L: l, R: r}
	case ShapeBroadcast:
		l := s.Shape(x.L)
		r := s.Shape(x.R)
		if lc, ok := l.(ShapeConst); ok {
			if rc, ok := r.(ShapeConst); ok {
				if dims, ok := s.foldBroadcast(lc, rc); ok {
					return ShapeConst{Dims: dims}
				}
			}
		}
		return ShapeBroadcast{L: l, R: r}
	case ShapeSetDim:
		base := s.Shape(x.Base)
		axis := s.Num(x.Axis)
		newDim := s.Num(x.NewDim)
		if bc, ok := base.(ShapeConst); ok {
			if i, ok := AsConstInt(axis); ok {
				idx := absIndexByLen(int(i), len(bc.Dims))
				if idx >= 0 && idx < len(bc.Dims) {
					dims := append([]ExpNum{}, bc.Dims...)
					dims[idx] = newDim
					return ShapeConst{Dims: dims}
				}
			}
		}
		return ShapeSetDim{Base: base, Axis: axis, NewDim: newDim}
	case ShapeSlice:
		return s.simplifyShapeSlice(x)
	}
	return e
}

func (s *Simplifier) simplifyShapeSlice(x ShapeSlice) ExpShape {
	base := s.Shape(x.Base)
	bc, ok := base.(ShapeConst)
	if !ok {
		return ShapeSlice{Base: base, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
	}
	start, end := 0, len(bc.Dims)
	if x.Start != nil {
		v, ok := AsConstInt(s.Num(x.Start))
		if !ok {
			return ShapeSlice{Base: base, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
		}
		start = absIndexByLen(int(v), len(bc.Dims))
	}
	if x.End != nil {
		v, ok := AsConstInt(s.Num(x.End))
		if !ok {
			return ShapeSlice{Base: base, Start: simplifyOptNum(s, x.Start), End: simplifyOptNum(s, x.End)}
		}
		end = absIndexByLen(int(v), len(bc.Dims))
	}
	if start < 0 {
		start = 0
	}
	if end > len(bc.Dims) {
		end = len(bc.Dims)
	}
	if start > end {
		start = end
	}
	return ShapeConst{Dims: append([]ExpNum{}, bc.Dims[start:end]...)}
}

// foldBroadcast folds broadcasting two constant-rank shapes per axis,
// aligning from the right; it reports ok=false when a pair is neither
// equal nor features a 1, in which case the caller should leave the
// broadcast symbolic and let the constraint solver's shape sub-solver
// (constraint.Solve's broadcastable handling) decide feasibility instead.
func (s *Simplifier) foldBroadcast(l, r ShapeConst) ([]ExpNum, bool) {
	n := len(l.Dims)
	if len(r.Dims) > n {
		n = len(r.Dims)
	}
	out := make([]ExpNum, n)
	for i := 0; i < n; i++ {
		var ld, rd ExpNum = Int(1), Int(1)
		if i < len(l.Dims) {
			ld = l.Dims[len(l.Dims)-1-i]
		}
		if i < len(r.Dims) {
			rd = r.Dims[len(r.Dims)-1-i]
		}
		lv, lok := AsConstInt(ld)
		rv, rok := AsConstInt(rd)
		switch {
		case lok && rok && lv == rv:
			out[n-1-i] = ld
		case lok && lv == 1:
			out[n-1-i] = rd
		case rok && rv == 1:
			out[n-1-i] = ld
		default:
			return nil, false
		}
	}
	return out, true
}
