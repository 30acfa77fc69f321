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

// EqualNumExpr compares two numeric expressions structurally: same sort,
// same operator kind, equal children, and symbol ids (never display
// names) for NumSymbol leaves. Used by linear normalization (§4.3) to
// recognize and cancel like terms.
func EqualNumExpr(a, b ExpNum) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case NumConst:
		y, ok := b.(NumConst)
		return ok && x.Val.Cmp(y.Val) == 0
	case NumSymbol:
		y, ok := b.(NumSymbol)
		return ok && x.ID == y.ID
	case NumUnary:
		y, ok := b.(NumUnary)
		return ok && x.Op == y.Op && EqualNumExpr(x.X, y.X)
	case NumBinary:
		y, ok := b.(NumBinary)
		return ok && x.Op == y.Op && EqualNumExpr(x.L, y.L) && EqualNumExpr(x.R, y.R)
	case ShapeIndex:
		y, ok := b.(ShapeIndex)
		return ok && EqualShapeExpr(x.Shape, y.Shape) && EqualNumExpr(x.Index, y.Index)
	case ShapeNumel:
		y, ok := b.(ShapeNumel)
		return ok && EqualShapeExpr(x.Shape, y.Shape)
	case NumMinMax:
		y, ok := b.(NumMinMax)
		if !ok || x.Op != y.Op || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !EqualNumExpr(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualBoolExpr compares two boolean expressions structurally.
func EqualBoolExpr(a, b ExpBool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case BoolConst:
		y, ok := b.(BoolConst)
		return ok && x == y
	case BoolSymbol:
		y, ok := b.(BoolSymbol)
		return ok && x.ID == y.ID
	case NumEq:
		y, ok := b.(NumEq)
		return ok && x.Ne == y.Ne && EqualNumExpr(x.L, y.L) && EqualNumExpr(x.R, y.R)
	case BoolEq:
		y, ok := b.(BoolEq)
		return ok && x.Ne == y.Ne && EqualBoolExpr(x.L, y.L) && EqualBoolExpr(x.R, y.R)
	case StringEq:
		y, ok := b.(StringEq)
		return ok && x.Ne == y.Ne && EqualStringExpr(x.L, y.L) && EqualStringExpr(x.R, y.R)
	case ShapeEq:
		y, ok := b.(ShapeEq)
		return ok && x.Ne == y.Ne && EqualShapeExpr(x.L, y.L) && EqualShapeExpr(x.R, y.R)
	case Lt:
		y, ok := b.(Lt)
		return ok && x.Le == y.Le && EqualNumExpr(x.L, y.L) && EqualNumExpr(x.R, y.R)
	case BoolAnd:
		y, ok := b.(BoolAnd)
		return ok && equalBoolList(x.Args, y.Args)
	case BoolOr:
		y, ok := b.(BoolOr)
		return ok && equalBoolList(x.Args, y.Args)
	case BoolNot:
		y, ok := b.(BoolNot)
		return ok && EqualBoolExpr(x.X, y.X)
	}
	return false
}

func equalBoolList(a, b []ExpBool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualBoolExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualStringExpr compares two string expressions structurally.
func EqualStringExpr(a, b ExpString) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case StrConst:
		y, ok := b.(StrConst)
		return ok && x == y
	case StrSymbol:
		y, ok := b.(StrSymbol)
		return ok && x.ID == y.ID
	case StrConcat:
		y, ok := b.(StrConcat)
		return ok && EqualStringExpr(x.L, y.L) && EqualStringExpr(x.R, y.R)
	case StrSlice:
		y, ok := b.(StrSlice)
		return ok && EqualStringExpr(x.X, y.X) && equalOptNum(x.Start, y.Start) && equalOptNum(x.End, y.End)
	}
	return false
}

// EqualShapeExpr compares two shape expressions structurally.
func EqualShapeExpr(a, b ExpShape) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case ShapeConst:
		y, ok := b.(ShapeConst)
		if !ok || len(x.Dims) != len(y.Dims) {
			return false
		}
		for i := range x.Dims {
			if !EqualNumExpr(x.Dims[i], y.Dims[i]) {
				return false
			}
		}
		return true
	case ShapeSymbol:
		y, ok := b.(ShapeSymbol)
		return ok && x.ID == y.ID
	case ShapeConcat:
		y, ok := b.(ShapeConcat)
		return ok && EqualShapeExpr(x.L, y.L) && EqualShapeExpr(x.R, y.R)
	case ShapeBroadcast:
		y, ok := b.(ShapeBroadcast)
		return ok && EqualShapeExpr(x.L, y.L) && EqualShapeExpr(x.R, y.R)
	case ShapeSetDim:
		y, ok := b.(ShapeSetDim)
		return ok && EqualShapeExpr(x.Base, y.Base) && EqualNumExpr(x.Axis, y.Axis) && EqualNumExpr(x.NewDim, y.NewDim)
	case ShapeSlice:
		y, ok := b.(ShapeSlice)
		return ok && EqualShapeExpr(x.Base, y.Base) && equalOptNum(x.Start, y.Start) && equalOptNum(x.End, y.End)
	}
	return false
}

func equalOptNum(a, b ExpNum) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return EqualNumExpr(a, b)
}
