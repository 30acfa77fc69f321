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
	"strings"

	"github.com/shapecheck/tsa/rational"
)

// NumConst is a constant rational (or float-derived) value.
type NumConst struct {
	Val rational.Rational
}

func (NumConst) expNum() {}
func (n NumConst) String() string { return n.Val.String() }

// NumSymbol is a free numeric variable: a rank, a dimension, or a
// user-scalar the interpreter could not resolve to a constant.
type NumSymbol struct {
	ID   SymbolID
	Sort NumSort
	Name string
}

func (NumSymbol) expNum() {}
func (n NumSymbol) String() string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("n%d", n.ID)
}

// NumUnary applies a unary operator to a numeric sub-expression.
type NumUnary struct {
	Op UnaryOp
	X  ExpNum
}

func (NumUnary) expNum() {}
func (n NumUnary) String() string { return fmt.Sprintf("%s(%s)", n.Op, n.X) }

// NumBinary applies a binary operator to two numeric sub-expressions.
type NumBinary struct {
	Op   BinaryOp
	L, R ExpNum
}

func (NumBinary) expNum() {}
func (n NumBinary) String() string { return fmt.Sprintf("(%s %s %s)", n.L, n.Op, n.R) }

// ShapeIndex denotes shape[i], the i-th dimension of a shape expression.
type ShapeIndex struct {
	Shape ExpShape
	Index ExpNum
}

func (ShapeIndex) expNum() {}
func (n ShapeIndex) String() string { return fmt.Sprintf("%s[%s]", n.Shape, n.Index) }

// ShapeNumel denotes numel(shape), the product of a shape's dimensions.
type ShapeNumel struct {
	Shape ExpShape
}

func (ShapeNumel) expNum() {}
func (n ShapeNumel) String() string { return fmt.Sprintf("numel(%s)", n.Shape) }

// NumMinMax is the n-ary min/max reducer over a non-empty argument list.
type NumMinMax struct {
	Op   MinMaxOp
	Args []ExpNum
}

func (NumMinMax) expNum() {}
func (n NumMinMax) String() string {
	var parts []string
	for _, a := range n.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s(%s)", n.Op, strings.Join(parts, ", "))
}

// Int is a convenience constructor for an integer NumConst.
func Int(v int64) ExpNum { return NumConst{Val: rational.FromInt64(v)} }

// Float is a convenience constructor for a float-derived NumConst.
func Float(v float64) ExpNum { return NumConst{Val: rational.FromFloat(v)} }

// AsConstInt reports whether e is a NumConst holding an integer value,
// returning it as an int64 when it fits.
func AsConstInt(e ExpNum) (int64, bool) {
	c, ok := e.(NumConst)
	if !ok {
		return 0, false
	}
	return c.Val.Int64()
}
