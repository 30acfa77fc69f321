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
)

// ShapeConst is a shape of statically known rank with a dimension list;
// individual dimensions may themselves be symbolic (a constant rank with
// one or more unresolved dims, e.g. (3, s, 4)).
type ShapeConst struct {
	Dims []ExpNum
}

func (ShapeConst) expShape() {}
func (s ShapeConst) String() string {
	var parts []string
	for _, d := range s.Dims {
		parts = append(parts, d.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Rank returns the statically known rank of a constant shape.
func (s ShapeConst) Rank() int { return len(s.Dims) }

// ShapeSymbol is a free shape variable whose rank may itself be
// symbolic (an unrolled tensor argument of unknown dimensionality).
type ShapeSymbol struct {
	ID   SymbolID
	Rank ExpNum
	Name string
}

func (ShapeSymbol) expShape() {}
func (s ShapeSymbol) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("S%d", s.ID)
}

// ShapeConcat is the concatenation of two shapes along their leading
// axis, e.g. concatenating a batch prefix onto a feature shape.
type ShapeConcat struct {
	L, R ExpShape
}

func (ShapeConcat) expShape() {}
func (s ShapeConcat) String() string { return fmt.Sprintf("(%s ++ %s)", s.L, s.R) }

// ShapeBroadcast is the numpy/PyTorch broadcast of two shapes: aligned
// from the right, each axis pair must be equal or one of them must be 1.
type ShapeBroadcast struct {
	L, R ExpShape
}

func (ShapeBroadcast) expShape() {}
func (s ShapeBroadcast) String() string { return fmt.Sprintf("broadcast(%s, %s)", s.L, s.R) }

// ShapeSetDim replaces the dimension at Axis with NewDim.
type ShapeSetDim struct {
	Base   ExpShape
	Axis   ExpNum
	NewDim ExpNum
}

func (ShapeSetDim) expShape() {}
func (s ShapeSetDim) String() string {
	return fmt.Sprintf("setDim(%s, %s, %s)", s.Base, s.Axis, s.NewDim)
}

// ShapeSlice is a Python-style slice of a shape's axis list.
type ShapeSlice struct {
	Base       ExpShape
	Start, End ExpNum
}

func (ShapeSlice) expShape() {}
func (s ShapeSlice) String() string {
	start, end := "", ""
	if s.Start != nil {
		start = s.Start.String()
	}
	if s.End != nil {
		end = s.End.String()
	}
	return fmt.Sprintf("%s[%s:%s]", s.Base, start, end)
}
