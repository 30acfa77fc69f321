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

// BoolConst is a constant true/false.
type BoolConst bool

func (BoolConst) expBool() {}
func (b BoolConst) String() string {
	if b {
		return "true"
	}
	return "false"
}

// BoolSymbol is a free boolean variable.
type BoolSymbol struct {
	ID   SymbolID
	Name string
}

func (BoolSymbol) expBool() {}
func (b BoolSymbol) String() string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("b%d", b.ID)
}

// Equality nodes are split per operand sort (rather than a single tagged
// union over an interface{} operand) so that every subexpression's sort
// is enforced by the Go type system at construction time, per spec §3's
// "All subexpressions belong to the correct sort (statically enforced)".

// NumEq is equality (or, with Ne set, inequality) between two numeric
// expressions.
type NumEq struct {
	L, R ExpNum
	Ne   bool
}

func (NumEq) expBool() {}
func (e NumEq) String() string { return eqString(e.L, e.R, e.Ne) }

// BoolEq is equality between two boolean expressions.
type BoolEq struct {
	L, R ExpBool
	Ne   bool
}

func (BoolEq) expBool() {}
func (e BoolEq) String() string { return eqString(e.L, e.R, e.Ne) }

// StringEq is equality between two string expressions.
type StringEq struct {
	L, R ExpString
	Ne   bool
}

func (StringEq) expBool() {}
func (e StringEq) String() string { return eqString(e.L, e.R, e.Ne) }

// ShapeEq is equality between two shape expressions.
type ShapeEq struct {
	L, R ExpShape
	Ne   bool
}

func (ShapeEq) expBool() {}
func (e ShapeEq) String() string { return eqString(e.L, e.R, e.Ne) }

func eqString(l, r fmt.Stringer, ne bool) string {
	op := "="
	if ne {
		op = "<>"
	}
	return fmt.Sprintf("(%s %s %s)", l, op, r)
}

// Lt is l < r (or l <= r when Le is set) over numeric expressions.
type Lt struct {
	L, R ExpNum
	Le   bool
}

func (Lt) expBool() {}
func (l Lt) String() string {
	op := "<"
	if l.Le {
		op = "<="
	}
	return fmt.Sprintf("(%s %s %s)", l.L, op, l.R)
}

// BoolAnd is the conjunction of a non-empty argument list.
type BoolAnd struct {
	Args []ExpBool
}

func (BoolAnd) expBool() {}
func (b BoolAnd) String() string { return joinBool(b.Args, "and") }

// BoolOr is the disjunction of a non-empty argument list.
type BoolOr struct {
	Args []ExpBool
}

func (BoolOr) expBool() {}
func (b BoolOr) String() string { return joinBool(b.Args, "or") }

func joinBool(args []ExpBool, sep string) string {
	var parts []string
	for _, a := range args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " "+sep+" ") + ")"
}

// BoolNot negates a boolean expression.
type BoolNot struct {
	X ExpBool
}

func (BoolNot) expBool() {}
func (b BoolNot) String() string { return fmt.Sprintf("not(%s)", b.X) }

// EqualNum is a convenience constructor for num equality.
func EqualNum(l, r ExpNum) ExpBool { return NumEq{L: l, R: r} }

// NotEqualNum is a convenience constructor for num inequality.
func NotEqualNum(l, r ExpNum) ExpBool { return NumEq{L: l, R: r, Ne: true} }
