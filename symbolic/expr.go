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

// Package symbolic implements the four sorts of symbolic expression trees
// (num, bool, string, shape) tracked during path exploration, plus their
// simplifier. Trees are immutable: every constructor returns a new node,
// and rewriting always produces a new tree rather than mutating in place.
package symbolic

import "fmt"

// NumSort distinguishes integer-typed from float-typed numeric symbols;
// it governs whether range-cache intersection rounds to an integer
// interval (constraint.ToIntRange) when a symbol's range is narrowed.
type NumSort uint8

const (
	SortInt NumSort = iota
	SortFloat
)

func (s NumSort) String() string {
	if s == SortInt {
		return "int"
	}
	return "float"
}

// ExpNum is a symbolic numeric expression node.
type ExpNum interface {
	fmt.Stringer
	expNum()
}

// ExpBool is a symbolic boolean expression node.
type ExpBool interface {
	fmt.Stringer
	expBool()
}

// ExpString is a symbolic string expression node.
type ExpString interface {
	fmt.Stringer
	expString()
}

// ExpShape is a symbolic tensor-shape expression node.
type ExpShape interface {
	fmt.Stringer
	expShape()
}

// UnaryOp is a unary numeric operator.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpAbs
	OpFloor
	OpCeil
)

func (o UnaryOp) String() string {
	switch o {
	case OpNeg:
		return "-"
	case OpAbs:
		return "abs"
	case OpFloor:
		return "floor"
	case OpCeil:
		return "ceil"
	}
	return "?unary?"
}

// BinaryOp is a binary numeric operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpFloorDiv
	OpTrueDiv
	OpMod
	OpPow
)

func (o BinaryOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpFloorDiv:
		return "//"
	case OpTrueDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	}
	return "?binop?"
}

// MinMaxOp selects between the Min and Max n-ary reducers.
type MinMaxOp uint8

const (
	OpMin MinMaxOp = iota
	OpMax
)

func (o MinMaxOp) String() string {
	if o == OpMin {
		return "min"
	}
	return "max"
}

// SymbolID is a monotonically increasing identifier minted by a per-run
// counter (symbolic.Counter); two symbols never share an id within a run
// regardless of sort, so a SymbolID alone disambiguates structural
// equality without consulting display names.
type SymbolID uint64

// Counter mints fresh, strictly increasing SymbolIDs. The zero value is
// ready to use. Counter is not safe for concurrent use from multiple
// goroutines; the interpreter is single-threaded by design (spec §5), so
// no locking is required, but callers that do explore paths across real
// goroutines should wrap Next in a mutex or swap in an atomic counter.
type Counter struct {
	next uint64
}

// Next returns a fresh SymbolID.
func (c *Counter) Next() SymbolID {
	id := c.next
	c.next++
	return SymbolID(id)
}
