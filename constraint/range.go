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

// Package constraint implements the constraint algebra (Ctr), the
// constraint set with its range and shape caches (CtrSet), and the
// range-based solver that discharges and narrows feasibility queries
// (spec.md §4.4, §4.5).
package constraint

import (
	"fmt"

	"github.com/shapecheck/tsa/rational"
)

// NumRange is a closed/half-open real interval; HasStart/HasEnd false
// means unbounded on that side. Start/End are only meaningful when the
// corresponding Has flag is set.
type NumRange struct {
	Start, End         rational.Rational
	HasStart, HasEnd   bool
	StartOpen, EndOpen bool // open (strict) vs closed endpoint
}

// Unbounded is the range containing every rational.
func Unbounded() NumRange { return NumRange{} }

// Exactly returns the singleton range {v}.
func Exactly(v rational.Rational) NumRange {
	return NumRange{Start: v, End: v, HasStart: true, HasEnd: true}
}

// AtLeast returns [v, +inf), or (v, +inf) when open.
func AtLeast(v rational.Rational, open bool) NumRange {
	return NumRange{Start: v, HasStart: true, StartOpen: open}
}

// AtMost returns (-inf, v], or (-inf, v) when open.
func AtMost(v rational.Rational, open bool) NumRange {
	return NumRange{End: v, HasEnd: true, EndOpen: open}
}

// IsConst reports whether r has collapsed to exactly one value.
func (r NumRange) IsConst() (rational.Rational, bool) {
	if r.HasStart && r.HasEnd && !r.StartOpen && !r.EndOpen && r.Start.Cmp(r.End) == 0 {
		return r.Start, true
	}
	return rational.Rational{}, false
}

// Contains reports whether v falls inside the range.
func (r NumRange) Contains(v rational.Rational) bool {
	if r.HasStart {
		c := v.Cmp(r.Start)
		if c < 0 || (c == 0 && r.StartOpen) {
			return false
		}
	}
	if r.HasEnd {
		c := v.Cmp(r.End)
		if c > 0 || (c == 0 && r.EndOpen) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no value can satisfy the range (start > end,
// or start == end with either endpoint open).
func (r NumRange) IsEmpty() bool {
	if !r.HasStart || !r.HasEnd {
		return false
	}
	c := r.Start.Cmp(r.End)
	if c > 0 {
		return true
	}
	if c == 0 && (r.StartOpen || r.EndOpen) {
		return true
	}
	return false
}

// Intersect returns the range satisfying both r and other.
func (r NumRange) Intersect(other NumRange) NumRange {
	out := r
	if other.HasStart {
		if !out.HasStart || other.Start.Cmp(out.Start) > 0 ||
			(other.Start.Cmp(out.Start) == 0 && other.StartOpen) {
			out.Start = other.Start
			out.HasStart = true
			out.StartOpen = other.StartOpen
		}
	}
	if other.HasEnd {
		if !out.HasEnd || other.End.Cmp(out.End) < 0 ||
			(other.End.Cmp(out.End) == 0 && other.EndOpen) {
			out.End = other.End
			out.HasEnd = true
			out.EndOpen = other.EndOpen
		}
	}
	return out
}

// Gt reports whether every value in r is strictly greater than v.
func (r NumRange) Gt(v rational.Rational) bool {
	return r.HasStart && (r.Start.Cmp(v) > 0 || (r.Start.Cmp(v) == 0 && r.StartOpen))
}

// Gte reports whether every value in r is >= v.
func (r NumRange) Gte(v rational.Rational) bool {
	return r.HasStart && r.Start.Cmp(v) >= 0
}

// Lt reports whether every value in r is strictly less than v.
func (r NumRange) Lt(v rational.Rational) bool {
	return r.HasEnd && (r.End.Cmp(v) < 0 || (r.End.Cmp(v) == 0 && r.EndOpen))
}

// Lte reports whether every value in r is <= v.
func (r NumRange) Lte(v rational.Rational) bool {
	return r.HasEnd && r.End.Cmp(v) <= 0
}

// IsTruthy reports whether every value in r is considered "truthy"
// (nonzero); used by the interpreter's isTruthy on a symbolic scalar
// whose range has been narrowed enough to decide without branching.
func (r NumRange) IsTruthy() bool {
	zero := rational.Zero()
	return r.Gt(zero) || r.Lt(zero)
}

// IsFalsy reports whether the range contains only zero.
func (r NumRange) IsFalsy() bool {
	v, ok := r.IsConst()
	return ok && v.Sign() == 0
}

// ToIntRange rounds a real interval inward to an integer interval:
// closed endpoints round inward (ceil start, floor end), per spec §9's
// rounding policy. Used only for integer-typed symbols.
func ToIntRange(r NumRange) NumRange {
	out := r
	if r.HasStart {
		start := r.Start.Ceil()
		if r.StartOpen {
			// smallest integer strictly greater than r.Start
			start = r.Start.Floor().Add(rational.FromInt64(1))
		}
		out.Start = start
		out.HasStart = true
		out.StartOpen = false
	}
	if r.HasEnd {
		end := r.End.Floor()
		if r.EndOpen {
			// largest integer strictly less than r.End
			end = r.End.Ceil().Sub(rational.FromInt64(1))
		}
		out.End = end
		out.HasEnd = true
		out.EndOpen = false
	}
	return out
}

func (r NumRange) String() string {
	lo, hi := "-inf", "+inf"
	lb, rb := "(", ")"
	if r.HasStart {
		lo = r.Start.String()
		if !r.StartOpen {
			lb = "["
		}
	}
	if r.HasEnd {
		hi = r.End.String()
		if !r.EndOpen {
			rb = "]"
		}
	}
	return fmt.Sprintf("%s%s, %s%s", lb, lo, hi, rb)
}
