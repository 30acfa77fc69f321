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

import (
	"fmt"

	"github.com/shapecheck/tsa/symbolic"
)

// Kind discriminates the Ctr tagged union.
type Kind uint8

const (
	KindEq Kind = iota
	KindNe
	KindLt
	KindLe
	KindAnd
	KindOr
	KindNot
	KindForall
	KindBroadcastable
	KindExpBool
	KindFail
)

// Severity distinguishes a hard precondition (failure to discharge
// fails the path) from a soft one (failure to discharge only warns),
// per SPEC_FULL §C.1.
type Severity uint8

const (
	Hard Severity = iota
	Soft
)

// Source is an optional file position, carried through from the
// external IR (spec §6) for diagnostics.
type Source struct {
	FileID int
	Start  int
	End    int
}

func (s *Source) String() string {
	if s == nil {
		return "<no source>"
	}
	return fmt.Sprintf("file%d:%d-%d", s.FileID, s.Start, s.End)
}

// Ctr is the constraint algebra node. It is immutable; ID and Source
// are assigned when the constraint is inserted into a CtrSet (spec §3
// "each carries an id (assigned on insertion into a set)").
type Ctr struct {
	ID       int // 0 until inserted
	Kind     Kind
	Severity Severity
	Source   *Source
	Message  string

	// KindEq/KindNe/KindLt/KindLe operate on ExpNum operands.
	L, R symbolic.ExpNum
	// KindAnd/KindOr/KindNot combine sub-constraints.
	Args []Ctr
	// KindForall: universally quantifies Body over Sym ranging across Range.
	Sym   symbolic.NumSymbol
	Range NumRange
	Body  *Ctr
	// KindBroadcastable operates on ExpShape operands (reuses L/R's
	// slots is avoided on purpose: broadcastable is shape-sorted, not
	// num-sorted, so it gets its own fields for static clarity).
	ShapeL, ShapeR symbolic.ExpShape
	// KindExpBool wraps an arbitrary already-built boolean expression
	// (e.g. one produced by the interpreter's truthiness check).
	Bool symbolic.ExpBool
	// KindFail: an explicit, unconditional contradiction.
	FailReason string
}

// Eq builds l = r.
func Eq(l, r symbolic.ExpNum) Ctr { return Ctr{Kind: KindEq, L: l, R: r} }

// Ne builds l <> r.
func Ne(l, r symbolic.ExpNum) Ctr { return Ctr{Kind: KindNe, L: l, R: r} }

// LessThan builds l < r.
func LessThan(l, r symbolic.ExpNum) Ctr { return Ctr{Kind: KindLt, L: l, R: r} }

// LessEq builds l <= r.
func LessEq(l, r symbolic.ExpNum) Ctr { return Ctr{Kind: KindLe, L: l, R: r} }

// And builds the conjunction of a non-empty argument list.
func And(args ...Ctr) Ctr { return Ctr{Kind: KindAnd, Args: args} }

// Or builds the disjunction of a non-empty argument list.
func Or(args ...Ctr) Ctr { return Ctr{Kind: KindOr, Args: args} }

// Not builds the negation of c.
func Not(c Ctr) Ctr { return Ctr{Kind: KindNot, Args: []Ctr{c}} }

// Forall builds a universally quantified constraint over sym ranging
// across rng, per spec §3.
func Forall(sym symbolic.NumSymbol, rng NumRange, body Ctr) Ctr {
	return Ctr{Kind: KindForall, Sym: sym, Range: rng, Body: &body}
}

// Broadcastable builds the broadcastability predicate between two
// shapes.
func Broadcastable(l, r symbolic.ExpShape) Ctr {
	return Ctr{Kind: KindBroadcastable, ShapeL: l, ShapeR: r}
}

// FromBool wraps an arbitrary boolean expression as a constraint.
func FromBool(b symbolic.ExpBool) Ctr { return Ctr{Kind: KindExpBool, Bool: b} }

// Fail builds an explicit, unconditional contradiction.
func Fail(reason string) Ctr { return Ctr{Kind: KindFail, FailReason: reason} }

// WithSource attaches a source location and returns the updated Ctr.
func (c Ctr) WithSource(src *Source) Ctr { c.Source = src; return c }

// WithMessage attaches a diagnostic message and returns the updated Ctr.
func (c Ctr) WithMessage(msg string) Ctr { c.Message = msg; return c }

// WithSeverity sets whether failing to discharge c should fail or warn.
func (c Ctr) WithSeverity(sv Severity) Ctr { c.Severity = sv; return c }

func (c Ctr) String() string {
	switch c.Kind {
	case KindEq:
		return fmt.Sprintf("(%s = %s)", c.L, c.R)
	case KindNe:
		return fmt.Sprintf("(%s <> %s)", c.L, c.R)
	case KindLt:
		return fmt.Sprintf("(%s < %s)", c.L, c.R)
	case KindLe:
		return fmt.Sprintf("(%s <= %s)", c.L, c.R)
	case KindAnd:
		return joinCtr(c.Args, "and")
	case KindOr:
		return joinCtr(c.Args, "or")
	case KindNot:
		return fmt.Sprintf("not(%s)", c.Args[0])
	case KindForall:
		return fmt.Sprintf("forall %s in %s: %s", c.Sym, c.Range, c.Body)
	case KindBroadcastable:
		return fmt.Sprintf("broadcastable(%s, %s)", c.ShapeL, c.ShapeR)
	case KindExpBool:
		return c.Bool.String()
	case KindFail:
		return fmt.Sprintf("fail(%s)", c.FailReason)
	}
	return "?ctr?"
}

func joinCtr(args []Ctr, sep string) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += " " + sep + " "
		}
		s += a.String()
	}
	return s + ")"
}

// Negate returns the logical negation of c, pushing the ¬ inward one
// level (De Morgan) rather than wrapping in KindNot, matching what
// destructPrimitive needs during solving (spec §4.5 step 1).
func (c Ctr) Negate() Ctr {
	switch c.Kind {
	case KindEq:
		return Ne(c.L, c.R)
	case KindNe:
		return Eq(c.L, c.R)
	case KindLt:
		return LessEq(c.R, c.L) // not(a<b) -> b<=a
	case KindLe:
		return LessThan(c.R, c.L) // not(a<=b) -> b<a
	case KindAnd:
		neg := make([]Ctr, len(c.Args))
		for i, a := range c.Args {
			neg[i] = a.Negate()
		}
		return Or(neg...)
	case KindOr:
		neg := make([]Ctr, len(c.Args))
		for i, a := range c.Args {
			neg[i] = a.Negate()
		}
		return And(neg...)
	case KindNot:
		return c.Args[0]
	case KindExpBool:
		return FromBool(symbolic.BoolNot{X: c.Bool})
	case KindFail:
		return Ctr{Kind: KindAnd} // negation of an unconditional failure is vacuously true
	}
	return Not(c)
}
