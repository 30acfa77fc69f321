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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/shapecheck/tsa/rational"
	"github.com/shapecheck/tsa/symbolic"
)

// CtrSet is an ordered log of constraints plus the per-symbol range
// cache and per-shape-symbol concrete-dimension cache described in
// spec §3/§4.4. The zero value is a ready-to-use, unfailed, empty set.
//
// CtrSet is copy-on-write: Add never mutates the receiver; when it
// records anything it returns a new CtrSet whose log and maps are fresh
// copies of the old set's (see clone), so that two
// sibling paths forked from the same Ctx can each extend their own copy
// independently (spec §4.6 "Merging" / "Persistent collections" §9).
type CtrSet struct {
	log     []Ctr
	ranges  map[symbolic.SymbolID]NumRange
	shapes  map[symbolic.SymbolID][]symbolic.ExpNum
	nextID  int
	failed  bool
	failMsg string
	failSrc *Source
	seen    map[uint64]struct{} // siphash-keyed duplicate-constraint skip, see SPEC_FULL §B
	fp      map[string]struct{} // blake2b-keyed duplicate-constraint skip, independent of seen
}

// New returns an empty, unfailed CtrSet.
func New() *CtrSet {
	return &CtrSet{nextID: 1}
}

// Failed reports whether this set has been proven infeasible.
func (cs *CtrSet) Failed() bool { return cs.failed }

// FailMessage returns the reason the set became infeasible, if any.
func (cs *CtrSet) FailMessage() string { return cs.failMsg }

// FailSource returns the source location of the constraint that proved
// the set infeasible, when one was carried (spec §6 "optional failure
// message with source"). A range-narrowing failure (SetSymbolRange) has
// no single originating constraint and so leaves this nil.
func (cs *CtrSet) FailSource() *Source { return cs.failSrc }

// Log returns the ordered list of constraints added so far (including
// ones that were no-ops against the range cache at insertion time, so
// that diagnostics can report every precondition actually checked).
func (cs *CtrSet) Log() []Ctr { return cs.log }

// clone performs a shallow copy-on-write duplication: it is the single
// point every mutating operation starts from.
func (cs *CtrSet) clone() *CtrSet {
	out := &CtrSet{
		nextID:  cs.nextID,
		failed:  cs.failed,
		failMsg: cs.failMsg,
		failSrc: cs.failSrc,
	}
	out.log = append(out.log, cs.log...)
	if cs.ranges != nil {
		out.ranges = make(map[symbolic.SymbolID]NumRange, len(cs.ranges))
		for k, v := range cs.ranges {
			out.ranges[k] = v
		}
	}
	if cs.shapes != nil {
		out.shapes = make(map[symbolic.SymbolID][]symbolic.ExpNum, len(cs.shapes))
		for k, v := range cs.shapes {
			out.shapes[k] = v
		}
	}
	if cs.seen != nil {
		out.seen = make(map[uint64]struct{}, len(cs.seen))
		for k := range cs.seen {
			out.seen[k] = struct{}{}
		}
	}
	if cs.fp != nil {
		out.fp = make(map[string]struct{}, len(cs.fp))
		for k := range cs.fp {
			out.fp[k] = struct{}{}
		}
	}
	return out
}

// GetSymbolRange returns the cached interval for sym, defaulting to the
// unbounded range when nothing has narrowed it yet.
func (cs *CtrSet) GetSymbolRange(sym symbolic.SymbolID) NumRange {
	if cs.ranges == nil {
		return Unbounded()
	}
	if r, ok := cs.ranges[sym]; ok {
		return r
	}
	return Unbounded()
}

// SetSymbolRange narrows sym's cached range, intersecting with whatever
// was already recorded, and rounds to an integer interval when isInt is
// set (spec §4.4 "Integer symbols intersect with toIntRange").
func (cs *CtrSet) SetSymbolRange(sym symbolic.SymbolID, r NumRange, isInt bool) *CtrSet {
	out := cs.clone()
	merged := out.GetSymbolRange(sym).Intersect(r)
	if isInt {
		merged = ToIntRange(merged)
	}
	if out.ranges == nil {
		out.ranges = make(map[symbolic.SymbolID]NumRange)
	}
	out.ranges[sym] = merged
	if merged.IsEmpty() {
		out.failed = true
		out.failMsg = fmt.Sprintf("symbol range became empty: n%d in %s", sym, merged)
	}
	return out
}

// GetCachedShape returns the concrete per-axis dimension list recorded
// for a shape symbol, when the accumulated equalities pin every axis.
func (cs *CtrSet) GetCachedShape(sym symbolic.SymbolID) ([]symbolic.ExpNum, bool) {
	if cs.shapes == nil {
		return nil, false
	}
	dims, ok := cs.shapes[sym]
	return dims, ok
}

// SetCachedShape records a concrete dimension list for a shape symbol.
func (cs *CtrSet) SetCachedShape(sym symbolic.SymbolID, dims []symbolic.ExpNum) *CtrSet {
	out := cs.clone()
	if out.shapes == nil {
		out.shapes = make(map[symbolic.SymbolID][]symbolic.ExpNum)
	}
	out.shapes[sym] = dims
	return out
}

// SymbolRange pairs a symbol with its cached range, for reporting (spec
// §6 "the symbol-range snapshot").
type SymbolRange struct {
	Symbol symbolic.SymbolID
	Range  NumRange
}

// RangeSnapshot returns every symbol currently narrowed in the range
// cache, sorted by symbol id so two runs over the same program report
// the same order (spec §8 Testable Property 6 "interpreter
// determinism"). Sorting a map's keys this way is exactly what
// golang.org/x/exp/slices and golang.org/x/exp/maps are for, rather
// than a hand-rolled sort.
func (cs *CtrSet) RangeSnapshot() []SymbolRange {
	ids := maps.Keys(cs.ranges)
	slices.Sort(ids)
	out := make([]SymbolRange, 0, len(ids))
	for _, id := range ids {
		out = append(out, SymbolRange{Symbol: id, Range: cs.ranges[id]})
	}
	return out
}

// SingletonValue implements symbolic.RangeProvider.
func (cs *CtrSet) SingletonValue(sym symbolic.SymbolID) (rational.Rational, bool) {
	return cs.GetSymbolRange(sym).IsConst()
}

// CachedShape implements symbolic.RangeProvider.
func (cs *CtrSet) CachedShape(sym symbolic.SymbolID) ([]symbolic.ExpNum, bool) {
	return cs.GetCachedShape(sym)
}

// Simplifier returns a symbolic.Simplifier backed by this set's range
// cache, per spec §4.2 "Every simplifier consults the constraint set's
// range cache".
func (cs *CtrSet) Simplifier() *symbolic.Simplifier { return symbolic.NewSimplifier(cs) }

// CheckImmediate returns a definite truth value for c when the range
// cache alone decides it, or nil when undecided (spec §4.4).
func (cs *CtrSet) CheckImmediate(c Ctr) *bool {
	sim := cs.Simplifier()
	return checkImmediate(sim, c)
}

func boolp(b bool) *bool { return &b }

func checkImmediate(sim *symbolic.Simplifier, c Ctr) *bool {
	switch c.Kind {
	case KindFail:
		return boolp(false)
	case KindEq:
		l, r := sim.Num(c.L), sim.Num(c.R)
		if lc, ok := l.(symbolic.NumConst); ok {
			if rc, ok := r.(symbolic.NumConst); ok {
				return boolp(lc.Val.Cmp(rc.Val) == 0)
			}
		}
		if symbolic.EqualNumExpr(l, r) {
			return boolp(true)
		}
	case KindNe:
		if r := checkImmediate(sim, Eq(c.L, c.R)); r != nil {
			return boolp(!*r)
		}
	case KindLt, KindLe:
		l, r := sim.Num(c.L), sim.Num(c.R)
		lc, lok := l.(symbolic.NumConst)
		rc, rok := r.(symbolic.NumConst)
		if lok && rok {
			cmp := lc.Val.Cmp(rc.Val)
			if c.Kind == KindLe {
				return boolp(cmp <= 0)
			}
			return boolp(cmp < 0)
		}
	case KindAnd:
		if len(c.Args) == 0 {
			return boolp(true)
		}
		allTrue := true
		for _, a := range c.Args {
			v := checkImmediate(sim, a)
			if v == nil {
				allTrue = false
				continue
			}
			if !*v {
				return boolp(false)
			}
		}
		if allTrue {
			return boolp(true)
		}
	case KindOr:
		if len(c.Args) == 0 {
			return boolp(false)
		}
		allFalse := true
		for _, a := range c.Args {
			v := checkImmediate(sim, a)
			if v == nil {
				allFalse = false
				continue
			}
			if *v {
				return boolp(true)
			}
		}
		if allFalse {
			return boolp(false)
		}
	case KindNot:
		if v := checkImmediate(sim, c.Args[0]); v != nil {
			return boolp(!*v)
		}
	case KindExpBool:
		b := sim.Bool(c.Bool)
		if bc, ok := b.(symbolic.BoolConst); ok {
			return boolp(bool(bc))
		}
	case KindForall, KindBroadcastable:
		// decided axis-wise by the shape sub-solver when possible; see
		// checkShapeImmediate in shapesolver.go.
		return checkShapeImmediate(sim, c)
	}
	return nil
}
