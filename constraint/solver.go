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
	"github.com/dchest/siphash"

	"github.com/shapecheck/tsa/rational"
	"github.com/shapecheck/tsa/symbolic"
)

// solverStepBudget bounds the per-constraint solving loop (spec §4.5
// "Step up to 100 iterations" / §5 "the solver loop caps at 100 steps
// per constraint").
const solverStepBudget = 100

// hashKey0/hashKey1 are fixed siphash keys; the cache is only ever used
// within a single run (not persisted across runs), so a fixed key pair
// is fine - it only needs to avoid accidental collisions between
// distinct constraints within one CtrSet, not resist adversarial input.
const hashKey0, hashKey1 = 0x5ca1ab1ecafebabe, 0x0ddc0ffeebadf00d

// Add assigns the next id to c, records its source, and runs it through
// the solver, per spec §4.4 "Insertion (add)". It never panics and
// never returns an error: an unsolvable-but-not-disproved constraint
// just stays in the log (spec §4.5 "Failure of the solver is never
// propagated to the caller").
func (cs *CtrSet) Add(c Ctr, src *Source, msg string) *CtrSet {
	if cs.failed {
		return cs
	}
	c.Source = src
	if msg != "" {
		c.Message = msg
	}

	sim := cs.Simplifier()
	if v := checkImmediate(sim, c); v != nil {
		if !*v {
			out := cs.clone()
			out.failed = true
			out.failSrc = src
			if msg != "" {
				out.failMsg = msg
			} else {
				out.failMsg = "constraint proven false: " + c.String()
			}
			out.appendLog(c)
			return out
		}
		// trivially true: still logged (spec §4.9 wants every
		// precondition actually checked reported), but no solving
		// needed.
		out := cs.clone()
		out.appendLog(c)
		return out
	}

	key := hashCtr(c)
	fp := symbolic.Fingerprint(c)
	out := cs
	if out.seen != nil && out.fp != nil {
		_, seenDup := out.seen[key]
		_, fpDup := out.fp[fp]
		if seenDup && fpDup {
			// both independent hash families agree this constraint is
			// already logged; a collision confined to just one of them
			// would not be enough to trigger the skip (spec §B de-dup).
			return out
		}
	}
	out = out.clone()
	if out.seen == nil {
		out.seen = make(map[uint64]struct{})
	}
	if out.fp == nil {
		out.fp = make(map[string]struct{})
	}
	out.seen[key] = struct{}{}
	out.fp[fp] = struct{}{}
	out.appendLog(c)
	return out.solve(c)
}

func (cs *CtrSet) appendLog(c Ctr) {
	c.ID = cs.nextID
	cs.nextID++
	cs.log = append(cs.log, c)
}

// solve runs the constraint-solving algorithm of spec §4.5: destructure
// into primitives, normalize each linear (in)equality, and narrow the
// range cache. Non-linear or multi-symbol primitives are left in the
// log unresolved rather than poisoning the set.
func (cs *CtrSet) solve(c Ctr) *CtrSet {
	out := cs
	for _, prim := range destructPrimitives(c) {
		out = out.solvePrimitive(prim)
		if out.failed {
			return out
		}
	}
	return out
}

// destructPrimitives pushes negation inward (De Morgan) and splits
// conjunctions into a flat list, per spec §4.5 step 1. Disjunctions are
// left as a single opaque primitive (the "use range cache to simplify
// disjunctions" rule is applied by checkImmediate before solve is ever
// reached for a KindOr, so any KindOr surviving to here is genuinely
// undecided and not further destructed).
func destructPrimitives(c Ctr) []Ctr {
	switch c.Kind {
	case KindAnd:
		var out []Ctr
		for _, a := range c.Args {
			out = append(out, destructPrimitives(a)...)
		}
		return out
	case KindNot:
		return destructPrimitives(c.Args[0].Negate())
	default:
		return []Ctr{c}
	}
}

// solvePrimitive handles one primitive constraint: num equality/
// inequality/</<=. is solved by linear normalization (spec §4.5 step
// 2); shape/forall/broadcastable feed the shape sub-solver (step 3);
// everything else (Or, ExpBool wrapping a non-comparison) is left
// in the log unresolved.
func (cs *CtrSet) solvePrimitive(c Ctr) *CtrSet {
	switch c.Kind {
	case KindEq, KindNe, KindLt, KindLe:
		return cs.solveLinear(c)
	case KindForall, KindBroadcastable:
		return cs.solveShape(c)
	case KindFail:
		out := cs.clone()
		out.failed = true
		out.failMsg = c.FailReason
		return out
	default:
		return cs
	}
}

// solveLinear implements spec §4.5 step 2: normalize left-right,
// iterate up to solverStepBudget collecting the symbol-with-coefficient
// term; give up gracefully on non-linear or multi-symbol results.
func (cs *CtrSet) solveLinear(c Ctr) *CtrSet {
	diff := symbolic.NumBinary{Op: symbolic.OpSub, L: c.L, R: c.R}
	sim := cs.Simplifier()
	simplified := sim.Num(diff)

	var norm symbolic.NormalExp
	for i := 0; i < solverStepBudget; i++ {
		norm = symbolic.Normalize(simplified)
		if len(norm.Terms) <= 1 {
			break
		}
		// re-simplify the rebuilt expression in case folding exposed
		// more structure (e.g. after merging like terms); bounded by
		// solverStepBudget per spec §4.5/§5.
		rebuilt := sim.Num(norm.ToExpr())
		if symbolic.EqualNumExpr(rebuilt, simplified) {
			break
		}
		simplified = rebuilt
	}
	if len(norm.Terms) != 1 {
		return cs // not-addable: non-linear or zero/too-many symbols; leave in log
	}
	sym, ok := norm.Terms[0].Expr.(symbolic.NumSymbol)
	if !ok {
		return cs // opaque non-symbol term (e.g. mod/truediv/shape index): not-addable
	}
	coef := norm.Terms[0].Coef
	// diff <cmp> 0  =>  coef*sym + const <cmp> 0  =>  sym <cmp'> -const/coef,
	// where <cmp'> is <cmp> flipped iff coef is negative.
	bound := norm.Const.Neg().Div(coef)
	return cs.applyBound(sym, c.Kind, bound, coef.Sign() < 0)
}

// applyBound narrows sym's cached range according to one primitive
// comparison against a constant bound. flipped indicates the linear
// coefficient on sym was negative, so a Lt/Le upper bound becomes a
// lower bound instead (dividing an inequality by a negative number
// reverses it).
func (cs *CtrSet) applyBound(sym symbolic.NumSymbol, kind Kind, bound rational.Rational, flipped bool) *CtrSet {
	var r NumRange
	switch kind {
	case KindEq:
		r = Exactly(bound)
	case KindNe:
		// inequality only removes a matching endpoint of the cached
		// range (spec §4.5 "Equality narrows to a point; inequality
		// removes endpoints of the cached range if they match");
		// there is no interval representation of "not equal to a
		// single point" in general, so only the boundary-touching case
		// is handled here.
		cur := cs.GetSymbolRange(sym.ID)
		if v, ok := cur.IsConst(); ok && v.Cmp(bound) == 0 {
			out := cs.clone()
			out.failed = true
			out.failMsg = "symbol pinned to the excluded value"
			return out
		}
		if cur.HasStart && cur.Start.Cmp(bound) == 0 && !cur.StartOpen {
			cur.StartOpen = true
			return cs.setRangeDirect(sym, cur)
		}
		if cur.HasEnd && cur.End.Cmp(bound) == 0 && !cur.EndOpen {
			cur.EndOpen = true
			return cs.setRangeDirect(sym, cur)
		}
		return cs
	case KindLt:
		if flipped {
			r = AtLeast(bound, true)
		} else {
			r = AtMost(bound, true)
		}
	case KindLe:
		if flipped {
			r = AtLeast(bound, false)
		} else {
			r = AtMost(bound, false)
		}
	default:
		return cs
	}
	return cs.SetSymbolRange(sym.ID, r, sym.Sort == symbolic.SortInt)
}

func (cs *CtrSet) setRangeDirect(sym symbolic.NumSymbol, r NumRange) *CtrSet {
	out := cs.clone()
	if out.ranges == nil {
		out.ranges = make(map[symbolic.SymbolID]NumRange)
	}
	out.ranges[sym.ID] = r
	return out
}

// hashCtr computes a structural siphash over c's printable form, used
// only as a cheap duplicate-constraint filter (spec.md is silent on
// de-duplication; SPEC_FULL §C.1/§B adds it). Add skips a constraint as
// already logged only when this key and its blake2b fingerprint both
// match, so a collision in this hash alone never drops a constraint.
func hashCtr(c Ctr) uint64 {
	buf := []byte(c.String())
	return siphash.Hash(hashKey0, hashKey1, buf)
}
