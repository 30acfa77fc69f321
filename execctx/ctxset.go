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

package execctx

import "github.com/shapecheck/tsa/constraint"

// CtxSet is a non-empty bag of live paths (spec §4.7). Every
// transformation below is pure: it builds and returns a new slice
// rather than mutating the receiver's backing array, so a CtxSet that
// has already been handed off to one consumer is safe to keep exploring
// independently elsewhere.
type CtxSet[T any] struct {
	Paths []Ctx[T]
}

// Of wraps a single Ctx as a one-element CtxSet.
func Of[T any](c Ctx[T]) CtxSet[T] { return CtxSet[T]{Paths: []Ctx[T]{c}} }

// Empty returns a CtxSet with no live paths (a terminal "this branch
// doesn't exist" result, e.g. the false side of an immediately-true
// If).
func Empty[T any]() CtxSet[T] { return CtxSet[T]{} }

// Map applies f to every path (spec §4.7 "map").
func Map[T any](s CtxSet[T], f func(Ctx[T]) Ctx[T]) CtxSet[T] {
	out := make([]Ctx[T], len(s.Paths))
	for i, c := range s.Paths {
		out[i] = f(c)
	}
	return CtxSet[T]{Paths: out}
}

// FlatMap applies f, which may itself fork, to every path and
// concatenates the results (spec §4.7 "flatMap... explores new
// forks").
func FlatMap[T any](s CtxSet[T], f func(Ctx[T]) CtxSet[T]) CtxSet[T] {
	var out []Ctx[T]
	for _, c := range s.Paths {
		out = append(out, f(c).Paths...)
	}
	return CtxSet[T]{Paths: out}
}

// Join unions two sets (spec §4.7 "join(other)").
func Join[T any](a, b CtxSet[T]) CtxSet[T] {
	return CtxSet[T]{Paths: append(append([]Ctx[T]{}, a.Paths...), b.Paths...)}
}

// Filter keeps only the paths for which keep returns true.
func Filter[T any](s CtxSet[T], keep func(Ctx[T]) bool) CtxSet[T] {
	var out []Ctx[T]
	for _, c := range s.Paths {
		if keep(c) {
			out = append(out, c)
		}
	}
	return CtxSet[T]{Paths: out}
}

// Active returns only the still-active (non-failed) paths.
func Active[T any](s CtxSet[T]) CtxSet[T] {
	return Filter(s, func(c Ctx[T]) bool { return c.Active() })
}

// IfThenElse implements spec §4.7 "ifThenElse(cond, source) -> (CtxSet,
// CtxSet)": for each live path, cond is require'd on one copy and its
// negation on another; a side whose constraint is immediately decided
// false contributes no path to that side's result (either result set
// may end up empty).
func IfThenElse[T any](s CtxSet[T], cond constraint.Ctr, src *constraint.Source) (CtxSet[T], CtxSet[T]) {
	var thenSet, elseSet []Ctx[T]
	for _, c := range s.Paths {
		if v := c.Ctrs.CheckImmediate(cond); v != nil {
			if *v {
				thenSet = append(thenSet, c)
			} else {
				elseSet = append(elseSet, c)
			}
			continue
		}
		thenSet = append(thenSet, c.Require([]constraint.Ctr{cond}, "", src))
		elseSet = append(elseSet, c.Require([]constraint.Ctr{cond.Negate()}, "", src))
	}
	return Active(CtxSet[T]{Paths: thenSet}), Active(CtxSet[T]{Paths: elseSet})
}

// Require applies Ctx.Require to every path in s (spec §4.7). Paths
// that become failed as a result stay in the returned set, so they are
// still there for final reporting; callers that want only the live
// paths filter with Active.
func Require[T any](s CtxSet[T], ctrs []constraint.Ctr, msg string, src *constraint.Source) CtxSet[T] {
	return Map(s, func(c Ctx[T]) Ctx[T] { return c.Require(ctrs, msg, src) })
}
