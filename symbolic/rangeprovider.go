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

import "github.com/shapecheck/tsa/rational"

// RangeProvider is the narrow slice of constraint.CtrSet the simplifier
// depends on: turning a numeric symbol into a constant when its cached
// range has collapsed to a single point. Expressing it as an interface
// here (rather than importing the constraint package) keeps symbolic
// free of a dependency cycle, since constraint.Ctr is itself built out
// of ExpNum/ExpBool/ExpShape/ExpString.
type RangeProvider interface {
	// SingletonValue returns the sole value in sym's cached range, and
	// whether that range is in fact a singleton.
	SingletonValue(sym SymbolID) (rational.Rational, bool)

	// CachedShape returns the concrete per-axis dimension list recorded
	// for a shape symbol, when enough equalities have accumulated to
	// pin every axis (constraint.CtrSet.getCachedShape in spec §4.4).
	CachedShape(sym SymbolID) ([]ExpNum, bool)
}

// noRanges is a RangeProvider that never knows anything; useful for
// simplifying expressions outside of any constraint set (e.g. tests,
// or the reference concrete evaluator in SPEC_FULL §C.5).
type noRanges struct{}

func (noRanges) SingletonValue(SymbolID) (rational.Rational, bool)   { return rational.Rational{}, false }
func (noRanges) CachedShape(SymbolID) ([]ExpNum, bool)               { return nil, false }

// NoRanges is the zero-knowledge RangeProvider.
var NoRanges RangeProvider = noRanges{}
