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

// Package service implements the driver of spec.md §4.9: it loads an
// IR program, initializes the built-in prelude, drives the interpreter
// to exhaustion for every top-level entry, and emits a Diagnostics
// report per terminated path.
package service

import (
	"fmt"

	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/interp"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/libcall"
	"github.com/shapecheck/tsa/value"
)

// RunConfig bundles the per-run budget knobs spec §5 requires. It is a
// plain Go value supplied by the caller - configuration loading (file
// formats, environment variables) is out of scope per spec §1/§6.
type RunConfig struct {
	// UnrollBound caps the for-loop unroller's iteration count (spec §5
	// "the for-loop unroller at 300 iterations").
	UnrollBound int
	// WorkListCap bounds the number of live paths a single entry may
	// fork into before the driver gives up and reports "budget
	// exceeded" with partial results (spec §5 "the work-list size at an
	// implementation-chosen maximum").
	WorkListCap int
}

// DefaultRunConfig returns the budget spec §5 names by default.
func DefaultRunConfig() RunConfig {
	return RunConfig{UnrollBound: interp.DefaultUnrollBound, WorkListCap: 10000}
}

// Entry is one top-level program unit the driver analyzes independently
// (spec §4.9 "for each top-level entry, starts a single root Ctx").
type Entry struct {
	Name string
	Body ir.Stmt
}

// Program is the unit of work handed to a Driver. The prelude is always
// built separately (BuildPrelude); callers only supply the entries to
// run against it.
type Program struct {
	Entries []Entry
}

// Driver holds the fixed pieces of a run: the library-call registry,
// the budget configuration, and the prelude env/heap built once at
// construction time and shared read-only by every entry (spec §6
// "Built-in preload... shared read-only by every user-program run").
type Driver struct {
	Libs   *libcall.Registry
	Config RunConfig

	preludeEnv  *value.Env
	preludeHeap *value.Heap
}

// NewDriver builds a Driver, running the bootstrap preload once.
func NewDriver(libs *libcall.Registry, cfg RunConfig) *Driver {
	env, heap := BuildPrelude()
	return &Driver{Libs: libs, Config: cfg, preludeEnv: env, preludeHeap: heap}
}

// Run drives every entry of p to exhaustion against the shared prelude
// and returns one Diagnostics record per terminated path, across every
// entry (spec §4.9 "collects terminated Ctx's, classifies them by
// status, deduplicates constraint logs, and emits a structured
// report"). Constraint-log deduplication itself happens earlier, inside
// constraint.CtrSet.Add, each time a path adds a constraint; by the
// time a Ctx reaches here its log is already free of duplicates.
func (d *Driver) Run(p Program) []Diagnostics {
	it := &interp.Interpreter{Libs: d.Libs, UnrollBound: d.Config.UnrollBound}
	var out []Diagnostics
	for _, e := range p.Entries {
		root := execctx.New[value.Val](d.preludeEnv, d.preludeHeap)
		states := it.EvalStmt(root, e.Body)
		if d.Config.WorkListCap > 0 && len(states) > d.Config.WorkListCap {
			// spec §9 "Path fan-out control... when exceeded, remaining
			// paths are collapsed to a single 'budget exceeded' warning
			// context" - the entry's fan-out already happened (EvalStmt
			// runs to exhaustion in one call), so collapsing here means
			// discarding the individual paths in favor of one summary.
			msg := fmt.Sprintf("budget exceeded: entry %q forked into %d paths, exceeding the work-list cap of %d", e.Name, len(states), d.Config.WorkListCap)
			collapsed := root.WarnWithMsg(msg, e.Body.Src())
			out = append(out, buildDiagnostics(e.Name, collapsed))
			continue
		}
		for _, st := range states {
			out = append(out, buildDiagnostics(e.Name, st.Ctx))
		}
	}
	return out
}
