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

// Package interp implements the non-deterministic, path-splitting
// interpreter of spec.md §4.8: statement and expression semantics over
// the ir package's tree, driving execctx.Ctx/CtxSet forward one node at
// a time and dispatching to libcall.Registry for LibCall nodes.
package interp

import (
	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/libcall"
	"github.com/shapecheck/tsa/value"
)

// DefaultUnrollBound is the for-loop unroller's default bound (spec §5
// "the for-loop unroller at 300 iterations").
const DefaultUnrollBound = 300

// Interpreter holds the pieces of state that are fixed for an entire
// run: the library-call registry and the loop-unrolling bound. It is
// itself immutable and safe to share across every path, since all of
// the actual per-path state lives in execctx.Ctx.
type Interpreter struct {
	Libs        *libcall.Registry
	UnrollBound int
}

// New returns an Interpreter with the given registry and the default
// unroll bound.
func New(libs *libcall.Registry) *Interpreter {
	return &Interpreter{Libs: libs, UnrollBound: DefaultUnrollBound}
}

// Signal is the control-flow transfer a statement may request of its
// enclosing Seq/ForIn/FunDef (spec §4.8 "Return / Break / Continue: set
// a status flag... that the enclosing [construct] interprets").
type Signal uint8

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
	SigContinue
)

// State is one live path mid-statement-execution: a Ctx plus whatever
// control-flow signal is currently pending. Signal is reset to SigNone
// by whichever construct consumes it (Seq stops advancing on non-None,
// ForIn consumes Break/Continue, the call that runs a function body
// consumes Return).
type State struct {
	Ctx    execctx.Ctx[value.Val]
	Signal Signal
}

func states(c execctx.Ctx[value.Val]) []State {
	return []State{{Ctx: c, Signal: SigNone}}
}

// ExprResult is one live path after evaluating an expression: the
// resulting Ctx (whose heap/env/constraints may have changed, e.g. from
// a Call) alongside the Val the expression produced.
type ExprResult struct {
	Ctx execctx.Ctx[value.Val]
	Val value.Val
}

func warn(c execctx.Ctx[value.Val], msg string, src *constraint.Source) ExprResult {
	return ExprResult{Ctx: c.WarnWithMsg(msg, src), Val: value.Error(value.ErrorWarn, msg)}
}
