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

package service

import (
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/interp"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/libcall"
	"github.com/shapecheck/tsa/value"
)

// preludeClassNames is the minimal built-in class hierarchy of
// SPEC_FULL §C.4: every entry is a direct child of object, which is
// enough for MRO-walking tests (spec §8 S6) to exercise attribute
// resolution without the external library-call collaborator that would
// otherwise be responsible for populating a richer hierarchy.
var preludeClassNames = []string{
	"int", "float", "bool", "str", "list", "dict", "tuple", "slice", "tensor",
}

// bootstrapProgram builds the fixed IR program spec §6 calls the
// "Built-in preload": an empty object for "object" itself, then one
// empty object per preludeClassNames entry with its __mro__ attribute
// set to the tuple (itself, object) - a single-level hierarchy, matching
// spec §1's "single-chain MRO only" Non-goal.
func bootstrapProgram() ir.Stmt {
	stmts := []ir.Stmt{
		ir.Assign{
			Target: ir.Target{Kind: ir.TargetName, Name: "object"},
			Value:  ir.ObjectLit{},
		},
	}
	for _, name := range preludeClassNames {
		stmts = append(stmts,
			ir.Assign{
				Target: ir.Target{Kind: ir.TargetName, Name: name},
				Value:  ir.ObjectLit{},
			},
			ir.Assign{
				Target: ir.Target{Kind: ir.TargetAttr, Object: ir.Name{Ident: name}, AttrName: "__mro__"},
				Value:  ir.Tuple{Elems: []ir.Expr{ir.Name{Ident: name}, ir.Name{Ident: "object"}}},
			},
		)
	}
	return ir.Seq{Stmts: stmts}
}

// BuildPrelude runs the bootstrap program once through an ordinary
// Interpreter - it is just another IR program, so it allocates at the
// usual positive addresses like any user program would - and then
// relocates every address the run touched into the reserved negative
// range, so the result can be handed out, unrelocated, as the starting
// env/heap of every later run (spec §6 "Its output env+heap is stored
// at negative addresses and is shared read-only by every user-program
// run").
func BuildPrelude() (*value.Env, *value.Heap) {
	it := interp.New(libcall.NewRegistry())
	root := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	states := it.EvalStmt(root, bootstrapProgram())
	final := states[0].Ctx // a straight-line sequence of Assigns never forks
	return value.ToNegative(final.Env, final.Heap)
}
