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

// Package libcall defines the dispatch registry for library calls (spec
// §4.8 "LibCall(kind, params): dispatches via a registry keyed by a
// string path; each entry is a function Ctx -> CtxSet provided by
// external collaborators"). The tensor-operation wrappers themselves -
// reshape, matmul, the genList/genDict/genTuple constructors, and so on
// - are the out-of-scope library-call collaborator named in spec §1/§6;
// this package owns only the registration mechanism the interpreter
// calls through.
package libcall

import (
	"fmt"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/value"
)

// Fn is one library call implementation: given the calling Ctx, the
// already-evaluated parameter values, and a source location for
// diagnostics, it returns the (possibly forked) set of resulting paths.
type Fn func(ctx execctx.Ctx[value.Val], params []value.Val, src *constraint.Source) execctx.CtxSet[value.Val]

// Registry maps a LibCall's string path (e.g. "torch.reshape",
// "builtins.len") to its implementation.
type Registry struct {
	entries map[string]Fn
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Fn)}
}

// Register installs fn under kind, overwriting any previous entry
// (tests commonly re-register a stub; production wiring is expected to
// populate the whole registry once at startup).
func (r *Registry) Register(kind string, fn Fn) {
	r.entries[kind] = fn
}

// Lookup returns the Fn registered for kind, or (nil, false).
func (r *Registry) Lookup(kind string) (Fn, bool) {
	fn, ok := r.entries[kind]
	return fn, ok
}

// Dispatch resolves kind and invokes it, or returns a CtxSet containing
// a single warned path if kind isn't registered - an unknown library
// call is a library-registration bug, not a reason to abort the whole
// analysis (spec §4.8 "failure semantics... marks the path warned").
func (r *Registry) Dispatch(kind string, ctx execctx.Ctx[value.Val], params []value.Val, src *constraint.Source) execctx.CtxSet[value.Val] {
	fn, ok := r.Lookup(kind)
	if !ok {
		warned := ctx.WarnWithMsg(fmt.Sprintf("unregistered library call %q", kind), src)
		return execctx.Of(warned)
	}
	return fn(ctx, params, src)
}
