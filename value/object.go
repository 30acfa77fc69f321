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

package value

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shapecheck/tsa/symbolic"
)

// Object is the catch-all aggregate value: class instances, lists,
// tuples, and dicts of the source language are all Objects distinguished
// only by which of the three maps they populate (spec §3 "Object").
// Object is a reference type (not copy-on-write) deliberately: spec §4.6
// invariant (d) and §4.8's MRO walk both need pointer identity, and an
// Object is always reached indirectly through a Heap slot, which *is*
// persistent, so the outer structure still gets copy-on-write semantics
// at the level that matters (see Heap.Set).
type Object struct {
	ID uuid.UUID

	// Attrs holds name-keyed attributes, including dunder-style ones
	// such as __mro__, __call__, __getitem__ (spec §4.8).
	Attrs map[string]Val
	// Elems holds integer-indexed elements (list/tuple semantics).
	Elems map[int64]Val
	// Keys holds string-keyed elements (dict semantics), distinct from
	// Attrs so that attribute lookup and item lookup don't collide.
	Keys map[string]Val

	// Shape is set on tensor-like Objects (spec §4.6 invariant (d)).
	Shape symbolic.ExpShape
}

// NewObject returns a fresh, empty Object with a new unique id.
func NewObject() *Object {
	return &Object{
		ID:    uuid.New(),
		Attrs: make(map[string]Val),
		Elems: make(map[int64]Val),
		Keys:  make(map[string]Val),
	}
}

// clone returns a shallow copy of o with its own top-level maps, used
// by every mutating accessor below so that an Object reachable from two
// forked paths is never mutated in place.
func (o *Object) clone() *Object {
	out := &Object{ID: o.ID, Shape: o.Shape}
	out.Attrs = make(map[string]Val, len(o.Attrs))
	for k, v := range o.Attrs {
		out.Attrs[k] = v
	}
	out.Elems = make(map[int64]Val, len(o.Elems))
	for k, v := range o.Elems {
		out.Elems[k] = v
	}
	out.Keys = make(map[string]Val, len(o.Keys))
	for k, v := range o.Keys {
		out.Keys[k] = v
	}
	return out
}

// WithAttr returns a copy of o with name bound to v.
func (o *Object) WithAttr(name string, v Val) *Object {
	out := o.clone()
	out.Attrs[name] = v
	return out
}

// Attr returns o's direct (non-MRO) attribute, if any.
func (o *Object) Attr(name string) (Val, bool) {
	v, ok := o.Attrs[name]
	return v, ok
}

// WithElem returns a copy of o with index i bound to v.
func (o *Object) WithElem(i int64, v Val) *Object {
	out := o.clone()
	out.Elems[i] = v
	return out
}

// Elem returns o's integer-indexed element, if any.
func (o *Object) Elem(i int64) (Val, bool) {
	v, ok := o.Elems[i]
	return v, ok
}

// WithKey returns a copy of o with string key k bound to v.
func (o *Object) WithKey(k string, v Val) *Object {
	out := o.clone()
	out.Keys[k] = v
	return out
}

// Key returns o's string-keyed element, if any.
func (o *Object) Key(k string) (Val, bool) {
	v, ok := o.Keys[k]
	return v, ok
}

// WithShape returns a copy of o with its tensor shape set.
func (o *Object) WithShape(s symbolic.ExpShape) *Object {
	out := o.clone()
	out.Shape = s
	return out
}

// MRO returns the tuple of class addresses stored under the
// conventional "__mro__" attribute, or nil if o carries none.
func (o *Object) MRO() ([]Val, bool) {
	v, ok := o.Attrs["__mro__"]
	if !ok || v.Tag != TagObject {
		return nil, false
	}
	n := len(v.Obj.Elems)
	out := make([]Val, n)
	for i := 0; i < n; i++ {
		out[i] = v.Obj.Elems[int64(i)]
	}
	return out, true
}

func (o *Object) String() string {
	return fmt.Sprintf("object#%s{attrs=%d elems=%d keys=%d}", o.ID, len(o.Attrs), len(o.Elems), len(o.Keys))
}
