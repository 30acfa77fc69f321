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

// Heap is a persistent addr->value mapping plus a monotonically
// increasing address counter (spec §4.6). Negative addresses are
// reserved for built-ins installed once by the prelude and are never
// reused or relocated (invariant (a)).
type Heap struct {
	slots map[Addr]Val
	next  Addr // next positive address to hand out
}

// NewHeap returns an empty Heap whose first Alloc returns address 1.
func NewHeap() *Heap {
	return &Heap{next: 1}
}

// Alloc reserves a fresh address without storing a value there yet
// (the slot reads as undefined until Set is called), returning the new
// heap alongside it.
func (h *Heap) Alloc() (Addr, *Heap) {
	a := h.next
	out := &Heap{slots: h.slots, next: h.next + 1}
	return a, out
}

// AllocWith composes Alloc and Set: it reserves a fresh address, stores
// v there, and returns both.
func (h *Heap) AllocWith(v Val) (Addr, *Heap) {
	a, h1 := h.Alloc()
	return a, h1.Set(a, v)
}

// Get returns the value stored at addr, or (zero, false) if the slot is
// undefined.
func (h *Heap) Get(addr Addr) (Val, bool) {
	if h == nil || h.slots == nil {
		return Val{}, false
	}
	v, ok := h.slots[addr]
	return v, ok
}

// Set returns a new Heap with addr bound to v.
func (h *Heap) Set(addr Addr, v Val) *Heap {
	out := &Heap{slots: make(map[Addr]Val, len(h.slots)+1), next: h.next}
	for k, sv := range h.slots {
		out.slots[k] = sv
	}
	out.slots[addr] = v
	if addr >= out.next {
		out.next = addr + 1
	}
	return out
}

// Free returns a new Heap with addr's slot cleared. There is no
// reference-counted or generational GC during interpretation (spec §5
// "no garbage collection during interpretation"); Free only exists for
// the explicit del-statement case and for the optional between-tasks
// mark-and-sweep collector (§5).
func (h *Heap) Free(addr Addr) *Heap {
	if _, ok := h.Get(addr); !ok {
		return h
	}
	out := &Heap{slots: make(map[Addr]Val, len(h.slots)), next: h.next}
	for k, sv := range h.slots {
		if k != addr {
			out.slots[k] = sv
		}
	}
	return out
}

// MaxAddr returns the highest address Alloc has handed out so far
// (used as the relocation offset when two heaps that forked from a
// common ancestor are merged back together).
func (h *Heap) MaxAddr() Addr {
	if h.next <= 1 {
		return 0
	}
	return h.next - 1
}

// MergeHeap implements spec §4.6 "Merging": the right heap's positive
// addresses (and every Addr reachable inside its stored values) are
// shifted up by offset - conventionally left.MaxAddr() - before the two
// slot maps are unioned, so colliding path-local addresses never alias
// unrelated objects once the paths are recombined.
func MergeHeap(left, right *Heap, offset Addr) *Heap {
	mapAddr := func(a Addr) Addr { return relocate(a, offset) }
	out := &Heap{slots: make(map[Addr]Val, len(left.slots)+len(right.slots)), next: left.next}
	for k, v := range left.slots {
		out.slots[k] = v
	}
	for k, v := range right.slots {
		rk := mapAddr(k)
		out.slots[rk] = relocateVal(v, mapAddr)
		if rk >= out.next {
			out.next = rk + 1
		}
	}
	if right.next-1+offset >= out.next {
		out.next = right.next + offset
	}
	return out
}

// ToNegative returns a copy of env/heap with every positive (user-
// allocated) address renumbered to a distinct negative one, leaving
// already-negative (built-in) addresses untouched. This is how the
// service driver turns an ordinarily-interpreted bootstrap run (which
// allocates starting at address 1, like any other program) into a
// prelude whose storage lives in the reserved negative range and is
// safe to share, unrelocated, as the starting heap/env of every
// subsequent run (spec §6 "Built-in preload").
func ToNegative(env *Env, heap *Heap) (*Env, *Heap) {
	base := heap.next
	mapAddr := func(a Addr) Addr {
		if a <= 0 {
			return a
		}
		return -(base - a)
	}
	outHeap := &Heap{slots: make(map[Addr]Val, len(heap.slots)), next: 1}
	for k, v := range heap.slots {
		outHeap.slots[mapAddr(k)] = relocateVal(v, mapAddr)
	}
	outEnv := relocateEnv(env, mapAddr)
	return outEnv, outHeap
}

// relocateVal rewrites every address reachable from v through mapAddr.
func relocateVal(v Val, mapAddr func(Addr) Addr) Val {
	switch v.Tag {
	case TagAddr:
		v.Addr = mapAddr(v.Addr)
	case TagObject:
		v.Obj = relocateObject(v.Obj, mapAddr)
	case TagFunc:
		v.Fn = relocateFunc(v.Fn, mapAddr)
	}
	return v
}

func relocateObject(o *Object, mapAddr func(Addr) Addr) *Object {
	out := o.clone()
	for k, v := range out.Attrs {
		out.Attrs[k] = relocateVal(v, mapAddr)
	}
	for k, v := range out.Elems {
		out.Elems[k] = relocateVal(v, mapAddr)
	}
	for k, v := range out.Keys {
		out.Keys[k] = relocateVal(v, mapAddr)
	}
	return out
}

func relocateFunc(f *Func, mapAddr func(Addr) Addr) *Func {
	out := *f
	out.Captured = relocateEnv(f.Captured, mapAddr)
	if out.Bound {
		out.Self = relocateVal(out.Self, mapAddr)
	}
	relocated := make(map[string]Val, len(out.Defaults))
	for k, v := range out.Defaults {
		relocated[k] = relocateVal(v, mapAddr)
	}
	out.Defaults = relocated
	return &out
}

func relocateEnv(e *Env, mapAddr func(Addr) Addr) *Env {
	out := &Env{vars: make(map[string]Addr, len(e.vars))}
	for k, v := range e.vars {
		out.vars[k] = mapAddr(v)
	}
	return out
}
