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

// maxChaseDepth bounds address-chain chasing; spec §4.6 invariant (b)
// guarantees no cycles, but a bound still protects against a corrupted
// heap turning a lookup into an infinite loop.
const maxChaseDepth = 10000

// Fetch chases a chain of Addr values to its end: the first non-Addr
// value found, or (undefined, false) if the chain runs off the heap
// (spec §4.6 "fetch(val, heap) chases Addr chains to a non-Addr or
// undefined").
func Fetch(v Val, h *Heap) (Val, bool) {
	for i := 0; i < maxChaseDepth; i++ {
		if v.Tag != TagAddr {
			return v, true
		}
		next, ok := h.Get(v.Addr)
		if !ok {
			return Val{}, false
		}
		v = next
	}
	return Val{}, false
}

// Sanitize chases a chain of Addr values but, per spec §4.6, stops one
// step early when the next value is an Object, returning the Addr that
// points at it rather than the Object itself - this preserves identity
// semantics (two names bound to the same Addr must still look like the
// "same object" after dereferencing, which an Object-by-value copy
// would break).
func Sanitize(v Val, h *Heap) (Val, bool) {
	for i := 0; i < maxChaseDepth; i++ {
		if v.Tag != TagAddr {
			return v, true
		}
		next, ok := h.Get(v.Addr)
		if !ok {
			return Val{}, false
		}
		if next.Tag == TagObject {
			return v, true
		}
		v = next
	}
	return Val{}, false
}
