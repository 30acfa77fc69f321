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
	"testing"

	"github.com/shapecheck/tsa/symbolic"
)

func TestAllocWithGet(t *testing.T) {
	h := NewHeap()
	a, h1 := h.AllocWith(Int(symbolic.Int(42)))
	v, ok := h1.Get(a)
	if !ok {
		t.Fatal("expected value at freshly allocated address")
	}
	if v.Tag != TagInt {
		t.Fatalf("expected TagInt, got %v", v.Tag)
	}
	if _, ok := h.Get(a); ok {
		t.Fatal("original heap mutated by AllocWith")
	}
}

func TestHeapPersistenceAcrossForks(t *testing.T) {
	// Testable Property: heap persistence - two forks from the same
	// heap never observe each other's writes.
	base := NewHeap()
	a, base := base.AllocWith(Int(symbolic.Int(0)))
	left := base.Set(a, Int(symbolic.Int(1)))
	right := base.Set(a, Int(symbolic.Int(2)))

	lv, _ := left.Get(a)
	rv, _ := right.Get(a)
	bv, _ := base.Get(a)
	if lv.Num.String() != "1" {
		t.Fatalf("left fork: want 1, got %s", lv.Num)
	}
	if rv.Num.String() != "2" {
		t.Fatalf("right fork: want 2, got %s", rv.Num)
	}
	if bv.Num.String() != "0" {
		t.Fatalf("base heap mutated by a fork's Set, got %s", bv.Num)
	}
}

func TestFreeClearsSlot(t *testing.T) {
	h := NewHeap()
	a, h := h.AllocWith(None())
	h2 := h.Free(a)
	if _, ok := h2.Get(a); ok {
		t.Fatal("expected slot cleared after Free")
	}
	if _, ok := h.Get(a); !ok {
		t.Fatal("Free mutated the source heap")
	}
}

func TestMergeHeapRelocatesAddresses(t *testing.T) {
	left := NewHeap()
	la, left := left.AllocWith(Int(symbolic.Int(1)))
	right := NewHeap()
	ra, right := right.AllocWith(FromAddr(la)) // deliberately colliding address space

	merged := MergeHeap(left, right, left.MaxAddr())
	relocated := ra + left.MaxAddr()
	rv, ok := merged.Get(relocated)
	if !ok {
		t.Fatal("expected relocated right-heap slot to be present")
	}
	if rv.Tag != TagAddr {
		t.Fatalf("expected TagAddr, got %v", rv.Tag)
	}
	if rv.Addr != relocated {
		t.Fatalf("expected inner address to be relocated by the same offset (to %v), got %v", relocated, rv.Addr)
	}
	if _, ok := merged.Get(la); !ok {
		t.Fatal("expected left heap's original slot preserved")
	}
}

func TestToNegativeRenumbersPositiveAddressesOnly(t *testing.T) {
	env := NewEnv()
	heap := NewHeap()
	a, heap := heap.AllocWith(Int(symbolic.Int(7)))
	b, heap := heap.AllocWith(FromAddr(a))
	env = env.Set("x", b)

	negEnv, negHeap := ToNegative(env, heap)

	xAddr, ok := negEnv.Get("x")
	if !ok || xAddr >= 0 {
		t.Fatalf("expected x to be rebound to a negative address, got %v ok=%v", xAddr, ok)
	}
	bv, ok := negHeap.Get(xAddr)
	if !ok || bv.Tag != TagAddr || bv.Addr >= 0 {
		t.Fatalf("expected the relocated slot's own inner address to also be negative, got %+v ok=%v", bv, ok)
	}
	av, ok := negHeap.Get(bv.Addr)
	if !ok || av.Tag != TagInt {
		t.Fatal("expected the chain to still resolve to the original int value")
	}

	// a fresh positive allocation against the relocated heap must not
	// collide with any built-in slot.
	newAddr, _ := negHeap.AllocWith(None())
	if newAddr <= 0 {
		t.Fatalf("expected the next allocation to still start at a positive address, got %v", newAddr)
	}
}

func TestFetchChasesAddrChain(t *testing.T) {
	h := NewHeap()
	a1, h := h.AllocWith(Int(symbolic.Int(7)))
	a2, h := h.AllocWith(FromAddr(a1))
	v, ok := Fetch(FromAddr(a2), h)
	if !ok {
		t.Fatal("expected fetch to resolve the chain")
	}
	if v.Tag != TagInt {
		t.Fatalf("expected TagInt at the end of the chain, got %v", v.Tag)
	}
}

func TestSanitizeStopsAtObject(t *testing.T) {
	h := NewHeap()
	objAddr, h := h.AllocWith(FromObject(NewObject()))
	ptrAddr, h := h.AllocWith(FromAddr(objAddr))
	v, ok := Sanitize(FromAddr(ptrAddr), h)
	if !ok {
		t.Fatal("expected sanitize to resolve")
	}
	if v.Tag != TagAddr || v.Addr != objAddr {
		t.Fatalf("expected sanitize to stop at the addr pointing to the object, got %v", v)
	}
}

func TestFetchUndefinedAddress(t *testing.T) {
	h := NewHeap()
	_, ok := Fetch(FromAddr(999), h)
	if ok {
		t.Fatal("expected fetch of an undefined address to fail")
	}
}
