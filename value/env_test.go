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

import "testing"

func TestEnvSetGetRemove(t *testing.T) {
	e := NewEnv()
	e2 := e.Set("x", Addr(5))
	if _, ok := e.Get("x"); ok {
		t.Fatal("original env mutated by Set")
	}
	a, ok := e2.Get("x")
	if !ok || a != 5 {
		t.Fatalf("expected x=5, got %v ok=%v", a, ok)
	}
	e3 := e2.Remove("x")
	if _, ok := e3.Get("x"); ok {
		t.Fatal("expected x removed")
	}
	if _, ok := e2.Get("x"); !ok {
		t.Fatal("Remove mutated the source env")
	}
}

func TestEnvForkSharesUntouched(t *testing.T) {
	base := NewEnv().Set("a", 1).Set("b", 2)
	left := base.Set("a", 100)
	right := base.Set("b", 200)
	if a, _ := left.Get("a"); a != 100 {
		t.Fatalf("left fork: want a=100, got %v", a)
	}
	if b, _ := left.Get("b"); b != 2 {
		t.Fatalf("left fork should keep base's b, got %v", b)
	}
	if b, _ := right.Get("b"); b != 200 {
		t.Fatalf("right fork: want b=200, got %v", b)
	}
	if a, _ := right.Get("a"); a != 1 {
		t.Fatalf("right fork should keep base's a, got %v", a)
	}
}

func TestMergeEnvRelocatesPositiveOnly(t *testing.T) {
	left := NewEnv().Set("x", 3)
	right := NewEnv().Set("y", 2).Set("builtin", -1)
	merged := MergeEnv(left, right, 10)
	if a, _ := merged.Get("x"); a != 3 {
		t.Fatalf("left address should be untouched, got %v", a)
	}
	if a, _ := merged.Get("y"); a != 12 {
		t.Fatalf("right address should be relocated by offset, got %v", a)
	}
	if a, _ := merged.Get("builtin"); a != -1 {
		t.Fatalf("negative (built-in) address must never be relocated, got %v", a)
	}
}
