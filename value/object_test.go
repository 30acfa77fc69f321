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

func TestObjectAttrsPersistent(t *testing.T) {
	o := NewObject()
	o2 := o.WithAttr("x", Int(symbolic.Int(1)))
	if _, ok := o.Attr("x"); ok {
		t.Fatal("WithAttr mutated the receiver")
	}
	v, ok := o2.Attr("x")
	if !ok || v.Num.String() != "1" {
		t.Fatalf("expected x=1, got %v ok=%v", v, ok)
	}
	if o.ID != o2.ID {
		t.Fatal("WithAttr should preserve the object's identity")
	}
}

func TestObjectElemsAndKeys(t *testing.T) {
	o := NewObject().WithElem(0, Str(symbolic.StrConst("a"))).WithKey("k", Int(symbolic.Int(9)))
	if v, ok := o.Elem(0); !ok || v.Str.String() != `"a"` {
		t.Fatalf("expected elem[0]=a, got %v ok=%v", v, ok)
	}
	if v, ok := o.Key("k"); !ok || v.Num.String() != "9" {
		t.Fatalf("expected key[k]=9, got %v ok=%v", v, ok)
	}
}

func TestObjectMRO(t *testing.T) {
	base := NewObject()
	derived := NewObject()
	mroTuple := NewObject().WithElem(0, FromObject(derived)).WithElem(1, FromObject(base))
	derived = derived.WithAttr("__mro__", FromObject(mroTuple))

	mro, ok := derived.MRO()
	if !ok || len(mro) != 2 {
		t.Fatalf("expected a 2-element MRO, got %v ok=%v", mro, ok)
	}
	if mro[0].Obj.ID != derived.ID || mro[1].Obj.ID != base.ID {
		t.Fatal("MRO order or identity mismatch")
	}
}
