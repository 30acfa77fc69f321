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

func TestFuncBindSetsSelf(t *testing.T) {
	env := NewEnv()
	f := NewFunc("method", []string{"self", "x"}, nil, env)
	self := FromObject(NewObject())
	bound := f.Bind(self)

	if f.Bound {
		t.Fatal("Bind mutated the receiver")
	}
	if !bound.Bound {
		t.Fatal("expected Bound=true after Bind")
	}
	if bound.Self.Obj.ID != self.Obj.ID {
		t.Fatal("expected Self to carry the bound receiver")
	}
}

func TestFuncBindNoParamsNoop(t *testing.T) {
	f := NewFunc("thunk", nil, nil, NewEnv())
	bound := f.Bind(FromObject(NewObject()))
	if bound.Bound {
		t.Fatal("expected Bind to be a no-op for a zero-parameter function")
	}
}

func TestFuncWithDefault(t *testing.T) {
	f := NewFunc("f", []string{"a", "b"}, nil, NewEnv())
	f2 := f.WithDefault("b", Int(nil))
	if len(f.Defaults) != 0 {
		t.Fatal("WithDefault mutated the receiver")
	}
	if _, ok := f2.Defaults["b"]; !ok {
		t.Fatal("expected default recorded for b")
	}
}
