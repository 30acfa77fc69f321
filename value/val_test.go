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

func TestValTags(t *testing.T) {
	cases := []struct {
		v   Val
		tag Tag
	}{
		{None(), TagNone},
		{NotImpl(), TagNotImpl},
		{Error(ErrorWarn, "oops"), TagError},
		{FromAddr(3), TagAddr},
		{Int(symbolic.Int(1)), TagInt},
		{Float(symbolic.Int(1)), TagFloat},
		{Bool(symbolic.BoolConst(true)), TagBool},
		{Str(symbolic.StrConst("s")), TagString},
		{FromObject(NewObject()), TagObject},
		{FromFunc(NewFunc("f", nil, nil, NewEnv())), TagFunc},
	}
	for _, c := range cases {
		if c.v.Tag != c.tag {
			t.Errorf("expected tag %v, got %v", c.tag, c.v.Tag)
		}
	}
}

func TestIsNoneIsError(t *testing.T) {
	if !IsNone(None()) {
		t.Fatal("expected IsNone(None())")
	}
	if IsNone(Int(symbolic.Int(0))) {
		t.Fatal("did not expect IsNone on an int")
	}
	if !IsError(Error(ErrorFail, "bad")) {
		t.Fatal("expected IsError on an Error value")
	}
	if IsError(None()) {
		t.Fatal("did not expect IsError on None")
	}
}
