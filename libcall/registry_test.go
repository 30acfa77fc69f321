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

package libcall

import (
	"testing"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func TestDispatchKnown(t *testing.T) {
	r := NewRegistry()
	r.Register("builtins.len", func(ctx execctx.Ctx[value.Val], params []value.Val, src *constraint.Source) execctx.CtxSet[value.Val] {
		return execctx.Of(ctx.SetRetVal(value.Int(symbolic.Int(int64(len(params))))))
	})
	ctx := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	out := r.Dispatch("builtins.len", ctx, []value.Val{value.None(), value.None()}, nil)
	if len(out.Paths) != 1 {
		t.Fatalf("expected one path, got %d", len(out.Paths))
	}
	if out.Paths[0].Ret.Num.String() != "2" {
		t.Fatalf("expected ret=2, got %s", out.Paths[0].Ret.Num)
	}
}

func TestDispatchUnknownWarns(t *testing.T) {
	r := NewRegistry()
	ctx := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	out := r.Dispatch("nope.missing", ctx, nil, nil)
	if len(out.Paths) != 1 {
		t.Fatalf("expected one path, got %d", len(out.Paths))
	}
	if out.Paths[0].Status() != execctx.Warned {
		t.Fatalf("expected a warned path for an unregistered call, got %v", out.Paths[0].Status())
	}
}
