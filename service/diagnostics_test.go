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

package service

import (
	"strings"
	"testing"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

func TestBuildDiagnosticsPopulatesFailFieldsOnFailedCtx(t *testing.T) {
	c := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	src := &constraint.Source{FileID: 2, Start: 5, End: 9}
	s := symbolic.NumSymbol{ID: 1, Sort: symbolic.SortInt, Name: "s"}
	c = c.Require([]constraint.Ctr{
		constraint.Eq(s, symbolic.Int(7)),
		constraint.Eq(s, symbolic.Int(8)),
	}, "s must be 8", src)

	d := buildDiagnostics("entry", c)
	if d.Status != execctx.Failed {
		t.Fatalf("expected a failed diagnostic, got %v", d.Status)
	}
	if d.FailMessage != "s must be 8" {
		t.Fatalf("expected the fail message to carry through, got %q", d.FailMessage)
	}
	if d.FailSource != src {
		t.Fatalf("expected the fail source to carry through")
	}
}

func TestBuildDiagnosticsLeavesFailFieldsEmptyOnActiveCtx(t *testing.T) {
	c := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	d := buildDiagnostics("entry", c)
	if d.Status != execctx.Active {
		t.Fatalf("expected an active diagnostic, got %v", d.Status)
	}
	if d.FailMessage != "" || d.FailSource != nil {
		t.Fatalf("expected no fail fields on an active path, got message=%q source=%v", d.FailMessage, d.FailSource)
	}
}

func TestCompressedLogRoundTrips(t *testing.T) {
	c := execctx.New[value.Val](value.NewEnv(), value.NewHeap())
	s := symbolic.NumSymbol{ID: 1, Sort: symbolic.SortInt, Name: "s"}
	c.Ctrs = c.Ctrs.Add(constraint.LessThan(symbolic.Int(0), s), nil, "")
	c.Ctrs = c.Ctrs.Add(constraint.LessEq(s, symbolic.Int(10)), nil, "")

	d := buildDiagnostics("entry", c)
	compressed, err := d.CompressedLog()
	if err != nil {
		t.Fatalf("CompressedLog returned an error: %v", err)
	}
	decompressed, err := DecompressLog(compressed)
	if err != nil {
		t.Fatalf("DecompressLog returned an error: %v", err)
	}
	for _, ctr := range d.Ctrs {
		if !strings.Contains(decompressed, ctr.String()) {
			t.Fatalf("expected decompressed log to contain %q, got %q", ctr.String(), decompressed)
		}
	}
}
