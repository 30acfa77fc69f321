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
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/value"
)

// Diagnostics is the structured per-path report of spec §6 "Diagnostics
// output": status, optional failure message with source, the ordered
// list of constraints added, the symbol-range snapshot, and the log
// entries.
type Diagnostics struct {
	Entry       string
	Status      execctx.Status
	FailMessage string
	FailSource  *constraint.Source
	Ranges      []constraint.SymbolRange
	Logs        []execctx.LogEntry
	Ctrs        []constraint.Ctr
}

func buildDiagnostics(entry string, c execctx.Ctx[value.Val]) Diagnostics {
	d := Diagnostics{
		Entry:  entry,
		Status: c.Status(),
		Ranges: c.Ctrs.RangeSnapshot(),
		Logs:   c.Logs,
		Ctrs:   c.Ctrs.Log(),
	}
	if c.Status() == execctx.Failed {
		d.FailMessage = c.Ctrs.FailMessage()
		d.FailSource = c.Ctrs.FailSource()
	}
	return d
}

// CompressedLog renders d's constraint log to its canonical text form
// (one constraint per line, via Ctr.String) and flate-compresses it.
// Reports accumulate one of these per terminated path, and sibling
// paths typically share the bulk of their constraint history, so the
// uncompressed text would otherwise dominate a report over many paths
// (SPEC_FULL §B).
func (d Diagnostics) CompressedLog() ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("service: opening flate writer: %w", err)
	}
	for _, c := range d.Ctrs {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return nil, fmt.Errorf("service: compressing constraint log: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("service: closing flate writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressLog inflates a log produced by Diagnostics.CompressedLog,
// returning its newline-joined textual form.
func DecompressLog(compressed []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return "", fmt.Errorf("service: decompressing constraint log: %w", err)
	}
	return out.String(), nil
}
