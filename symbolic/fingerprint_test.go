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

package symbolic

import "testing"

func TestFingerprintMatchesForStructurallyEqualTrees(t *testing.T) {
	a := NumBinary{Op: OpAdd, L: Int(2), R: Int(3)}
	b := NumBinary{Op: OpAdd, L: Int(2), R: Int(3)}
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("expected equal fingerprints for structurally identical trees, got %q vs %q", Fingerprint(a), Fingerprint(b))
	}
}

func TestFingerprintDiffersForDifferentTrees(t *testing.T) {
	a := NumBinary{Op: OpAdd, L: Int(2), R: Int(3)}
	b := NumBinary{Op: OpAdd, L: Int(2), R: Int(4)}
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatal("expected different fingerprints for different trees")
	}
}

func TestFingerprintIsStableHexDigest(t *testing.T) {
	e := NumBinary{Op: OpMul, L: Int(6), R: Int(7)}
	got := Fingerprint(e)
	if len(got) != 64 {
		t.Fatalf("expected a 32-byte blake2b-256 digest hex-encoded to 64 chars, got %d", len(got))
	}
	if got != Fingerprint(e) {
		t.Fatal("expected Fingerprint to be deterministic across calls")
	}
}
