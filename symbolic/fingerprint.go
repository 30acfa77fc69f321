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

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a stable, content-addressed digest of e's canonical
// string form. It is used by golden-style simplifier tests (comparing two
// trees for structural equality without a deep Go equality check) and by
// the constraint package's duplicate-constraint skip.
//
// This is a different hash family from the siphash-based transient memo
// cache in constraint/solver.go on purpose: a collision in one keyspace
// must never be able to mask a collision in the other.
func Fingerprint(e fmt.Stringer) string {
	sum := blake2b.Sum256([]byte(e.String()))
	return hex.EncodeToString(sum[:])
}
