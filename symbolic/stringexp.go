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

import "fmt"

// StrConst is a constant string literal.
type StrConst string

func (StrConst) expString() {}
func (s StrConst) String() string { return fmt.Sprintf("%q", string(s)) }

// StrSymbol is a free string variable.
type StrSymbol struct {
	ID   SymbolID
	Name string
}

func (StrSymbol) expString() {}
func (s StrSymbol) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("s%d", s.ID)
}

// StrConcat is the concatenation of two string expressions.
type StrConcat struct {
	L, R ExpString
}

func (StrConcat) expString() {}
func (s StrConcat) String() string { return fmt.Sprintf("(%s ++ %s)", s.L, s.R) }

// StrSlice is a Python-style slice of a string expression; Start/End may
// be nil, meaning "from the beginning"/"to the end" respectively.
type StrSlice struct {
	X          ExpString
	Start, End ExpNum
}

func (StrSlice) expString() {}
func (s StrSlice) String() string {
	start, end := "", ""
	if s.Start != nil {
		start = s.Start.String()
	}
	if s.End != nil {
		end = s.End.String()
	}
	return fmt.Sprintf("%s[%s:%s]", s.X, start, end)
}
