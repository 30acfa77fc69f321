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
	"fmt"

	"github.com/google/uuid"
)

// Func is the closure value produced by FunDef and by method-style Attr
// resolution (spec §3 "Func", §4.8 "bound functions are produced by
// binding self to the first parameter"). Body is left as `any` here
// rather than a concrete IR type to avoid value importing ir, which
// would otherwise need to import value back for literal construction;
// the interpreter package, which imports both, does the type assertion.
type Func struct {
	ID uuid.UUID

	Name     string
	Params   []string // ordered positional parameter names
	Varargs  string   // "" if the function takes no *args
	Kwargs   string   // "" if the function takes no **kwargs
	Defaults map[string]Val

	Body any // ir.Stmt, opaque here

	Captured *Env
	Bound    bool // true once self has been bound via Attr resolution
	Self     Val  // meaningful only when Bound
}

// NewFunc returns a fresh Func with a new unique id.
func NewFunc(name string, params []string, body any, captured *Env) *Func {
	return &Func{
		ID:       uuid.New(),
		Name:     name,
		Params:   params,
		Defaults: make(map[string]Val),
		Body:     body,
		Captured: captured,
	}
}

// WithVarargs returns a copy of f with its *args parameter name set.
func (f *Func) WithVarargs(name string) *Func {
	out := *f
	out.Varargs = name
	return &out
}

// WithKwargs returns a copy of f with its **kwargs parameter name set.
func (f *Func) WithKwargs(name string) *Func {
	out := *f
	out.Kwargs = name
	return &out
}

// WithDefault returns a copy of f with param's default value set.
func (f *Func) WithDefault(param string, v Val) *Func {
	out := *f
	out.Defaults = make(map[string]Val, len(f.Defaults)+1)
	for k, dv := range f.Defaults {
		out.Defaults[k] = dv
	}
	out.Defaults[param] = v
	return &out
}

// Bind returns a copy of f with self set aside to fill the first
// positional parameter implicitly on every future Call, as a method
// lookup via MRO does (spec §4.8 "method-style bound functions are
// produced by binding self to the first parameter"). Binding a Func
// that takes no positional parameter is a caller error and returns f
// unchanged.
func (f *Func) Bind(self Val) *Func {
	if len(f.Params) == 0 {
		return f
	}
	out := *f
	out.Bound = true
	out.Self = self
	return &out
}

func (f *Func) String() string {
	return fmt.Sprintf("func %s/#%s(%v)", f.Name, f.ID, f.Params)
}
